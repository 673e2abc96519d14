package main

import (
	"fmt"
	"os"

	"geocover/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "geocover",
		Short:         "Cover polygons with geohash cells",
		Long:          "geocover computes the set of geohash cells touching or fully contained in WKT, WKB or GeoJSON polygons.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	root.AddCommand(newCoverCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newNeighborsCmd())
	root.AddCommand(newRowsCmd())
	return root
}
