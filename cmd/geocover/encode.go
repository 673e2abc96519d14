package main

import (
	"fmt"
	"strings"

	"geocover/internal/config"
	"geocover/internal/geohash"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var lat, lon float64
	var precision int
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the geohash cell of a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := geohash.Encode(orb.Point{lon, lat}, precision)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().IntVarP(&precision, "precision", "p", config.DefaultPrecision, "geohash length, 1-12")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

var directionNames = [8]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

func newNeighborsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors <code>",
		Short: "Print the eight cells around a geohash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			neighbors, err := geohash.Neighbors(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			for d, code := range neighbors {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", directionNames[d], code); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
