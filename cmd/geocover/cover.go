package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"geocover/internal/config"
	"geocover/internal/export"
	"geocover/internal/model"
	"geocover/internal/parse"
	"geocover/internal/service/cover"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

type coverFlags struct {
	precision      int
	fullyContained bool
	format         string
	out            string
	workers        int
	maxCells       int
	naive          bool
	osmTag         string
}

func newCoverCmd() *cobra.Command {
	f := &coverFlags{}
	cmd := &cobra.Command{
		Use:   "cover [file|-]",
		Short: "Print the geohash cells covering the polygons in a file",
		Long:  "Reads WKT, WKB (raw or hex), GeoJSON or an OSM PBF extract from a file or stdin and prints the covering cells, one per line, or as a GeoJSON FeatureCollection.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCover(cmd, args, f)
		},
	}
	cmd.Flags().IntVarP(&f.precision, "precision", "p", config.DefaultPrecision, "geohash length, 1-12")
	cmd.Flags().BoolVar(&f.fullyContained, "fully-contained", false, "only cells lying entirely inside the polygons")
	cmd.Flags().StringVar(&f.format, "format", model.FormatList, "output format: list|geojson")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "polygons covered concurrently (default: one per CPU)")
	cmd.Flags().IntVar(&f.maxCells, "max-cells", 0, "abort when one polygon needs more cells (0: unlimited)")
	cmd.Flags().BoolVar(&f.naive, "naive", false, "use the unpruned bounding box search")
	cmd.Flags().StringVar(&f.osmTag, "osm-tag", "", "read an OSM PBF extract, keeping closed ways with this key or key=value")
	return cmd
}

func runCover(cmd *cobra.Command, args []string, f *coverFlags) error {
	format := strings.ToLower(f.format)
	if format != model.FormatList && format != model.FormatGeoJSON {
		return errors.Newf("invalid format %q (expected list or geojson)", f.format)
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	var polys []orb.Polygon
	if f.osmTag != "" {
		polys, err = parse.OSMPBF(bytes.NewReader(data), parse.MatchTag(f.osmTag))
	} else {
		polys, err = parse.Auto(data)
	}
	if err != nil {
		return err
	}

	strategy := cover.StrategyPruned
	if f.naive {
		strategy = cover.StrategyNaive
	}
	stats := &cover.Stats{}
	start := time.Now()
	cells, err := cover.CoverMany(context.Background(), polys, f.precision, cover.ModeFor(f.fullyContained),
		cover.WithWorkers(f.workers),
		cover.WithMaxCells(f.maxCells),
		cover.WithStrategy(strategy),
		cover.WithStats(stats),
	)
	if err != nil {
		return err
	}
	codes := cover.Sorted(cells)

	fmt.Fprintf(cmd.ErrOrStderr(), "%d polygons, %d cells (%d visited) in %s\n",
		len(polys), len(codes), stats.Visited.Load(), time.Since(start).Round(time.Millisecond))

	if format == model.FormatGeoJSON {
		fc, err := export.FeatureCollection(codes)
		if err != nil {
			return err
		}
		if f.out != "" {
			return export.WriteGeoJSON(f.out, fc)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	}

	w := cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return errors.Wrapf(err, "create %s", f.out)
		}
		defer file.Close()
		w = file
	}
	for _, code := range codes {
		if _, err := fmt.Fprintln(w, code); err != nil {
			return err
		}
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(args[0])
	return data, errors.Wrapf(err, "read %s", args[0])
}
