package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"geocover/internal/batch"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newRowsCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "rows [file|-]",
		Short: "Cover tab separated rows of geometries",
		Long: "Each input line holds a WKT or hex WKB geometry, optionally followed by a precision and a fully-contained flag, " +
			"separated by tabs. Missing precision means 6; out of range precision is clamped to 1-12. " +
			"Each output line holds the comma separated cells of the matching input row.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			rows, err := readRows(strings.NewReader(string(data)))
			if err != nil {
				return err
			}
			out, err := batch.NewProcessor(workers).Process(cmd.Context(), rows)
			if err != nil {
				return err
			}
			for _, codes := range out {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(codes, ",")); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "rows covered concurrently (default: one per CPU)")
	return cmd
}

func readRows(r io.Reader) ([]batch.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []batch.Row
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		geom := strings.TrimSpace(record[0])
		var row batch.Row
		if geom != "" && unicode.IsLetter(rune(geom[0])) {
			row.WKT = geom
		} else {
			row.WKB = []byte(geom)
		}
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			p, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: precision", line)
			}
			row.Precision = &p
		}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			full, err := strconv.ParseBool(strings.TrimSpace(record[2]))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: fully contained flag", line)
			}
			row.FullyContained = full
		}
		rows = append(rows, row)
	}
}
