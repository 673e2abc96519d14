// Package batch covers tabular rows of geometries, one coverage per row.
package batch

import (
	"context"
	"strings"

	"geocover/internal/config"
	"geocover/internal/parse"
	"geocover/internal/service/cover"
	"geocover/internal/worker"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

var (
	// ErrNUL is returned when a produced cell code contains a NUL byte.
	ErrNUL = errors.New("output contains NUL")
	// ErrPanic wraps a panic recovered while processing a row.
	ErrPanic = errors.New("internal panic")
)

// Row is one input record. WKB takes precedence over WKT when both are set.
type Row struct {
	WKT            string
	WKB            []byte
	Precision      *int64
	FullyContained bool
}

// Processor covers rows with shared options.
type Processor struct {
	workers int
	opts    []cover.Option
}

// NewProcessor returns a processor running up to workers rows at once.
func NewProcessor(workers int, opts ...cover.Option) *Processor {
	return &Processor{workers: workers, opts: opts}
}

// Process returns, per row, the sorted cell codes covering its geometry. A
// failing row fails the whole batch and its index is part of the error.
func (p *Processor) Process(ctx context.Context, rows []Row) ([][]string, error) {
	out := make([][]string, len(rows))
	err := worker.Run(ctx, p.workers, len(rows), func(ctx context.Context, i int) error {
		codes, err := p.processRow(ctx, rows[i])
		if err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		out[i] = codes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Process covers rows with default settings.
func Process(ctx context.Context, rows []Row) ([][]string, error) {
	return NewProcessor(1).Process(ctx, rows)
}

func (p *Processor) processRow(ctx context.Context, row Row) (codes []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrPanic, "%v", r)
		}
	}()

	polys, err := row.polygons()
	if err != nil {
		return nil, err
	}
	cells, err := cover.CoverMany(ctx, polys, row.precision(), cover.ModeFor(row.FullyContained), p.opts...)
	if err != nil {
		return nil, err
	}

	codes = cover.Sorted(cells)
	for _, c := range codes {
		if strings.IndexByte(c, 0) >= 0 {
			return nil, ErrNUL
		}
	}
	return codes, nil
}

func (r Row) polygons() ([]orb.Polygon, error) {
	if r.WKB != nil {
		return parse.WKB(r.WKB)
	}
	return parse.WKT(r.WKT)
}

// precision clamps the row precision into the valid range; missing
// precision uses the default.
func (r Row) precision() int {
	if r.Precision == nil {
		return config.DefaultPrecision
	}
	return config.ClampPrecision(*r.Precision)
}
