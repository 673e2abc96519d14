package batch

import (
	"context"
	"testing"

	"geocover/internal/parse"
	"geocover/internal/service/cover"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/stretchr/testify/require"
)

const unitSquareWKT = "POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))"

func prec(p int64) *int64 { return &p }

func TestProcess(t *testing.T) {
	raw, err := wkb.Marshal(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}})
	require.NoError(t, err)

	rows := []Row{
		{WKT: unitSquareWKT, Precision: prec(1)},
		{WKB: raw, Precision: prec(1)},
		{WKT: unitSquareWKT, Precision: prec(1), FullyContained: true},
		{WKT: "MULTIPOLYGON(((0 0, 1 0, 1 1, 0 0)),((40 40, 41 40, 41 41, 40 40)))", Precision: prec(1)},
	}
	out, err := Process(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, out, 4)
	require.Equal(t, []string{"7", "e", "k", "s"}, out[0])
	require.Equal(t, out[0], out[1])
	require.Empty(t, out[2])
	require.Equal(t, []string{"7", "e", "k", "s"}, out[3])
}

func TestProcess_PrecisionClampAndDefault(t *testing.T) {
	small := "POLYGON((0.1 0.1, 0.10001 0.1, 0.10001 0.10001, 0.1 0.10001, 0.1 0.1))"
	rows := []Row{
		{WKT: unitSquareWKT, Precision: prec(-3)},
		{WKT: small, Precision: prec(99)},
		{WKT: small},
	}
	out, err := NewProcessor(2).Process(context.Background(), rows)
	require.NoError(t, err)

	require.Equal(t, []string{"7", "e", "k", "s"}, out[0])
	require.NotEmpty(t, out[1])
	for _, c := range out[1] {
		require.Len(t, c, 12)
	}
	require.NotEmpty(t, out[2])
	for _, c := range out[2] {
		require.Len(t, c, 6)
	}
}

func TestProcess_RowErrors(t *testing.T) {
	_, err := Process(context.Background(), []Row{
		{WKT: unitSquareWKT},
		{WKT: "POINT(1 2)"},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, parse.ErrUnsupportedGeometry))
	require.Contains(t, err.Error(), "row 1")

	_, err = Process(context.Background(), []Row{{WKT: "not a geometry"}})
	require.True(t, errors.Is(err, parse.ErrParse), "%v", err)
}

func TestProcess_CellLimit(t *testing.T) {
	p := NewProcessor(1, cover.WithMaxCells(5))
	_, err := p.Process(context.Background(), []Row{{WKT: unitSquareWKT, Precision: prec(6)}})
	require.True(t, errors.Is(err, cover.ErrCellLimit), "%v", err)
}

func TestProcess_RecoversPanic(t *testing.T) {
	var broken cover.Option
	p := NewProcessor(1, broken)
	_, err := p.Process(context.Background(), []Row{{WKT: unitSquareWKT, Precision: prec(1)}})
	require.True(t, errors.Is(err, ErrPanic), "%v", err)
	require.Contains(t, err.Error(), "row 0")
}

func TestProcess_Empty(t *testing.T) {
	out, err := Process(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
