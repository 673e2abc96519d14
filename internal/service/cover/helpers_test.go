package cover

import (
	"testing"

	"geocover/internal/geohash"
	"geocover/internal/geometry"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func square(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
}

func unitSquare() orb.Polygon {
	return orb.Polygon{square(0, 0, 1, 1)}
}

func squareWithHole() orb.Polygon {
	return orb.Polygon{square(0, 0, 1, 1), square(0.25, 0.25, 0.75, 0.75)}
}

func uShape() orb.Polygon {
	return orb.Polygon{{{0, 0}, {3, 0}, {3, 3}, {2, 3}, {2, 1}, {1, 1}, {1, 3}, {0, 3}, {0, 0}}}
}

func mexicoTriangle() orb.Polygon {
	return orb.Polygon{{
		{-99.1795917, 19.432134},
		{-99.1656847, 19.429034},
		{-99.1776492, 19.414236},
		{-99.1795917, 19.432134},
	}}
}

// gridCells returns every cell at precision whose rectangle meets b grown by one cell.
func gridCells(t *testing.T, b orb.Bound, precision int) []string {
	t.Helper()
	first, err := geohash.Encode(b.Min, precision)
	require.NoError(t, err)
	cell, err := geohash.Bounds(first)
	require.NoError(t, err)

	w, h := cell.Max[0]-cell.Min[0], cell.Max[1]-cell.Min[1]
	var out []string
	for x := cell.Min[0] - w/2; x <= b.Max[0]+w; x += w {
		for y := cell.Min[1] - h/2; y <= b.Max[1]+h; y += h {
			if x < -180 || x > 180 || y < -90 || y > 90 {
				continue
			}
			code, err := geohash.Encode(orb.Point{x, y}, precision)
			require.NoError(t, err)
			out = append(out, code)
		}
	}
	return out
}

// expectedCells applies the mode predicate to every cell near poly.
func expectedCells(t *testing.T, poly orb.Polygon, precision int, mode Mode) map[string]struct{} {
	t.Helper()
	p := geometry.Prepare(poly)
	want := make(map[string]struct{})
	for _, code := range gridCells(t, p.Bound(), precision) {
		b, err := geohash.Bounds(code)
		require.NoError(t, err)
		ok := p.Intersects(b)
		if mode == FullyContained {
			ok = p.ContainsBound(b)
		}
		if ok {
			want[code] = struct{}{}
		}
	}
	return want
}

func cellSet(codes ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		out[c] = struct{}{}
	}
	return out
}
