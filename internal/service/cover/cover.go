package cover

import (
	"context"
	"sort"
	"time"

	"geocover/internal/geohash"
	"geocover/internal/geometry"
	"geocover/internal/service/storage"
	"geocover/internal/worker"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

// CoverOne returns the cells at precision that cover poly under mode.
func CoverOne(poly orb.Polygon, precision int, mode Mode, opts ...Option) (map[string]struct{}, error) {
	return CoverMany(context.Background(), []orb.Polygon{poly}, precision, mode, opts...)
}

// CoverMany returns the union of the coverings of every polygon in polys.
// Each polygon is searched with its own visited state; only accepted cells
// are shared. Any failure aborts the whole call and no cells are returned.
func CoverMany(ctx context.Context, polys []orb.Polygon, precision int, mode Mode, opts ...Option) (map[string]struct{}, error) {
	if !geohash.ValidPrecision(precision) {
		return nil, errors.Wrapf(ErrInvalidPrecision, "precision %d outside [%d, %d]",
			precision, geohash.MinPrecision, geohash.MaxPrecision)
	}
	o := newOptions(opts)

	var result storage.Set[string]
	if o.workers == 1 || len(polys) < 2 {
		result = storage.NewMemorySet[string]()
	} else {
		result = storage.NewShardedSet[string](4*max(o.workers, worker.DefaultWorkers()), nil)
	}

	start := time.Now()
	err := worker.Run(ctx, o.workers, len(polys), func(ctx context.Context, i int) error {
		cells, err := coverPolygon(ctx, polys[i], precision, mode, o)
		if err != nil {
			return errors.Wrapf(err, "polygon %d", i)
		}
		for code := range cells {
			result.Add(code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cells := result.Snapshot()
	o.logger.Debug("cover_done",
		"polygons", len(polys),
		"precision", precision,
		"mode", mode.String(),
		"strategy", o.strategy.String(),
		"cells", len(cells),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cells, nil
}

// coverPolygon runs one flood fill and returns its accepted cells.
func coverPolygon(ctx context.Context, poly orb.Polygon, precision int, mode Mode, o *options) (map[string]struct{}, error) {
	p := geometry.Prepare(poly)

	seedPoint, ok := findInteriorPoint(p)
	if !ok {
		seedPoint = p.Bound().Center()
		o.logger.Debug("seed_fallback", "reason", ErrDegenerateGeometry.Error(), "point", seedPoint)
	}
	seed, err := geohash.Encode(seedPoint, precision)
	if err != nil {
		return nil, codecError(err, "encode seed")
	}

	s := newSearch(p, precision, mode, o)
	if err := s.run(ctx, seed); err != nil {
		return nil, err
	}

	// A seed outside the polygon is pruned at once. Any exterior vertex lies
	// on the boundary, so its cell always touches the polygon.
	if len(s.accepted) == 0 && !p.Degenerate() {
		vertexSeed, err := geohash.Encode(poly[0][0], precision)
		if err != nil {
			return nil, codecError(err, "encode vertex seed")
		}
		if !s.classified(vertexSeed) {
			o.logger.Debug("seed_retry", "seed", seed, "vertex_seed", vertexSeed)
			if err := s.run(ctx, vertexSeed); err != nil {
				return nil, err
			}
		}
	}

	o.stats.Polygons.Add(1)
	o.stats.Visited.Add(int64(s.visited))
	o.stats.Accepted.Add(int64(len(s.accepted)))
	o.stats.Rejected.Add(int64(len(s.rejected)))
	o.stats.Pruned.Add(int64(s.pruned))
	return s.accepted, nil
}

// Sorted returns the cell codes in lexical order.
func Sorted(cells map[string]struct{}) []string {
	out := make([]string, 0, len(cells))
	for code := range cells {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
