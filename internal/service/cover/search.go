package cover

import (
	"context"

	"geocover/internal/geohash"
	"geocover/internal/geometry"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

// ctxCheckInterval is how many dequeued cells pass between context checks.
const ctxCheckInterval = 1024

// fifo is a slice-backed queue of cell codes.
type fifo struct {
	items []string
	head  int
}

func (q *fifo) push(code string) {
	q.items = append(q.items, code)
}

func (q *fifo) pop() (string, bool) {
	if q.head == len(q.items) {
		return "", false
	}
	code := q.items[q.head]
	q.items[q.head] = ""
	q.head++
	if q.head > 1024 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return code, true
}

// search holds the per-polygon flood fill state. A cell code is in at most
// one of accepted and rejected, and never leaves it once there.
type search struct {
	poly      *geometry.Prepared
	precision int
	mode      Mode
	expandAll bool
	maxCells  int

	accepted map[string]struct{}
	rejected map[string]struct{}
	queued   map[string]struct{}
	frontier fifo

	visited, pruned int
}

func newSearch(poly *geometry.Prepared, precision int, mode Mode, o *options) *search {
	return &search{
		poly:      poly,
		precision: precision,
		mode:      mode,
		expandAll: o.strategy == StrategyNaive,
		maxCells:  o.maxCells,
		accepted:  make(map[string]struct{}),
		rejected:  make(map[string]struct{}),
		queued:    make(map[string]struct{}),
	}
}

func (s *search) classified(code string) bool {
	if _, ok := s.accepted[code]; ok {
		return true
	}
	_, ok := s.rejected[code]
	return ok
}

func (s *search) enqueue(code string) {
	if s.classified(code) {
		return
	}
	if _, ok := s.queued[code]; ok {
		return
	}
	s.queued[code] = struct{}{}
	s.frontier.push(code)
}

// run floods the grid from seed until the frontier is empty.
func (s *search) run(ctx context.Context, seed string) error {
	s.enqueue(seed)
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		code, ok := s.frontier.pop()
		if !ok {
			return nil
		}
		if err := s.visit(code); err != nil {
			return err
		}
	}
}

// visit classifies one cell and expands its neighbourhood when the cell can
// border accepted cells.
func (s *search) visit(code string) error {
	delete(s.queued, code)
	if s.classified(code) {
		return nil
	}
	if s.maxCells > 0 && len(s.accepted)+len(s.rejected) >= s.maxCells {
		return errors.Wrapf(ErrCellLimit, "more than %d cells at precision %d", s.maxCells, s.precision)
	}
	s.visited++

	b, err := geohash.Bounds(code)
	if err != nil {
		return codecError(err, "decode %q", code)
	}

	expand := true
	switch {
	case s.expandAll:
		// legacy variant: everything within the bounding box is explored
		expand = s.poly.Bound().Intersects(b)
		if expand && s.poly.Intersects(b) && s.accepts(b) {
			s.accepted[code] = struct{}{}
		} else {
			s.rejected[code] = struct{}{}
		}
	case !s.poly.Intersects(b):
		s.rejected[code] = struct{}{}
		expand = false
	case s.accepts(b):
		s.accepted[code] = struct{}{}
	default:
		// touches the polygon without being contained: a contained cell
		// may still lie beyond it
		s.rejected[code] = struct{}{}
	}
	if !expand {
		s.pruned++
		return nil
	}

	neighbors, err := geohash.Neighbors(code)
	if err != nil {
		return codecError(err, "neighbours of %q", code)
	}
	for _, n := range neighbors {
		s.enqueue(n)
	}
	return nil
}

// accepts applies the mode predicate to a cell already known to intersect
// the polygon.
func (s *search) accepts(b orb.Bound) bool {
	if s.mode != FullyContained {
		return true
	}
	if geometry.BoundArea(b) > s.poly.Area() {
		return false
	}
	if !s.poly.HasHoles() {
		return s.poly.ExteriorContainsBound(b)
	}
	return s.poly.ContainsBound(b)
}
