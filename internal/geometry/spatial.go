package geometry

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// indexPad widens every rectangle handed to the R-tree. rtreego rejects zero
// lengths (axis-parallel edges) and treats touching rectangles as disjoint,
// while the predicates need touching edges as candidates.
const indexPad = 1e-9

// indexThreshold is the edge count from which a Prepared polygon builds an
// edge index instead of scanning all edges.
const indexThreshold = 64

// edge is one polygon segment. ring 0 is the exterior, others are holes.
type edge struct {
	a, b orb.Point
	ring int
}

// Bounds implements the rtreego.Spatial interface.
func (e *edge) Bounds() rtreego.Rect {
	minX, minY := math.Min(e.a[0], e.b[0]), math.Min(e.a[1], e.b[1])
	maxX, maxY := math.Max(e.a[0], e.b[0]), math.Max(e.a[1], e.b[1])
	return paddedRect(minX, minY, maxX, maxY)
}

func paddedRect(minX, minY, maxX, maxY float64) rtreego.Rect {
	// lengths are strictly positive after padding, so NewRect cannot fail
	rect, _ := rtreego.NewRect(
		rtreego.Point{minX - indexPad, minY - indexPad},
		[]float64{maxX - minX + 2*indexPad, maxY - minY + 2*indexPad},
	)
	return rect
}

func boundRect(b orb.Bound) rtreego.Rect {
	return paddedRect(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}

// buildEdgeIndex loads all edges into a 2D R-tree.
func buildEdgeIndex(edges []edge) *rtreego.Rtree {
	objs := make([]rtreego.Spatial, len(edges))
	for i := range edges {
		objs[i] = &edges[i]
	}
	return rtreego.NewTree(2, 25, 50, objs...)
}
