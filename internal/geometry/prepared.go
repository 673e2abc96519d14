package geometry

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Prepared is a read-only polygon with cached data for repeated cell tests.
// It is safe for concurrent use once built.
type Prepared struct {
	poly  orb.Polygon
	bound orb.Bound
	area  float64
	edges []edge
	index *rtreego.Rtree
}

// Prepare builds a Prepared polygon. The polygon is not copied and must not
// be modified while the Prepared value is in use.
func Prepare(poly orb.Polygon) *Prepared {
	p := &Prepared{poly: poly}
	if len(poly) == 0 {
		return p
	}
	p.bound = poly.Bound()
	p.area = math.Abs(planar.Area(poly))

	for ri, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			if ring[i] == ring[i+1] {
				continue
			}
			p.edges = append(p.edges, edge{a: ring[i], b: ring[i+1], ring: ri})
		}
		// tolerate rings that are not explicitly closed
		if n := len(ring); n > 2 && ring[0] != ring[n-1] {
			p.edges = append(p.edges, edge{a: ring[n-1], b: ring[0], ring: ri})
		}
	}
	if len(p.edges) >= indexThreshold {
		p.index = buildEdgeIndex(p.edges)
	}
	return p
}

// Polygon returns the underlying polygon.
func (p *Prepared) Polygon() orb.Polygon { return p.poly }

// Bound returns the bounding rectangle of the exterior ring.
func (p *Prepared) Bound() orb.Bound { return p.bound }

// Area returns the planar area in square degrees, holes subtracted.
func (p *Prepared) Area() float64 { return p.area }

// HasHoles reports whether the polygon has interior rings.
func (p *Prepared) HasHoles() bool { return len(p.poly) > 1 }

// Degenerate reports whether the polygon has no interior: no rings, an
// exterior with fewer than 4 points, or zero area.
func (p *Prepared) Degenerate() bool {
	return len(p.poly) == 0 || len(p.poly[0]) < 4 || p.area == 0
}

// Centroid returns the area-weighted centroid.
func (p *Prepared) Centroid() orb.Point {
	c, _ := planar.CentroidArea(p.poly)
	return c
}

// Contains reports whether pt lies in the polygon. Points on the exterior
// ring count as inside, points on a hole ring as outside.
func (p *Prepared) Contains(pt orb.Point) bool {
	if len(p.poly) == 0 {
		return false
	}
	return planar.PolygonContains(p.poly, pt)
}

// Intersects reports whether the closed rectangle b shares at least one point
// with the polygon.
func (p *Prepared) Intersects(b orb.Bound) bool {
	if p.Degenerate() || !p.bound.Intersects(b) {
		return false
	}
	found := false
	p.eachEdge(b, false, func(e *edge) bool {
		found = segmentTouches(e.a, e.b, b)
		return !found
	})
	if found {
		return true
	}
	// no boundary near b: b is either wholly inside or wholly outside
	return planar.PolygonContains(p.poly, b.Min)
}

// ContainsBound reports whether the rectangle b lies wholly inside the
// polygon, holes accounted for.
func (p *Prepared) ContainsBound(b orb.Bound) bool {
	return p.containsBound(b, false)
}

// ExteriorContainsBound reports whether b lies wholly inside the exterior
// ring, ignoring holes. It equals ContainsBound for hole-free polygons.
func (p *Prepared) ExteriorContainsBound(b orb.Bound) bool {
	return p.containsBound(b, true)
}

func (p *Prepared) containsBound(b orb.Bound, exteriorOnly bool) bool {
	if p.Degenerate() || !boundWithin(b, p.bound) {
		return false
	}
	crossed := false
	p.eachEdge(b, exteriorOnly, func(e *edge) bool {
		crossed = segmentEntersInterior(e.a, e.b, b)
		return !crossed
	})
	if crossed {
		return false
	}
	center := b.Center()
	if exteriorOnly {
		return planar.RingContains(p.poly[0], center)
	}
	return planar.PolygonContains(p.poly, center)
}

// eachEdge calls fn for every edge that may touch b until fn returns false.
func (p *Prepared) eachEdge(b orb.Bound, exteriorOnly bool, fn func(*edge) bool) {
	if p.index == nil {
		for i := range p.edges {
			e := &p.edges[i]
			if exteriorOnly && e.ring != 0 {
				continue
			}
			if !fn(e) {
				return
			}
		}
		return
	}
	for _, s := range p.index.SearchIntersect(boundRect(b)) {
		e := s.(*edge)
		if exteriorOnly && e.ring != 0 {
			continue
		}
		if !fn(e) {
			return
		}
	}
}
