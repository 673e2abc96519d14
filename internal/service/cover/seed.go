package cover

import (
	"geocover/internal/geometry"

	"github.com/paulmach/orb"
)

// starDirections are the unit vectors at 30 degree steps around the centroid.
var starDirections = [12][2]float64{
	{1, 0},
	{0.8660254037844387, 0.5},
	{0.5, 0.8660254037844387},
	{0, 1},
	{-0.5, 0.8660254037844387},
	{-0.8660254037844387, 0.5},
	{-1, 0},
	{-0.8660254037844387, -0.5},
	{-0.5, -0.8660254037844387},
	{0, -1},
	{0.5, -0.8660254037844387},
	{0.8660254037844387, -0.5},
}

// starRadii are fractions of the bounding box extent on each axis.
var starRadii = [2]float64{1e-6, 1e-4}

const gridProbes = 4

// FindInteriorPoint returns a point inside poly. It reports false for
// polygons without interior (zero area or malformed exterior ring) and for
// the rare shapes none of the probes hit.
//
// Probes, in order: the centroid, a 12-point star around the centroid at two
// radii, the bounding box center, and a 4x4 grid over the bounding box.
func FindInteriorPoint(poly orb.Polygon) (orb.Point, bool) {
	return findInteriorPoint(geometry.Prepare(poly))
}

func findInteriorPoint(p *geometry.Prepared) (orb.Point, bool) {
	if p.Degenerate() {
		return orb.Point{}, false
	}

	c := p.Centroid()
	if p.Contains(c) {
		return c, true
	}

	b := p.Bound()
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	for _, r := range starRadii {
		for _, d := range starDirections {
			pt := orb.Point{c[0] + d[0]*w*r, c[1] + d[1]*h*r}
			if p.Contains(pt) {
				return pt, true
			}
		}
	}

	if center := b.Center(); p.Contains(center) {
		return center, true
	}

	for i := 0; i < gridProbes; i++ {
		for j := 0; j < gridProbes; j++ {
			pt := orb.Point{
				b.Min[0] + (float64(i)+0.5)*w/gridProbes,
				b.Min[1] + (float64(j)+0.5)*h/gridProbes,
			}
			if p.Contains(pt) {
				return pt, true
			}
		}
	}
	return orb.Point{}, false
}
