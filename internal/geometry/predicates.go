package geometry

import "github.com/paulmach/orb"

// clip intersects segment a->b with the closed rectangle r (Liang-Barsky) and
// returns the parameter interval of the part inside r.
func clip(a, b orb.Point, r orb.Bound) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	dx, dy := b[0]-a[0], b[1]-a[1]
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a[0] - r.Min[0], r.Max[0] - a[0], a[1] - r.Min[1], r.Max[1] - a[1]}

	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return t0, t1, true
}

// segmentTouches reports whether segment a->b has any point in the closed rectangle r.
func segmentTouches(a, b orb.Point, r orb.Bound) bool {
	_, _, ok := clip(a, b, r)
	return ok
}

// segmentEntersInterior reports whether segment a->b has a point strictly
// inside r. A chord of a rectangle either lies on one side of it or crosses
// its interior, so testing the midpoint of the clipped part is enough.
func segmentEntersInterior(a, b orb.Point, r orb.Bound) bool {
	t0, t1, ok := clip(a, b, r)
	if !ok || t1 <= t0 {
		return false
	}
	t := (t0 + t1) / 2
	mx := a[0] + t*(b[0]-a[0])
	my := a[1] + t*(b[1]-a[1])
	return mx > r.Min[0] && mx < r.Max[0] && my > r.Min[1] && my < r.Max[1]
}

// boundWithin reports whether inner lies inside the closed rectangle outer.
func boundWithin(inner, outer orb.Bound) bool {
	return inner.Min[0] >= outer.Min[0] && inner.Max[0] <= outer.Max[0] &&
		inner.Min[1] >= outer.Min[1] && inner.Max[1] <= outer.Max[1]
}

// BoundArea is the planar area of b in square degrees.
func BoundArea(b orb.Bound) float64 {
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1])
}
