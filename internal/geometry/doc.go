// Package geometry implements the planar predicates the coverage search
// needs between a polygon (exterior ring plus holes, lng/lat degrees) and an
// axis-aligned cell rectangle.
//
// A Prepared polygon caches its bound, area and, for polygons with many
// edges, an R-tree over its edges so that each cell test only looks at the
// edges near the cell.
//
// Predicates use closed-set semantics: a rectangle touching the polygon
// boundary at a single point intersects it, and a rectangle whose boundary
// runs along the polygon boundary from the inside is contained by it. A
// polygon with zero area has no interior and intersects nothing.
package geometry
