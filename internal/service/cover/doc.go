// Package cover computes the set of geohash cells covering a polygon or a
// collection of polygons.
//
// The search starts from a cell inside the polygon and floods the geohash
// grid breadth-first. Each cell is classified once: cells whose rectangle
// does not meet the polygon are rejected and never expanded, so the search
// stays within the cells that touch the polygon. Which of those cells are
// returned depends on the Mode:
//
//   - Touching returns every cell whose rectangle intersects the polygon.
//   - FullyContained returns only cells whose rectangle lies inside the
//     polygon, holes accounted for.
//
// Polygons of one call are searched independently, each with its own
// visited state, and their accepted cells are merged into one result.
package cover
