// Package spatial implements the containment join between canonical points
// and boundary polygons. It is a pure in-memory transform over its inputs.
package spatial

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Contains reports whether the point lies within g, which must be a
// Polygon or MultiPolygon. A point is inside a polygon when it is inside
// the exterior ring and outside every hole; boundary behavior follows the
// ring predicate of the geometry library.
func Contains(g geom.T, pt *geom.Point) bool {
	if g == nil || pt == nil {
		return false
	}
	coord := pt.Coords()
	switch t := g.(type) {
	case *geom.Polygon:
		return polygonContains(t, coord)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if polygonContains(t.Polygon(i), coord) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	// Bounds prefilter keeps the ring test off obviously distant points.
	if !p.Bounds().OverlapsPoint(p.Layout(), c) {
		return false
	}
	if !xy.IsPointInRing(p.Layout(), c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(p.Layout(), c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}
