package geometry

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// EarthRadiusMeters is the mean earth radius used for distances and areas.
const EarthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance between two lng/lat points in meters.
func HaversineDistance(a, b orb.Point) float64 {
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat(), a.Lon()))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat(), b.Lon()))

	angle := s1.Angle(s2.ChordAngleBetweenPoints(pa, pb).Angle())
	return angle.Radians() * EarthRadiusMeters
}

// CellDimensions returns the width (measured along the cell's middle
// latitude) and height of b in meters.
func CellDimensions(b orb.Bound) (width, height float64) {
	midLat := (b.Min.Lat() + b.Max.Lat()) / 2
	width = HaversineDistance(orb.Point{b.Min.Lon(), midLat}, orb.Point{b.Max.Lon(), midLat})
	height = HaversineDistance(orb.Point{b.Min.Lon(), b.Min.Lat()}, orb.Point{b.Min.Lon(), b.Max.Lat()})
	return width, height
}

// GeodesicAreaKm2 returns the area of the lat/lng rectangle b on the sphere.
func GeodesicAreaKm2(b orb.Bound) float64 {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(b.Min.Lat(), b.Min.Lon()))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.Max.Lat(), b.Max.Lon()))

	rKm := EarthRadiusMeters / 1000
	return rect.Area() * rKm * rKm
}
