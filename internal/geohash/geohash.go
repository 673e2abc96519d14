// Package geohash wraps the geohash grid primitives used by the coverage
// search: encoding a point into a cell, decoding a cell into its rectangle and
// walking the 8-neighbourhood of a cell.
package geohash

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	mgh "github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
)

const (
	// MinPrecision is the shortest geohash handled by the codec.
	MinPrecision = 1
	// MaxPrecision is the longest geohash handled by the codec (60 bits).
	MaxPrecision = 12
)

// Direction indexes the array returned by Neighbors.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

const alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

var (
	// ErrInvalidPrecision is returned for a precision outside [MinPrecision, MaxPrecision].
	ErrInvalidPrecision = errors.New("geohash: invalid precision")
	// ErrInvalidCoordinate is returned for NaN, infinite or out of range coordinates.
	ErrInvalidCoordinate = errors.New("geohash: invalid coordinate")
	// ErrInvalidCode is returned when a string is not a geohash.
	ErrInvalidCode = errors.New("geohash: invalid code")
)

// The grid is half-open on its upper edges, so lat=90 and lng=180 are pulled
// just inside before encoding.
var (
	maxLat = math.Nextafter(90, 0)
	maxLng = math.Nextafter(180, 0)
)

// ValidPrecision reports whether p is a supported geohash length.
func ValidPrecision(p int) bool {
	return p >= MinPrecision && p <= MaxPrecision
}

// Encode returns the code of the cell containing p (X=lng, Y=lat).
func Encode(p orb.Point, precision int) (string, error) {
	if !ValidPrecision(precision) {
		return "", errors.Wrapf(ErrInvalidPrecision, "precision %d", precision)
	}
	lng, lat := p[0], p[1]
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return "", errors.Wrapf(ErrInvalidCoordinate, "lat=%v lng=%v", lat, lng)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return "", errors.Wrapf(ErrInvalidCoordinate, "lat=%v lng=%v out of range", lat, lng)
	}
	lat = math.Min(lat, maxLat)
	lng = math.Min(lng, maxLng)
	return mgh.EncodeWithPrecision(lat, lng, uint(precision)), nil
}

// Validate checks that code is a lowercase base32 geohash of supported length.
func Validate(code string) error {
	if !ValidPrecision(len(code)) {
		return errors.Wrapf(ErrInvalidCode, "%q has length %d", code, len(code))
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(alphabet, code[i]) < 0 {
			return errors.Wrapf(ErrInvalidCode, "%q has invalid character %q", code, code[i])
		}
	}
	return nil
}

// Bounds decodes code into the rectangle it covers.
func Bounds(code string) (orb.Bound, error) {
	if err := Validate(code); err != nil {
		return orb.Bound{}, err
	}
	box := mgh.BoundingBox(code)
	return orb.Bound{
		Min: orb.Point{box.MinLng, box.MinLat},
		Max: orb.Point{box.MaxLng, box.MaxLat},
	}, nil
}

// Center decodes code into the center point of its rectangle.
func Center(code string) (orb.Point, error) {
	b, err := Bounds(code)
	if err != nil {
		return orb.Point{}, err
	}
	return b.Center(), nil
}

// CellPolygon returns the rectangle of code as a closed polygon ring.
func CellPolygon(code string) (orb.Polygon, error) {
	b, err := Bounds(code)
	if err != nil {
		return nil, err
	}
	return b.ToPolygon(), nil
}

// Neighbors returns the 8 cells surrounding code, indexed by Direction.
// Wrapping at the antimeridian and the poles follows the underlying library.
func Neighbors(code string) ([8]string, error) {
	var out [8]string
	if err := Validate(code); err != nil {
		return out, err
	}
	ns := mgh.Neighbors(code)
	if len(ns) != len(out) {
		return out, errors.Newf("geohash: %d neighbours for %q", len(ns), code)
	}
	copy(out[:], ns)
	return out, nil
}
