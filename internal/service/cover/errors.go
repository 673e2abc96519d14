package cover

import (
	"geocover/internal/geohash"
	"geocover/internal/parse"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidPrecision is returned for a precision outside [1, 12].
	ErrInvalidPrecision = geohash.ErrInvalidPrecision
	// ErrUnsupportedGeometry is returned for inputs that are neither
	// polygons nor multipolygons.
	ErrUnsupportedGeometry = parse.ErrUnsupportedGeometry
	// ErrCodec marks geohash encode/decode failures, e.g. NaN or out of
	// range coordinates.
	ErrCodec = errors.New("geohash codec failure")
	// ErrDegenerateGeometry describes a polygon without a locatable interior.
	// The search does not fail on it; it seeds from the bounding box center
	// and returns no cells.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrCellLimit is returned when a polygon's search classifies more cells
	// than allowed by WithMaxCells.
	ErrCellLimit = errors.New("cell limit exceeded")
)

func codecError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrCodec)
}
