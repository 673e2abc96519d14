package model

import (
	"encoding/json"

	"github.com/paulmach/orb/geojson"
)

// Output formats of a coverage response.
const (
	FormatList    = "list"
	FormatGeoJSON = "geojson"
)

// CoverRequest is the body of POST /api/cover. Geometry holds either a
// GeoJSON object or a string with WKT or hex encoded WKB.
type CoverRequest struct {
	Geometry       json.RawMessage `json:"geometry" binding:"required"`
	Precision      *int            `json:"precision"`
	FullyContained bool            `json:"fully_contained"`
	Format         string          `json:"format"`
}

// CoverResponse carries the covering cells as a sorted list or as
// rectangle features, depending on the requested format.
type CoverResponse struct {
	Count     int                        `json:"count"`
	Precision int                        `json:"precision"`
	Mode      string                     `json:"mode"`
	Geohashes []string                   `json:"geohashes,omitempty"`
	Features  *geojson.FeatureCollection `json:"features,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}
