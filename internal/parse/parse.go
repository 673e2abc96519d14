// Package parse turns WKT, WKB and GeoJSON input into polygons.
package parse

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrUnsupportedGeometry is returned for geometry kinds other than
	// polygons and multipolygons.
	ErrUnsupportedGeometry = errors.New("expected POLYGON or MULTIPOLYGON")
	// ErrParse marks input that could not be decoded.
	ErrParse = errors.New("unparseable geometry")
)

func parseError(err error, format string) error {
	return errors.Mark(errors.Wrap(err, format), ErrParse)
}

// Polygons flattens g into its polygons. Rings are closed if needed.
func Polygons(g orb.Geometry) ([]orb.Polygon, error) {
	var polys []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{v}
	case orb.MultiPolygon:
		polys = []orb.Polygon(v)
	case orb.Bound:
		polys = []orb.Polygon{v.ToPolygon()}
	case nil:
		return nil, errors.Wrap(ErrUnsupportedGeometry, "got empty geometry")
	default:
		return nil, errors.Wrapf(ErrUnsupportedGeometry, "got %s", g.GeoJSONType())
	}

	out := make([]orb.Polygon, 0, len(polys))
	for _, p := range polys {
		out = append(out, closeRings(p))
	}
	return out, nil
}

func closeRings(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(p))
	for _, r := range p {
		if len(r) > 0 && !r.Closed() {
			closed := make(orb.Ring, len(r), len(r)+1)
			copy(closed, r)
			r = append(closed, r[0])
		}
		out = append(out, r)
	}
	return out
}

// WKT parses a well-known text POLYGON or MULTIPOLYGON.
func WKT(s string) ([]orb.Polygon, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, parseError(err, "wkt")
	}
	return Polygons(g)
}

// WKB parses well-known binary, raw or hex encoded.
func WKB(b []byte) ([]orb.Polygon, error) {
	if isHex(b) {
		raw, err := hex.DecodeString(string(bytes.TrimSpace(b)))
		if err != nil {
			return nil, parseError(err, "hex wkb")
		}
		b = raw
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, parseError(err, "wkb")
	}
	return Polygons(g)
}

// GeoJSON parses a geometry object, a Feature or a FeatureCollection.
// The polygons of all features are returned together.
func GeoJSON(data []byte) ([]orb.Polygon, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, parseError(err, "geojson")
	}

	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, parseError(err, "geojson feature")
		}
		return Polygons(f.Geometry)
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, parseError(err, "geojson feature collection")
		}
		var out []orb.Polygon
		for i, f := range fc.Features {
			polys, err := Polygons(f.Geometry)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			out = append(out, polys...)
		}
		return out, nil
	case "":
		return nil, errors.Mark(errors.New("geojson: missing type"), ErrParse)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, parseError(err, "geojson geometry")
		}
		return Polygons(g.Geometry())
	}
}

// Auto detects the encoding of data: an OSMHeader blob is an OSM PBF
// extract, a leading '{' is GeoJSON, a leading letter is WKT (unless the
// whole input is hex), anything else is WKB.
func Auto(data []byte) ([]orb.Polygon, error) {
	if isOSMPBF(data) {
		return OSMPBF(bytes.NewReader(data), nil)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.Mark(errors.New("empty input"), ErrParse)
	}
	switch {
	case trimmed[0] == '{':
		return GeoJSON(trimmed)
	case isHex(trimmed):
		return WKB(trimmed)
	case unicode.IsLetter(rune(trimmed[0])):
		return WKT(string(trimmed))
	default:
		return WKB(data)
	}
}

// isHex reports whether b is an even-length hex string starting with a
// WKB byte order marker.
func isHex(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) < 10 || len(b)%2 != 0 {
		return false
	}
	if !bytes.HasPrefix(b, []byte("00")) && !bytes.HasPrefix(b, []byte("01")) {
		return false
	}
	for _, c := range b {
		if !strings.ContainsRune("0123456789abcdefABCDEF", rune(c)) {
			return false
		}
	}
	return true
}
