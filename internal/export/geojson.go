package export

import (
	"encoding/json"
	"math"
	"os"

	"geocover/internal/geohash"
	"geocover/internal/geometry"
	"geocover/internal/logger"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection builds one rectangle feature per cell code. Codes are
// emitted in the order given.
func FeatureCollection(codes []string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, code := range codes {
		f, err := Feature(code)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	return fc, nil
}

// Feature returns the cell rectangle of code with its size properties.
func Feature(code string) (*geojson.Feature, error) {
	poly, err := geohash.CellPolygon(code)
	if err != nil {
		return nil, errors.Wrapf(err, "export %q", code)
	}
	b := poly.Bound()
	width, height := geometry.CellDimensions(b)

	feature := geojson.NewFeature(poly)
	feature.ID = code
	feature.Properties["geohash"] = code
	feature.Properties["precision"] = len(code)
	feature.Properties["width_km"] = roundToKilometers(width)
	feature.Properties["height_km"] = roundToKilometers(height)
	feature.Properties["area_km2"] = math.Round(geometry.GeodesicAreaKm2(b)*1000) / 1000
	return feature, nil
}

// WriteGeoJSON writes fc to outputFile as indented JSON.
func WriteGeoJSON(outputFile string, fc *geojson.FeatureCollection) error {
	jsonData, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal geojson")
	}
	if err := os.WriteFile(outputFile, jsonData, 0644); err != nil {
		return errors.Wrapf(err, "write %s", outputFile)
	}
	logger.L().Info("geojson_exported", "file", outputFile, "features", len(fc.Features))
	return nil
}

func roundToKilometers(meters float64) float64 {
	return math.Round(meters) / 1000
}
