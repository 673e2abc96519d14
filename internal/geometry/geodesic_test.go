package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	d := HaversineDistance(orb.Point{0, 0}, orb.Point{0, 1})
	require.InDelta(t, 111195, d, 10)

	require.Zero(t, HaversineDistance(orb.Point{12, 34}, orb.Point{12, 34}))
}

func TestCellDimensions(t *testing.T) {
	w, h := CellDimensions(bound(0, 0, 1, 1))
	require.InDelta(t, 111195, h, 10)
	require.InDelta(t, 111178, w, 50)

	w60, _ := CellDimensions(bound(0, 59.5, 1, 60.5))
	require.InDelta(t, w/2, w60, 500)
}

func TestGeodesicAreaKm2(t *testing.T) {
	a := GeodesicAreaKm2(bound(0, 0, 1, 1))
	require.InEpsilon(t, 12364, a, 0.01)

	north := GeodesicAreaKm2(bound(0, 60, 1, 61))
	require.Less(t, north, a)
}
