package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Roughly a 100 m x 100 m square near Cebu (10.3 N, 123.9 E), about one
// hectare on the ground.
const hectareFeature = `{
	"type": "Feature",
	"properties": {},
	"geometry": {
		"type": "Polygon",
		"coordinates": [[
			[123.9, 10.3],
			[123.900913, 10.3],
			[123.900913, 10.300904],
			[123.9, 10.300904],
			[123.9, 10.3]
		]]
	}
}`

func TestParseBoundary(t *testing.T) {
	geometry, err := ParseBoundary(hectareFeature)
	assert.NoError(t, err)
	assert.NotNil(t, geometry)

	_, err = ParseBoundary("not geojson")
	assert.Error(t, err)
}

func TestAreaHectaresFromGeoJSON(t *testing.T) {
	// Geodesic area in m2, so lon/lat degrees must come out near one hectare
	area, err := AreaHectaresFromGeoJSON(hectareFeature)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, area, 0.05)
}

func TestCentroid(t *testing.T) {
	geometry, err := ParseBoundary(hectareFeature)
	assert.NoError(t, err)

	center := Centroid(geometry)
	assert.InDelta(t, 123.9004565, center[0], 1e-6)
	assert.InDelta(t, 10.300452, center[1], 1e-6)
}

func TestToHectares(t *testing.T) {
	assert.InDelta(t, 2.5, ToHectares(25000), 1e-9)
	assert.InDelta(t, 0, ToHectares(0), 1e-9)
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(10.3, 123.9))
	assert.NoError(t, ValidateCoordinates(0, 0))
	assert.NoError(t, ValidateCoordinates(-90, 180))
	assert.Error(t, ValidateCoordinates(91, 0))
	assert.Error(t, ValidateCoordinates(-91, 0))
	assert.Error(t, ValidateCoordinates(0, 181))
	assert.Error(t, ValidateCoordinates(0, -181))
}
