package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParseBoundary validates a GeoJSON feature string and returns its geometry
func ParseBoundary(raw string) (orb.Geometry, error) {
	feature, err := geojson.UnmarshalFeature([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}
	if feature.Geometry == nil {
		return nil, errors.New("invalid GeoJSON: no geometry")
	}
	return feature.Geometry, nil
}

// AreaHectaresFromGeoJSON derives a field area in hectares from a GeoJSON
// boundary feature. Coordinates are geographic lon/lat, so the area is
// computed geodesically in square meters.
func AreaHectaresFromGeoJSON(raw string) (float64, error) {
	geometry, err := ParseBoundary(raw)
	if err != nil {
		return 0, err
	}
	return ToHectares(orbgeo.Area(geometry)), nil
}

// Centroid returns the centroid of a boundary in lon/lat, usable as the
// forecast location for a field without explicit coordinates. The planar
// centroid is accurate enough at field scale.
func Centroid(geometry orb.Geometry) orb.Point {
	point, _ := planar.CentroidArea(geometry)
	return point
}

// ToHectares converts square meters to hectares
func ToHectares(squareMeters float64) float64 {
	return squareMeters / 10000
}

// ValidateCoordinates checks that a latitude/longitude pair is in range
func ValidateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", longitude)
	}
	return nil
}
