package geo

import (
	"fmt"
	"math"
)

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OutsideServiceAreaError is returned when a requested location falls outside
// the configured operating radius. It carries the computed distance so callers
// can surface it instead of silently clamping.
type OutsideServiceAreaError struct {
	Distance    float64 // miles from the service center
	RadiusMiles float64
}

func (e *OutsideServiceAreaError) Error() string {
	return fmt.Sprintf("location is %.1f miles from the service center (radius: %.0f miles)", e.Distance, e.RadiusMiles)
}

// ServiceArea represents the geographic area where bookings are accepted
type ServiceArea struct {
	Center      Coordinates
	RadiusMiles float64
}

const earthRadiusMiles = 3959

// Distance returns the great-circle distance in miles between the service
// center and the given point (haversine formula).
func (a ServiceArea) Distance(p Coordinates) float64 {
	dLat := toRadians(p.Lat - a.Center.Lat)
	dLng := toRadians(p.Lng - a.Center.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Center.Lat))*math.Cos(toRadians(p.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// Check validates that a point lies within the service area and returns an
// OutsideServiceAreaError otherwise.
func (a ServiceArea) Check(p Coordinates) error {
	distance := a.Distance(p)
	if distance > a.RadiusMiles {
		return &OutsideServiceAreaError{Distance: distance, RadiusMiles: a.RadiusMiles}
	}
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
