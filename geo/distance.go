package geo

import (
	"github.com/golang/geo/s2"

	"github.com/mizan/crimewatch-api/schema"
)

// EarthRadiusMeters is the mean earth radius
const EarthRadiusMeters = 6371008.8

// Distance returns the great circle distance between two locations in meters
func Distance(a, b schema.Location) float64 {
	p := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	q := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p.Distance(q).Radians() * EarthRadiusMeters
}
