package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// HaversineKm calculates the great-circle distance between two points in kilometers
// using the Haversine formula. NaN coordinates yield NaN.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	if math.IsNaN(lat1) || math.IsNaN(lon1) || math.IsNaN(lat2) || math.IsNaN(lon2) {
		return math.NaN()
	}
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// EarthRadiusKm is the Earth's mean radius in kilometers
const EarthRadiusKm = 6371.0
