package ranking

import (
	"math"

	"repairhub/models"
)

// DefaultLocation is the city centre used for technicians that never stored
// coordinates.
var DefaultLocation = models.GeoPoint{Latitude: 14.5995, Longitude: 120.9842}

// defaultJitter is the span, in degrees, added on top of DefaultLocation.
const defaultJitter = 0.1

// haversine returns the great-circle distance between a and b in kilometres.
func haversine(a, b models.GeoPoint) float64 {
	const R = 6371
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// jitteredDefault returns DefaultLocation shifted by up to defaultJitter
// degrees on each axis. rnd must return values in [0, 1).
func jitteredDefault(rnd func() float64) models.GeoPoint {
	return models.GeoPoint{
		Latitude:  DefaultLocation.Latitude + rnd()*defaultJitter,
		Longitude: DefaultLocation.Longitude + rnd()*defaultJitter,
	}
}
