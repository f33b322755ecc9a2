// Package geo holds the small amount of geography the trip log needs:
// great-circle distance and a client for a Nominatim-compatible geocoder.
package geo

import (
	"fmt"
	"math"

	"github.com/pkordes/triplog/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between a and b in kilometres.
func DistanceKm(a, b domain.Coordinate) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lng - a.Lng)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Pow(math.Sin(dLon/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// MapURL links to an OpenStreetMap view with a marker at lat, lon.
func MapURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%v&mlon=%v", lat, lon)
}
