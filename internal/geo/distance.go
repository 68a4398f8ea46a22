// Package geo computes great-circle distances between venue coordinates.
package geo

import "math"

// Mean Earth radius in statute miles.
const earthRadiusMiles = 3958.8

// Miles returns the haversine distance between two coordinate pairs.
// Symmetric in its endpoints; zero when they coincide.
func Miles(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}
