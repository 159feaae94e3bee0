// Package geo provides great-circle distance math for the proximity engine.
//
// All functions are pure. Inputs are assumed to be validated coordinates;
// non-finite input produces NaN, which callers reject with ValidCoordinate
// before ever calling the distance functions.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// EarthRadiusMeters is EarthRadiusKm expressed in meters.
const EarthRadiusMeters = 6371000.0

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers using the Haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return haversine(lat1, lng1, lat2, lng2) * EarthRadiusKm
}

// DistanceMeters returns the great-circle distance between two coordinates
// in meters.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return haversine(lat1, lng1, lat2, lng2) * EarthRadiusMeters
}

// haversine returns the central angle between two coordinates in radians.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	rLat1 := lat1 * degToRad
	rLat2 := lat2 * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(rLat1)*math.Cos(rLat2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ValidCoordinate reports whether both components are finite numbers within
// valid geographic ranges (lat in [-90,90], lng in [-180,180]).
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
