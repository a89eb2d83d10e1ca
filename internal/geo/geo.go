package geo

import (
	"math"
	"math/rand"
)

const (
	// EarthRadiusMiles is Earth's radius in miles for Haversine calculation.
	EarthRadiusMiles = 3958.7613
	// TripoliLat/TripoliLng is the base point for the Libya delivery area.
	// Synthesized customer destinations jitter around it and drivers start here.
	TripoliLat = 32.8872
	TripoliLng = 13.1913
)

// Planar is the Euclidean distance between two points in degree space.
// The delivery simulation operates on a flat plane; over the few kilometers
// of a city delivery the curvature error is irrelevant.
func Planar(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// StepToward moves (lat, lng) toward (destLat, destLng) by the given fraction
// of the remaining vector. Repeated steps approach the destination
// geometrically rather than at constant speed.
func StepToward(lat, lng, destLat, destLng, fraction float64) (float64, float64) {
	return lat + (destLat-lat)*fraction, lng + (destLng-lng)*fraction
}

// Jitter perturbs a point by a uniform random offset in [-amplitude, amplitude]
// on each axis. Used to synthesize a stable destination for deliveries whose
// order never recorded a customer location.
func Jitter(lat, lng, amplitude float64) (float64, float64) {
	return lat + (rand.Float64()*2-1)*amplitude, lng + (rand.Float64()*2-1)*amplitude
}

// HaversineMiles calculates the great-circle distance between two points
// on Earth in miles using the Haversine formula.
func HaversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

// ETASeconds estimates arrival time for the remaining distance at the given
// speed in miles per hour. Returns 0 when the speed is not positive.
func ETASeconds(distanceMiles, speedMPH float64) float64 {
	if speedMPH <= 0 {
		return 0
	}
	return distanceMiles / speedMPH * 3600
}
