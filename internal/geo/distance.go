// Package geo provides the minimal planar/spherical geometry the trail
// pipeline needs: great-circle distance, convex hulls, and polygon overlap.
//
// No computational-geometry library appears anywhere in the retrieved
// reference set (go.geojson is pure GeoJSON marshaling, never even
// imported by the one client that declares it), so this package is built
// directly on math. See DESIGN.md for the full justification.
package geo

import "math"

const earthRadiusM = 6371000.0

// Point is a (lat, lon) pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineM returns the great-circle distance between a and b in metres.
func HaversineM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusM * c
}

// HaversineKM returns the great-circle distance between a and b in kilometres.
func HaversineKM(a, b Point) float64 {
	return HaversineM(a, b) / 1000
}
