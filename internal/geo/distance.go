package geo

import (
	"github.com/golang/geo/s2"
	geom "github.com/twpayne/go-geom"
)

// EarthRadiusMeters is the mean earth radius used for all great-circle math.
const EarthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two lat/lng
// points in metres.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * EarthRadiusMeters
}

// LineLengthMeters sums the haversine distance over consecutive coordinate
// pairs. Coordinates are (lng, lat) ordered, matching GeoJSON axis order.
func LineLengthMeters(coords []geom.Coord) float64 {
	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += HaversineMeters(coords[i-1][1], coords[i-1][0], coords[i][1], coords[i][0])
	}
	return total
}
