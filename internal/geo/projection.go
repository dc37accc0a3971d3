package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Projection maps lng/lat coordinates onto a local equirectangular plane
// measured in metres. Accuracy degrades with distance from the origin, which
// is fine for the few-kilometre areas a run network covers.
type Projection struct {
	origin orb.Point
	cosLat float64
}

// NewProjection builds a projection centred on origin, given as (lng, lat).
func NewProjection(origin orb.Point) *Projection {
	return &Projection{
		origin: origin,
		cosLat: math.Cos(origin[1] * math.Pi / 180),
	}
}

// ToPlane converts a (lng, lat) point to plane coordinates in metres east and
// north of the origin.
func (p *Projection) ToPlane(pt orb.Point) orb.Point {
	x := (pt[0] - p.origin[0]) * math.Pi / 180 * EarthRadiusMeters * p.cosLat
	y := (pt[1] - p.origin[1]) * math.Pi / 180 * EarthRadiusMeters
	return orb.Point{x, y}
}

// ToGeographic converts plane metres back to a (lng, lat) point.
func (p *Projection) ToGeographic(pt orb.Point) orb.Point {
	lng := p.origin[0] + pt[0]/(EarthRadiusMeters*p.cosLat)*180/math.Pi
	lat := p.origin[1] + pt[1]/EarthRadiusMeters*180/math.Pi
	return orb.Point{lng, lat}
}

// PlaneDistance is the Euclidean distance between two projected points.
func PlaneDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}
