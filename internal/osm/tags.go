package osm

// excludedHighways lists road classes a run network never includes. The set
// mirrors a drivable-street profile: separate foot infrastructure is mapped
// too inconsistently to route over, and the rest are not traversable at all.
var excludedHighways = map[string]bool{
	"abandoned":    true,
	"bridleway":    true,
	"bus_guideway": true,
	"construction": true,
	"corridor":     true,
	"cycleway":     true,
	"elevator":     true,
	"escalator":    true,
	"footway":      true,
	"path":         true,
	"pedestrian":   true,
	"planned":      true,
	"platform":     true,
	"proposed":     true,
	"raceway":      true,
	"razed":        true,
	"service":      true,
	"steps":        true,
	"track":        true,
}

// routableHighway reports whether a way with this highway tag belongs in the
// network.
func routableHighway(tag string) bool {
	return tag != "" && !excludedHighways[tag]
}
