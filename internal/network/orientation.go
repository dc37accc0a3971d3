package network

import (
	geom "github.com/twpayne/go-geom"

	log "github.com/sirupsen/logrus"
)

// NormalizeOrientation rewrites every feature so its coordinates run from the
// feature's start node to its end node, and stamps each feature's segment id
// onto the matching graph edge. Features whose first coordinate matches
// neither endpoint are dropped; node positions and coordinates must agree
// exactly for a match.
func NormalizeOrientation(g *Graph, fc *FeatureCollection) *FeatureCollection {
	out := &FeatureCollection{Features: make([]*Feature, 0, len(fc.Features))}
	for _, f := range fc.Features {
		stampSegmentID(g, f)

		start := g.Node(f.StartNode)
		end := g.Node(f.EndNode)
		if start == nil || end == nil || f.Line.NumCoords() == 0 {
			log.WithField("segment_id", f.SegmentID).Warn("dropping segment geometry with unknown endpoints")
			continue
		}
		first := f.Line.Coord(0)
		switch {
		case coordsEqual(first, geom.Coord{start.Lng, start.Lat}):
			out.Features = append(out.Features, f)
		case coordsEqual(first, geom.Coord{end.Lng, end.Lat}):
			reversed := *f
			reversed.Line = newLineString(reverseCoords(f.Line.Coords()))
			out.Features = append(out.Features, &reversed)
		default:
			log.WithFields(log.Fields{
				"segment_id": f.SegmentID,
				"start_node": f.StartNode,
				"end_node":   f.EndNode,
			}).Warn("dropping segment geometry that starts at neither endpoint")
		}
	}
	return out
}

// stampSegmentID writes the feature's identity onto the first graph edge
// between the feature's endpoints that has none yet. Graph serialization
// round trips outside the builder can lose identities; this repairs them.
func stampSegmentID(g *Graph, f *Feature) {
	if f.SegmentID == "" {
		return
	}
	candidates := g.SegmentsBetween(f.StartNode, f.EndNode)
	if len(candidates) == 0 {
		return
	}
	for _, s := range candidates {
		if s.ID == "" {
			g.setSegmentID(s, f.SegmentID)
			return
		}
	}
}
