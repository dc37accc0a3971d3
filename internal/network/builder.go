package network

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// BuildOptions controls how a raw provider network becomes a routable graph.
type BuildOptions struct {
	// ConsolidateToleranceM merges intersections closer than this many
	// metres. Zero disables consolidation.
	ConsolidateToleranceM float64
	// ExcludedHighwayTags removes edges whose road-class tag contains any
	// of these values.
	ExcludedHighwayTags []string
	// DropMotorwayRefs removes edges carrying a motorway-style ref such as
	// "M4". Runners cannot use those regardless of the highway tag.
	DropMotorwayRefs bool
}

func DefaultBuildOptions() BuildOptions {
	return BuildOptions{DropMotorwayRefs: true}
}

// Build turns a raw provider network into the routable graph and its oriented
// geometry collection. The stages run in a fixed order: collapse the directed
// edges to undirected ones, consolidate nearby intersections, assign segment
// identities, drop excluded road classes, then emit graph and geometry with
// normalized orientation. An empty raw network yields an empty graph, not an
// error.
func Build(raw *RawNetwork, opts BuildOptions) (*Graph, *FeatureCollection, error) {
	if raw.Empty() {
		return NewGraph(), &FeatureCollection{}, nil
	}

	net := &RawNetwork{Nodes: raw.Nodes, Edges: collapseDirected(raw.Edges)}
	net = consolidateIntersections(net, opts.ConsolidateToleranceM)

	ids := AssignSegmentIDs(net.Edges)

	g := NewGraph()
	for _, n := range net.Nodes {
		g.AddNode(Node{ID: n.ID, Lat: n.Lat, Lng: n.Lng})
	}
	fc := &FeatureCollection{}
	kept := 0
	for i, e := range net.Edges {
		if excludeEdge(e, opts) {
			continue
		}
		kept++
		// Identity is stamped onto the edge from its feature below.
		err := g.AddSegment(Segment{StartNode: e.From, EndNode: e.To, LengthM: e.LengthM})
		if err != nil {
			return nil, nil, errors.Wrap(err, "could not assemble graph")
		}
		fc.Features = append(fc.Features, &Feature{
			SegmentID: ids[i],
			StartNode: e.From,
			EndNode:   e.To,
			LengthM:   e.LengthM,
			Line:      newLineString(e.Coords),
		})
	}
	fc = NormalizeOrientation(g, fc)

	log.WithFields(log.Fields{
		"nodes":    g.NumNodes(),
		"segments": g.NumSegments(),
		"dropped":  len(net.Edges) - kept,
	}).Info("built run area network")
	return g, fc, nil
}

// collapseDirected keeps one edge per direction pair. Providers emit both
// travel directions of a two-way road; an undirected running network needs
// only the first.
func collapseDirected(edges []RawEdge) []RawEdge {
	seen := make(map[string]bool, len(edges))
	out := make([]RawEdge, 0, len(edges))
	for _, e := range edges {
		lo, hi := e.From, e.To
		if hi < lo {
			lo, hi = hi, lo
		}
		key := fmt.Sprintf("%d|%d|%s", lo, hi, normalizeWayIDs(e.WayIDs))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func excludeEdge(e RawEdge, opts BuildOptions) bool {
	for _, tag := range opts.ExcludedHighwayTags {
		if tag != "" && strings.Contains(e.Highway, tag) {
			return true
		}
	}
	if opts.DropMotorwayRefs && strings.Contains(e.Ref, "M") {
		return true
	}
	return false
}
