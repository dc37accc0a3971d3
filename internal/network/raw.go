package network

import geom "github.com/twpayne/go-geom"

// RawNode is a node as delivered by a road-network provider.
type RawNode struct {
	ID  int64
	Lat float64
	Lng float64
}

// RawEdge is a directed edge as delivered by a road-network provider. WayIDs
// carries the source way identifiers, more than one when a provider has
// merged a chain of ways into a single edge. Coords run from From to To in
// (lng, lat) order.
type RawEdge struct {
	WayIDs  []int64
	From    int64
	To      int64
	LengthM float64
	Coords  []geom.Coord
	Highway string
	Ref     string
}

// RawNetwork is the provider-side view of a road network, before the builder
// collapses, consolidates and assigns segment identities.
type RawNetwork struct {
	Nodes map[int64]RawNode
	Edges []RawEdge
}

func NewRawNetwork() *RawNetwork {
	return &RawNetwork{Nodes: make(map[int64]RawNode)}
}

func (n *RawNetwork) Empty() bool {
	return n == nil || len(n.Edges) == 0
}
