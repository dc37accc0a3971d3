package network

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Node is a junction in the road network. Coordinates are WGS84 degrees.
type Node struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Segment is an undirected routable edge between two nodes. The ID is the
// stable segment identity assigned at build time; StartNode and EndNode fix
// which direction the segment geometry runs in.
type Segment struct {
	ID        string  `json:"segment_id"`
	StartNode int64   `json:"start_node"`
	EndNode   int64   `json:"end_node"`
	LengthM   float64 `json:"length_m"`
}

// Graph is the routable road network for one run area. Nodes and segments
// are stored in arenas and addressed by their stable identifiers; adjacency
// is derived and kept in sync by AddSegment.
type Graph struct {
	nodes     map[int64]*Node
	segments  []*Segment
	byID      map[string]*Segment
	adjacency map[int64][]*Segment
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[int64]*Node),
		byID:      make(map[string]*Segment),
		adjacency: make(map[int64][]*Segment),
	}
}

func (g *Graph) AddNode(n Node) {
	copied := n
	g.nodes[n.ID] = &copied
}

// AddSegment inserts an edge between two nodes that must already exist.
func (g *Graph) AddSegment(s Segment) error {
	if _, ok := g.nodes[s.StartNode]; !ok {
		return errors.Errorf("segment %q references unknown start node %d", s.ID, s.StartNode)
	}
	if _, ok := g.nodes[s.EndNode]; !ok {
		return errors.Errorf("segment %q references unknown end node %d", s.ID, s.EndNode)
	}
	copied := s
	g.segments = append(g.segments, &copied)
	if copied.ID != "" {
		g.byID[copied.ID] = &copied
	}
	g.adjacency[copied.StartNode] = append(g.adjacency[copied.StartNode], &copied)
	if copied.EndNode != copied.StartNode {
		g.adjacency[copied.EndNode] = append(g.adjacency[copied.EndNode], &copied)
	}
	return nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int64) *Node {
	return g.nodes[id]
}

// SegmentByID returns the segment with the given identity, or nil.
func (g *Graph) SegmentByID(id string) *Segment {
	return g.byID[id]
}

// Segments returns all edges in insertion order. Callers must not mutate the
// returned segments.
func (g *Graph) Segments() []*Segment {
	return g.segments
}

// Adjacent returns the segments incident to a node, in insertion order.
func (g *Graph) Adjacent(node int64) []*Segment {
	return g.adjacency[node]
}

// SegmentsBetween returns every parallel edge joining the two nodes,
// regardless of segment orientation.
func (g *Graph) SegmentsBetween(u, v int64) []*Segment {
	var out []*Segment
	for _, s := range g.adjacency[u] {
		if (s.StartNode == u && s.EndNode == v) || (s.StartNode == v && s.EndNode == u) {
			out = append(out, s)
		}
	}
	return out
}

func (g *Graph) NumNodes() int    { return len(g.nodes) }
func (g *Graph) NumSegments() int { return len(g.segments) }

// setSegmentID re-keys a segment after its identity is stamped post-insert.
func (g *Graph) setSegmentID(s *Segment, id string) {
	if s.ID != "" {
		delete(g.byID, s.ID)
	}
	s.ID = id
	if id != "" {
		g.byID[id] = s
	}
}

type graphJSON struct {
	Nodes []Node    `json:"nodes"`
	Edges []Segment `json:"edges"`
}

// MarshalJSON encodes the graph as a flat node/edge list suitable for
// storage as an area artifact.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Nodes: make([]Node, 0, len(g.nodes)),
		Edges: make([]Segment, 0, len(g.segments)),
	}
	for _, n := range g.nodes {
		out.Nodes = append(out.Nodes, *n)
	}
	for _, s := range g.segments {
		out.Edges = append(out.Edges, *s)
	}
	return json.Marshal(out)
}

func (g *Graph) UnmarshalJSON(data []byte) error {
	var in graphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "could not decode graph")
	}
	*g = *NewGraph()
	for _, n := range in.Nodes {
		g.AddNode(n)
	}
	for _, s := range in.Edges {
		if err := g.AddSegment(s); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalGraph decodes a stored graph artifact.
func UnmarshalGraph(data []byte) (*Graph, error) {
	g := NewGraph()
	if err := g.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return g, nil
}
