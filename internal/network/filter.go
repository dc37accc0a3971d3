package network

// WithoutSegments returns a view of the graph with the given segments
// removed. The receiver is left untouched so a cached graph can serve
// requests with different ignore sets concurrently; the view shares node and
// segment storage with the receiver and must be treated as read only.
func (g *Graph) WithoutSegments(ignored []string) *Graph {
	skip := make(map[string]bool, len(ignored))
	for _, id := range ignored {
		skip[id] = true
	}
	out := &Graph{
		nodes:     g.nodes,
		byID:      make(map[string]*Segment),
		adjacency: make(map[int64][]*Segment),
	}
	for _, s := range g.segments {
		if skip[s.ID] {
			continue
		}
		out.segments = append(out.segments, s)
		if s.ID != "" {
			out.byID[s.ID] = s
		}
		out.adjacency[s.StartNode] = append(out.adjacency[s.StartNode], s)
		if s.EndNode != s.StartNode {
			out.adjacency[s.EndNode] = append(out.adjacency[s.EndNode], s)
		}
	}
	return out
}
