package routing

// SnappedPoint is a map position snapped onto a segment by the client. The
// distance runs along the segment geometry from its start node.
type SnappedPoint struct {
	SegmentID string
	StartNode int64
	EndNode   int64
	DistanceM float64
}

// Step is one element of a computed route, either a PartialTraversal or a
// FullTraversal.
type Step interface {
	step()
}

// PartialTraversal covers part of a single segment. Distances are measured
// from the segment's start node; the at-end flags report whether an endpoint
// of the movement sits in the far tail of the segment.
type PartialTraversal struct {
	SegmentID      string  `json:"segment_id"`
	StartDistanceM float64 `json:"start_distance_metres"`
	EndDistanceM   float64 `json:"end_distance_metres"`
	StartsAtEnd    bool    `json:"starts_at_end"`
	EndsAtEnd      bool    `json:"ends_at_end"`
}

// FullTraversal covers a whole segment from one node to the other.
type FullTraversal struct {
	StartNode int64   `json:"start_node"`
	EndNode   int64   `json:"end_node"`
	LengthM   float64 `json:"length_metres"`
}

func (PartialTraversal) step() {}
func (FullTraversal) step()    {}

// Length returns the distance covered by the partial traversal, independent
// of travel direction along the segment.
func (p PartialTraversal) Length() float64 {
	d := p.EndDistanceM - p.StartDistanceM
	if d < 0 {
		return -d
	}
	return d
}
