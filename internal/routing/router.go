package routing

import (
	"github.com/pkg/errors"

	"github.com/minimav/running-app/internal/network"
)

// DefaultAtEndThreshold is the proportion of a segment beyond which a
// snapped point counts as sitting at the segment's far end.
const DefaultAtEndThreshold = 0.95

// ErrUnknownSegment reports a snapped point referencing a segment the
// routing graph does not contain, usually because it was filtered out.
var ErrUnknownSegment = errors.New("segment not in routing graph")

// Router computes shortest running routes between two snapped points.
type Router struct {
	AtEndThreshold float64
}

func NewRouter() *Router {
	return &Router{AtEndThreshold: DefaultAtEndThreshold}
}

func (r *Router) atEnd(distance, length float64) bool {
	return distance > r.AtEndThreshold*length
}

// Route returns the cheapest sequence of traversals from one snapped point
// to another. Both points lying on one segment yield a single partial
// traversal; points on segments sharing a node yield two; otherwise the
// route runs partial, zero or more full traversals along the shortest node
// path, then partial. An empty sequence means the points are not connected.
func (r *Router) Route(g *network.Graph, from, to SnappedPoint) ([]Step, error) {
	fromSeg := g.SegmentByID(from.SegmentID)
	if fromSeg == nil {
		return nil, errors.Wrapf(ErrUnknownSegment, "from segment %q", from.SegmentID)
	}
	if from.SegmentID == to.SegmentID {
		return []Step{PartialTraversal{
			SegmentID:      from.SegmentID,
			StartDistanceM: from.DistanceM,
			EndDistanceM:   to.DistanceM,
			StartsAtEnd:    r.atEnd(from.DistanceM, fromSeg.LengthM),
			EndsAtEnd:      r.atEnd(to.DistanceM, fromSeg.LengthM),
		}}, nil
	}
	toSeg := g.SegmentByID(to.SegmentID)
	if toSeg == nil {
		return nil, errors.Wrapf(ErrUnknownSegment, "to segment %q", to.SegmentID)
	}

	if shared, ok := sharedNode(from, to); ok {
		return r.routeViaSharedNode(from, to, fromSeg, toSeg, shared), nil
	}
	return r.routeAcrossGraph(g, from, to, fromSeg, toSeg), nil
}

// sharedNode returns a node common to both segments, preferring the end node
// of the first segment so the runner exits forwards when both ends touch.
func sharedNode(from, to SnappedPoint) (int64, bool) {
	for _, candidate := range []int64{from.EndNode, from.StartNode} {
		if candidate == to.StartNode || candidate == to.EndNode {
			return candidate, true
		}
	}
	return 0, false
}

func (r *Router) routeViaSharedNode(from, to SnappedPoint, fromSeg, toSeg *network.Segment, shared int64) []Step {
	var fromPart PartialTraversal
	if shared == from.EndNode {
		fromPart = PartialTraversal{
			SegmentID:      from.SegmentID,
			StartDistanceM: from.DistanceM,
			EndDistanceM:   fromSeg.LengthM,
			EndsAtEnd:      true,
		}
	} else {
		fromPart = PartialTraversal{
			SegmentID:      from.SegmentID,
			StartDistanceM: from.DistanceM,
			EndDistanceM:   0,
		}
	}

	var toPart PartialTraversal
	if shared == to.StartNode {
		toPart = PartialTraversal{
			SegmentID:      to.SegmentID,
			StartDistanceM: 0,
			EndDistanceM:   to.DistanceM,
			EndsAtEnd:      r.atEnd(to.DistanceM, toSeg.LengthM),
		}
	} else {
		toPart = PartialTraversal{
			SegmentID:      to.SegmentID,
			StartDistanceM: toSeg.LengthM,
			EndDistanceM:   to.DistanceM,
			StartsAtEnd:    true,
		}
	}
	return []Step{fromPart, toPart}
}

// routeAcrossGraph tries all four exit/entry endpoint combinations and keeps
// the first candidate with the lowest combined length.
func (r *Router) routeAcrossGraph(g *network.Graph, from, to SnappedPoint, fromSeg, toSeg *network.Segment) []Step {
	exitViaStart := PartialTraversal{
		SegmentID:      from.SegmentID,
		StartDistanceM: from.DistanceM,
		EndDistanceM:   0,
	}
	exitViaEnd := PartialTraversal{
		SegmentID:      from.SegmentID,
		StartDistanceM: from.DistanceM,
		EndDistanceM:   fromSeg.LengthM,
		EndsAtEnd:      true,
	}
	enterViaStart := PartialTraversal{
		SegmentID:      to.SegmentID,
		StartDistanceM: 0,
		EndDistanceM:   to.DistanceM,
	}
	enterViaEnd := PartialTraversal{
		SegmentID:      to.SegmentID,
		StartDistanceM: toSeg.LengthM,
		EndDistanceM:   to.DistanceM,
	}

	type candidate struct {
		src, dst int64
		fromPart PartialTraversal
		toPart   PartialTraversal
	}
	candidates := []candidate{
		{from.StartNode, to.StartNode, exitViaStart, enterViaStart},
		{from.StartNode, to.EndNode, exitViaStart, enterViaEnd},
		{from.EndNode, to.StartNode, exitViaEnd, enterViaStart},
		{from.EndNode, to.EndNode, exitViaEnd, enterViaEnd},
	}

	best := []Step{}
	bestTotal := 0.0
	found := false
	for _, c := range candidates {
		path, pathLength, ok := shortestPath(g, c.src, c.dst)
		if !ok {
			continue
		}
		total := c.fromPart.Length() + c.toPart.Length() + pathLength
		if found && total >= bestTotal {
			continue
		}
		steps := []Step{c.fromPart}
		for i := 1; i < len(path); i++ {
			seg := cheapestSegmentBetween(g, path[i-1], path[i])
			steps = append(steps, FullTraversal{
				StartNode: path[i-1],
				EndNode:   path[i],
				LengthM:   seg.LengthM,
			})
		}
		steps = append(steps, c.toPart)
		best = steps
		bestTotal = total
		found = true
	}
	return best
}
