package network

import (
	"math"

	"github.com/paulmach/orb"
	geom "github.com/twpayne/go-geom"

	"github.com/minimav/running-app/internal/geo"
)

// consolidateIntersections merges nodes closer than toleranceM metres into a
// single node at their centroid, then rebuilds edges against the merged
// topology. Complex junctions mapped as several OSM nodes collapse to one
// intersection this way. Edges joining two nodes of the same cluster are
// artifacts of the merge and are removed; pre-existing self-loops survive.
func consolidateIntersections(net *RawNetwork, toleranceM float64) *RawNetwork {
	if net.Empty() || toleranceM <= 0 {
		return net
	}

	proj := geo.NewProjection(nodeCentroid(net.Nodes))
	plane := make(map[int64]orb.Point, len(net.Nodes))
	for id, n := range net.Nodes {
		plane[id] = proj.ToPlane(orb.Point{n.Lng, n.Lat})
	}

	// Bucket nodes into tolerance-sized cells so only neighbouring cells
	// need pairwise checks.
	type cell struct{ x, y int }
	grid := make(map[cell][]int64)
	cellOf := func(p orb.Point) cell {
		return cell{int(math.Floor(p[0] / toleranceM)), int(math.Floor(p[1] / toleranceM))}
	}
	for id, p := range plane {
		c := cellOf(p)
		grid[c] = append(grid[c], id)
	}

	dsu := newDisjointSet(net.Nodes)
	for id, p := range plane {
		c := cellOf(p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, other := range grid[cell{c.x + dx, c.y + dy}] {
					if other == id {
						continue
					}
					if geo.PlaneDistance(p, plane[other]) <= toleranceM {
						dsu.union(id, other)
					}
				}
			}
		}
	}

	// Each cluster keeps its smallest member id and moves to the cluster
	// centroid.
	members := make(map[int64][]int64)
	for id := range net.Nodes {
		root := dsu.find(id)
		members[root] = append(members[root], id)
	}
	remap := make(map[int64]int64, len(net.Nodes))
	nodes := make(map[int64]RawNode, len(members))
	for _, ids := range members {
		newID := ids[0]
		sum := orb.Point{}
		for _, id := range ids {
			if id < newID {
				newID = id
			}
			p := plane[id]
			sum[0] += p[0]
			sum[1] += p[1]
		}
		pos := proj.ToGeographic(orb.Point{sum[0] / float64(len(ids)), sum[1] / float64(len(ids))})
		nodes[newID] = RawNode{ID: newID, Lat: pos[1], Lng: pos[0]}
		for _, id := range ids {
			remap[id] = newID
		}
	}

	edges := make([]RawEdge, 0, len(net.Edges))
	for _, e := range net.Edges {
		from, to := remap[e.From], remap[e.To]
		if from == to && e.From != e.To {
			continue
		}
		coords := snapEndpoints(e.Coords, nodes[from], nodes[to])
		edges = append(edges, RawEdge{
			WayIDs:  e.WayIDs,
			From:    from,
			To:      to,
			LengthM: geo.LineLengthMeters(coords),
			Coords:  coords,
			Highway: e.Highway,
			Ref:     e.Ref,
		})
	}
	return &RawNetwork{Nodes: nodes, Edges: edges}
}

// snapEndpoints pins a copied coordinate list to the (possibly moved) node
// positions so edge geometry still starts and ends exactly on its nodes.
func snapEndpoints(coords []geom.Coord, from, to RawNode) []geom.Coord {
	out := make([]geom.Coord, len(coords))
	copy(out, coords)
	if len(out) > 0 {
		out[0] = geom.Coord{from.Lng, from.Lat}
		out[len(out)-1] = geom.Coord{to.Lng, to.Lat}
	}
	return out
}

func nodeCentroid(nodes map[int64]RawNode) orb.Point {
	if len(nodes) == 0 {
		return orb.Point{}
	}
	sum := orb.Point{}
	for _, n := range nodes {
		sum[0] += n.Lng
		sum[1] += n.Lat
	}
	return orb.Point{sum[0] / float64(len(nodes)), sum[1] / float64(len(nodes))}
}

type disjointSet struct {
	parent map[int64]int64
}

func newDisjointSet(nodes map[int64]RawNode) *disjointSet {
	parent := make(map[int64]int64, len(nodes))
	for id := range nodes {
		parent[id] = id
	}
	return &disjointSet{parent: parent}
}

func (d *disjointSet) find(id int64) int64 {
	root := id
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[id] != root {
		d.parent[id], id = root, d.parent[id]
	}
	return root
}

func (d *disjointSet) union(a, b int64) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
}
