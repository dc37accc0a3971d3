package osm

import (
	"github.com/paulmach/osm"
	geom "github.com/twpayne/go-geom"

	"github.com/minimav/running-app/internal/geo"
	"github.com/minimav/running-app/internal/network"
)

// chainEdge is a run of way nodes between two junctions, single way, not yet
// merged or direction-expanded.
type chainEdge struct {
	wayIDs  []int64
	from    int64
	to      int64
	coords  []geom.Coord
	highway string
	ref     string
	oneway  bool
}

type preparedWay struct {
	id      int64
	nodes   osm.WayNodes
	highway string
	ref     string
	oneway  bool
}

// BuildRawNetwork turns an Overpass response into the raw directed network
// the builder consumes. Ways are split at junction nodes, runs of degree-two
// nodes are merged back into single edges carrying every contributing way
// id, and two-way roads are expanded into an edge per direction.
func BuildRawNetwork(doc *osm.OSM) *network.RawNetwork {
	nodes := make(map[osm.NodeID]*osm.Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nodes[n.ID] = n
	}

	ways := prepareWays(doc, nodes)

	// Nodes used twice across the kept ways are junctions; way endpoints
	// count double so isolated way ends survive as graph nodes.
	useCount := make(map[osm.NodeID]int)
	for _, w := range ways {
		for i, wn := range w.nodes {
			if i == 0 || i == len(w.nodes)-1 {
				useCount[wn.ID] += 2
			} else {
				useCount[wn.ID]++
			}
		}
	}

	chains := splitWays(ways, nodes, useCount)
	chains = mergeChains(chains)

	raw := network.NewRawNetwork()
	for _, c := range chains {
		keep := func(id int64) {
			if _, ok := raw.Nodes[id]; !ok {
				n := nodes[osm.NodeID(id)]
				raw.Nodes[id] = network.RawNode{ID: id, Lat: n.Lat, Lng: n.Lon}
			}
		}
		keep(c.from)
		keep(c.to)

		length := geo.LineLengthMeters(c.coords)
		raw.Edges = append(raw.Edges, network.RawEdge{
			WayIDs:  c.wayIDs,
			From:    c.from,
			To:      c.to,
			LengthM: length,
			Coords:  c.coords,
			Highway: c.highway,
			Ref:     c.ref,
		})
		if !c.oneway {
			raw.Edges = append(raw.Edges, network.RawEdge{
				WayIDs:  c.wayIDs,
				From:    c.to,
				To:      c.from,
				LengthM: length,
				Coords:  reverseCoords(c.coords),
				Highway: c.highway,
				Ref:     c.ref,
			})
		}
	}
	return raw
}

// prepareWays keeps routable ways whose nodes are all present, normalizing
// reversed oneway tagging so traversal order always matches the node order.
func prepareWays(doc *osm.OSM, nodes map[osm.NodeID]*osm.Node) []preparedWay {
	var out []preparedWay
	for _, w := range doc.Ways {
		if len(w.Nodes) < 2 {
			continue
		}
		highway := w.Tags.Find("highway")
		if !routableHighway(highway) || w.Tags.Find("area") == "yes" {
			continue
		}
		complete := true
		for _, wn := range w.Nodes {
			if _, ok := nodes[wn.ID]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		p := preparedWay{
			id:      int64(w.ID),
			nodes:   make(osm.WayNodes, len(w.Nodes)),
			highway: highway,
			ref:     w.Tags.Find("ref"),
		}
		copy(p.nodes, w.Nodes)
		switch w.Tags.Find("oneway") {
		case "yes", "true", "1":
			p.oneway = true
		case "-1", "reverse":
			p.oneway = true
			for i, j := 0, len(p.nodes)-1; i < j; i, j = i+1, j-1 {
				p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i]
			}
		}
		out = append(out, p)
	}
	return out
}

// splitWays cuts each way at junction nodes, accumulating geometry between
// cuts.
func splitWays(ways []preparedWay, nodes map[osm.NodeID]*osm.Node, useCount map[osm.NodeID]int) []chainEdge {
	var out []chainEdge
	for _, w := range ways {
		var source osm.NodeID
		var coords []geom.Coord
		for i, wn := range w.nodes {
			n := nodes[wn.ID]
			coords = append(coords, geom.Coord{n.Lon, n.Lat})
			if i == 0 {
				source = wn.ID
				continue
			}
			if useCount[wn.ID] > 1 || i == len(w.nodes)-1 {
				out = append(out, chainEdge{
					wayIDs:  []int64{w.id},
					from:    int64(source),
					to:      int64(wn.ID),
					coords:  coords,
					highway: w.highway,
					ref:     w.ref,
					oneway:  w.oneway,
				})
				source = wn.ID
				coords = []geom.Coord{{n.Lon, n.Lat}}
			}
		}
	}
	return out
}

func reverseCoords(coords []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}
