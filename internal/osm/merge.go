package osm

import geom "github.com/twpayne/go-geom"

// mergeChains joins edges that meet at interstitial nodes, nodes with exactly
// two incident edges, into single edges spanning several ways. A street that
// continues under a new way id stops fragmenting the network this way. Edges
// merge only when road class, ref and oneway-ness agree, and a oneway edge is
// never flipped against its travel direction.
func mergeChains(edges []chainEdge) []chainEdge {
	incident := make(map[int64][]int)
	for i, e := range edges {
		incident[e.from] = append(incident[e.from], i)
		if e.to != e.from {
			incident[e.to] = append(incident[e.to], i)
		}
	}
	interstitial := func(node int64) bool { return len(incident[node]) == 2 }
	otherAt := func(node int64, not int) int {
		for _, idx := range incident[node] {
			if idx != not {
				return idx
			}
		}
		return -1
	}
	compatible := func(a, b chainEdge) bool {
		return a.highway == b.highway && a.ref == b.ref && a.oneway == b.oneway
	}

	visited := make([]bool, len(edges))
	out := make([]chainEdge, 0, len(edges))
	for i := range edges {
		if visited[i] {
			continue
		}
		visited[i] = true
		e := edges[i]
		cur := chainEdge{
			wayIDs:  append([]int64(nil), e.wayIDs...),
			from:    e.from,
			to:      e.to,
			coords:  append([]geom.Coord(nil), e.coords...),
			highway: e.highway,
			ref:     e.ref,
			oneway:  e.oneway,
		}
		if cur.from == cur.to {
			out = append(out, cur)
			continue
		}

		last := i
		for interstitial(cur.to) && cur.to != cur.from {
			nextIdx := otherAt(cur.to, last)
			if nextIdx < 0 || visited[nextIdx] {
				break
			}
			next := edges[nextIdx]
			if next.from == next.to || !compatible(cur, next) {
				break
			}
			flip := next.from != cur.to
			if flip && next.oneway {
				break
			}
			visited[nextIdx] = true
			coords := next.coords
			end := next.to
			if flip {
				coords = reverseCoords(coords)
				end = next.from
			}
			cur.coords = append(cur.coords, coords[1:]...)
			if id := next.wayIDs[0]; id != cur.wayIDs[len(cur.wayIDs)-1] {
				cur.wayIDs = append(cur.wayIDs, id)
			}
			cur.to = end
			last = nextIdx
		}

		first := i
		for interstitial(cur.from) && cur.from != cur.to {
			prevIdx := otherAt(cur.from, first)
			if prevIdx < 0 || visited[prevIdx] {
				break
			}
			prev := edges[prevIdx]
			if prev.from == prev.to || !compatible(cur, prev) {
				break
			}
			flip := prev.to != cur.from
			if flip && prev.oneway {
				break
			}
			visited[prevIdx] = true
			coords := prev.coords
			start := prev.from
			if flip {
				coords = reverseCoords(coords)
				start = prev.to
			}
			cur.coords = append(append([]geom.Coord{}, coords[:len(coords)-1]...), cur.coords...)
			if id := prev.wayIDs[0]; id != cur.wayIDs[0] {
				cur.wayIDs = append([]int64{id}, cur.wayIDs...)
			}
			cur.from = start
			first = prevIdx
		}

		out = append(out, cur)
	}
	return out
}
