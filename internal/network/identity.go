package network

import (
	"strconv"
	"strings"
)

// normalizeWayIDs flattens a source way identity to a string key. Edges built
// from a single way keep its id; edges merged from a chain of ways join the
// ids with underscores in traversal order.
func normalizeWayIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "_")
}

// AssignSegmentIDs returns one segment identity per edge, in input order.
// Identities are the normalized way id plus a zero-based occurrence counter,
// so parallel edges and self-loops sharing a way stay distinguishable. The
// assignment depends only on the input order, making rebuilds stable.
func AssignSegmentIDs(edges []RawEdge) []string {
	seen := make(map[string]int)
	out := make([]string, len(edges))
	for i, e := range edges {
		key := normalizeWayIDs(e.WayIDs)
		out[i] = key + "_" + strconv.Itoa(seen[key])
		seen[key]++
	}
	return out
}
