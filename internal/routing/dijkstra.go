package routing

import (
	"container/heap"

	"github.com/minimav/running-app/internal/network"
)

type pqItem struct {
	node     int64
	priority float64
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

// shortestPath runs Dijkstra over segment lengths and returns the node
// sequence from source to target with its total length. Parallel segments
// between a node pair are relaxed individually, so the cheapest one wins.
func shortestPath(g *network.Graph, source, target int64) ([]int64, float64, bool) {
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil, 0, false
	}
	if source == target {
		return []int64{source}, 0, true
	}

	dist := map[int64]float64{source: 0}
	cameFrom := make(map[int64]int64)
	visited := make(map[int64]bool)

	pq := &priorityQueue{{node: source}}
	heap.Init(pq)
	for pq.Len() > 0 {
		current := heap.Pop(pq).(*pqItem)
		if visited[current.node] {
			continue
		}
		visited[current.node] = true
		if current.node == target {
			break
		}
		for _, seg := range g.Adjacent(current.node) {
			next := seg.EndNode
			if next == current.node {
				next = seg.StartNode
			}
			if visited[next] {
				continue
			}
			tentative := dist[current.node] + seg.LengthM
			if old, ok := dist[next]; !ok || tentative < old {
				dist[next] = tentative
				cameFrom[next] = current.node
				heap.Push(pq, &pqItem{node: next, priority: tentative})
			}
		}
	}
	if !visited[target] {
		return nil, 0, false
	}

	path := []int64{target}
	for node := target; node != source; {
		node = cameFrom[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[target], true
}

// cheapestSegmentBetween picks the shortest of the parallel segments joining
// two nodes.
func cheapestSegmentBetween(g *network.Graph, u, v int64) *network.Segment {
	var best *network.Segment
	for _, s := range g.SegmentsBetween(u, v) {
		if best == nil || s.LengthM < best.LengthM {
			best = s
		}
	}
	return best
}
