package cache

import (
	"sync"

	"github.com/minimav/running-app/internal/network"
)

// GraphCache keeps deserialized routable graphs in memory so routing
// requests skip the artifact decode. Entries are keyed per user and area
// and dropped when an area is rebuilt or removed.
type GraphCache struct {
	mu     sync.RWMutex
	graphs map[string]*network.Graph
}

func New() *GraphCache {
	return &GraphCache{graphs: make(map[string]*network.Graph)}
}

func cacheKey(username, areaName string) string {
	return username + "/" + areaName
}

func (c *GraphCache) Get(username, areaName string) (*network.Graph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.graphs[cacheKey(username, areaName)]
	return g, ok
}

func (c *GraphCache) Put(username, areaName string, g *network.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs[cacheKey(username, areaName)] = g
}

func (c *GraphCache) Invalidate(username, areaName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.graphs, cacheKey(username, areaName))
}
