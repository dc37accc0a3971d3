package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"

	"github.com/minimav/running-app/internal/cache"
	"github.com/minimav/running-app/internal/middleware"
	"github.com/minimav/running-app/internal/models"
	"github.com/minimav/running-app/internal/network"
	"github.com/minimav/running-app/internal/store"
)

var (
	db     *store.Store
	graphs = cache.New()
)

// Setup wires the controllers to the backing store. Called once from main
// after the database connection is initialized.
func Setup(s *store.Store) {
	db = s
}

// activeArea resolves the caller's active run area, writing the error
// response itself when there is none.
func activeArea(c *gin.Context) (*models.RunArea, bool) {
	username := middleware.Username(c)
	area, err := db.ActiveArea(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusConflict, gin.H{"error": "no active run area; create one first"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return area, true
}

// latLngPolygon closes the drawn coordinates into an orb polygon in
// (lat, lng) order. Area polygons are stored in WKT with latitude first,
// the order the map frontend draws and reloads them.
func latLngPolygon(points []models.LatLng) orb.Polygon {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.Lat, p.Lng})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// lngLatPolygon builds the (x, y) polygon the network fetcher expects.
func lngLatPolygon(points []models.LatLng) *geom.Polygon {
	coords := make([]geom.Coord, 0, len(points)+1)
	for _, p := range points {
		coords = append(coords, geom.Coord{p.Lng, p.Lat})
	}
	if len(coords) > 0 {
		first, last := coords[0], coords[len(coords)-1]
		if first[0] != last[0] || first[1] != last[1] {
			coords = append(coords, first)
		}
	}
	polygon := geom.NewPolygon(geom.XY)
	polygon.MustSetCoords([][]geom.Coord{coords})
	return polygon
}

// loadRoutingGraph returns the deserialized graph for the area, decoding
// the stored artifact on first use and caching it. The ignored-segment
// filter is applied per request so the cached graph stays complete.
func loadRoutingGraph(area *models.RunArea, respectIgnored bool) (*network.Graph, error) {
	graph, ok := graphs.Get(area.Username, area.AreaName)
	if !ok {
		data, err := db.GraphArtifact(area.Username, area.AreaName)
		if err != nil {
			return nil, err
		}
		graph, err = network.UnmarshalGraph(data)
		if err != nil {
			return nil, errors.Wrap(err, "could not decode stored graph")
		}
		graphs.Put(area.Username, area.AreaName, graph)
	}
	if !respectIgnored {
		return graph, nil
	}
	ignored, err := db.IgnoredSegments(area.Username, area.AreaName)
	if err != nil {
		return nil, err
	}
	if len(ignored) == 0 {
		return graph, nil
	}
	return graph.WithoutSegments(ignored), nil
}
