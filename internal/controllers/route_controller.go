package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/minimav/running-app/internal/models"
	"github.com/minimav/running-app/internal/routing"
	"github.com/minimav/running-app/internal/store"
)

var router = routing.NewRouter()

// Route computes the shortest route between two snapped points on the active
// area's network. An unreachable pair yields an empty route, not an error.
// Ignored segments are excluded unless the request opts out.
func Route(c *gin.Context) {
	var input models.RouteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}

	respectIgnored := input.RespectIgnored == nil || *input.RespectIgnored
	graph, err := loadRoutingGraph(area, respectIgnored)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no routable network for the active run area yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	from := routing.SnappedPoint{
		SegmentID: input.FromSegmentID,
		StartNode: input.FromStartNode,
		EndNode:   input.FromEndNode,
		DistanceM: input.FromDistanceM,
	}
	to := routing.SnappedPoint{
		SegmentID: input.ToSegmentID,
		StartNode: input.ToStartNode,
		EndNode:   input.ToEndNode,
		DistanceM: input.ToDistanceM,
	}
	steps, err := router.Route(graph, from, to)
	if err != nil {
		if errors.Is(err, routing.ErrUnknownSegment) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": steps})
}
