package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/models"
)

// CurrentlyIgnoredSegments lists the segment ids excluded from plotting and
// stats in the active area. The body is the bare id array.
func CurrentlyIgnoredSegments(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	ids, err := db.IgnoredSegments(area.Username, area.AreaName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ids)
}

// UpdateIgnoredSegments toggles the ignored state of each submitted segment
// id: ignored ones become unignored and vice versa.
func UpdateIgnoredSegments(c *gin.Context) {
	var input models.SegmentList
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}
	if _, err := db.ToggleIgnoredSegments(area.Username, area.AreaName, input.SegmentIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
