package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/minimav/running-app/internal/middleware"
	"github.com/minimav/running-app/internal/models"
	"github.com/minimav/running-app/internal/store"
)

// StoreRun logs a run against the active area. By default a date can hold
// only one run; the payload's allow_multiple flag lifts that.
func StoreRun(c *gin.Context) {
	var input models.StoreRunInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}
	runID, err := db.StoreRun(area.Username, area.AreaName, input)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRunExists):
			reason := fmt.Sprintf(
				"Run already exists for %s, and `allow_multiple`=False: new segments will not be added.",
				input.Date,
			)
			c.JSON(http.StatusConflict, gin.H{"reason": reason})
		case errors.Is(err, store.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": runID})
}

// ExistsRun reports whether a run is already stored for the given date in
// the active area. The body is the bare boolean.
func ExistsRun(c *gin.Context) {
	date := c.Query("date")
	if err := models.ValidateDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}
	exists, err := db.RunExistsOnDate(area.Username, area.AreaName, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, exists)
}

// DeleteRun removes a single run by id, or every run on a date in the
// active area when only a date is given.
func DeleteRun(c *gin.Context) {
	id := c.Query("id")
	date := c.Query("date")
	switch {
	case id != "":
		if err := db.DeleteRun(middleware.Username(c), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	case date != "":
		area, ok := activeArea(c)
		if !ok {
			return
		}
		if _, err := db.DeleteRunsOnDate(area.Username, area.AreaName, date); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "`id` or `date` must be a query argument"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
