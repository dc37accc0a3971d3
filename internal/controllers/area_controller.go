package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/minimav/running-app/internal/config"
	"github.com/minimav/running-app/internal/middleware"
	"github.com/minimav/running-app/internal/models"
	"github.com/minimav/running-app/internal/network"
	"github.com/minimav/running-app/internal/osm"
	"github.com/minimav/running-app/internal/store"
)

// networkBuildTimeout bounds one Overpass fetch plus graph assembly.
const networkBuildTimeout = 5 * time.Minute

// CreateRunArea registers a new area and kicks off the network build in the
// background. The response is immediate; build progress is pushed over the
// build-status websocket and the area only shows up in CurrentUserAreas once
// its artifacts exist.
func CreateRunArea(c *gin.Context) {
	var input models.RunAreaGeometry
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Geometry) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run area polygon needs at least three points"})
		return
	}
	username := middleware.Username(c)

	hasActive := true
	if _, err := db.ActiveArea(username); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		hasActive = false
	}

	polygonWKT := wkt.MarshalString(latLngPolygon(input.Geometry))
	if err := db.CreateRunArea(username, input.AreaName, polygonWKT); err != nil {
		if errors.Is(err, store.ErrAreaExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "run area already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The area becomes active once built, unless the user already has one.
	go buildRunArea(username, input, !hasActive)

	c.JSON(http.StatusAccepted, gin.H{"message": "Retrieving graph and geometry"})
}

// buildRunArea fetches the road network for the drawn polygon, builds the
// routable graph and its geometry, and stores both as area artifacts.
func buildRunArea(username string, input models.RunAreaGeometry, activate bool) {
	ctx, cancel := context.WithTimeout(context.Background(), networkBuildTimeout)
	defer cancel()

	fields := log.Fields{"username": username, "area_name": input.AreaName}
	log.WithFields(fields).Info("retrieving road network for run area")
	hub.NotifyBuildStatus(username, input.AreaName, "building")

	client := osm.NewClient(config.OverpassURL())
	raw, err := client.FetchRoadNetwork(ctx, lngLatPolygon(input.Geometry))
	if err != nil {
		log.WithFields(fields).WithError(err).Error("could not retrieve road network")
		hub.NotifyBuildStatus(username, input.AreaName, "failed")
		return
	}

	graph, geometry, err := network.Build(raw, network.DefaultBuildOptions())
	if err != nil {
		log.WithFields(fields).WithError(err).Error("could not build run area network")
		hub.NotifyBuildStatus(username, input.AreaName, "failed")
		return
	}

	graphBlob, err := json.Marshal(graph)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("could not encode graph artifact")
		hub.NotifyBuildStatus(username, input.AreaName, "failed")
		return
	}
	geometryBlob, err := json.Marshal(geometry)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("could not encode geometry artifact")
		hub.NotifyBuildStatus(username, input.AreaName, "failed")
		return
	}

	if err := db.SaveArtifacts(username, input.AreaName, graphBlob, geometryBlob); err != nil {
		// The area may have been removed while the build ran.
		log.WithFields(fields).WithError(err).Error("could not save network artifacts")
		hub.NotifyBuildStatus(username, input.AreaName, "failed")
		return
	}
	if activate {
		if err := db.SetActiveArea(username, input.AreaName); err != nil {
			log.WithFields(fields).WithError(err).Error("could not activate built run area")
		}
	}
	graphs.Invalidate(username, input.AreaName)
	log.WithFields(fields).WithFields(log.Fields{
		"nodes":    graph.NumNodes(),
		"segments": graph.NumSegments(),
	}).Info("run area network ready")
	hub.NotifyBuildStatus(username, input.AreaName, "complete")
}

// CurrentUserAreas lists the caller's areas whose network build has
// completed.
func CurrentUserAreas(c *gin.Context) {
	areas, err := db.AreasForUser(middleware.Username(c), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, areas)
}

// SetActiveArea switches which of the caller's areas is active.
func SetActiveArea(c *gin.Context) {
	var input models.RunAreaName
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := db.SetActiveArea(middleware.Username(c), input.AreaName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveRunArea deletes an area with its runs, sub areas and ignored
// segments.
func RemoveRunArea(c *gin.Context) {
	var input models.RunAreaName
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := middleware.Username(c)
	if err := db.RemoveRunArea(username, input.AreaName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	graphs.Invalidate(username, input.AreaName)
	c.Status(http.StatusNoContent)
}

// ActiveAreaGeometry serves the stored geometry artifact of the active area.
// The artifact is already JSON so it goes out as is.
func ActiveAreaGeometry(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	blob, err := db.GeometryArtifact(area.Username, area.AreaName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no geometry for the active run area yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", blob)
}

// SubRunArea returns all data about one sub area of the active area.
func SubRunArea(c *gin.Context) {
	var input models.SubRunAreaName
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}
	sub, err := db.SubRunArea(area.Username, area.AreaName, input.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sub run area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// SubRunAreas lists the sub areas of the active area.
func SubRunAreas(c *gin.Context) {
	area, ok := activeArea(c)
	if !ok {
		return
	}
	subs, err := db.SubRunAreas(area.Username, area.AreaName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// InsertSubRunArea stores a drawn sub area polygon inside the active area.
func InsertSubRunArea(c *gin.Context) {
	var input models.SubRunAreaGeometry
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Geometry) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sub run area polygon needs at least three points"})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}
	polygonWKT := wkt.MarshalString(latLngPolygon(input.Geometry))
	err := db.CreateSubRunArea(area.Username, area.AreaName, input.SubAreaName, polygonWKT)
	if err != nil {
		if errors.Is(err, store.ErrSubAreaExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "sub run area already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveSubRunArea deletes one sub area of the active area.
func RemoveSubRunArea(c *gin.Context) {
	var input struct {
		SubAreaName string `json:"sub_area_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, ok := activeArea(c)
	if !ok {
		return
	}
	err := db.RemoveSubRunArea(area.Username, area.AreaName, input.SubAreaName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sub run area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
