package routes

import (
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires every endpoint onto a fresh engine. The caller decides
// how to serve it.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(logger.SetLogger())
	r.Use(gin.Recovery())

	AuthRoutes(r)
	AreaRoutes(r)
	RunRoutes(r)
	StatsRoutes(r)
	SegmentRoutes(r)
	RoutingRoutes(r)
	WebSocketRoutes(r)

	return r
}
