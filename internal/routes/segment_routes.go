package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/middleware"
)

func SegmentRoutes(r *gin.Engine) {
	segment := r.Group("/")
	segment.Use(middleware.RequireAuth())
	{
		segment.GET("/currently_ignored_segments", controllers.CurrentlyIgnoredSegments)
		segment.POST("/update_ignored_segments", controllers.UpdateIgnoredSegments)
	}
}
