package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/middleware"
)

func StatsRoutes(r *gin.Engine) {
	stats := r.Group("/")
	stats.Use(middleware.RequireAuth())
	{
		stats.GET("/runs", controllers.Runs)
		stats.GET("/runs_for_animation", controllers.RunsForAnimation)
		stats.GET("/first_seen", controllers.FirstSeen)
		stats.GET("/traversals", controllers.Traversals)
		stats.GET("/run_linestrings", controllers.RunLinestrings)
	}
}
