package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/middleware"
)

func RoutingRoutes(r *gin.Engine) {
	routing := r.Group("/")
	routing.Use(middleware.RequireAuth())
	{
		routing.POST("/route", controllers.Route)
	}
}
