package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/middleware"
)

func AreaRoutes(r *gin.Engine) {
	area := r.Group("/")
	area.Use(middleware.RequireAuth())
	{
		area.POST("/create_run_area", controllers.CreateRunArea)
		area.POST("/remove_run_area", controllers.RemoveRunArea)
		area.POST("/set_active_area", controllers.SetActiveArea)
		area.GET("/current_user_areas", controllers.CurrentUserAreas)
		area.GET("/geometry", controllers.ActiveAreaGeometry)

		area.POST("/sub_run_area", controllers.SubRunArea)
		area.GET("/sub_run_areas", controllers.SubRunAreas)
		area.POST("/insert_sub_run_area", controllers.InsertSubRunArea)
		area.POST("/remove_sub_run_area", controllers.RemoveSubRunArea)
	}
}
