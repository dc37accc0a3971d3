package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/middleware"
)

func RunRoutes(r *gin.Engine) {
	run := r.Group("/")
	run.Use(middleware.RequireAuth())
	{
		run.POST("/store_run", controllers.StoreRun)
		run.GET("/exists_run", controllers.ExistsRun)
		run.GET("/delete_run", controllers.DeleteRun)
		run.POST("/upload_run", controllers.UploadRun)
	}
}
