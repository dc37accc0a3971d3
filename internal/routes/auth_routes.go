package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	r.POST("/register", controllers.SignupUser)
	r.POST("/login", controllers.LoginUser)
	r.GET("/logout", controllers.LogoutUser)

	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/current_username", controllers.CurrentUsername)
	}
}
