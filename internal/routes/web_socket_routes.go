package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine) {
	// Token auth happens inside the handler since websocket dials cannot
	// carry headers from the browser.
	ws := r.Group("/ws")
	{
		ws.GET("/build_status", controllers.HandleBuildStatusWebSocket)
	}
}
