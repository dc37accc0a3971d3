package main

import (
	"log"
	"net/http"

	"github.com/minimav/running-app/internal/config"
	"github.com/minimav/running-app/internal/controllers"
	"github.com/minimav/running-app/internal/logger"
	"github.com/minimav/running-app/internal/middleware"
	"github.com/minimav/running-app/internal/routes"
	"github.com/minimav/running-app/internal/store"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()
	controllers.Setup(store.New(config.GetDB()))

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS for the map frontend dev server
	handler := middleware.EnableCORS(r)

	addr := config.ListenAddr()
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
