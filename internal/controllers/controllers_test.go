package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/minimav/running-app/internal/middleware"
	"github.com/minimav/running-app/internal/models"
	"github.com/minimav/running-app/internal/store"
)

// newTestApp points the handlers at a throwaway database and returns an
// engine exposing the same endpoints the server registers.
func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.User{},
		&models.RunArea{},
		&models.SubRunArea{},
		&models.LoggedRun{},
		&models.SegmentTraversal{},
		&models.IgnoredSegment{},
	)
	if err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	Setup(store.New(gdb))

	r := gin.New()
	r.POST("/register", SignupUser)
	r.POST("/login", LoginUser)
	r.GET("/logout", LogoutUser)

	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/current_username", CurrentUsername)
		authed.POST("/create_run_area", CreateRunArea)
		authed.POST("/remove_run_area", RemoveRunArea)
		authed.POST("/set_active_area", SetActiveArea)
		authed.GET("/current_user_areas", CurrentUserAreas)
		authed.GET("/geometry", ActiveAreaGeometry)
		authed.POST("/sub_run_area", SubRunArea)
		authed.GET("/sub_run_areas", SubRunAreas)
		authed.POST("/insert_sub_run_area", InsertSubRunArea)
		authed.POST("/remove_sub_run_area", RemoveSubRunArea)
		authed.POST("/store_run", StoreRun)
		authed.GET("/exists_run", ExistsRun)
		authed.GET("/delete_run", DeleteRun)
		authed.POST("/upload_run", UploadRun)
		authed.GET("/runs", Runs)
		authed.GET("/runs_for_animation", RunsForAnimation)
		authed.GET("/first_seen", FirstSeen)
		authed.GET("/traversals", Traversals)
		authed.GET("/run_linestrings", RunLinestrings)
		authed.GET("/currently_ignored_segments", CurrentlyIgnoredSegments)
		authed.POST("/update_ignored_segments", UpdateIgnoredSegments)
		authed.POST("/route", Route)
	}
	r.GET("/ws/build_status", HandleBuildStatusWebSocket)
	return r
}

func authToken(t *testing.T, username string) string {
	t.Helper()
	token, err := middleware.GenerateToken(username)
	if err != nil {
		t.Fatalf("could not generate token: %v", err)
	}
	return token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("could not encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("could not decode response %q: %v", w.Body.String(), err)
	}
}

// seedActiveArea creates an area directly in the store and makes it active,
// skipping the background network build.
func seedActiveArea(t *testing.T, username, areaName string) {
	t.Helper()
	if err := db.CreateRunArea(username, areaName, "POLYGON((0 0,0 1,1 1,1 0,0 0))"); err != nil {
		t.Fatalf("could not seed area: %v", err)
	}
	if err := db.SetActiveArea(username, areaName); err != nil {
		t.Fatalf("could not activate area: %v", err)
	}
}
