package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minimav/running-app/internal/models"
)

const overpassFixture = `{
  "version": 0.6,
  "generator": "test",
  "elements": [
    {"type": "node", "id": 1, "lat": 51.5, "lon": -0.1},
    {"type": "node", "id": 2, "lat": 51.501, "lon": -0.099},
    {"type": "way", "id": 9, "nodes": [1, 2], "tags": {"highway": "residential"}}
  ]
}`

func stubOverpass(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(overpassFixture)); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv("OVERPASS_URL", srv.URL)
}

func waitForArtifacts(t *testing.T, username, areaName string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := db.GraphArtifact(username, areaName); err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("network build for %s/%s did not finish in time", username, areaName)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func testAreaGeometry() []models.LatLng {
	return []models.LatLng{
		{Lat: 51.49, Lng: -0.11},
		{Lat: 51.51, Lng: -0.11},
		{Lat: 51.51, Lng: -0.09},
		{Lat: 51.49, Lng: -0.09},
	}
}

func TestCreateRunAreaBuildsNetwork(t *testing.T) {
	stubOverpass(t)
	r := newTestApp(t)
	token := authToken(t, "builder")

	w := doJSON(t, r, http.MethodPost, "/create_run_area", token, models.RunAreaGeometry{
		AreaName: "leeds",
		Geometry: testAreaGeometry(),
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Retrieving graph and geometry") {
		t.Errorf("create body = %s", w.Body.String())
	}

	// The name is claimed synchronously, so a duplicate fails at once.
	w = doJSON(t, r, http.MethodPost, "/create_run_area", token, models.RunAreaGeometry{
		AreaName: "leeds",
		Geometry: testAreaGeometry(),
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", w.Code)
	}

	waitForArtifacts(t, "builder", "leeds")

	// The first built area becomes the active one.
	w = doJSON(t, r, http.MethodGet, "/current_user_areas", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current_user_areas status = %d", w.Code)
	}
	var areas []models.RunArea
	decodeBody(t, w, &areas)
	if len(areas) != 1 || areas[0].AreaName != "leeds" || !areas[0].Active {
		t.Fatalf("areas = %+v", areas)
	}
	if !strings.HasPrefix(areas[0].Polygon, "POLYGON((51.49 -0.11") {
		t.Errorf("polygon should be stored latitude first, got %s", areas[0].Polygon)
	}

	w = doJSON(t, r, http.MethodGet, "/geometry", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("geometry status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "FeatureCollection") {
		t.Errorf("geometry body = %s", w.Body.String())
	}
}

func TestCreateRunAreaRejectsDegeneratePolygon(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "builder2")

	w := doJSON(t, r, http.MethodPost, "/create_run_area", token, models.RunAreaGeometry{
		AreaName: "sliver",
		Geometry: []models.LatLng{{Lat: 51.49, Lng: -0.11}, {Lat: 51.51, Lng: -0.11}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("degenerate polygon status = %d, want 400", w.Code)
	}
}

func TestGeometryBeforeBuildCompletes(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "carol")
	seedActiveArea(t, "carol", "york")

	w := doJSON(t, r, http.MethodGet, "/geometry", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("geometry before build status = %d, want 404", w.Code)
	}
}

func TestSetActiveAreaEndpoint(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "dana")
	seedActiveArea(t, "dana", "aire valley")
	if err := db.CreateRunArea("dana", "wharfe valley", "POLYGON((0 0,0 1,1 1,1 0,0 0))"); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodPost, "/set_active_area", token, models.RunAreaName{AreaName: "wharfe valley"})
	if w.Code != http.StatusOK {
		t.Fatalf("set_active_area status = %d, body %s", w.Code, w.Body.String())
	}
	active, err := db.ActiveArea("dana")
	if err != nil || active.AreaName != "wharfe valley" {
		t.Fatalf("active area = %v, %v", active, err)
	}

	w = doJSON(t, r, http.MethodPost, "/set_active_area", token, models.RunAreaName{AreaName: "nowhere"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown area status = %d, want 404", w.Code)
	}
}

func TestRemoveRunAreaEndpoint(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "ed")
	seedActiveArea(t, "ed", "ilkley")
	if err := db.CreateRunArea("ed", "otley", "POLYGON((0 0,0 1,1 1,1 0,0 0))"); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodPost, "/remove_run_area", token, models.RunAreaName{AreaName: "ilkley"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d, body %s", w.Code, w.Body.String())
	}
	// The remaining area takes over as active.
	active, err := db.ActiveArea("ed")
	if err != nil || active.AreaName != "otley" {
		t.Fatalf("active area after removal = %v, %v", active, err)
	}

	w = doJSON(t, r, http.MethodPost, "/remove_run_area", token, models.RunAreaName{AreaName: "ilkley"})
	if w.Code != http.StatusNotFound {
		t.Errorf("remove again status = %d, want 404", w.Code)
	}
}

func TestSubRunAreaLifecycle(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "fay")
	seedActiveArea(t, "fay", "york")

	triangle := []models.LatLng{
		{Lat: 53.95, Lng: -1.09},
		{Lat: 53.96, Lng: -1.09},
		{Lat: 53.96, Lng: -1.08},
	}
	w := doJSON(t, r, http.MethodPost, "/insert_sub_run_area", token, models.SubRunAreaGeometry{
		SubAreaName: "minster",
		Geometry:    triangle,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("insert status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/insert_sub_run_area", token, models.SubRunAreaGeometry{
		SubAreaName: "minster",
		Geometry:    triangle,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate insert status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/sub_run_area", token, models.SubRunAreaName{Name: "minster"})
	if w.Code != http.StatusOK {
		t.Fatalf("sub_run_area status = %d, body %s", w.Code, w.Body.String())
	}
	var sub models.SubRunArea
	decodeBody(t, w, &sub)
	if sub.SubAreaName != "minster" || !strings.HasPrefix(sub.Polygon, "POLYGON((53.95 -1.09") {
		t.Fatalf("sub area = %+v", sub)
	}

	w = doJSON(t, r, http.MethodGet, "/sub_run_areas", token, nil)
	var subs []models.SubRunArea
	decodeBody(t, w, &subs)
	if len(subs) != 1 {
		t.Fatalf("sub areas = %+v", subs)
	}

	w = doJSON(t, r, http.MethodPost, "/remove_sub_run_area", token,
		map[string]string{"sub_area_name": "minster"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove sub area status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/sub_run_area", token, models.SubRunAreaName{Name: "minster"})
	if w.Code != http.StatusNotFound {
		t.Errorf("removed sub area status = %d, want 404", w.Code)
	}
}

func TestActiveAreaRequired(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "gus")

	w := doJSON(t, r, http.MethodGet, "/sub_run_areas", token, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("no active area status = %d, want 409", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no active run area") {
		t.Errorf("no active area body = %s", w.Body.String())
	}
}
