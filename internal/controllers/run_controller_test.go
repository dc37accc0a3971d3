package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/minimav/running-app/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleRun(date string) models.StoreRunInput {
	return models.StoreRunInput{
		Date:          date,
		DistanceMiles: 5.2,
		Duration:      strPtr("00:45:30.50"),
		Linestring:    strPtr("LINESTRING(53.8 -1.5,53.81 -1.49)"),
		SegmentTraversals: map[string]int{
			"1_0": 2,
			"3_0": 1,
		},
	}
}

func TestStoreRunLifecycle(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "runner")
	seedActiveArea(t, "runner", "leeds")

	w := doJSON(t, r, http.MethodPost, "/store_run", token, sampleRun("2023-05-01"))
	if w.Code != http.StatusOK {
		t.Fatalf("store status = %d, body %s", w.Code, w.Body.String())
	}
	var stored struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &stored)
	if stored.ID == "" {
		t.Fatal("store response missing run id")
	}

	w = doJSON(t, r, http.MethodPost, "/store_run", token, sampleRun("2023-05-01"))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate store status = %d, body %s", w.Code, w.Body.String())
	}
	var conflict struct {
		Reason string `json:"reason"`
	}
	decodeBody(t, w, &conflict)
	want := "Run already exists for 2023-05-01, and `allow_multiple`=False: new segments will not be added."
	if conflict.Reason != want {
		t.Errorf("conflict reason = %q, want %q", conflict.Reason, want)
	}

	second := sampleRun("2023-05-01")
	second.AllowMultiple = true
	w = doJSON(t, r, http.MethodPost, "/store_run", token, second)
	if w.Code != http.StatusOK {
		t.Errorf("allow_multiple store status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestStoreRunValidation(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "hana")
	seedActiveArea(t, "hana", "leeds")

	bad := sampleRun("2023-05-01")
	bad.Duration = strPtr("45:30")
	w := doJSON(t, r, http.MethodPost, "/store_run", token, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad duration status = %d, body %s", w.Code, w.Body.String())
	}

	bad = sampleRun("May Day")
	w = doJSON(t, r, http.MethodPost, "/store_run", token, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, body %s", w.Code, w.Body.String())
	}

	bad = sampleRun("2023-05-01")
	bad.Linestring = strPtr("POINT(1 1)")
	w = doJSON(t, r, http.MethodPost, "/store_run", token, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad linestring status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestStoreRunRequiresActiveArea(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "ivan")

	w := doJSON(t, r, http.MethodPost, "/store_run", token, sampleRun("2023-05-01"))
	if w.Code != http.StatusConflict {
		t.Errorf("no active area status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestExistsRun(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "jo")
	seedActiveArea(t, "jo", "leeds")

	w := doJSON(t, r, http.MethodGet, "/exists_run?date=2023-05-01", token, nil)
	if w.Code != http.StatusOK || w.Body.String() != "false" {
		t.Errorf("exists before store = %d %q, want 200 \"false\"", w.Code, w.Body.String())
	}

	doJSON(t, r, http.MethodPost, "/store_run", token, sampleRun("2023-05-01"))

	w = doJSON(t, r, http.MethodGet, "/exists_run?date=2023-05-01", token, nil)
	if w.Code != http.StatusOK || w.Body.String() != "true" {
		t.Errorf("exists after store = %d %q, want 200 \"true\"", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/exists_run?date=yesterday", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid date status = %d, want 400", w.Code)
	}
}

func TestDeleteRunByID(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "kim")
	seedActiveArea(t, "kim", "leeds")

	w := doJSON(t, r, http.MethodPost, "/store_run", token, sampleRun("2023-05-01"))
	var stored struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &stored)

	w = doJSON(t, r, http.MethodGet, "/delete_run?id="+stored.ID, token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("delete by id = %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/delete_run?id="+stored.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete again status = %d, want 404", w.Code)
	}
}

func TestDeleteRunsByDate(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "lena")
	seedActiveArea(t, "lena", "leeds")

	doJSON(t, r, http.MethodPost, "/store_run", token, sampleRun("2023-05-01"))
	multi := sampleRun("2023-05-01")
	multi.AllowMultiple = true
	doJSON(t, r, http.MethodPost, "/store_run", token, multi)

	w := doJSON(t, r, http.MethodGet, "/delete_run?date=2023-05-01", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete by date = %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/exists_run?date=2023-05-01", token, nil)
	if w.Body.String() != "false" {
		t.Errorf("runs remain after delete by date: %s", w.Body.String())
	}
}

func TestDeleteRunRequiresIDOrDate(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "mara")

	w := doJSON(t, r, http.MethodGet, "/delete_run", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing args status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "`id` or `date` must be a query argument") {
		t.Errorf("missing args body = %s", w.Body.String())
	}
}
