package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitForHubClient(t *testing.T, username string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		_, connected := hub.clients[username]
		hub.mu.RUnlock()
		if connected {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("websocket client for %s never registered", username)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBuildStatusWebSocket(t *testing.T) {
	r := newTestApp(t)
	token := authToken(t, "iris")

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/build_status?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	waitForHubClient(t, "iris")
	hub.NotifyBuildStatus("iris", "leeds", "complete")

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var update struct {
		AreaName string `json:"area_name"`
		Status   string `json:"status"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("reading build status: %v", err)
	}
	if update.AreaName != "leeds" || update.Status != "complete" {
		t.Errorf("update = %+v", update)
	}
}

func TestBuildStatusWebSocketRejectsBadToken(t *testing.T) {
	r := newTestApp(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/build_status?token=garbage"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("dial with a bad token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("handshake response = %+v, want 401", resp)
	}
}
