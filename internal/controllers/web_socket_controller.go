package controllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/minimav/running-app/internal/middleware"
)

// buildUpdate is one build-status message pushed to a user's sockets.
type buildUpdate struct {
	Username string `json:"-"`
	AreaName string `json:"area_name"`
	Status   string `json:"status"`
}

// BuildStatusHub fans network-build progress out to each user's open
// websockets. Updates for users with no connection are dropped; the
// frontend can always fall back to polling CurrentUserAreas.
type BuildStatusHub struct {
	mu        sync.RWMutex
	clients   map[string]map[*websocket.Conn]bool
	broadcast chan buildUpdate
}

func NewBuildStatusHub() *BuildStatusHub {
	hub := &BuildStatusHub{
		clients:   make(map[string]map[*websocket.Conn]bool),
		broadcast: make(chan buildUpdate, 100),
	}
	go hub.run()
	return hub
}

var hub = NewBuildStatusHub()

func (h *BuildStatusHub) run() {
	for update := range h.broadcast {
		h.mu.RLock()
		conns := make([]*websocket.Conn, 0, len(h.clients[update.Username]))
		for conn := range h.clients[update.Username] {
			conns = append(conns, conn)
		}
		h.mu.RUnlock()

		for _, conn := range conns {
			if err := conn.WriteJSON(update); err != nil {
				log.WithError(err).Warn("could not push build status, dropping client")
				h.UnregisterClient(update.Username, conn)
				conn.Close()
			}
		}
	}
}

func (h *BuildStatusHub) RegisterClient(username string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[username] == nil {
		h.clients[username] = make(map[*websocket.Conn]bool)
	}
	h.clients[username][conn] = true
	log.WithField("username", username).Info("build status client connected")
}

func (h *BuildStatusHub) UnregisterClient(username string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[username]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, username)
		}
	}
}

// NotifyBuildStatus queues a status update without blocking the build.
func (h *BuildStatusHub) NotifyBuildStatus(username, areaName, status string) {
	update := buildUpdate{Username: username, AreaName: areaName, Status: status}
	select {
	case h.broadcast <- update:
	default:
		log.WithFields(log.Fields{
			"username":  username,
			"area_name": areaName,
		}).Warn("build status channel full, dropping update")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are handled by the CORS layer.
		return true
	},
}

// HandleBuildStatusWebSocket upgrades the connection and streams network
// build progress for the authenticated user's areas. Browsers cannot set
// headers on websocket dials, so the token rides in the query string.
func HandleBuildStatusWebSocket(c *gin.Context) {
	username, err := middleware.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}
	hub.RegisterClient(username, conn)
	defer func() {
		hub.UnregisterClient(username, conn)
		conn.Close()
	}()

	// Clients only listen; reads just detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("build status websocket closed unexpectedly")
			}
			return
		}
	}
}
