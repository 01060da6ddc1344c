package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"werewolf/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := r.URL.Query().Get("roomCode")
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	// A known participantId lets a dropped connection resume; a blank
	// one is a fresh join.
	participantID := r.URL.Query().Get("participantId")
	isReconnect := participantID != ""
	if !isReconnect {
		participantID = uuid.New().String()
	}

	session, err := h.hub.GetSession(roomCode)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	if !isReconnect && !session.CanJoin() {
		http.Error(w, "Cannot join this session", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, session, participantID, h.logger)
	session.RegisterClient(participantID, client)

	h.logger.Info("websocket connected",
		"roomCode", roomCode,
		"participantID", participantID,
		"isReconnect", isReconnect,
	)

	if isReconnect {
		client.sendConnected()
	}

	client.Run()
}
