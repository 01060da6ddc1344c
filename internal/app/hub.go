package app

import (
	"crypto/rand"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"werewolf/internal/config"
	"werewolf/internal/domain"
)

// ResultSink receives every finished session's outcome. Aborted
// sessions produce nothing.
type ResultSink interface {
	SaveResult(sessionID string, result *domain.GameResult) error
}

// Hub manages all active sessions, keyed by room code
type Hub struct {
	cfg    config.GameConfig
	logger *slog.Logger
	sink   ResultSink

	mu       sync.RWMutex
	sessions map[string]*Session

	stopCleanup chan struct{}
}

// NewHub creates a hub and starts its cleanup loop. sink may be nil.
func NewHub(cfg config.GameConfig, logger *slog.Logger, sink ResultSink) *Hub {
	h := &Hub{
		cfg:         cfg,
		logger:      logger,
		sink:        sink,
		sessions:    make(map[string]*Session),
		stopCleanup: make(chan struct{}),
	}
	go h.cleanupLoop()
	return h
}

// CreateSession creates a new session with a unique room code
func (h *Hub) CreateSession() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		c, err := generateRoomCode(h.cfg.RoomCodeLength)
		if err != nil {
			return nil, err
		}
		if _, exists := h.sessions[c]; !exists {
			code = c
			break
		}
	}
	if code == "" {
		return nil, domain.ErrSessionNotFound
	}

	session := NewSession(code, h.cfg, h.logger)
	if h.sink != nil {
		session.SetResultHook(func(sessionID string, result *domain.GameResult) {
			if err := h.sink.SaveResult(sessionID, result); err != nil {
				h.logger.Error("failed to persist result", "session", sessionID, "error", err)
			}
		})
	}
	h.sessions[code] = session

	h.logger.Info("session created", "roomCode", code)
	return session, nil
}

// GetSession returns a session by room code
func (h *Hub) GetSession(roomCode string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SessionExists checks if a room code is in use
func (h *Hub) SessionExists(roomCode string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[roomCode]
	return ok
}

// RemoveSession aborts and removes a session
func (h *Hub) RemoveSession(roomCode string) {
	h.mu.Lock()
	session, ok := h.sessions[roomCode]
	if ok {
		delete(h.sessions, roomCode)
	}
	h.mu.Unlock()

	if ok {
		session.Abort("session removed")
		session.Close()
		h.logger.Info("session removed", "roomCode", roomCode)
	}
}

// GetSessionCount returns the number of active sessions
func (h *Hub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalParticipantCount returns the participant count across all
// active sessions, bots included
func (h *Hub) GetTotalParticipantCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, s := range h.sessions {
		total += s.GetParticipantCount()
	}
	return total
}

// Shutdown aborts every session and stops the cleanup loop
func (h *Hub) Shutdown() {
	close(h.stopCleanup)

	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Abort("server shutting down")
		s.Close()
	}
}

// cleanupLoop periodically removes finished and stale sessions
func (h *Hub) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCleanup:
			return
		case <-ticker.C:
			h.cleanup()
		}
	}
}

func (h *Hub) cleanup() {
	h.mu.Lock()
	stale := make([]*Session, 0)
	for code, s := range h.sessions {
		state, _ := s.Snapshot()
		idle := time.Since(s.GetCreatedAt()) > 2*time.Hour
		if state.Terminal() || idle {
			delete(h.sessions, code)
			stale = append(stale, s)
			h.logger.Info("session cleaned up", "roomCode", code, "phase", state.Phase)
		}
	}
	h.mu.Unlock()

	for _, s := range stale {
		s.Abort("session expired")
		s.Close()
	}
}

// Room codes skip 0/O and 1/I to stay readable over voice chat.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateRoomCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
