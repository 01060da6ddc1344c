package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"werewolf/internal/app"
	"werewolf/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomCode   string `json:"roomCode"`
	InviteLink string `json:"inviteLink"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode         string   `json:"roomCode"`
	ParticipantCount int      `json:"participantCount"`
	Phase            string   `json:"phase"`
	CanJoin          bool     `json:"canJoin"`
	Pending          []string `json:"pending,omitempty"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// ResultResponse is the response for a stored game result
type ResultResponse struct {
	RoomCode string             `json:"roomCode"`
	Result   *domain.GameResult `json:"result"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveSessions    int `json:"activeSessions"`
	TotalParticipants int `json:"totalParticipants"`
	RecordedResults   int `json:"recordedResults"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	session, err := s.hub.CreateSession()
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	inviteLink := scheme + "://" + r.Host + "/join/" + session.ID()

	s.sendSuccess(w, &CreateRoomResponse{
		RoomCode:   session.ID(),
		InviteLink: inviteLink,
	})
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	state, pending := session.Snapshot()
	resp := &GetRoomResponse{
		RoomCode:         session.ID(),
		ParticipantCount: session.GetParticipantCount(),
		Phase:            state.String(),
		CanJoin:          session.CanJoin(),
	}
	for _, slot := range pending {
		resp.Pending = append(resp.Pending, slot.ParticipantID)
	}

	s.sendSuccess(w, resp)
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.PathValue("roomCode"))
	s.sendSuccess(w, &RoomExistsResponse{
		Exists: s.hub.SessionExists(roomCode),
	})
}

// handleGetResult handles GET /api/rooms/{roomCode}/result; it serves
// stored results so a finished room's outcome outlives the session
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.PathValue("roomCode"))

	if session, err := s.hub.GetSession(roomCode); err == nil {
		if result := session.Result(); result != nil {
			s.sendSuccess(w, &ResultResponse{RoomCode: roomCode, Result: result})
			return
		}
	}

	if s.results == nil {
		s.sendError(w, http.StatusNotFound, "RESULT_NOT_FOUND", "No result for this room")
		return
	}

	result, err := s.results.GetResult(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.sendError(w, http.StatusNotFound, "RESULT_NOT_FOUND", "No result for this room")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	s.sendSuccess(w, &ResultResponse{RoomCode: roomCode, Result: result})
}

// handleAbortRoom handles DELETE /api/rooms/{roomCode}
func (s *Server) handleAbortRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.PathValue("roomCode"))
	if !s.hub.SessionExists(roomCode) {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	s.hub.RemoveSession(roomCode)
	s.sendSuccess(w, nil)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	recorded := 0
	if s.results != nil {
		if n, err := s.results.CountResults(); err == nil {
			recorded = n
		}
	}

	s.sendSuccess(w, &StatsResponse{
		ActiveSessions:    s.hub.GetSessionCount(),
		TotalParticipants: s.hub.GetTotalParticipantCount(),
		RecordedResults:   recorded,
	})
}

// lookupRoom resolves {roomCode} or writes the error response
func (s *Server) lookupRoom(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	roomCode := r.PathValue("roomCode")
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return nil, false
	}

	session, err := s.hub.GetSession(strings.ToUpper(roomCode))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return nil, false
	}
	return session, true
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
