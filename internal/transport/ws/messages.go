package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinLobby   MessageType = "join_lobby"
	MsgLeaveLobby  MessageType = "leave_lobby"
	MsgAddBot      MessageType = "add_bot"
	MsgStartGame   MessageType = "start_game"
	MsgNightAction MessageType = "night_action"
	MsgCastVote    MessageType = "cast_vote"
	MsgPing        MessageType = "ping"
)

// Server → Client message types. Game progress (phase changes, role
// assignments, reveals, deaths, results) is delivered as raw session
// events, not wrapped in these.
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinLobbyPayload is the payload for join_lobby message
type JoinLobbyPayload struct {
	Nickname string `json:"nickname"`
}

// AddBotPayload is the payload for add_bot message
type AddBotPayload struct {
	Name string `json:"name,omitempty"`
}

// StartGamePayload is the payload for start_game message. Setup maps
// role names to counts; omitted means the default distribution.
type StartGamePayload struct {
	Setup map[string]int `json:"setup,omitempty"`
}

// NightActionPayload is the payload for night_action message
type NightActionPayload struct {
	Role    string   `json:"role"`
	Kind    string   `json:"kind"`
	Targets []string `json:"targets,omitempty"` // display names
}

// CastVotePayload is the payload for cast_vote message
type CastVotePayload struct {
	Target string `json:"target"` // display name
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ParticipantID string   `json:"participantId"`
	RoomCode      string   `json:"roomCode"`
	Phase         string   `json:"phase"`
	Pending       []string `json:"pending,omitempty"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeSessionFull    = "SESSION_FULL"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeUnknownTarget  = "UNKNOWN_TARGET"
	ErrCodeNotHost        = "NOT_HOST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
