package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"werewolf/internal/app"
	"werewolf/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn          *websocket.Conn
	session       *app.Session
	participantID string
	send          chan []byte
	done          chan struct{}
	logger        *slog.Logger
	mu            sync.Mutex
	closed        bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.Session, participantID string, logger *slog.Logger) *Client {
	return &Client{
		conn:          conn,
		session:       session,
		participantID: participantID,
		send:          make(chan []byte, sendBufferSize),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// GetParticipantID implements app.ClientConnection interface
func (c *Client) GetParticipantID() string {
	return c.participantID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "participantID", c.participantID)
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterClient(c.participantID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinLobby:
		c.handleJoinLobby(msg.Payload)
	case MsgLeaveLobby:
		c.handleLeaveLobby()
	case MsgAddBot:
		c.handleAddBot(msg.Payload)
	case MsgStartGame:
		c.handleStartGame(msg.Payload)
	case MsgNightAction:
		c.handleNightAction(msg.Payload)
	case MsgCastVote:
		c.handleCastVote(msg.Payload)
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinLobby handles a join_lobby message
func (c *Client) handleJoinLobby(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	nickname, ok := payloadMap["nickname"].(string)
	if !ok || nickname == "" {
		c.sendError(ErrCodeInvalidMessage, "Nickname is required")
		return
	}

	if _, err := c.session.AddParticipant(c.participantID, nickname); err != nil {
		c.sendDomainError(err)
		return
	}

	c.sendConnected()
}

// handleLeaveLobby handles a leave_lobby message
func (c *Client) handleLeaveLobby() {
	if err := c.session.RemoveParticipant(c.participantID); err != nil {
		c.sendDomainError(err)
	}
}

// handleAddBot handles an add_bot message (host only)
func (c *Client) handleAddBot(payload interface{}) {
	name := ""
	if payloadMap, ok := payload.(map[string]interface{}); ok {
		name, _ = payloadMap["name"].(string)
	}

	if _, err := c.session.AddBot(c.participantID, name); err != nil {
		c.sendDomainError(err)
	}
}

// handleStartGame handles a start_game message (host only)
func (c *Client) handleStartGame(payload interface{}) {
	var setup domain.RoleSetup
	if payloadMap, ok := payload.(map[string]interface{}); ok {
		if raw, ok := payloadMap["setup"].(map[string]interface{}); ok {
			setup = domain.RoleSetup{}
			for name, count := range raw {
				role := domain.Role(name)
				if _, known := domain.Catalog[role]; !known {
					c.sendError(ErrCodeInvalidMessage, "Unknown role: "+name)
					return
				}
				n, ok := count.(float64)
				if !ok {
					c.sendError(ErrCodeInvalidMessage, "Role counts must be numbers")
					return
				}
				setup[role] = int(n)
			}
		}
	}

	if err := c.session.Start(c.participantID, setup); err != nil {
		c.sendDomainError(err)
	}
}

// handleNightAction handles a night_action message
func (c *Client) handleNightAction(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	roleName, _ := payloadMap["role"].(string)
	kindName, _ := payloadMap["kind"].(string)
	if roleName == "" || kindName == "" {
		c.sendError(ErrCodeInvalidMessage, "Role and kind are required")
		return
	}
	role := domain.Role(roleName)
	if _, known := domain.Catalog[role]; !known {
		c.sendError(ErrCodeInvalidMessage, "Unknown role: "+roleName)
		return
	}

	targets := make([]string, 0)
	if raw, ok := payloadMap["targets"].([]interface{}); ok {
		for _, t := range raw {
			name, ok := t.(string)
			if !ok || name == "" {
				c.sendError(ErrCodeInvalidMessage, "Targets must be names")
				return
			}
			targets = append(targets, name)
		}
	}

	err := c.session.SubmitAction(c.participantID, role, domain.ActionKind(kindName), targets)
	if err != nil {
		c.sendDomainError(err)
	}
}

// handleCastVote handles a cast_vote message
func (c *Client) handleCastVote(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	target, ok := payloadMap["target"].(string)
	if !ok || target == "" {
		c.sendError(ErrCodeInvalidMessage, "Target is required")
		return
	}

	if err := c.session.SubmitVote(c.participantID, target); err != nil {
		c.sendDomainError(err)
	}
}

// sendDomainError maps domain errors to client error codes
func (c *Client) sendDomainError(err error) {
	switch {
	case errors.Is(err, domain.ErrSessionFull):
		c.sendError(ErrCodeSessionFull, "Session is full")
	case errors.Is(err, domain.ErrSessionStarted):
		c.sendError(ErrCodeInvalidAction, "Session has already started")
	case errors.Is(err, domain.ErrSessionEnded), errors.Is(err, domain.ErrAbortedSession):
		c.sendError(ErrCodeInvalidAction, "Session has ended")
	case errors.Is(err, domain.ErrNotHost):
		c.sendError(ErrCodeNotHost, "Only the host can do that")
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		c.sendError(ErrCodeInvalidAction, "Not enough participants to start")
	case errors.Is(err, domain.ErrInvalidSessionConfig):
		c.sendError(ErrCodeInvalidAction, "Invalid role distribution")
	case errors.Is(err, domain.ErrUnknownTarget):
		c.sendError(ErrCodeUnknownTarget, "Unknown or ambiguous target name")
	case errors.Is(err, domain.ErrIneligibleActor):
		c.sendError(ErrCodeInvalidAction, "You cannot take that action")
	case errors.Is(err, domain.ErrInvalidPhase):
		c.sendError(ErrCodeInvalidAction, "That action is not open right now")
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	state, pending := c.session.Snapshot()
	payload := &ConnectedPayload{
		ParticipantID: c.participantID,
		RoomCode:      c.session.ID(),
		Phase:         state.String(),
	}
	for _, slot := range pending {
		payload.Pending = append(payload.Pending, slot.ParticipantID)
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{Code: code, Message: message}))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
