package domain

import "time"

// EventType represents the type of session event emitted to the
// narration hook
type EventType string

const (
	EventParticipantJoined EventType = "PARTICIPANT_JOINED"
	EventParticipantLeft   EventType = "PARTICIPANT_LEFT"
	EventSessionStarted    EventType = "SESSION_STARTED"
	EventRoleAssigned      EventType = "ROLE_ASSIGNED"
	EventNightFell         EventType = "NIGHT_FELL"
	EventSeerReveal        EventType = "SEER_REVEAL"
	EventDeathAnnounced    EventType = "DEATH_ANNOUNCED"
	EventDayBroke          EventType = "DAY_BROKE"
	EventVotingOpened      EventType = "VOTING_OPENED"
	EventVoteCast          EventType = "VOTE_CAST"
	EventLynchResult       EventType = "LYNCH_RESULT"
	EventRevengePrompt     EventType = "REVENGE_PROMPT"
	EventSessionEnded      EventType = "SESSION_ENDED"
	EventSessionAborted    EventType = "SESSION_ABORTED"
)

// SessionEvent is one structured event. Rendering it into narration is
// external to the engine.
type SessionEvent struct {
	Type          EventType   `json:"type"`
	SessionID     string      `json:"sessionId"`
	ParticipantID string      `json:"participantId,omitempty"` // set for private events
	Payload       interface{} `json:"payload,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// NewEvent creates a broadcast event
func NewEvent(eventType EventType, sessionID string, payload interface{}) *SessionEvent {
	return &SessionEvent{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPrivateEvent creates an event delivered to a single participant
func NewPrivateEvent(eventType EventType, sessionID, participantID string, payload interface{}) *SessionEvent {
	return &SessionEvent{
		Type:          eventType,
		SessionID:     sessionID,
		ParticipantID: participantID,
		Payload:       payload,
		Timestamp:     time.Now(),
	}
}

// Event payloads

// PhasePayload announces a phase transition
type PhasePayload struct {
	State   SessionState `json:"state"`
	Pending []string     `json:"pending,omitempty"` // participant IDs still owed an action
}

// RolePayload privately tells a participant their role
type RolePayload struct {
	Role      Role      `json:"role"`
	Alignment Alignment `json:"alignment"`
	Packmates []string  `json:"packmates,omitempty"` // names, wolves only
}

// RevealPayload privately delivers a seer result
type RevealPayload struct {
	TargetName string    `json:"targetName"`
	Alignment  Alignment `json:"alignment"`
}

// DeathPayload announces applied deaths
type DeathPayload struct {
	Deaths []DeathRecord `json:"deaths"`
}

// LynchPayload announces a day-vote outcome
type LynchPayload struct {
	Tally   TallyResult `json:"tally"`
	Lynched string      `json:"lynched,omitempty"` // name, "" when nobody
	NoLynch bool        `json:"noLynch"`
}

// ResultPayload announces the final result
type ResultPayload struct {
	Result *GameResult `json:"result"`
}
