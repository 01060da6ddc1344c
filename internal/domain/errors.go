package domain

import "errors"

// Domain errors
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionFull          = errors.New("session is full")
	ErrSessionStarted       = errors.New("session already started")
	ErrSessionEnded         = errors.New("session has ended")
	ErrInvalidSessionConfig = errors.New("invalid session configuration")
	ErrNotEnoughPlayers     = errors.New("not enough participants to start")
	ErrNotHost              = errors.New("only the host can perform this action")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrUnknownTarget        = errors.New("unknown or ambiguous target")
	ErrIneligibleActor      = errors.New("actor may not act in this phase")
	ErrInvalidPhase         = errors.New("invalid action for current phase")
	ErrAbortedSession       = errors.New("session was aborted")
)
