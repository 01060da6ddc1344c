package domain

import "fmt"

// PhaseKind identifies the kind of phase the session is in
type PhaseKind string

const (
	PhaseLobby         PhaseKind = "LOBBY"          // Waiting for participants
	PhaseNight         PhaseKind = "NIGHT"          // Private role-gated actions
	PhaseDayDiscussion PhaseKind = "DAY_DISCUSSION" // Public discussion
	PhaseDayVoting     PhaseKind = "DAY_VOTING"     // Majority vote
	PhaseEnded         PhaseKind = "ENDED"          // Terminal
)

// SessionState is the phase plus the day counter. The counter only
// increases; Night 1 is the only phase where the Cupid bond is
// eligible.
type SessionState struct {
	Phase PhaseKind `json:"phase"`
	Day   int       `json:"day"` // 0 while in lobby
}

// String returns a readable form such as "NIGHT(2)"
func (s SessionState) String() string {
	if s.Phase == PhaseLobby || s.Phase == PhaseEnded {
		return string(s.Phase)
	}
	return fmt.Sprintf("%s(%d)", s.Phase, s.Day)
}

// Terminal reports whether no further transitions are possible
func (s SessionState) Terminal() bool {
	return s.Phase == PhaseEnded
}

// CanTransitionTo checks if a transition to the target state is valid
func (s SessionState) CanTransitionTo(target SessionState) bool {
	switch s.Phase {
	case PhaseLobby:
		return target.Phase == PhaseNight && target.Day == 1 || target.Phase == PhaseEnded
	case PhaseNight:
		return target.Phase == PhaseDayDiscussion && target.Day == s.Day || target.Phase == PhaseEnded
	case PhaseDayDiscussion:
		return target.Phase == PhaseDayVoting && target.Day == s.Day || target.Phase == PhaseEnded
	case PhaseDayVoting:
		return target.Phase == PhaseNight && target.Day == s.Day+1 || target.Phase == PhaseEnded
	default:
		return false
	}
}
