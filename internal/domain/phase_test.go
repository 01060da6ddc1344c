package domain

import "testing"

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{SessionState{Phase: PhaseLobby}, "LOBBY"},
		{SessionState{Phase: PhaseNight, Day: 2}, "NIGHT(2)"},
		{SessionState{Phase: PhaseDayVoting, Day: 1}, "DAY_VOTING(1)"},
		{SessionState{Phase: PhaseEnded, Day: 3}, "ENDED"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSessionStateTransitions(t *testing.T) {
	tests := []struct {
		name string
		from SessionState
		to   SessionState
		want bool
	}{
		{"lobby to first night", SessionState{Phase: PhaseLobby}, SessionState{Phase: PhaseNight, Day: 1}, true},
		{"lobby skips to voting", SessionState{Phase: PhaseLobby}, SessionState{Phase: PhaseDayVoting, Day: 1}, false},
		{"night to same-day discussion", SessionState{Phase: PhaseNight, Day: 2}, SessionState{Phase: PhaseDayDiscussion, Day: 2}, true},
		{"night skips discussion", SessionState{Phase: PhaseNight, Day: 2}, SessionState{Phase: PhaseDayVoting, Day: 2}, false},
		{"voting to next night", SessionState{Phase: PhaseDayVoting, Day: 2}, SessionState{Phase: PhaseNight, Day: 3}, true},
		{"voting repeats day", SessionState{Phase: PhaseDayVoting, Day: 2}, SessionState{Phase: PhaseNight, Day: 2}, false},
		{"any phase can end", SessionState{Phase: PhaseNight, Day: 1}, SessionState{Phase: PhaseEnded}, true},
		{"ended is terminal", SessionState{Phase: PhaseEnded, Day: 3}, SessionState{Phase: PhaseNight, Day: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
