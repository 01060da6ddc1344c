package domain

import "testing"

func TestTally(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleWerewolf),
		seat("Carol", RoleSeer),
		seat("Dave", RoleVillager),
	)

	tests := []struct {
		name       string
		votes      []Vote
		wantTarget string
		wantTied   bool
	}{
		{
			name:       "no votes",
			votes:      nil,
			wantTarget: "",
		},
		{
			name: "clear plurality",
			votes: []Vote{
				{VoterID: "p0", TargetID: "p1"},
				{VoterID: "p2", TargetID: "p1"},
				{VoterID: "p3", TargetID: "p0"},
			},
			wantTarget: "p1",
		},
		{
			name: "tie selects nobody",
			votes: []Vote{
				{VoterID: "p0", TargetID: "p1"},
				{VoterID: "p1", TargetID: "p0"},
			},
			wantTarget: "",
			wantTied:   true,
		},
		{
			name: "single vote decides",
			votes: []Vote{
				{VoterID: "p0", TargetID: "p3"},
			},
			wantTarget: "p3",
		},
		{
			name: "unknown target dropped",
			votes: []Vote{
				{VoterID: "p0", TargetID: "nobody"},
				{VoterID: "p2", TargetID: "p1"},
			},
			wantTarget: "p1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Tally(tt.votes, reg)
			if result.TargetID != tt.wantTarget {
				t.Errorf("Tally() target = %q, want %q", result.TargetID, tt.wantTarget)
			}
			if result.Tied != tt.wantTied {
				t.Errorf("Tally() tied = %v, want %v", result.Tied, tt.wantTied)
			}
		})
	}
}

func TestTallyDropsDeadTargets(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleWerewolf),
		seat("Carol", RoleSeer),
	)
	reg.Kill(CauseLynch, false, "p1")

	result := Tally([]Vote{
		{VoterID: "p0", TargetID: "p1"},
		{VoterID: "p2", TargetID: "p0"},
	}, reg)

	if result.TargetID != "p0" {
		t.Errorf("Tally() target = %q, want p0 (ballot for dead p1 dropped)", result.TargetID)
	}
	if result.TotalCast != 1 {
		t.Errorf("Tally() total = %d, want 1", result.TotalCast)
	}
}

func TestTallyLateTieResets(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleVillager),
		seat("Carol", RoleVillager),
		seat("Dave", RoleVillager),
		seat("Eve", RoleVillager),
	)

	// p0 gets 2, p1 and p2 get 1 each; the 1-1 tie among trailers must
	// not mask the clear leader.
	result := Tally([]Vote{
		{VoterID: "p1", TargetID: "p0"},
		{VoterID: "p2", TargetID: "p0"},
		{VoterID: "p3", TargetID: "p1"},
		{VoterID: "p4", TargetID: "p2"},
	}, reg)

	if result.Tied || result.TargetID != "p0" {
		t.Errorf("Tally() = target %q tied %v, want p0 untied", result.TargetID, result.Tied)
	}
}
