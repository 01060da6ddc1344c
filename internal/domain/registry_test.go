package domain

import (
	"errors"
	"fmt"
	"testing"
)

// seatRegistry builds a registry from (name, role) pairs; IDs are
// "p0", "p1", ... in order.
func seatRegistry(t *testing.T, seats ...struct {
	Name string
	Role Role
}) *Registry {
	t.Helper()
	reg := NewRegistry()
	for i, s := range seats {
		p := NewParticipant(fmt.Sprintf("p%d", i), s.Name, false)
		p.Role = s.Role
		reg.Add(p)
	}
	return reg
}

func seat(name string, role Role) struct {
	Name string
	Role Role
} {
	return struct {
		Name string
		Role Role
	}{name, role}
}

func TestRegistryResolveTarget(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleWerewolf),
		seat("Bonnie", RoleSeer),
		seat("carol", RoleWitch),
	)

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{"exact match", "Alice", "p0", false},
		{"case insensitive exact", "CAROL", "p3", false},
		{"unique prefix", "Al", "p0", false},
		{"ambiguous prefix", "Bo", "", true},
		{"exact beats prefix", "Bob", "p1", false},
		{"unknown", "Dave", "", true},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := reg.ResolveTarget(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveTarget(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownTarget) {
				t.Errorf("ResolveTarget(%q) error = %v, want ErrUnknownTarget", tt.query, err)
			}
			if id != tt.wantID {
				t.Errorf("ResolveTarget(%q) = %q, want %q", tt.query, id, tt.wantID)
			}
		})
	}
}

func TestRegistryKillChainsBondedPair(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleWerewolf),
		seat("Carol", RoleSeer),
	)
	if err := reg.Bond("p0", "p2"); err != nil {
		t.Fatal(err)
	}

	records := reg.Kill(CauseWolfKill, true, "p0")

	if len(records) != 2 {
		t.Fatalf("Kill() produced %d deaths, want 2 (victim + partner)", len(records))
	}
	if records[0].ParticipantID != "p0" || records[0].Cause != CauseWolfKill {
		t.Errorf("first death = %+v, want p0 by wolf kill", records[0])
	}
	if records[1].ParticipantID != "p2" || records[1].Cause != CauseHeartbreak {
		t.Errorf("second death = %+v, want p2 by heartbreak", records[1])
	}
	if len(reg.Alive()) != 1 {
		t.Errorf("%d alive after chain, want 1", len(reg.Alive()))
	}
}

func TestRegistryKillChainDoesNotLoop(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleVillager),
	)
	if err := reg.Bond("p0", "p1"); err != nil {
		t.Fatal(err)
	}

	// Both partners die in the same batch; neither may appear twice.
	records := reg.Kill(CauseLynch, true, "p0", "p1")
	if len(records) != 2 {
		t.Fatalf("Kill() produced %d deaths, want 2", len(records))
	}
	if records[1].Cause != CauseLynch {
		t.Errorf("p1 died of %s, want lynch (already in the batch, not heartbreak)", records[1].Cause)
	}
}

func TestRegistryKillWithoutChain(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleVillager),
	)
	if err := reg.Bond("p0", "p1"); err != nil {
		t.Fatal(err)
	}

	records := reg.Kill(CauseRevenge, false, "p0")
	if len(records) != 1 {
		t.Fatalf("Kill() produced %d deaths, want 1 (no chain)", len(records))
	}
	if bob, _ := reg.Get("p1"); !bob.Alive {
		t.Error("partner died despite chainBonds=false")
	}
}

func TestRegistryKillSkipsDeadAndUnknown(t *testing.T) {
	reg := seatRegistry(t, seat("Alice", RoleVillager))
	reg.Kill(CauseLynch, false, "p0")

	records := reg.Kill(CausePoison, false, "p0", "nobody")
	if len(records) != 0 {
		t.Errorf("Kill() on dead and unknown targets produced %d deaths, want 0", len(records))
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleVillager),
	)

	if err := reg.Remove("p0"); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d after remove, want 1", reg.Len())
	}
	if _, err := reg.Get("p0"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("Get on removed participant = %v, want ErrParticipantNotFound", err)
	}
	if err := reg.Remove("p0"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("second Remove = %v, want ErrParticipantNotFound", err)
	}
}

func TestRegistryAliveCounts(t *testing.T) {
	reg := seatRegistry(t,
		seat("Alice", RoleVillager),
		seat("Bob", RoleWerewolf),
		seat("Carol", RoleWhiteWolf),
		seat("Dave", RoleSeer),
	)
	reg.Kill(CauseLynch, false, "p1")

	wolves, village := reg.AliveCounts()
	if wolves != 1 || village != 2 {
		t.Errorf("AliveCounts() = %d wolves, %d village; want 1, 2", wolves, village)
	}
}

func TestRegistryMutes(t *testing.T) {
	reg := seatRegistry(t, seat("Alice", RoleVillager))
	reg.Mute("p0")

	p, _ := reg.Get("p0")
	if p.CanVote() {
		t.Error("muted participant should not vote")
	}

	reg.ClearMutes()
	if !p.CanVote() {
		t.Error("participant should vote again after mutes clear")
	}
}
