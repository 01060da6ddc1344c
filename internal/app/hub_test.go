package app

import (
	"errors"
	"testing"

	"werewolf/internal/domain"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(testConfig(), testLogger(), nil)
	t.Cleanup(h.Shutdown)
	return h
}

func TestHubCreateAndLookup(t *testing.T) {
	h := newTestHub(t)

	s, err := h.CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.ID()) != testConfig().RoomCodeLength {
		t.Errorf("room code %q has wrong length", s.ID())
	}

	got, err := h.GetSession(s.ID())
	if err != nil || got != s {
		t.Errorf("GetSession(%s) = %v, %v", s.ID(), got, err)
	}
	if !h.SessionExists(s.ID()) {
		t.Error("SessionExists should report the new room")
	}
	if _, err := h.GetSession("ZZZZZZ"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetSession(unknown) = %v, want ErrSessionNotFound", err)
	}
}

func TestHubRoomCodesAreUnique(t *testing.T) {
	h := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		s, err := h.CreateSession()
		if err != nil {
			t.Fatal(err)
		}
		if seen[s.ID()] {
			t.Fatalf("duplicate room code %s", s.ID())
		}
		seen[s.ID()] = true
	}
	if h.GetSessionCount() != 20 {
		t.Errorf("GetSessionCount() = %d, want 20", h.GetSessionCount())
	}
}

func TestHubRemoveSessionAborts(t *testing.T) {
	h := newTestHub(t)

	s, err := h.CreateSession()
	if err != nil {
		t.Fatal(err)
	}

	h.RemoveSession(s.ID())

	if h.SessionExists(s.ID()) {
		t.Error("removed session still registered")
	}
	state, _ := s.Snapshot()
	if !state.Terminal() {
		t.Errorf("removed session phase = %s, want terminal", state.Phase)
	}
	if s.Result() != nil {
		t.Error("removed session must not carry a result")
	}
}

func TestHubParticipantTotals(t *testing.T) {
	h := newTestHub(t)

	a, _ := h.CreateSession()
	b, _ := h.CreateSession()
	if _, err := a.AddParticipant("h1", "Hanna"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddParticipant("h2", "Heike"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddBot("h2", ""); err != nil {
		t.Fatal(err)
	}

	if total := h.GetTotalParticipantCount(); total != 3 {
		t.Errorf("GetTotalParticipantCount() = %d, want 3", total)
	}
}
