package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"werewolf/internal/config"
	"werewolf/internal/domain"
)

func testConfig() config.GameConfig {
	return config.GameConfig{
		MinPlayers:         5,
		MaxPlayers:         18,
		NightDeadline:      100 * time.Millisecond,
		VoteDeadline:       100 * time.Millisecond,
		DiscussionDuration: time.Millisecond,
		RevengeDeadline:    50 * time.Millisecond,
		RoomCodeLength:     6,
		BotSeed:            99,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLobby(t *testing.T, cfg config.GameConfig, bots int) *Session {
	t.Helper()
	s := NewSession("TEST01", cfg, testLogger())
	t.Cleanup(s.Close)

	if _, err := s.AddParticipant("host", "Hilda"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < bots; i++ {
		if _, err := s.AddBot("host", fmt.Sprintf("Bot%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

// recordingClient captures everything the session sends it
type recordingClient struct {
	participantID string
	mu            sync.Mutex
	received      []*domain.SessionEvent
}

func (c *recordingClient) Send(message interface{}) error {
	event, ok := message.(*domain.SessionEvent)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, event)
	return nil
}

func (c *recordingClient) GetParticipantID() string { return c.participantID }
func (c *recordingClient) Close() error             { return nil }

func (c *recordingClient) has(eventType domain.EventType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.received {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSessionLobby(t *testing.T) {
	s := newLobby(t, testConfig(), 2)

	if !s.IsHost("host") {
		t.Error("first human to join should be host")
	}
	if s.GetParticipantCount() != 3 {
		t.Errorf("participant count = %d, want 3", s.GetParticipantCount())
	}

	if _, err := s.AddBot("stranger", ""); !errors.Is(err, domain.ErrNotHost) {
		t.Errorf("AddBot by non-host = %v, want ErrNotHost", err)
	}

	if err := s.RemoveParticipant("nobody"); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Errorf("RemoveParticipant(unknown) = %v, want ErrParticipantNotFound", err)
	}

	// A second human joins, the host leaves, hosting passes on.
	if _, err := s.AddParticipant("guest", "Greta"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveParticipant("host"); err != nil {
		t.Fatal(err)
	}
	if !s.IsHost("guest") {
		t.Error("hosting should pass to the remaining human")
	}
}

func TestSessionFullLobbyRejectsJoin(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPlayers = 3
	s := newLobby(t, cfg, 2)

	if s.CanJoin() {
		t.Error("full session should not accept joins")
	}
	if _, err := s.AddParticipant("late", "Lena"); !errors.Is(err, domain.ErrSessionFull) {
		t.Errorf("AddParticipant = %v, want ErrSessionFull", err)
	}
	if _, err := s.AddBot("host", ""); !errors.Is(err, domain.ErrSessionFull) {
		t.Errorf("AddBot = %v, want ErrSessionFull", err)
	}
}

func TestSessionStartValidation(t *testing.T) {
	s := newLobby(t, testConfig(), 2)

	if err := s.Start("host", nil); !errors.Is(err, domain.ErrNotEnoughPlayers) {
		t.Errorf("Start with 3 participants = %v, want ErrNotEnoughPlayers", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.AddBot("host", ""); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Start("stranger", nil); !errors.Is(err, domain.ErrNotHost) {
		t.Errorf("Start by non-host = %v, want ErrNotHost", err)
	}

	bad := domain.RoleSetup{domain.RoleVillager: 5} // no wolves
	if err := s.Start("host", bad); !errors.Is(err, domain.ErrInvalidSessionConfig) {
		t.Errorf("Start with wolfless setup = %v, want ErrInvalidSessionConfig", err)
	}

	// The failed starts must leave the lobby intact.
	state, _ := s.Snapshot()
	if state.Phase != domain.PhaseLobby {
		t.Errorf("phase = %s after rejected starts, want lobby", state.Phase)
	}
}

func TestSessionSubmitOutsideCollection(t *testing.T) {
	s := newLobby(t, testConfig(), 2)

	if err := s.SubmitAction("nobody", domain.RoleSeer, domain.ActionInspect, nil); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Errorf("SubmitAction(unknown) = %v, want ErrParticipantNotFound", err)
	}
	if err := s.SubmitAction("host", "", domain.ActionPass, nil); !errors.Is(err, domain.ErrInvalidPhase) {
		t.Errorf("SubmitAction in lobby = %v, want ErrInvalidPhase", err)
	}
}

// Three wolves against two villagers reach parity no later than the
// first win check, so the game always ends right after night 1.
func TestSessionPlaysToWolfWin(t *testing.T) {
	s := newLobby(t, testConfig(), 4)

	hostClient := &recordingClient{participantID: "host"}
	s.RegisterClient("host", hostClient)

	var hookMu sync.Mutex
	hookCalls := 0
	s.SetResultHook(func(sessionID string, result *domain.GameResult) {
		hookMu.Lock()
		defer hookMu.Unlock()
		hookCalls++
	})

	setup := domain.RoleSetup{domain.RoleWerewolf: 3, domain.RoleVillager: 2}
	if err := s.Start("host", setup); err != nil {
		t.Fatal(err)
	}
	if err := s.Start("host", setup); !errors.Is(err, domain.ErrSessionStarted) {
		t.Errorf("second Start = %v, want ErrSessionStarted", err)
	}

	waitFor(t, 5*time.Second, func() bool { return s.Result() != nil }, "game did not finish")

	result := s.Result()
	if result.WinningAlignment != domain.AlignWolf {
		t.Errorf("winner = %s, want wolves at parity", result.WinningAlignment)
	}
	if result.LoversWin {
		t.Error("no bond was formed, LoversWin should be false")
	}

	state, pending := s.Snapshot()
	if !state.Terminal() {
		t.Errorf("phase = %s, want terminal", state.Phase)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %v after the end, want none", pending)
	}

	waitFor(t, time.Second, func() bool {
		return hostClient.has(domain.EventSessionStarted) &&
			hostClient.has(domain.EventRoleAssigned) &&
			hostClient.has(domain.EventSessionEnded)
	}, "host client missed lifecycle events")

	hookMu.Lock()
	defer hookMu.Unlock()
	if hookCalls != 1 {
		t.Errorf("result hook ran %d times, want once", hookCalls)
	}
}

func TestSessionAbortLeavesNoResult(t *testing.T) {
	// Long phase durations pin the session inside day 1: with a single
	// wolf, night 1 cannot end the game, and every later phase holds for
	// a minute, so the abort always lands mid-game.
	cfg := testConfig()
	cfg.NightDeadline = time.Minute
	cfg.VoteDeadline = time.Minute
	cfg.DiscussionDuration = time.Minute
	s := newLobby(t, cfg, 4)

	hookCalled := false
	s.SetResultHook(func(string, *domain.GameResult) { hookCalled = true })

	if err := s.Start("host", nil); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 2*time.Second, func() bool {
		state, _ := s.Snapshot()
		return state.Phase != domain.PhaseLobby && !state.Terminal()
	}, "game never started collecting")

	s.Abort("test teardown")

	waitFor(t, 2*time.Second, func() bool {
		state, _ := s.Snapshot()
		return state.Terminal()
	}, "abort did not end the session")

	// Give the run goroutine a beat to observe the cancellation.
	time.Sleep(50 * time.Millisecond)

	if s.Result() != nil {
		t.Errorf("Result() = %+v after abort, want nil", s.Result())
	}
	if hookCalled {
		t.Error("result hook must not run for an aborted session")
	}

	if err := s.SubmitAction("host", domain.RoleSeer, domain.ActionInspect, nil); !errors.Is(err, domain.ErrAbortedSession) {
		t.Errorf("SubmitAction after abort = %v, want ErrAbortedSession", err)
	}
}
