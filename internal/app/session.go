package app

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"werewolf/internal/bot"
	"werewolf/internal/config"
	"werewolf/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetParticipantID() string
	Close() error
}

// Session is one self-contained game. It runs as a single logical
// actor: all registry mutations happen on the run goroutine, guarded by
// mu for snapshot readers. Concurrency lives in the collector, which
// fans out the per-human wait points and fans them back in.
type Session struct {
	id     string
	cfg    config.GameConfig
	logger *slog.Logger

	mu        sync.RWMutex
	state     domain.SessionState
	reg       *domain.Registry
	hostID    string
	actors    map[string]Actor
	collector *Collector // non-nil only while a phase is collecting
	result    *domain.GameResult
	aborted   bool
	botSeq    int

	rng       *rand.Rand
	policy    *bot.Policy
	knowledge *bot.Knowledge

	onResult func(sessionID string, result *domain.GameResult)

	clients   map[string]ClientConnection
	clientsMu sync.RWMutex
	events    chan *domain.SessionEvent

	runCtx    context.Context
	runCancel context.CancelFunc
	done      chan struct{}
	createdAt time.Time
}

// NewSession creates a session in the lobby phase
func NewSession(id string, cfg config.GameConfig, logger *slog.Logger) *Session {
	seed := cfg.BotSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	knowledge := bot.NewKnowledge()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        id,
		cfg:       cfg,
		logger:    logger.With("session", id),
		state:     domain.SessionState{Phase: domain.PhaseLobby},
		reg:       domain.NewRegistry(),
		actors:    make(map[string]Actor),
		rng:       rand.New(rand.NewSource(seed)),
		policy:    bot.NewPolicy(seed+1, knowledge),
		knowledge: knowledge,
		clients:   make(map[string]ClientConnection),
		events:    make(chan *domain.SessionEvent, 100),
		runCtx:    ctx,
		runCancel: cancel,
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}

	go s.eventLoop()
	return s
}

// SetResultHook installs the callback invoked once with the final
// GameResult. Aborted sessions never invoke it.
func (s *Session) SetResultHook(fn func(sessionID string, result *domain.GameResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResult = fn
}

// ID returns the session's room code
func (s *Session) ID() string {
	return s.id
}

// GetCreatedAt returns when the session was created
func (s *Session) GetCreatedAt() time.Time {
	return s.createdAt
}

// GetParticipantCount returns the number of participants, bots included
func (s *Session) GetParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Len()
}

// Snapshot returns the current state and the slots still owed an action
func (s *Session) Snapshot() (domain.SessionState, []Slot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.collector == nil {
		return s.state, nil
	}
	return s.state, s.collector.Pending()
}

// CanJoin checks if a new participant can join
func (s *Session) CanJoin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Phase == domain.PhaseLobby && s.reg.Len() < s.cfg.MaxPlayers
}

// IsHost checks if the given participant is the host
func (s *Session) IsHost(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostID == id
}

// AddParticipant adds a human participant while in the lobby
func (s *Session) AddParticipant(id, name string) (*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != domain.PhaseLobby {
		return nil, domain.ErrSessionStarted
	}
	if s.reg.Len() >= s.cfg.MaxPlayers {
		return nil, domain.ErrSessionFull
	}

	p := domain.NewParticipant(id, name, false)
	s.reg.Add(p)
	s.actors[id] = NewHumanActor(id)
	if s.hostID == "" {
		s.hostID = id
	}

	s.queueEvent(domain.NewEvent(domain.EventParticipantJoined, s.id, s.lobbyInfo()))
	return p, nil
}

// AddBot adds an automated participant while in the lobby (host only)
func (s *Session) AddBot(byID, name string) (*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostID != byID {
		return nil, domain.ErrNotHost
	}
	if s.state.Phase != domain.PhaseLobby {
		return nil, domain.ErrSessionStarted
	}
	if s.reg.Len() >= s.cfg.MaxPlayers {
		return nil, domain.ErrSessionFull
	}

	s.botSeq++
	if name == "" {
		name = botNames[(s.botSeq-1)%len(botNames)]
	}
	id := uuid.New().String()
	p := domain.NewParticipant(id, name, true)
	s.reg.Add(p)
	s.actors[id] = NewAutomatedActor(id, s.policy)

	s.queueEvent(domain.NewEvent(domain.EventParticipantJoined, s.id, s.lobbyInfo()))
	return p, nil
}

// RemoveParticipant removes a lobby member; once the session starts
// participants are only ever marked dead
func (s *Session) RemoveParticipant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != domain.PhaseLobby {
		return domain.ErrSessionStarted
	}
	if err := s.reg.Remove(id); err != nil {
		return err
	}
	delete(s.actors, id)

	if s.hostID == id {
		s.hostID = ""
		for _, p := range s.reg.All() {
			if !p.Automated {
				s.hostID = p.ID
				break
			}
		}
	}

	s.queueEvent(domain.NewEvent(domain.EventParticipantLeft, s.id, s.lobbyInfo()))
	return nil
}

// Start validates the configuration, assigns roles and launches the
// phase loop (host only). On a bad role distribution the session stays
// in the lobby and the error is surfaced to the starter alone.
func (s *Session) Start(byID string, setup domain.RoleSetup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostID != byID {
		return domain.ErrNotHost
	}
	if s.state.Phase != domain.PhaseLobby {
		return domain.ErrSessionStarted
	}
	if s.reg.Len() < s.cfg.MinPlayers {
		return domain.ErrNotEnoughPlayers
	}

	if setup == nil {
		setup = domain.DefaultSetup(s.reg.Len())
	}
	if err := setup.Validate(s.reg.Len()); err != nil {
		return err
	}

	roles := setup.Deal(s.rng)
	all := s.reg.All()
	wolfNames := make([]string, 0)
	for i, p := range all {
		p.Role = roles[i]
		if p.Role.IsWolf() {
			wolfNames = append(wolfNames, p.Name)
		}
	}

	s.queueEvent(domain.NewEvent(domain.EventSessionStarted, s.id, s.lobbyInfo()))
	for _, p := range all {
		payload := &domain.RolePayload{Role: p.Role, Alignment: p.Alignment()}
		if p.Role.IsWolf() {
			payload.Packmates = wolfNames
		}
		s.queueEvent(domain.NewPrivateEvent(domain.EventRoleAssigned, s.id, p.ID, payload))
	}

	// Leave the lobby now so a racing second Start (or late join) is
	// rejected before the run goroutine takes over.
	s.state = domain.SessionState{Phase: domain.PhaseNight, Day: 1}

	s.logger.Info("session started", "participants", s.reg.Len(), "setup", setup)
	go s.run(s.runCtx)
	return nil
}

// SubmitAction is the entry point for the transport adapter: a human
// participant's pre-parsed action. Target names are resolved against
// the registry; failures are returned to the submitter only and never
// disturb other participants' slots.
func (s *Session) SubmitAction(actorID string, role domain.Role, kind domain.ActionKind, targetNames []string) error {
	s.mu.RLock()
	if s.aborted {
		s.mu.RUnlock()
		return domain.ErrAbortedSession
	}
	if s.state.Terminal() {
		s.mu.RUnlock()
		return domain.ErrSessionEnded
	}
	collector := s.collector
	p, err := s.reg.Get(actorID)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	if p.Role != role {
		s.mu.RUnlock()
		return domain.ErrIneligibleActor
	}
	// A freshly dead hunter is the one actor allowed to act while dead.
	if !p.Alive && kind != domain.ActionRevenge {
		s.mu.RUnlock()
		return domain.ErrIneligibleActor
	}

	targets := make([]string, 0, len(targetNames))
	for _, name := range targetNames {
		id, rerr := s.reg.ResolveTarget(name)
		if rerr != nil {
			s.mu.RUnlock()
			return rerr
		}
		targets = append(targets, id)
	}
	s.mu.RUnlock()

	if collector == nil {
		return domain.ErrInvalidPhase
	}

	replaced, err := collector.Submit(domain.NightActionRequest{
		ActorID:     actorID,
		Role:        role,
		Kind:        kind,
		TargetIDs:   targets,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if replaced {
		// Last-write-wins; duplicates are logged, never surfaced.
		s.logger.Debug("duplicate submission replaced", "actor", actorID, "kind", kind)
	}
	return nil
}

// SubmitVote casts a day-vote ballot for the named target
func (s *Session) SubmitVote(actorID, targetName string) error {
	s.mu.RLock()
	p, err := s.reg.Get(actorID)
	var role domain.Role
	var info domain.ParticipantInfo
	if err == nil {
		role = p.Role
		info = p.ToInfo()
	}
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := s.SubmitAction(actorID, role, domain.ActionLynchVote, []string{targetName}); err != nil {
		return err
	}

	// Day votes are public; everyone sees who has voted.
	s.queueEvent(domain.NewEvent(domain.EventVoteCast, s.id, &info))
	return nil
}

// Abort cancels the session from outside. All pending wait points are
// released, no partial resolution is applied and no GameResult is
// emitted.
func (s *Session) Abort(reason string) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.state = domain.SessionState{Phase: domain.PhaseEnded, Day: s.state.Day}
	s.aborted = true
	s.result = nil
	collector := s.collector
	s.collector = nil
	s.mu.Unlock()

	s.runCancel()
	if collector != nil {
		collector.Cancel()
	}

	s.logger.Info("session aborted", "reason", reason)
	s.queueEvent(domain.NewEvent(domain.EventSessionAborted, s.id, reason))
}

// Result returns the final result, nil until the session ends or when
// it was aborted
func (s *Session) Result() *domain.GameResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// run drives Night -> DayDiscussion -> DayVoting cycles until a win
// condition or an abort ends the session
func (s *Session) run(ctx context.Context) {
	for day := 1; ; day++ {
		if s.nightPhase(ctx, day) {
			return
		}
		if s.discussionPhase(ctx, day) {
			return
		}
		if s.votingPhase(ctx, day) {
			return
		}
	}
}

// nightPhase collects and resolves one night. Returns true when the
// session ended.
func (s *Session) nightPhase(ctx context.Context, day int) bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return true
	}
	s.state = domain.SessionState{Phase: domain.PhaseNight, Day: day}
	slots, seeded := s.nightSlots(day)
	collector := NewCollector(slots, s.cfg.NightDeadline)
	s.collector = collector
	s.mu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventNightFell, s.id, &domain.PhasePayload{
		State:   domain.SessionState{Phase: domain.PhaseNight, Day: day},
		Pending: slotIDs(collector.Pending()),
	}))

	for _, req := range seeded {
		if _, err := collector.Submit(req); err != nil {
			s.logger.Debug("bot night action rejected", "actor", req.ActorID, "error", err)
		}
	}

	actions := collector.Wait(ctx)

	s.mu.Lock()
	s.collector = nil
	if s.aborted || ctx.Err() != nil {
		s.mu.Unlock()
		return true
	}

	outcome := domain.ResolveNight(s.reg, day, actions)
	for _, reveal := range outcome.Reveals {
		seer, err := s.reg.Get(reveal.SeerID)
		if err == nil && seer.Automated {
			// Automated villagers pool their seer results; the witch
			// policy reads this board.
			s.knowledge.Record(reveal.TargetID, reveal.Alignment)
		}
		s.queueEvent(domain.NewPrivateEvent(domain.EventSeerReveal, s.id, reveal.SeerID, &domain.RevealPayload{
			TargetName: reveal.Name,
			Alignment:  reveal.Alignment,
		}))
	}
	if len(outcome.Deaths) > 0 {
		s.queueEvent(domain.NewEvent(domain.EventDeathAnnounced, s.id, &domain.DeathPayload{Deaths: outcome.Deaths}))
	}
	hunters := outcome.PendingHunters
	s.logger.Info("night resolved", "day", day, "deaths", len(outcome.Deaths), "healed", outcome.Healed)
	s.mu.Unlock()

	for _, hunterID := range hunters {
		if s.resolveRevenge(ctx, hunterID) {
			return true
		}
	}

	return s.checkWin()
}

// discussionPhase is a plain timer; nothing is collected
func (s *Session) discussionPhase(ctx context.Context, day int) bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return true
	}
	s.state = domain.SessionState{Phase: domain.PhaseDayDiscussion, Day: day}
	s.mu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventDayBroke, s.id, &domain.PhasePayload{
		State: domain.SessionState{Phase: domain.PhaseDayDiscussion, Day: day},
	}))

	select {
	case <-ctx.Done():
		return true
	case <-time.After(s.cfg.DiscussionDuration):
		return false
	}
}

// votingPhase collects and resolves one day vote. Returns true when
// the session ended.
func (s *Session) votingPhase(ctx context.Context, day int) bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return true
	}
	s.state = domain.SessionState{Phase: domain.PhaseDayVoting, Day: day}

	slots := make([]Slot, 0)
	seeded := make([]domain.NightActionRequest, 0)
	for _, p := range s.reg.Alive() {
		if !p.CanVote() {
			continue
		}
		slots = append(slots, Slot{ParticipantID: p.ID, Role: p.Role})
		if vote, ok := s.actors[p.ID].Vote(s.reg, p); ok {
			seeded = append(seeded, domain.NightActionRequest{
				ActorID:     p.ID,
				Role:        p.Role,
				Kind:        domain.ActionLynchVote,
				TargetIDs:   []string{vote.TargetID},
				SubmittedAt: vote.CastAt,
			})
		}
	}
	collector := NewCollector(slots, s.cfg.VoteDeadline)
	s.collector = collector
	s.mu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventVotingOpened, s.id, &domain.PhasePayload{
		State:   domain.SessionState{Phase: domain.PhaseDayVoting, Day: day},
		Pending: slotIDs(collector.Pending()),
	}))

	for _, req := range seeded {
		if _, err := collector.Submit(req); err != nil {
			s.logger.Debug("bot vote rejected", "actor", req.ActorID, "error", err)
		}
	}

	actions := collector.Wait(ctx)

	s.mu.Lock()
	s.collector = nil
	if s.aborted || ctx.Err() != nil {
		s.mu.Unlock()
		return true
	}

	votes := make([]domain.Vote, 0, len(actions))
	for _, a := range actions {
		if a.Kind != domain.ActionLynchVote || a.Target() == "" {
			continue
		}
		votes = append(votes, domain.Vote{VoterID: a.ActorID, TargetID: a.Target(), CastAt: a.SubmittedAt})
	}
	tally := domain.Tally(votes, s.reg)

	var hunters []string
	payload := &domain.LynchPayload{Tally: tally, NoLynch: tally.TargetID == ""}
	if tally.TargetID != "" {
		deaths := s.reg.Kill(domain.CauseLynch, true, tally.TargetID)
		if len(deaths) > 0 {
			payload.Lynched = deaths[0].Name
			for _, d := range deaths {
				if d.Role == domain.RoleHunter {
					if p, err := s.reg.Get(d.ParticipantID); err == nil && !p.RevengeUsed {
						hunters = append(hunters, d.ParticipantID)
					}
				}
			}
		}
	}
	// Mutes only block the vote of the day they were cast.
	s.reg.ClearMutes()
	s.logger.Info("day vote resolved", "day", day, "lynched", payload.Lynched, "noLynch", payload.NoLynch)
	s.mu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventLynchResult, s.id, payload))

	for _, hunterID := range hunters {
		if s.resolveRevenge(ctx, hunterID) {
			return true
		}
	}

	return s.checkWin()
}

// resolveRevenge collects and applies one dead hunter's shot. The lover
// chain has fully resolved by the time a prompt is issued, and a
// hunter-caused death chains no further. Returns true when the session
// ended (abort only; win is evaluated by the caller).
func (s *Session) resolveRevenge(ctx context.Context, hunterID string) bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return true
	}
	hunter, err := s.reg.Get(hunterID)
	if err != nil || hunter.RevengeUsed {
		s.mu.Unlock()
		return false
	}

	target, decided := s.actors[hunterID].RevengeTarget(s.reg, hunter)
	var collector *Collector
	if !decided {
		collector = NewCollector([]Slot{{ParticipantID: hunterID, Role: domain.RoleHunter}}, s.cfg.RevengeDeadline)
		s.collector = collector
	}
	s.mu.Unlock()

	if !decided {
		s.queueEvent(domain.NewPrivateEvent(domain.EventRevengePrompt, s.id, hunterID, &domain.PhasePayload{
			State: s.currentState(),
		}))

		for _, req := range collector.Wait(ctx) {
			if req.Kind == domain.ActionRevenge && req.Target() != "" {
				target = req.Target()
			}
		}

		s.mu.Lock()
		s.collector = nil
		s.mu.Unlock()
	}

	s.mu.Lock()
	if s.aborted || ctx.Err() != nil {
		s.mu.Unlock()
		return true
	}
	// A no-target timeout still burns the shot.
	deaths := domain.ResolveRevenge(s.reg, hunterID, target)
	s.mu.Unlock()

	if len(deaths) > 0 {
		s.queueEvent(domain.NewEvent(domain.EventDeathAnnounced, s.id, &domain.DeathPayload{Deaths: deaths}))
	}
	return false
}

// checkWin evaluates the win conditions and ends the session when one
// holds. Returns true when the session ended.
func (s *Session) checkWin() bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return true
	}
	result := domain.EvaluateWin(s.reg)
	if result == nil {
		s.mu.Unlock()
		return false
	}

	s.state = domain.SessionState{Phase: domain.PhaseEnded, Day: s.state.Day}
	s.result = result
	hook := s.onResult
	s.mu.Unlock()

	s.logger.Info("session ended", "winner", result.WinningAlignment, "loversWin", result.LoversWin)
	s.queueEvent(domain.NewEvent(domain.EventSessionEnded, s.id, &domain.ResultPayload{Result: result}))

	if hook != nil {
		hook(s.id, result)
	}
	return true
}

// nightSlots computes the required set for one night and asks the
// automated actors for their answers up front. Caller holds s.mu.
func (s *Session) nightSlots(day int) ([]Slot, []domain.NightActionRequest) {
	slots := make([]Slot, 0)
	seeded := make([]domain.NightActionRequest, 0)
	wolfVotes := make([]domain.Vote, 0)

	add := func(p *domain.Participant, hint string) {
		slots = append(slots, Slot{ParticipantID: p.ID, Role: p.Role})
		if req, ok := s.actors[p.ID].NightAction(s.reg, p, day, hint); ok {
			seeded = append(seeded, req)
			if req.Kind == domain.ActionWolfVote {
				wolfVotes = append(wolfVotes, domain.Vote{VoterID: req.ActorID, TargetID: req.Target()})
			}
		}
	}

	// Wolves first so an automated witch can see the pack's provisional
	// target when it is asked.
	for _, p := range s.reg.AliveWolves() {
		add(p, "")
	}
	for _, p := range s.reg.AliveByRole(domain.RoleSeer) {
		add(p, "")
	}
	for _, p := range s.reg.AliveByRole(domain.RoleWitch) {
		if p.HealUsed && p.PoisonUsed {
			continue
		}
		add(p, domain.Tally(wolfVotes, s.reg).TargetID)
	}
	for _, p := range s.reg.AliveByRole(domain.RoleMuter) {
		add(p, "")
	}
	if day == 1 {
		for _, p := range s.reg.AliveByRole(domain.RoleCupid) {
			if !p.BondUsed {
				add(p, "")
			}
		}
	}

	return slots, seeded
}

func (s *Session) currentState() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// lobbyInfo builds the public roster payload. Caller holds s.mu.
func (s *Session) lobbyInfo() []domain.ParticipantInfo {
	out := make([]domain.ParticipantInfo, 0, s.reg.Len())
	for _, p := range s.reg.All() {
		out = append(out, p.ToInfo())
	}
	return out
}

func slotIDs(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slot.ParticipantID)
	}
	return out
}

// RegisterClient registers a client connection for a participant
func (s *Session) RegisterClient(participantID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[participantID] = client
}

// UnregisterClient removes a client connection
func (s *Session) UnregisterClient(participantID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, participantID)
}

// queueEvent adds an event to the broadcast queue
func (s *Session) queueEvent(event *domain.SessionEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts them to clients
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the right clients: private events to
// one participant, everything else to all
func (s *Session) broadcastEvent(event *domain.SessionEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.ParticipantID != "" {
		if client, ok := s.clients[event.ParticipantID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "participant", event.ParticipantID, "error", err)
			}
		}
		return
	}

	for participantID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "participant", participantID, "error", err)
		}
	}
}

// Close shuts down the session and its connections
func (s *Session) Close() {
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}

	s.runCancel()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}

var botNames = []string{
	"Greta", "Otto", "Mireille", "Bastien", "Ines",
	"Teodor", "Clara", "Janek", "Rosalie", "Milos",
}
