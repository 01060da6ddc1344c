package domain

import "strings"

// DeathCause classifies why a participant died
type DeathCause string

const (
	CauseWolfKill   DeathCause = "WOLF_KILL"
	CausePoison     DeathCause = "POISON"
	CauseLynch      DeathCause = "LYNCH"
	CauseHeartbreak DeathCause = "HEARTBREAK" // bonded partner died
	CauseRevenge    DeathCause = "REVENGE"    // hunter's shot
	CauseDevour     DeathCause = "DEVOUR"     // white wolf eating a packmate
)

// DeathRecord is one applied death, in application order
type DeathRecord struct {
	ParticipantID string
	Name          string
	Role          Role
	Cause         DeathCause
}

// Registry holds every participant of one session. Once the session
// starts participants are only ever marked dead, never removed. The
// session actor owns the registry;
// only the night resolver, voting resolution and win evaluator mutate
// it, and only through the commands below.
type Registry struct {
	byID  map[string]*Participant
	order []string // join order, kept stable for deterministic iteration
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Participant)}
}

// Add inserts a participant. The ID must be unique within the session.
func (r *Registry) Add(p *Participant) {
	if _, exists := r.byID[p.ID]; exists {
		return
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Remove deletes a participant. Valid in the lobby only; the session
// guards the phase.
func (r *Registry) Remove(id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrParticipantNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a participant by ID
func (r *Registry) Get(id string) (*Participant, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

// Len returns the total participant count, dead included
func (r *Registry) Len() int {
	return len(r.byID)
}

// All returns every participant in join order
func (r *Registry) All() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Alive returns living participants in join order
func (r *Registry) Alive() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, id := range r.order {
		if p := r.byID[id]; p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// AliveWolves returns living wolf-aligned participants in join order
func (r *Registry) AliveWolves() []*Participant {
	out := make([]*Participant, 0)
	for _, p := range r.Alive() {
		if p.Role.IsWolf() {
			out = append(out, p)
		}
	}
	return out
}

// AliveByRole returns living holders of one role in join order
func (r *Registry) AliveByRole(role Role) []*Participant {
	out := make([]*Participant, 0)
	for _, p := range r.Alive() {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// AliveCounts returns living wolf-aligned and village-aligned counts
func (r *Registry) AliveCounts() (wolves, village int) {
	for _, p := range r.Alive() {
		switch p.Alignment() {
		case AlignWolf:
			wolves++
		case AlignVillage:
			village++
		}
	}
	return wolves, village
}

// ResolveTarget maps a display name to a participant ID using an exact
// match first, then a unique case-insensitive prefix. Ambiguous or
// missing names fail with ErrUnknownTarget so the caller can re-prompt.
func (r *Registry) ResolveTarget(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrUnknownTarget
	}

	lower := strings.ToLower(name)
	for _, id := range r.order {
		if strings.ToLower(r.byID[id].Name) == lower {
			return id, nil
		}
	}

	match := ""
	for _, id := range r.order {
		if strings.HasPrefix(strings.ToLower(r.byID[id].Name), lower) {
			if match != "" {
				return "", ErrUnknownTarget
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrUnknownTarget
	}
	return match, nil
}

// Bond symmetrically links two participants as a bonded pair
func (r *Registry) Bond(a, b string) error {
	pa, err := r.Get(a)
	if err != nil {
		return err
	}
	pb, err := r.Get(b)
	if err != nil {
		return err
	}
	pa.BondedWith = pb.ID
	pb.BondedWith = pa.ID
	return nil
}

// Mute marks a participant as blocked from the next day vote
func (r *Registry) Mute(id string) {
	if p, ok := r.byID[id]; ok {
		p.Muted = true
	}
}

// ClearMutes lifts all mutes after a day vote resolves
func (r *Registry) ClearMutes() {
	for _, p := range r.byID {
		p.Muted = false
	}
}

// Kill applies the given deaths atomically. With chainBonds set, each
// death pulls the victim's bonded partner along; the chain is expanded
// transitively exactly once, so mutually bonded pairs never loop.
// Already-dead or unknown targets are skipped, never an error.
func (r *Registry) Kill(cause DeathCause, chainBonds bool, ids ...string) []DeathRecord {
	records := make([]DeathRecord, 0, len(ids))
	dying := make(map[string]bool)

	mark := func(id string, c DeathCause) {
		p, ok := r.byID[id]
		if !ok || !p.Alive || dying[id] {
			return
		}
		dying[id] = true
		p.Alive = false
		records = append(records, DeathRecord{
			ParticipantID: p.ID,
			Name:          p.Name,
			Role:          p.Role,
			Cause:         c,
		})
	}

	for _, id := range ids {
		mark(id, cause)
	}

	if chainBonds {
		// One transitive pass over the records appended so far; partners
		// marked here append further records, which the loop also visits.
		for i := 0; i < len(records); i++ {
			p := r.byID[records[i].ParticipantID]
			if p.BondedWith != "" {
				mark(p.BondedWith, CauseHeartbreak)
			}
		}
	}

	return records
}
