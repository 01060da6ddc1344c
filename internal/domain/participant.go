package domain

import "time"

// Participant represents one session member, human or automated. All
// mutable fields are owned by the Registry; resolution code mutates
// them only through Registry commands.
type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       Role      `json:"role,omitempty"`
	Alive      bool      `json:"alive"`
	Muted      bool      `json:"muted"`      // blocked from the next day vote
	BondedWith string    `json:"bondedWith"` // peer participant ID, "" if unbonded
	Automated  bool      `json:"automated"`
	JoinedAt   time.Time `json:"joinedAt"`

	// One-shot ability tracking
	HealUsed    bool `json:"-"`
	PoisonUsed  bool `json:"-"`
	RevengeUsed bool `json:"-"`
	BondUsed    bool `json:"-"`
}

// NewParticipant creates an unassigned, alive participant
func NewParticipant(id, name string, automated bool) *Participant {
	return &Participant{
		ID:        id,
		Name:      name,
		Alive:     true,
		Automated: automated,
		JoinedAt:  time.Now(),
	}
}

// Alignment returns the participant's winning faction
func (p *Participant) Alignment() Alignment {
	return p.Role.Spec().Alignment
}

// CanVote reports whether the participant may cast a day vote
func (p *Participant) CanVote() bool {
	return p.Alive && !p.Muted
}

// ParticipantInfo is a safe public view (role hidden from others)
type ParticipantInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Alive     bool   `json:"alive"`
	Muted     bool   `json:"muted"`
	Automated bool   `json:"automated"`
}

// ToInfo converts a Participant to its public view
func (p *Participant) ToInfo() ParticipantInfo {
	return ParticipantInfo{
		ID:        p.ID,
		Name:      p.Name,
		Alive:     p.Alive,
		Muted:     p.Muted,
		Automated: p.Automated,
	}
}
