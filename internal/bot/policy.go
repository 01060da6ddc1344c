package bot

import (
	"math/rand"
	"sync"
	"time"

	"werewolf/internal/domain"
)

// Knowledge is the session-scoped board of seer reveals shared among
// automated village-aligned participants. The witch policy consults it
// before spending a potion.
type Knowledge struct {
	mu         sync.Mutex
	alignments map[string]domain.Alignment // participant ID -> revealed alignment
}

// NewKnowledge creates an empty board
func NewKnowledge() *Knowledge {
	return &Knowledge{alignments: make(map[string]domain.Alignment)}
}

// Record stores one reveal
func (k *Knowledge) Record(targetID string, alignment domain.Alignment) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.alignments[targetID] = alignment
}

// AlignmentOf returns a revealed alignment, if any
func (k *Knowledge) AlignmentOf(targetID string) (domain.Alignment, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	a, ok := k.alignments[targetID]
	return a, ok
}

// Policy picks actions for automated participants. Decision functions
// read the registry, never mutate it. Randomness comes from one seeded
// source per session so test runs replay exactly.
type Policy struct {
	mu        sync.Mutex
	rng       *rand.Rand
	knowledge *Knowledge
}

// NewPolicy creates a policy around a fixed seed
func NewPolicy(seed int64, knowledge *Knowledge) *Policy {
	return &Policy{rng: rand.New(rand.NewSource(seed)), knowledge: knowledge}
}

// NightAction decides one night action for the given actor, or
// ok=false when the role has nothing to do tonight.
func (p *Policy) NightAction(reg *domain.Registry, actor *domain.Participant, day int, wolfTarget string) (domain.NightActionRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := domain.NightActionRequest{
		ActorID:     actor.ID,
		Role:        actor.Role,
		SubmittedAt: time.Now(),
	}

	switch actor.Role {
	case domain.RoleWerewolf, domain.RoleWhiteWolf:
		// On even nights a white wolf may devour a packmate instead of
		// hunting with the pack, but only while the pack can afford it.
		if actor.Role == domain.RoleWhiteWolf && day%2 == 0 &&
			len(reg.AliveWolves()) >= 3 && p.rng.Intn(2) == 1 {
			if target := p.pick(reg, func(c *domain.Participant) bool {
				return c.ID != actor.ID && c.Role.IsWolf()
			}); target != "" {
				req.Kind = domain.ActionDevour
				req.TargetIDs = []string{target}
				return req, true
			}
		}
		target := p.pick(reg, func(c *domain.Participant) bool {
			return c.ID != actor.ID && !c.Role.IsWolf()
		})
		if target == "" {
			return req, false
		}
		req.Kind = domain.ActionWolfVote
		req.TargetIDs = []string{target}
		return req, true

	case domain.RoleSeer:
		target := p.pick(reg, func(c *domain.Participant) bool {
			return c.ID != actor.ID
		})
		if target == "" {
			return req, false
		}
		req.Kind = domain.ActionInspect
		req.TargetIDs = []string{target}
		return req, true

	case domain.RoleWitch:
		// Heal when the wolves' victim is known village-aligned from a
		// reveal shared by an automated seer; otherwise poison a suspect
		// now and then, else hold both potions.
		if !actor.HealUsed && wolfTarget != "" {
			if a, ok := p.knowledge.AlignmentOf(wolfTarget); ok && a == domain.AlignVillage {
				req.Kind = domain.ActionHeal
				return req, true
			}
		}
		if !actor.PoisonUsed {
			if target := p.poisonTarget(reg, actor); target != "" {
				req.Kind = domain.ActionPoison
				req.TargetIDs = []string{target}
				return req, true
			}
		}
		req.Kind = domain.ActionWitchPass
		return req, true

	case domain.RoleMuter:
		target := p.pick(reg, func(c *domain.Participant) bool {
			return c.ID != actor.ID
		})
		if target == "" {
			return req, false
		}
		req.Kind = domain.ActionMute
		req.TargetIDs = []string{target}
		return req, true

	case domain.RoleCupid:
		if day != 1 || actor.BondUsed {
			return req, false
		}
		pair := p.pickPair(reg)
		if pair == nil {
			return req, false
		}
		req.Kind = domain.ActionBond
		req.TargetIDs = pair
		return req, true
	}

	return req, false
}

// Vote decides one day vote
func (p *Policy) Vote(reg *domain.Registry, actor *domain.Participant) (domain.Vote, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var target string
	if actor.Role.IsWolf() {
		target = p.pick(reg, func(c *domain.Participant) bool {
			return c.ID != actor.ID && !c.Role.IsWolf()
		})
	}
	if target == "" {
		target = p.pick(reg, func(c *domain.Participant) bool {
			return c.ID != actor.ID
		})
	}
	if target == "" {
		return domain.Vote{}, false
	}
	return domain.Vote{VoterID: actor.ID, TargetID: target, CastAt: time.Now()}, true
}

// RevengeTarget decides a dead hunter's shot
func (p *Policy) RevengeTarget(reg *domain.Registry, hunter *domain.Participant) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Shoot a known wolf if one was revealed, otherwise anyone alive.
	for _, c := range reg.Alive() {
		if a, ok := p.knowledge.AlignmentOf(c.ID); ok && a == domain.AlignWolf {
			return c.ID, true
		}
	}
	target := p.pick(reg, func(c *domain.Participant) bool {
		return c.ID != hunter.ID
	})
	return target, target != ""
}

// pick returns a uniformly random living participant satisfying the
// filter, or "" when none qualifies. Caller holds p.mu.
func (p *Policy) pick(reg *domain.Registry, keep func(*domain.Participant) bool) string {
	candidates := make([]string, 0)
	for _, c := range reg.Alive() {
		if keep(c) {
			candidates = append(candidates, c.ID)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[p.rng.Intn(len(candidates))]
}

func (p *Policy) pickPair(reg *domain.Registry) []string {
	alive := reg.Alive()
	if len(alive) < 2 {
		return nil
	}
	i := p.rng.Intn(len(alive))
	j := p.rng.Intn(len(alive) - 1)
	if j >= i {
		j++
	}
	return []string{alive[i].ID, alive[j].ID}
}

// poisonTarget picks someone revealed as wolf-aligned; without a known
// wolf it poisons nobody rather than risk a villager.
func (p *Policy) poisonTarget(reg *domain.Registry, witch *domain.Participant) string {
	for _, c := range reg.Alive() {
		if c.ID == witch.ID {
			continue
		}
		if a, ok := p.knowledge.AlignmentOf(c.ID); ok && a == domain.AlignWolf {
			return c.ID
		}
	}
	return ""
}
