package app

import (
	"werewolf/internal/bot"
	"werewolf/internal/domain"
)

// Actor is the uniform capability surface over one session member.
// The engine asks every actor the same questions; automated actors
// answer immediately (ok=true) while human actors decline (ok=false)
// and deliver their answers through Session.SubmitAction instead. The
// core never inspects which kind it is talking to.
type Actor interface {
	ParticipantID() string
	NightAction(reg *domain.Registry, self *domain.Participant, day int, wolfHint string) (domain.NightActionRequest, bool)
	Vote(reg *domain.Registry, self *domain.Participant) (domain.Vote, bool)
	RevengeTarget(reg *domain.Registry, self *domain.Participant) (string, bool)
}

// HumanActor acts through out-of-band submissions; every synchronous
// ask is declined.
type HumanActor struct {
	id string
}

// NewHumanActor wraps a human participant ID
func NewHumanActor(id string) *HumanActor {
	return &HumanActor{id: id}
}

func (h *HumanActor) ParticipantID() string { return h.id }

func (h *HumanActor) NightAction(*domain.Registry, *domain.Participant, int, string) (domain.NightActionRequest, bool) {
	return domain.NightActionRequest{}, false
}

func (h *HumanActor) Vote(*domain.Registry, *domain.Participant) (domain.Vote, bool) {
	return domain.Vote{}, false
}

func (h *HumanActor) RevengeTarget(*domain.Registry, *domain.Participant) (string, bool) {
	return "", false
}

// AutomatedActor answers every ask synchronously from the policy
type AutomatedActor struct {
	id     string
	policy *bot.Policy
}

// NewAutomatedActor wraps a bot participant ID around the session policy
func NewAutomatedActor(id string, policy *bot.Policy) *AutomatedActor {
	return &AutomatedActor{id: id, policy: policy}
}

func (a *AutomatedActor) ParticipantID() string { return a.id }

func (a *AutomatedActor) NightAction(reg *domain.Registry, self *domain.Participant, day int, wolfHint string) (domain.NightActionRequest, bool) {
	return a.policy.NightAction(reg, self, day, wolfHint)
}

func (a *AutomatedActor) Vote(reg *domain.Registry, self *domain.Participant) (domain.Vote, bool) {
	return a.policy.Vote(reg, self)
}

func (a *AutomatedActor) RevengeTarget(reg *domain.Registry, self *domain.Participant) (string, bool) {
	return a.policy.RevengeTarget(reg, self)
}
