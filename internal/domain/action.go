package domain

import "time"

// ActionKind identifies a role-gated action
type ActionKind string

const (
	ActionWolfVote  ActionKind = "WOLF_VOTE"  // vote for tonight's kill
	ActionInspect   ActionKind = "INSPECT"    // seer investigation
	ActionHeal      ActionKind = "HEAL"       // witch's healing potion
	ActionPoison    ActionKind = "POISON"     // witch's poison
	ActionWitchPass ActionKind = "WITCH_PASS" // witch keeps both potions
	ActionMute      ActionKind = "MUTE"       // block a target's next day vote
	ActionBond      ActionKind = "BOND"       // cupid's pairing, night 1 only
	ActionDevour    ActionKind = "DEVOUR"     // white wolf's packmate kill
	ActionRevenge   ActionKind = "REVENGE"    // hunter's dying shot
	ActionLynchVote ActionKind = "LYNCH_VOTE" // day vote
	ActionPass      ActionKind = "PASS"       // explicit no-op
)

// NightActionRequest is one collected action. Created by a human
// submission or an automated policy, consumed exactly once by the
// resolver and discarded.
type NightActionRequest struct {
	ActorID     string
	Role        Role
	Kind        ActionKind
	TargetIDs   []string // 0, 1 or 2 targets depending on Kind
	SubmittedAt time.Time
}

// Target returns the first target or "" when the request carries none
func (a NightActionRequest) Target() string {
	if len(a.TargetIDs) == 0 {
		return ""
	}
	return a.TargetIDs[0]
}
