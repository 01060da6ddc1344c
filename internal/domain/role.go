package domain

import "math/rand"

// Alignment is the faction a role wins with
type Alignment string

const (
	AlignVillage Alignment = "VILLAGE"
	AlignWolf    Alignment = "WOLF"
	AlignNeutral Alignment = "NEUTRAL"
)

// Role represents a participant's secret role
type Role string

const (
	RoleVillager  Role = "VILLAGER"
	RoleWerewolf  Role = "WEREWOLF"
	RoleSeer      Role = "SEER"
	RoleWitch     Role = "WITCH"
	RoleMuter     Role = "MUTER"
	RoleHunter    Role = "HUNTER"
	RoleCupid     Role = "CUPID"
	RoleWhiteWolf Role = "WHITEWOLF"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// RoleSpec describes the static capabilities of a role
type RoleSpec struct {
	Alignment      Alignment
	HasNightAction bool
	UsesOnce       bool
}

// Catalog holds the static definition of every role. Immutable.
var Catalog = map[Role]RoleSpec{
	RoleVillager:  {Alignment: AlignVillage},
	RoleWerewolf:  {Alignment: AlignWolf, HasNightAction: true},
	RoleSeer:      {Alignment: AlignVillage, HasNightAction: true},
	RoleWitch:     {Alignment: AlignVillage, HasNightAction: true, UsesOnce: true},
	RoleMuter:     {Alignment: AlignVillage, HasNightAction: true},
	RoleHunter:    {Alignment: AlignVillage, UsesOnce: true},
	RoleCupid:     {Alignment: AlignVillage, HasNightAction: true, UsesOnce: true},
	RoleWhiteWolf: {Alignment: AlignWolf, HasNightAction: true},
}

// Spec returns the catalog entry for a role
func (r Role) Spec() RoleSpec {
	return Catalog[r]
}

// IsWolf returns true for wolf-aligned roles
func (r Role) IsWolf() bool {
	return Catalog[r].Alignment == AlignWolf
}

// RoleSetup is the configured count of each role for one session
type RoleSetup map[Role]int

// Validate checks the setup against the participant count. A playable
// setup assigns every seat exactly one role and contains at least one
// wolf-aligned and one village-aligned role.
func (rs RoleSetup) Validate(participants int) error {
	total := 0
	wolves := 0
	village := 0

	for role, count := range rs {
		if count < 0 {
			return ErrInvalidSessionConfig
		}
		spec, ok := Catalog[role]
		if !ok {
			return ErrInvalidSessionConfig
		}
		total += count
		switch spec.Alignment {
		case AlignWolf:
			wolves += count
		case AlignVillage:
			village += count
		}
	}

	if total != participants || wolves == 0 || village == 0 {
		return ErrInvalidSessionConfig
	}
	return nil
}

// Deal returns a shuffled slice of roles matching the setup, one per
// seat. Shuffling uses the caller's RNG so assignment is replayable
// under a fixed seed.
func (rs RoleSetup) Deal(rng *rand.Rand) []Role {
	roles := make([]Role, 0)
	for role, count := range rs {
		for i := 0; i < count; i++ {
			roles = append(roles, role)
		}
	}

	// Map iteration order is random; sort before shuffling so the same
	// seed always deals the same hands.
	for i := 1; i < len(roles); i++ {
		for j := i; j > 0 && roles[j] < roles[j-1]; j-- {
			roles[j], roles[j-1] = roles[j-1], roles[j]
		}
	}

	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	return roles
}

// DefaultSetup derives a standard role distribution for n participants:
// one wolf per four seats, then one of each special, villagers fill the
// rest.
func DefaultSetup(n int) RoleSetup {
	setup := RoleSetup{}

	wolves := n / 4
	if wolves < 1 {
		wolves = 1
	}
	setup[RoleWerewolf] = wolves

	specials := []Role{RoleSeer, RoleWitch, RoleHunter, RoleCupid, RoleMuter}
	remaining := n - wolves
	for _, role := range specials {
		if remaining <= 1 {
			break
		}
		setup[role] = 1
		remaining--
	}
	if remaining > 0 {
		setup[RoleVillager] = remaining
	}

	return setup
}
