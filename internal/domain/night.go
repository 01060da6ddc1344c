package domain

// SeerReveal is a private investigation result, delivered only to the
// seer (and, for automated villagers, shared on the bot knowledge
// board).
type SeerReveal struct {
	SeerID    string
	TargetID  string
	Name      string
	Alignment Alignment
}

// NightOutcome is everything one night produced. Deaths are already
// applied to the registry when the outcome is returned.
type NightOutcome struct {
	Day            int
	Deaths         []DeathRecord
	Reveals        []SeerReveal
	Bonded         [2]string // pair bonded tonight, zero values if none
	WolfTally      TallyResult
	Healed         bool
	HealedTarget   string
	PendingHunters []string // dead hunters owed a revenge shot, in death order
}

// ResolveNight applies the collected actions of one night in fixed
// priority order: cupid bond, seer inspection, wolf kill, witch heal
// and poison, muter, white wolf devour. Arrival order never matters.
// Requests referencing dead or missing participants are dropped.
func ResolveNight(reg *Registry, day int, actions []NightActionRequest) NightOutcome {
	out := NightOutcome{Day: day}

	byKind := make(map[ActionKind][]NightActionRequest)
	for _, a := range actions {
		actor, err := reg.Get(a.ActorID)
		if err != nil || !actor.Alive {
			continue
		}
		byKind[a.Kind] = append(byKind[a.Kind], a)
	}

	// 1. Cupid bond, night 1 only
	if day == 1 {
		for _, a := range byKind[ActionBond] {
			cupid, _ := reg.Get(a.ActorID)
			if cupid.Role != RoleCupid || cupid.BondUsed || len(a.TargetIDs) != 2 {
				continue
			}
			if a.TargetIDs[0] == a.TargetIDs[1] {
				continue
			}
			if err := reg.Bond(a.TargetIDs[0], a.TargetIDs[1]); err != nil {
				continue
			}
			cupid.BondUsed = true
			out.Bonded = [2]string{a.TargetIDs[0], a.TargetIDs[1]}
			break
		}
	}

	// 2. Seer inspection
	for _, a := range byKind[ActionInspect] {
		seer, _ := reg.Get(a.ActorID)
		if seer.Role != RoleSeer {
			continue
		}
		target, err := reg.Get(a.Target())
		if err != nil || !target.Alive {
			continue
		}
		out.Reveals = append(out.Reveals, SeerReveal{
			SeerID:    seer.ID,
			TargetID:  target.ID,
			Name:      target.Name,
			Alignment: target.Alignment(),
		})
	}

	// 3. Wolf kill: plurality among wolf votes, tie means no kill
	wolfVotes := make([]Vote, 0, len(byKind[ActionWolfVote]))
	for _, a := range byKind[ActionWolfVote] {
		wolf, _ := reg.Get(a.ActorID)
		if !wolf.Role.IsWolf() || a.Target() == "" {
			continue
		}
		wolfVotes = append(wolfVotes, Vote{VoterID: a.ActorID, TargetID: a.Target(), CastAt: a.SubmittedAt})
	}
	out.WolfTally = Tally(wolfVotes, reg)
	pendingKill := out.WolfTally.TargetID

	// 4. Witch: heal cancels the pending kill, poison adds a second
	// independent death. One use of each potion per session.
	var poisonTarget string
	for _, a := range byKind[ActionHeal] {
		witch, _ := reg.Get(a.ActorID)
		if witch.Role != RoleWitch || witch.HealUsed || pendingKill == "" {
			continue
		}
		witch.HealUsed = true
		out.Healed = true
		out.HealedTarget = pendingKill
		pendingKill = ""
	}
	for _, a := range byKind[ActionPoison] {
		witch, _ := reg.Get(a.ActorID)
		if witch.Role != RoleWitch || witch.PoisonUsed {
			continue
		}
		target, err := reg.Get(a.Target())
		if err != nil || !target.Alive {
			continue
		}
		witch.PoisonUsed = true
		poisonTarget = target.ID
	}

	// 5. Muter
	for _, a := range byKind[ActionMute] {
		muter, _ := reg.Get(a.ActorID)
		if muter.Role != RoleMuter {
			continue
		}
		if target, err := reg.Get(a.Target()); err == nil && target.Alive {
			reg.Mute(target.ID)
		}
	}

	// 6. White wolf devour, even nights only, packmates only
	var devourTarget string
	if day%2 == 0 {
		for _, a := range byKind[ActionDevour] {
			ww, _ := reg.Get(a.ActorID)
			if ww.Role != RoleWhiteWolf {
				continue
			}
			target, err := reg.Get(a.Target())
			if err != nil || !target.Alive || !target.Role.IsWolf() || target.ID == ww.ID {
				continue
			}
			devourTarget = target.ID
		}
	}

	// Apply pending deaths atomically, lover chain included
	if pendingKill != "" {
		out.Deaths = append(out.Deaths, reg.Kill(CauseWolfKill, true, pendingKill)...)
	}
	if poisonTarget != "" {
		out.Deaths = append(out.Deaths, reg.Kill(CausePoison, true, poisonTarget)...)
	}
	if devourTarget != "" {
		out.Deaths = append(out.Deaths, reg.Kill(CauseDevour, true, devourTarget)...)
	}

	out.PendingHunters = pendingRevenges(reg, out.Deaths)
	return out
}

// ResolveRevenge applies one hunter's dying shot. Hunter-caused deaths
// chain no further: no lover chain, no nested revenge.
func ResolveRevenge(reg *Registry, hunterID, targetID string) []DeathRecord {
	hunter, err := reg.Get(hunterID)
	if err != nil || hunter.Role != RoleHunter || hunter.RevengeUsed {
		return nil
	}
	hunter.RevengeUsed = true

	target, err := reg.Get(targetID)
	if err != nil || !target.Alive {
		return nil
	}
	return reg.Kill(CauseRevenge, false, target.ID)
}

// pendingRevenges lists dead hunters that still hold their shot, in
// death order
func pendingRevenges(reg *Registry, deaths []DeathRecord) []string {
	out := make([]string, 0)
	for _, d := range deaths {
		if d.Role != RoleHunter {
			continue
		}
		if p, err := reg.Get(d.ParticipantID); err == nil && !p.RevengeUsed {
			out = append(out, d.ParticipantID)
		}
	}
	return out
}
