package domain

// GameResult is created once at session termination and is immutable
// afterwards. A nil result means the session was aborted.
type GameResult struct {
	WinningAlignment Alignment       `json:"winningAlignment"`
	LoversWin        bool            `json:"loversWin"`
	Outcomes         map[string]bool `json:"outcomes"` // participant ID -> survived
}

// EvaluateWin checks the win conditions in order: bonded-pair special
// win, village win, wolf win. It returns nil while the session should
// continue. The check is idempotent: with no intervening state change
// it always returns the same result.
func EvaluateWin(reg *Registry) *GameResult {
	alive := reg.Alive()

	// (a) the bonded pair are the only survivors: they win together,
	// alignment irrelevant
	if len(alive) == 2 && alive[0].BondedWith == alive[1].ID && alive[1].BondedWith == alive[0].ID {
		result := newResult(reg, AlignNeutral)
		result.LoversWin = true
		return result
	}

	wolves, village := reg.AliveCounts()

	// (b) all wolves dead: village wins
	if wolves == 0 {
		return newResult(reg, AlignVillage)
	}

	// (c) wolves reach parity with the village: wolves win
	if wolves >= village {
		return newResult(reg, AlignWolf)
	}

	return nil
}

func newResult(reg *Registry, winner Alignment) *GameResult {
	outcomes := make(map[string]bool, reg.Len())
	for _, p := range reg.All() {
		outcomes[p.ID] = p.Alive
	}
	return &GameResult{WinningAlignment: winner, Outcomes: outcomes}
}
