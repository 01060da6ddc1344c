package domain

import "time"

// Vote is one day-vote ballot. Re-casting before the phase closes
// supersedes the earlier ballot (last-vote-wins).
type Vote struct {
	VoterID  string    `json:"voterId"`
	TargetID string    `json:"targetId"`
	CastAt   time.Time `json:"castAt"`
}

// TallyResult is the outcome of counting one set of ballots
type TallyResult struct {
	Counts    map[string]int `json:"counts"`
	TargetID  string         `json:"targetId"` // "" when no strict plurality
	Tied      bool           `json:"tied"`
	TotalCast int            `json:"totalCast"`
}

// Tally counts ballots and picks the strict-plurality target. A tie for
// the top count deliberately selects nobody: the engine never lynches
// (or night-kills) on a split vote. Ballots naming dead or unknown
// targets are dropped.
func Tally(votes []Vote, reg *Registry) TallyResult {
	counts := make(map[string]int)
	for _, v := range votes {
		target, err := reg.Get(v.TargetID)
		if err != nil || !target.Alive {
			continue
		}
		counts[v.TargetID]++
	}

	result := TallyResult{Counts: counts}
	max := 0
	for id, count := range counts {
		result.TotalCast += count
		switch {
		case count > max:
			max = count
			result.TargetID = id
			result.Tied = false
		case count == max:
			result.Tied = true
		}
	}

	if result.Tied {
		result.TargetID = ""
	}
	return result
}
