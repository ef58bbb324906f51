package agents

import "github.com/talgya/mini-village/internal/world"

// Territory drift rates.
const (
	HomeRadius         = 6.0
	FamiliarityGain    = 0.002
	FamiliarityFade    = 0.001
	InitialFamiliarity = 0.3
)

// Territory is an agent's claimed home and how attached it is to it.
type Territory struct {
	Home        *world.Point `json:"home,omitempty"`
	ClaimedTick uint64       `json:"claimed_tick,omitempty"`
	Familiarity float64      `json:"familiarity"`
}

// Claim sets home to p when no home exists. Returns true on a new claim.
func (t *Territory) Claim(p world.Point, tick uint64) bool {
	if t.Home != nil {
		return false
	}
	home := p
	t.Home = &home
	t.ClaimedTick = tick
	t.Familiarity = InitialFamiliarity
	return true
}

// Drift moves familiarity toward 1 near home and toward 0 away from it.
func (t *Territory) Drift(pos world.Point) {
	if t.Home == nil {
		return
	}
	if world.Distance(pos, *t.Home) <= HomeRadius {
		t.Familiarity = clamp(t.Familiarity+FamiliarityGain, 0, 1)
	} else {
		t.Familiarity = clamp(t.Familiarity-FamiliarityFade, 0, 1)
	}
}
