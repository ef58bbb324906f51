package agents

import "sort"

// StatusEffect is a named temporary condition.
type StatusEffect string

const (
	StatusStarving  StatusEffect = "starving"
	StatusExhausted StatusEffect = "exhausted"
	StatusLonely    StatusEffect = "lonely"
	StatusCold      StatusEffect = "cold"
	StatusCrowded   StatusEffect = "crowded"
	StatusWellFed   StatusEffect = "well_fed"
	StatusRested    StatusEffect = "rested"
)

// StatusEffects maps each active effect to the tick it began.
type StatusEffects struct {
	Active map[StatusEffect]uint64 `json:"active,omitempty"`
}

// Has reports whether e is active.
func (s *StatusEffects) Has(e StatusEffect) bool {
	_, ok := s.Active[e]
	return ok
}

// Add activates e. Returns true if it was not already active.
func (s *StatusEffects) Add(e StatusEffect, tick uint64) bool {
	if s.Has(e) {
		return false
	}
	if s.Active == nil {
		s.Active = make(map[StatusEffect]uint64)
	}
	s.Active[e] = tick
	return true
}

// Remove clears e. Returns true if it was active.
func (s *StatusEffects) Remove(e StatusEffect) bool {
	if !s.Has(e) {
		return false
	}
	delete(s.Active, e)
	return true
}

// Set adds or removes e depending on on.
func (s *StatusEffects) Set(e StatusEffect, on bool, tick uint64) bool {
	if on {
		return s.Add(e, tick)
	}
	return s.Remove(e)
}

// List returns active effects in name order.
func (s *StatusEffects) List() []StatusEffect {
	out := make([]StatusEffect, 0, len(s.Active))
	for e := range s.Active {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
