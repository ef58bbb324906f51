package engine

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/weather"
)

// Status effect triggers.
const (
	StarvingBelow  = 0.1
	ExhaustedBelow = 0.1
	LonelyBelow    = 0.2
	WellFedAbove   = 0.8
	RestedAbove    = 0.8
	CrowdRadius    = 2.0
	CrowdSize      = 4
	DeathRadius    = 8.0
)

// updateDerived runs the slower subsystems layered on the needs.
func (s *Simulation) updateDerived(a *agents.Agent, tick uint64) {
	fx := s.World.Structures.EffectsAt(a.Position.X, a.Position.Y)
	sheltered := s.sheltered(a.Position, fx)
	n := a.Needs
	env := s.env

	st := &a.Status
	st.Set(agents.StatusStarving, n.Hunger < StarvingBelow, tick)
	st.Set(agents.StatusExhausted, n.Energy < ExhaustedBelow || a.Fatigue.Level > 0.9, tick)
	st.Set(agents.StatusLonely, n.Social < LonelyBelow, tick)
	exposed := env.Kind == weather.Snow || env.IsStorm() || env.IsNight()
	st.Set(agents.StatusCold, exposed && !sheltered, tick)
	st.Set(agents.StatusCrowded, s.neighborCount(a, CrowdRadius) >= CrowdSize, tick)
	st.Set(agents.StatusWellFed, n.Hunger > WellFedAbove, tick)
	st.Set(agents.StatusRested, n.Energy > RestedAbove && a.Fatigue.Level < 0.2, tick)

	current := a.Action.Current.Type
	switch {
	case current == agents.ActionRest:
		a.Fatigue.Rest(sheltered)
	case current.IsWork() && a.Action.Phase == agents.PhaseInProgress:
		a.Fatigue.AddWorkFatigue(current)
	default:
		a.Fatigue.Idle()
	}

	a.Territory.Drift(a.Position)
	a.Mood = agents.EvaluateMood(a.Needs, a.Fatigue, st, current)
	a.Memories.Decay(agents.MemoryDecayPerTick)

	if s.Config.TitleInterval > 0 && tick%s.Config.TitleInterval == 0 {
		for _, title := range agents.CheckTitles(a, tick) {
			s.emit(tick, CategoryTitle, a.ID, "%s is now known as %s", a.Name, title)
		}
	}
}

// checkStarvation counts ticks at zero hunger and kills the agent at the
// configured limit. Returns true if the agent died.
func (s *Simulation) checkStarvation(a *agents.Agent, tick uint64) bool {
	if a.Needs.Hunger > 0 {
		a.StarvingTicks = 0
		return false
	}
	a.StarvingTicks++
	if a.StarvingTicks < s.Config.StarvationTicks {
		return false
	}

	a.Alive = false
	a.Path = nil
	a.Moving = false
	a.Action.Finish()
	s.emit(tick, CategoryDeath, a.ID, "%s has starved", a.Name)

	for _, other := range s.AgentsNear(a.Position, DeathRadius) {
		if other.ID == a.ID {
			continue
		}
		id := a.ID
		other.Memories.Add(agents.Memory{
			Type:         agents.MemDeath,
			Tick:         tick,
			Pos:          a.Position,
			Significance: 1,
			RelatedAgent: &id,
			Detail:       a.Name + " starved here",
		})
	}
	return true
}
