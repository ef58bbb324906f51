package engine

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// Per-tick need rates.
const (
	HungerDrain = 0.0008
	EnergyDrain = 0.0006
	SocialDrain = 0.0005

	CuriosityDrain     = 0.0004
	StaleThreshold     = 60
	StaleThresholdLong = 180
	StaleThresholdMax  = 360

	RestRecoverySheltered = 0.008
	RestRecoveryExposed   = 0.004

	SafetyStormDrain = 0.002
	SafetyRainDrain  = 0.0005
	SafetyNightDrain = 0.001
	SafetyRecovery   = 0.001

	CompanyRange = 5.0 // Social holds while someone is this close
)

// Need multipliers.
const (
	MovingHungerMult = 1.5
	StormHungerMult  = 1.3
	SnowHungerMult   = 1.2
	WellHungerMult   = 0.9

	MovingEnergyMult   = 1.5
	NightEnergyMult    = 1.2
	StormEnergyMult    = 1.3
	IsolatedEnergyMult = 1.1
	HutRestMult        = 1.5
)

// updateNeeds is the continuous needs machine: drains, recoveries, clamp.
func (s *Simulation) updateNeeds(a *agents.Agent) {
	env := s.env
	fx := s.World.Structures.EffectsAt(a.Position.X, a.Position.Y)
	sheltered := s.sheltered(a.Position, fx)
	company := s.companyNear(a, CompanyRange)
	n := &a.Needs

	// Hunger
	hunger := HungerDrain
	if a.Moving {
		hunger *= MovingHungerMult
	}
	switch env.Kind {
	case weather.Storm:
		hunger *= StormHungerMult
	case weather.Snow:
		hunger *= SnowHungerMult
	}
	if fx.NearWell {
		hunger *= WellHungerMult
	}
	n.Hunger -= hunger

	// Energy
	if a.Action.Current.Type == agents.ActionRest {
		gain := RestRecoveryExposed
		if sheltered {
			gain = RestRecoverySheltered
		}
		if fx.NearHut {
			gain *= HutRestMult
		}
		n.Energy += gain
	} else {
		drain := EnergyDrain
		if a.Moving {
			drain *= MovingEnergyMult
		}
		if env.IsNight() {
			drain *= NightEnergyMult
		}
		if env.IsStorm() {
			drain *= StormEnergyMult
		}
		if !company {
			drain *= IsolatedEnergyMult
		}
		drain *= 1 + a.Fatigue.Level/2
		n.Energy -= drain
	}

	// Social holds in company.
	if !company {
		n.Social -= SocialDrain
	}

	// Curiosity drains once the agent has seen nothing new for a while.
	a.StaleTicks++
	switch {
	case a.StaleTicks > StaleThresholdMax:
		n.Curiosity -= CuriosityDrain * 3
	case a.StaleTicks > StaleThresholdLong:
		n.Curiosity -= CuriosityDrain * 2
	case a.StaleTicks > StaleThreshold:
		n.Curiosity -= CuriosityDrain
	}

	// Safety
	switch env.Kind {
	case weather.Storm:
		n.Safety -= SafetyStormDrain
	case weather.Rain:
		n.Safety -= SafetyRainDrain
	}
	if env.IsNight() && !sheltered {
		n.Safety -= SafetyNightDrain
	}
	calm := env.Kind != weather.Storm && env.Kind != weather.Rain && !env.IsNight()
	if (calm || sheltered) && !env.IsStorm() {
		n.Safety += SafetyRecovery
	}

	n.Clamp()
}

// sheltered reports cover at p: beside rock, or near a hut or campfire.
func (s *Simulation) sheltered(p world.Point, fx world.Effects) bool {
	if fx.NearHut || fx.NearCampfire {
		return true
	}
	for _, n := range p.Neighbors4() {
		if s.World.Map.TileAt(n.X, n.Y).Type.IsShelter() {
			return true
		}
	}
	return false
}

// companyNear reports whether another living agent is within radius.
func (s *Simulation) companyNear(a *agents.Agent, radius float64) bool {
	return s.neighborCount(a, radius) > 0
}

func (s *Simulation) neighborCount(a *agents.Agent, radius float64) int {
	n := 0
	for _, other := range s.Agents {
		if other.ID == a.ID || !other.Alive {
			continue
		}
		if world.Distance(a.Position, other.Position) <= radius {
			n++
		}
	}
	return n
}
