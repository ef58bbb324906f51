// Package brain turns a perception into a single action. The priority
// selector is the shared, stateless decision engine; a learned linear policy
// can be swapped in by configuration.
package brain

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/perception"
	"github.com/talgya/mini-village/internal/weather"
)

// Tier reasons attached to each decision.
const (
	ReasonHungerEmergency = "hunger_emergency"
	ReasonSafetyEmergency = "safety_emergency"
	ReasonEnergyCritical  = "energy_critical"
	ReasonHungerModerate  = "hunger_moderate"
	ReasonSafetyModerate  = "safety_moderate"
	ReasonEnergyLow       = "energy_low"
	ReasonLonely          = "lonely"
	ReasonBored           = "bored"
	ReasonHungerProactive = "hunger_proactive"
	ReasonEnergyProactive = "energy_proactive"
	ReasonSocialProactive = "social_proactive"
	ReasonCraft           = "craft"
	ReasonBuild           = "build"
	ReasonFish            = "fish"
	ReasonGather          = "gather"
	ReasonDefault         = "default"
)

// PrioritySelector walks the tiers in order; the first guard that holds and
// resolves a target returns the action.
type PrioritySelector struct {
	Thresholds Thresholds
}

// NewPrioritySelector creates a selector with the given base thresholds.
func NewPrioritySelector(t Thresholds) *PrioritySelector {
	return &PrioritySelector{Thresholds: t}
}

var defaultSelector = NewPrioritySelector(DefaultThresholds())

// Decide runs the default priority selector.
func Decide(p *perception.Perception) agents.Action {
	return defaultSelector.Decide(p)
}

// Name identifies the decider.
func (s *PrioritySelector) Name() string { return KindPriority }

// Decide returns the action for p. It never returns an error: a tier whose
// target cannot be resolved falls through, and the last tier always holds.
func (s *PrioritySelector) Decide(p *perception.Perception) agents.Action {
	th := s.Thresholds.Personalize(p.Personality)
	n := p.Needs

	food := func(reason string) (agents.Action, bool) {
		pos, ok := resolveFood(p)
		return agents.Action{Type: agents.ActionForage, Target: pos, Reason: reason}, ok
	}
	shelter := func(reason string) (agents.Action, bool) {
		pos, ok := resolveShelter(p)
		return agents.Action{Type: agents.ActionSeekShelter, Target: pos, Reason: reason}, ok
	}

	// Survival
	if n.Hunger < th.EmergencyHunger {
		if a, ok := food(ReasonHungerEmergency); ok {
			return a
		}
	}
	if n.Safety < th.EmergencySafety {
		if a, ok := shelter(ReasonSafetyEmergency); ok {
			return a
		}
	}
	if n.Energy < EnergyCritical {
		return restAction(p, ReasonEnergyCritical)
	}
	if n.Hunger < th.ModerateHunger {
		if a, ok := food(ReasonHungerModerate); ok {
			return a
		}
	}
	if n.Safety < th.ModerateSafety || (p.Weather == weather.Storm && !nearShelter(p)) {
		if a, ok := shelter(ReasonSafetyModerate); ok {
			return a
		}
	}
	if n.Energy < EnergyLow {
		return restAction(p, ReasonEnergyLow)
	}

	// Wellbeing
	if n.Social < th.Social {
		if av, ok := socialTarget(p, SocialRange); ok {
			return socializeAction(av, ReasonLonely)
		}
	}
	if n.Curiosity < th.Curiosity {
		return exploreAction(p, ReasonBored)
	}
	if n.Hunger < th.ProactiveHunger {
		if a, ok := food(ReasonHungerProactive); ok {
			return a
		}
	}
	if n.Energy < EnergyProactive {
		return restAction(p, ReasonEnergyProactive)
	}
	if n.Social < th.ProactiveSocial {
		if av, ok := socialTarget(p, ProactiveSocialRng); ok {
			return socializeAction(av, ReasonSocialProactive)
		}
	}

	// Work
	if craftReady(p, s.Thresholds) {
		return agents.Action{Type: agents.ActionCraft, Target: p.Origin, Reason: ReasonCraft}
	}
	if pos, ok := buildTarget(p); ok {
		return agents.Action{Type: agents.ActionBuild, Target: pos, Reason: ReasonBuild}
	}
	if pos, ok := fishTarget(p); ok {
		return agents.Action{Type: agents.ActionFish, Target: pos, Reason: ReasonFish}
	}
	if pos, ok := gatherTarget(p); ok {
		return agents.Action{Type: agents.ActionGather, Target: pos, Reason: ReasonGather}
	}

	return exploreAction(p, ReasonDefault)
}
