package brain

import "github.com/talgya/mini-village/internal/agents"

// Fixed energy checks. These never pass through the trait modifier.
const (
	EnergyCritical  = 0.10
	EnergyLow       = 0.30
	EnergyProactive = 0.50
)

// Thresholds are the base need levels below which a tier fires.
type Thresholds struct {
	EmergencyHunger float64 `yaml:"emergency_hunger" json:"emergency_hunger"`
	EmergencySafety float64 `yaml:"emergency_safety" json:"emergency_safety"`
	ModerateHunger  float64 `yaml:"moderate_hunger" json:"moderate_hunger"`
	ModerateSafety  float64 `yaml:"moderate_safety" json:"moderate_safety"`
	Social          float64 `yaml:"social" json:"social"`
	Curiosity       float64 `yaml:"curiosity" json:"curiosity"`
	ProactiveHunger float64 `yaml:"proactive_hunger" json:"proactive_hunger"`
	ProactiveSocial float64 `yaml:"proactive_social" json:"proactive_social"`

	TraitStrength float64 `yaml:"trait_strength" json:"trait_strength"`
}

// DefaultThresholds returns the standard tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EmergencyHunger: 0.15,
		EmergencySafety: 0.15,
		ModerateHunger:  0.35,
		ModerateSafety:  0.35,
		Social:          0.30,
		Curiosity:       0.25,
		ProactiveHunger: 0.60,
		ProactiveSocial: 0.50,
		TraitStrength:   agents.DefaultTraitStrength,
	}
}

// Personalize applies the trait modifier to every threshold. Industrious
// agents eat later, fearful ones seek shelter sooner.
func (t Thresholds) Personalize(p agents.Personality) Thresholds {
	mod := func(base, trait float64) float64 {
		return agents.TraitModifier(base, trait, t.TraitStrength)
	}
	hungerTrait := 1 - p.Industriousness
	fear := p.Fearfulness()
	return Thresholds{
		EmergencyHunger: mod(t.EmergencyHunger, hungerTrait),
		EmergencySafety: mod(t.EmergencySafety, fear),
		ModerateHunger:  mod(t.ModerateHunger, hungerTrait),
		ModerateSafety:  mod(t.ModerateSafety, fear),
		Social:          mod(t.Social, p.Sociability),
		Curiosity:       mod(t.Curiosity, p.Curiosity),
		ProactiveHunger: mod(t.ProactiveHunger, hungerTrait),
		ProactiveSocial: mod(t.ProactiveSocial, p.Sociability),
		TraitStrength:   t.TraitStrength,
	}
}

// CraftThreshold is the held-resource count needed before crafting.
// Crafty agents craft with less in hand.
func (t Thresholds) CraftThreshold(base float64, p agents.Personality) float64 {
	return agents.TraitModifier(base, 1-p.Craftiness, t.TraitStrength)
}
