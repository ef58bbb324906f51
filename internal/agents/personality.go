package agents

// Trait bounds. Personalities are drawn inside this band at spawn.
const (
	TraitMin = 0.2
	TraitMax = 0.8
)

// DefaultTraitStrength is how strongly a trait bends a threshold: a trait of
// 1.0 raises the base by 25%, a trait of 0.0 lowers it by 25%.
const DefaultTraitStrength = 0.5

// Personality is fixed at creation and only read afterwards.
type Personality struct {
	Bravery         float64 `json:"bravery"`
	Sociability     float64 `json:"sociability"`
	Curiosity       float64 `json:"curiosity"`
	Industriousness float64 `json:"industriousness"`
	Craftiness      float64 `json:"craftiness"`
}

// Fearfulness is the inverse of bravery; it scales the safety thresholds.
func (p Personality) Fearfulness() float64 {
	return 1 - p.Bravery
}

// Clamp forces every trait into [TraitMin, TraitMax].
func (p *Personality) Clamp() {
	p.Bravery = clamp(p.Bravery, TraitMin, TraitMax)
	p.Sociability = clamp(p.Sociability, TraitMin, TraitMax)
	p.Curiosity = clamp(p.Curiosity, TraitMin, TraitMax)
	p.Industriousness = clamp(p.Industriousness, TraitMin, TraitMax)
	p.Craftiness = clamp(p.Craftiness, TraitMin, TraitMax)
}

// NeutralPersonality has every trait at the midpoint.
func NeutralPersonality() Personality {
	return Personality{Bravery: 0.5, Sociability: 0.5, Curiosity: 0.5, Industriousness: 0.5, Craftiness: 0.5}
}

// TraitModifier bends a base threshold by a trait value:
// base * (1 + (trait - 0.5) * strength).
func TraitModifier(base, trait, strength float64) float64 {
	return base * (1 + (trait-0.5)*strength)
}
