package agents

// SkillKind enumerates trainable skills.
type SkillKind uint8

const (
	SkillForaging SkillKind = iota
	SkillGathering
	SkillCrafting
	SkillBuilding
	SkillFishing
)

// NumSkills is the total number of skills.
const NumSkills = 5

var skillNames = [NumSkills]string{"foraging", "gathering", "crafting", "building", "fishing"}

// String returns the skill name.
func (k SkillKind) String() string {
	if int(k) < NumSkills {
		return skillNames[k]
	}
	return "unknown"
}

// Skills holds a level in [0, 1] per skill.
type Skills struct {
	Levels [NumSkills]float64 `json:"levels"`
}

// Level returns the current level of k.
func (s *Skills) Level(k SkillKind) float64 {
	return s.Levels[k]
}

// Train grants experience with diminishing returns, base*(1-level)^2.
// Returns the gain applied.
func (s *Skills) Train(k SkillKind, base float64) float64 {
	level := s.Levels[k]
	gain := XPGain(level, base)
	s.Levels[k] = clamp(level+gain, 0, 1)
	return s.Levels[k] - level
}

// XPGain is the diminishing-returns experience formula.
func XPGain(level, base float64) float64 {
	rest := 1 - level
	return base * rest * rest
}
