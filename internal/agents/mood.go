package agents

// Mood is the agent's displayed emotional state.
type Mood string

const (
	MoodMiserable Mood = "miserable"
	MoodAfraid    Mood = "afraid"
	MoodTired     Mood = "tired"
	MoodLonely    Mood = "lonely"
	MoodBored     Mood = "bored"
	MoodCheerful  Mood = "cheerful"
	MoodFocused   Mood = "focused"
	MoodContent   Mood = "content"
	MoodNeutral   Mood = "neutral"
)

// EvaluateMood picks a mood by walking rules in priority order; the first
// matching rule wins.
func EvaluateMood(n Needs, f Fatigue, s *StatusEffects, current ActionType) Mood {
	switch {
	case n.Hunger < 0.1 || n.Energy < 0.1 || s.Has(StatusStarving):
		return MoodMiserable
	case n.Safety < 0.2 || s.Has(StatusCold):
		return MoodAfraid
	case n.Energy < 0.3 || f.Level > 0.8:
		return MoodTired
	case n.Social < 0.2:
		return MoodLonely
	case n.Curiosity < 0.2:
		return MoodBored
	case current == ActionSocialize:
		return MoodCheerful
	case current.IsWork() && f.WorkStreak > 20:
		return MoodFocused
	case n.Average() > 0.7:
		return MoodContent
	default:
		return MoodNeutral
	}
}
