package agents

// Fatigue accrual and recovery.
const (
	OverworkStreak      = 100 // Consecutive working ticks before accrual doubles
	RestRecovery        = 0.01
	ShelterRestRecovery = 0.02
	IdleRecovery        = 0.0005
)

var workFatigue = map[ActionType]float64{
	ActionForage: 0.002,
	ActionGather: 0.004,
	ActionCraft:  0.003,
	ActionBuild:  0.005,
	ActionFish:   0.002,
}

// Fatigue is accumulated tiredness from labor, separate from energy.
type Fatigue struct {
	Level      float64 `json:"level"` // 0.0–1.0
	WorkStreak int     `json:"work_streak"`
}

// AddWorkFatigue accrues fatigue for one tick of the given action. Returns
// false for actions that are not work.
func (f *Fatigue) AddWorkFatigue(a ActionType) bool {
	amt, ok := workFatigue[a]
	if !ok {
		return false
	}
	f.WorkStreak++
	if f.WorkStreak > OverworkStreak {
		amt *= 2
	}
	f.Level = clamp(f.Level+amt, 0, 1)
	return true
}

// Rest recovers fatigue, faster when sheltered, and breaks the work streak.
func (f *Fatigue) Rest(sheltered bool) {
	amt := RestRecovery
	if sheltered {
		amt = ShelterRestRecovery
	}
	f.WorkStreak = 0
	f.Level = clamp(f.Level-amt, 0, 1)
}

// Idle breaks the work streak with a slow passive recovery.
func (f *Fatigue) Idle() {
	f.WorkStreak = 0
	f.Level = clamp(f.Level-IdleRecovery, 0, 1)
}

// Overworked reports whether the agent is past the overwork streak.
func (f *Fatigue) Overworked() bool {
	return f.WorkStreak > OverworkStreak
}
