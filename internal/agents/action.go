package agents

// ActionPhase is where the current action is in its execution.
type ActionPhase uint8

const (
	PhasePending    ActionPhase = iota // Decided, not yet at target
	PhaseInProgress                    // At target, timer running
	PhaseResolved                      // Completed or one-shot applied
)

// ActionState is the per-agent action automaton.
type ActionState struct {
	Current Action      `json:"current"`
	Phase   ActionPhase `json:"phase"`
	Timer   int         `json:"timer"` // Ticks spent at the target
}

// Begin adopts a decision. Continuing the same action on the same target
// keeps the timer; anything else resets it.
func (s *ActionState) Begin(a Action) {
	if sameAction(s.Current, a) {
		s.Current.Reason = a.Reason
		s.Current.Target = a.Target
		return
	}
	s.Current = a
	s.Phase = PhasePending
	s.Timer = 0
}

// Tick advances the timer one step and returns the new value.
func (s *ActionState) Tick() int {
	s.Phase = PhaseInProgress
	s.Timer++
	return s.Timer
}

// Finish resolves the action and reverts the agent to idle in place.
func (s *ActionState) Finish() {
	target := s.Current.Target
	s.Current = Action{Type: ActionIdle, Target: target}
	s.Phase = PhaseResolved
	s.Timer = 0
}

// Resolve marks a one-shot action applied without changing its tag.
func (s *ActionState) Resolve() {
	s.Phase = PhaseResolved
	s.Timer = 0
}

// Remaining returns ticks left before an action of the given duration resolves.
func (s *ActionState) Remaining(duration int) int {
	r := duration - s.Timer
	if r < 0 {
		return 0
	}
	return r
}

// sameAction compares type and target. Following the same partner counts as
// the same action even as the partner moves.
func sameAction(a, b Action) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == ActionSocialize && a.TargetAgent != nil && b.TargetAgent != nil {
		return *a.TargetAgent == *b.TargetAgent
	}
	if a.Target != b.Target {
		return false
	}
	if (a.TargetAgent == nil) != (b.TargetAgent == nil) {
		return false
	}
	return a.TargetAgent == nil || *a.TargetAgent == *b.TargetAgent
}
