// Package agents provides the villager data model: needs, personality, memory,
// inventory, skills, and the smaller per-agent subsystems the update loop drives.
package agents

import (
	"fmt"

	"github.com/talgya/mini-village/internal/world"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// ActionType enumerates what an agent can be doing.
type ActionType uint8

const (
	ActionIdle ActionType = iota
	ActionForage
	ActionSeekShelter
	ActionRest
	ActionSocialize
	ActionExplore
	ActionCraft
	ActionBuild
	ActionFish
	ActionGather
)

// NumActions is the total number of action types.
const NumActions = 10

var actionNames = [NumActions]string{
	"IDLE", "FORAGE", "SEEK_SHELTER", "REST", "SOCIALIZE",
	"EXPLORE", "CRAFT", "BUILD", "FISH", "GATHER",
}

// String returns the upper-case action tag.
func (t ActionType) String() string {
	if int(t) < NumActions {
		return actionNames[t]
	}
	return fmt.Sprintf("ACTION(%d)", uint8(t))
}

// MarshalText encodes the action as its tag.
func (t ActionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes an action tag.
func (t *ActionType) UnmarshalText(b []byte) error {
	for i, n := range actionNames {
		if n == string(b) {
			*t = ActionType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", string(b))
}

// IsWork reports whether the action accrues work fatigue.
func (t ActionType) IsWork() bool {
	switch t {
	case ActionForage, ActionGather, ActionCraft, ActionBuild, ActionFish:
		return true
	default:
		return false
	}
}

// Action is a decision: what to do and where. Consumed immediately by the
// update loop, never stored beyond the current action state.
type Action struct {
	Type        ActionType  `json:"type"`
	Target      world.Point `json:"target"`
	TargetAgent *AgentID    `json:"target_agent,omitempty"`
	Reason      string      `json:"reason,omitempty"` // Which rule fired
}

// AgeTier is a coarse life stage.
type AgeTier uint8

const (
	AgeYoung AgeTier = iota
	AgeAdult
	AgeElder
)

// Counters track lifetime achievements used for titles and display.
type Counters struct {
	Crafted      int `json:"crafted"`
	Built        int `json:"built"`
	FishCaught   int `json:"fish_caught"`
	Foraged      int `json:"foraged"`
	TilesVisited int `json:"tiles_visited"`
	Shared       int `json:"shared"`
}

// Agent is a villager in the simulation.
type Agent struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`

	// Demographics
	Age       uint64  `json:"age"` // Ticks lived
	AgeTier   AgeTier `json:"age_tier"`
	AnimFrame uint8   `json:"anim_frame"`

	// Location
	Position     world.Point   `json:"position"`
	PrevPosition world.Point   `json:"prev_position"`
	Path         []world.Point `json:"path,omitempty"`
	MoveCooldown int           `json:"-"`
	Moving       bool          `json:"moving"`

	// Inner state
	Needs       Needs       `json:"needs"`
	Personality Personality `json:"personality"`
	Memories    MemoryStore `json:"memories"`
	Mood        Mood        `json:"mood"`

	// Belongings and growth
	Inventory  Inventory     `json:"inventory"`
	Skills     Skills        `json:"skills"`
	Fatigue    Fatigue       `json:"fatigue"`
	Status     StatusEffects `json:"status"`
	Territory  Territory     `json:"territory"`
	Reputation Reputation    `json:"reputation"`
	Titles     Titles        `json:"titles,omitempty"`
	Counters   Counters      `json:"counters"`

	// Social bonds: partner → affinity in [-1, 1].
	Relationships map[AgentID]float64 `json:"relationships,omitempty"`

	// Action execution
	Action ActionState `json:"action"`

	// Boredom tracking
	Visited    map[world.Point]struct{} `json:"-"`
	StaleTicks int                      `json:"stale_ticks"`

	StarvingTicks int `json:"starving_ticks"`

	// Metadata
	BornTick uint64 `json:"born_tick"`
	Alive    bool   `json:"alive"`
}

// Delta returns how far the agent moved during the last tick.
func (a *Agent) Delta() world.Point {
	return a.Position.Sub(a.PrevPosition)
}

// Visit marks a tile visited. Returns true if it was new.
func (a *Agent) Visit(p world.Point) bool {
	if a.Visited == nil {
		a.Visited = make(map[world.Point]struct{})
	}
	if _, seen := a.Visited[p]; seen {
		return false
	}
	a.Visited[p] = struct{}{}
	a.Counters.TilesVisited++
	return true
}

// AdjustAffinity shifts the bond toward a partner, clamped to [-1, 1].
func (a *Agent) AdjustAffinity(partner AgentID, delta float64) {
	if a.Relationships == nil {
		a.Relationships = make(map[AgentID]float64)
	}
	a.Relationships[partner] = clamp(a.Relationships[partner]+delta, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
