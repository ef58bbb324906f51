package engine

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/world"
)

// planPath requests a bounded path when the target is out of reach and the
// current path does not lead there. A failed search leaves the agent
// standing; it retries next tick.
func (s *Simulation) planPath(a *agents.Agent) {
	target := a.Action.Current.Target
	if world.Distance(a.Position, target) <= ArrivalRange {
		a.Path = nil
		return
	}
	if len(a.Path) > 0 && a.Path[len(a.Path)-1] == target {
		return
	}
	a.Path = s.World.Map.FindPath(a.Position, target, s.Config.MaxPathLength)
}

// move advances one waypoint every MoveInterval ticks.
func (s *Simulation) move(a *agents.Agent) {
	a.PrevPosition = a.Position
	a.Moving = len(a.Path) > 0
	if !a.Moving {
		return
	}
	if a.MoveCooldown > 0 {
		a.MoveCooldown--
		return
	}
	next := a.Path[0]
	a.Path = a.Path[1:]
	a.Position = next
	a.MoveCooldown = s.Config.MoveInterval - 1
	if a.Visit(next) {
		a.StaleTicks = 0
	}
}
