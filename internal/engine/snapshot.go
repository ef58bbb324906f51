package engine

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// AgentSummary is the list view of one villager.
type AgentSummary struct {
	ID       agents.AgentID `json:"id"`
	Name     string         `json:"name"`
	Position world.Point    `json:"position"`
	Action   string         `json:"action"`
	Reason   string         `json:"reason,omitempty"`
	Mood     agents.Mood    `json:"mood"`
	Needs    agents.Needs   `json:"needs"`
	Alive    bool           `json:"alive"`
}

// Status is the world-level view served by the API.
type Status struct {
	Tick    uint64        `json:"tick"`
	SimTime string        `json:"sim_time"`
	Weather string        `json:"weather"`
	Season  string        `json:"season"`
	Night   bool          `json:"night"`
	Stats   SimStats      `json:"stats"`
	Sites   []world.Site  `json:"sites,omitempty"`
	Env     weather.State `json:"-"`
}

// Summaries returns every agent's list view in id order.
func (s *Simulation) Summaries() []AgentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AgentSummary, 0, len(s.Agents))
	for _, a := range s.Agents {
		out = append(out, AgentSummary{
			ID:       a.ID,
			Name:     a.Name,
			Position: a.Position,
			Action:   a.Action.Current.Type.String(),
			Reason:   a.Action.Current.Reason,
			Mood:     a.Mood,
			Needs:    a.Needs,
			Alive:    a.Alive,
		})
	}
	return out
}

// AgentDetail returns a deep copy of one agent.
func (s *Simulation) AgentDetail(id agents.AgentID) (agents.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.AgentIndex[id]
	if !ok {
		return agents.Agent{}, false
	}
	return cloneAgent(a), true
}

// Snapshot returns deep copies of all agents, for persistence.
func (s *Simulation) Snapshot() []agents.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]agents.Agent, 0, len(s.Agents))
	for _, a := range s.Agents {
		out = append(out, cloneAgent(a))
	}
	return out
}

func cloneAgent(a *agents.Agent) agents.Agent {
	c := *a
	c.Path = append([]world.Point(nil), a.Path...)
	c.Inventory = a.Inventory.Clone()
	c.Memories.Entries = append([]agents.Memory(nil), a.Memories.Entries...)
	c.Titles = append(agents.Titles(nil), a.Titles...)
	c.Visited = nil
	if a.Relationships != nil {
		c.Relationships = make(map[agents.AgentID]float64, len(a.Relationships))
		for k, v := range a.Relationships {
			c.Relationships[k] = v
		}
	}
	if a.Status.Active != nil {
		c.Status.Active = make(map[agents.StatusEffect]uint64, len(a.Status.Active))
		for k, v := range a.Status.Active {
			c.Status.Active[k] = v
		}
	}
	if a.Territory.Home != nil {
		home := *a.Territory.Home
		c.Territory.Home = &home
	}
	return c
}

// Status reports the clock, weather, aggregates, and open sites.
func (s *Simulation) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateStats()
	return Status{
		Tick:    s.LastTick,
		SimTime: SimTime(s.LastTick),
		Weather: s.env.Kind.String(),
		Season:  s.env.Season.String(),
		Night:   s.env.IsNight(),
		Stats:   s.Stats,
		Sites:   s.World.Structures.ActiveSites(),
		Env:     s.env,
	}
}
