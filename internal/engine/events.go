package engine

import (
	"fmt"

	"github.com/talgya/mini-village/internal/agents"
)

// Event categories.
const (
	CategoryDeath     = "death"
	CategoryCraft     = "craft"
	CategoryBuild     = "build"
	CategoryTitle     = "title"
	CategoryKnowledge = "knowledge"
	CategoryTrade     = "trade"
	CategoryWeather   = "weather"
	CategorySite      = "site"
	CategoryBond      = "bond"
	CategorySeason    = "season"
)

// Event is a notable occurrence in the village.
type Event struct {
	Tick        uint64         `json:"tick" db:"tick"`
	Category    string         `json:"category" db:"category"`
	AgentID     agents.AgentID `json:"agent_id,omitempty" db:"agent_id"`
	Description string         `json:"description" db:"description"`
}

// emit records an event. Caller holds the write lock.
func (s *Simulation) emit(tick uint64, category string, agentID agents.AgentID, format string, args ...any) {
	e := Event{
		Tick:        tick,
		Category:    category,
		AgentID:     agentID,
		Description: fmt.Sprintf(format, args...),
	}
	s.Events = append(s.Events, e)
	s.unsaved = append(s.unsaved, e)
	if limit := s.Config.EventBuffer; limit > 0 && len(s.Events) > limit {
		s.Events = s.Events[len(s.Events)-limit:]
	}
	for _, fn := range s.listeners {
		fn(e)
	}
}

// OnEvent registers a callback invoked for every new event while the
// simulation lock is held. Callbacks must not call back into the simulation.
func (s *Simulation) OnEvent(fn func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// DrainEvents returns events not yet handed out and forgets them.
func (s *Simulation) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.unsaved
	s.unsaved = nil
	return out
}

// RecentEvents returns up to n of the latest events, newest last.
func (s *Simulation) RecentEvents(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if n > 0 && len(s.Events) > n {
		start = len(s.Events) - n
	}
	out := make([]Event, len(s.Events)-start)
	copy(out, s.Events[start:])
	return out
}
