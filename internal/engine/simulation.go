// Simulation ties together the world, the villagers, and their decider and
// runs them each tick.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/brain"
	"github.com/talgya/mini-village/internal/perception"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// World bundles the collaborators the update loop reads and mutates.
type World struct {
	Map        TileMap
	Objects    ObjectRegistry
	Structures StructureManager
	Weather    *weather.Cycle
}

// DecisionRecorder receives every decision as it is made.
type DecisionRecorder interface {
	Record(p *perception.Perception, a agents.Action) error
}

// Simulation holds the complete village state and wires systems together.
// Ticks take the write lock; API readers use the snapshot methods.
type Simulation struct {
	mu sync.RWMutex

	World      World
	Agents     []*agents.Agent // Ascending id
	AgentIndex map[agents.AgentID]*agents.Agent
	Decider    brain.Decider
	Recorder   DecisionRecorder
	Config     Config

	Events    []Event // Recent events, bounded by Config.EventBuffer
	unsaved   []Event
	listeners []func(Event)

	LastTick uint64
	env      weather.State

	Stats SimStats
}

// SimStats tracks aggregate village statistics.
type SimStats struct {
	Alive         int            `json:"alive"`
	Deaths        int            `json:"deaths"`
	AvgHunger     float64        `json:"avg_hunger"`
	AvgEnergy     float64        `json:"avg_energy"`
	AvgSocial     float64        `json:"avg_social"`
	AvgCuriosity  float64        `json:"avg_curiosity"`
	AvgSafety     float64        `json:"avg_safety"`
	Structures    int            `json:"structures"`
	ActiveSites   int            `json:"active_sites"`
	ToolsHeld     int            `json:"tools_held"`
	ActionsByType map[string]int `json:"actions_by_type"`
}

// NewSimulation creates a Simulation. A nil decider uses the default
// priority selector.
func NewSimulation(w World, ag []*agents.Agent, d brain.Decider, cfg Config) *Simulation {
	if d == nil {
		d = brain.NewPrioritySelector(brain.DefaultThresholds())
	}
	sorted := append([]*agents.Agent(nil), ag...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	index := make(map[agents.AgentID]*agents.Agent, len(sorted))
	for _, a := range sorted {
		index[a.ID] = a
	}
	sim := &Simulation{
		World:      w,
		Agents:     sorted,
		AgentIndex: index,
		Decider:    d,
		Config:     cfg,
	}
	sim.env = sim.weatherAt(0)
	sim.updateStats()
	return sim
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// Environment returns the current clock and weather.
func (s *Simulation) Environment() weather.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.env
}

func (s *Simulation) weatherAt(tick uint64) weather.State {
	if s.World.Weather == nil {
		return weather.At(tick, weather.Clear)
	}
	return s.World.Weather.State(tick)
}

// AgentsNear returns living agents within radius of center, in id order.
// Caller holds the lock.
func (s *Simulation) AgentsNear(center world.Point, radius float64) []*agents.Agent {
	var out []*agents.Agent
	for _, a := range s.Agents {
		if a.Alive && world.Distance(center, a.Position) <= radius {
			out = append(out, a)
		}
	}
	return out
}

// TickMinute runs every tick: respawns, then each living agent in id order.
func (s *Simulation) TickMinute(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.env = s.weatherAt(tick)
	s.World.Objects.Advance(tick)

	for _, a := range s.Agents {
		if !a.Alive {
			continue
		}
		s.updateAgent(a, tick)
	}
}

// updateAgent runs the full per-tick pipeline for one agent.
func (s *Simulation) updateAgent(a *agents.Agent, tick uint64) {
	s.advanceAge(a)
	s.updateNeeds(a)
	s.updateDerived(a, tick)
	if s.checkStarvation(a, tick) {
		return
	}

	p := perception.Build(a, s.sources(), s.Config.Perception)
	action := s.Decider.Decide(p)
	if s.Recorder != nil {
		if err := s.Recorder.Record(p, action); err != nil {
			slog.Warn("decision recorder failed, disabling", "error", err)
			s.Recorder = nil
		}
	}
	a.Action.Begin(action)

	s.planPath(a)
	s.execute(a, tick)
	s.move(a)
}

func (s *Simulation) sources() perception.Sources {
	return perception.Sources{
		Tiles:   s.World.Map,
		Objects: s.World.Objects,
		Agents:  s,
		Sites:   s.World.Structures,
		Env:     s.env,
	}
}

// Life stage boundaries in ticks.
const (
	YoungUntil = 2 * TicksPerSimDay
	ElderFrom  = 40 * TicksPerSimDay
)

func (s *Simulation) advanceAge(a *agents.Agent) {
	a.Age++
	a.AnimFrame = uint8((a.Age / 8) % 4)
	switch {
	case a.Age >= ElderFrom:
		a.AgeTier = agents.AgeElder
	case a.Age >= YoungUntil:
		a.AgeTier = agents.AgeAdult
	default:
		a.AgeTier = agents.AgeYoung
	}
}

// TickHour runs every sim-hour: weather changes.
func (s *Simulation) TickHour(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.World.Weather == nil {
		return
	}
	season := weather.At(tick, weather.Clear).Season
	if s.World.Weather.Roll(season) {
		s.env = s.weatherAt(tick)
		s.emit(tick, CategoryWeather, 0, "The weather turns to %s", s.env.Kind)
	}
}

// TickDay runs every sim-day: construction seeding and the daily report.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seedConstruction(tick)
	s.processBonds(tick)
	s.updateStats()

	eventCounts := make(map[string]int)
	for _, e := range s.Events {
		eventCounts[e.Category]++
	}
	slog.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"alive", s.Stats.Alive,
		"deaths", s.Stats.Deaths,
		"avg_hunger", fmt.Sprintf("%.3f", s.Stats.AvgHunger),
		"avg_energy", fmt.Sprintf("%.3f", s.Stats.AvgEnergy),
		"structures", s.Stats.Structures,
		"sites", s.Stats.ActiveSites,
		"events_craft", eventCounts[CategoryCraft],
		"events_build", eventCounts[CategoryBuild],
		"events_death", eventCounts[CategoryDeath],
	)
}

// seedConstruction starts a site near the most settled villager's home when
// none is active. Caller holds the write lock.
func (s *Simulation) seedConstruction(tick uint64) {
	if len(s.World.Structures.ActiveSites()) > 0 {
		return
	}
	var anchor *agents.Agent
	for _, a := range s.Agents {
		if !a.Alive || a.Territory.Home == nil {
			continue
		}
		if anchor == nil || a.Territory.Familiarity > anchor.Territory.Familiarity {
			anchor = a
		}
	}
	if anchor == nil {
		return
	}

	bp := world.HutBlueprint
	if (tick/TicksPerSimDay)%2 == 0 {
		bp = world.WellBlueprint
	}
	home := *anchor.Territory.Home
	for r := 1; r <= 3; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				p := world.Point{X: home.X + dx, Y: home.Y + dy}
				if !s.World.Map.TileAt(p.X, p.Y).Walkable {
					continue
				}
				if _, taken := s.World.Objects.ObjectAt(p.X, p.Y); taken {
					continue
				}
				if _, err := s.World.Structures.StartSite(bp, p.X, p.Y, tick); err != nil {
					continue
				}
				s.emit(tick, CategorySite, anchor.ID, "A %s site is marked out near %s's home", bp.Kind, anchor.Name)
				return
			}
		}
	}
}

// updateStats recomputes aggregates. Caller holds the lock.
func (s *Simulation) updateStats() {
	st := SimStats{ActionsByType: make(map[string]int)}
	var sum agents.Needs
	for _, a := range s.Agents {
		if !a.Alive {
			st.Deaths++
			continue
		}
		st.Alive++
		sum.Hunger += a.Needs.Hunger
		sum.Energy += a.Needs.Energy
		sum.Social += a.Needs.Social
		sum.Curiosity += a.Needs.Curiosity
		sum.Safety += a.Needs.Safety
		st.ToolsHeld += len(a.Inventory.Tools)
		st.ActionsByType[a.Action.Current.Type.String()]++
	}
	if st.Alive > 0 {
		n := float64(st.Alive)
		st.AvgHunger = sum.Hunger / n
		st.AvgEnergy = sum.Energy / n
		st.AvgSocial = sum.Social / n
		st.AvgCuriosity = sum.Curiosity / n
		st.AvgSafety = sum.Safety / n
	}
	st.Structures = s.World.Structures.Completed()
	st.ActiveSites = len(s.World.Structures.ActiveSites())
	s.Stats = st
}
