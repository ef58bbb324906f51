package main

import (
	"fmt"
	"log/slog"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/brain"
	"github.com/talgya/mini-village/internal/config"
	"github.com/talgya/mini-village/internal/engine"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// village is a freshly generated, ready-to-tick simulation.
type village struct {
	Sim     *engine.Simulation
	Center  world.Point
	Weather *weather.Client // Nil unless an API key is configured
}

// newVillage generates the map, scatters objects, spawns villagers, and
// wires the configured decider. The same config and seed always produce the
// same village.
func newVillage(c config.Config, seed int64) (*village, error) {
	decider, err := brain.New(c.Decider.Kind, c.Decider.Weights, brain.WithThresholds(c.Thresholds))
	if err != nil {
		return nil, err
	}

	gen := world.DefaultGenConfig()
	gen.Width = c.World.Width
	gen.Height = c.World.Height
	gen.Seed = seed
	m := world.Generate(gen)
	center := world.PlaceVillage(m)

	objects := world.NewObjects()
	world.Populate(m, objects, gen, center)

	walkable := 0
	for t, n := range world.TileCounts(m) {
		if t.Walkable() {
			walkable += n
		}
	}
	if walkable == 0 {
		return nil, fmt.Errorf("seed %d generated no walkable land", seed)
	}

	spawner := agents.NewSpawner(seed)
	villagers := spawner.SpawnVillagers(c.Villagers, center, m, 0)

	cycle := weather.NewCycle(seed)
	client := weather.NewClient(c.Weather.APIKey, c.Weather.Location)
	if client != nil {
		cycle.UseClient(client)
	}

	sim := engine.NewSimulation(engine.World{
		Map:        m,
		Objects:    objects,
		Structures: world.NewStructures(objects),
		Weather:    cycle,
	}, villagers, decider, c.Engine)

	slog.Info("village ready",
		"seed", seed,
		"size", fmt.Sprintf("%dx%d", m.Width, m.Height),
		"walkable", walkable,
		"center", center,
		"villagers", len(villagers),
		"decider", decider.Name(),
	)
	return &village{Sim: sim, Center: center, Weather: client}, nil
}

// schedule connects an engine's tick layers to the simulation.
func schedule(eng *engine.Engine, sim *engine.Simulation) {
	eng.OnTick = sim.TickMinute
	eng.OnHour = sim.TickHour
	eng.OnDay = sim.TickDay
	eng.OnSeason = sim.TickSeason
}
