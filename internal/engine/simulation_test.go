package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/brain"
	"github.com/talgya/mini-village/internal/perception"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// scripted is a decider that returns whatever the test wants.
type scripted func(p *perception.Perception) agents.Action

func (f scripted) Decide(p *perception.Perception) agents.Action { return f(p) }
func (f scripted) Name() string                                  { return "scripted" }

func always(a agents.Action) scripted {
	return func(*perception.Perception) agents.Action { return a }
}

func villager(id agents.AgentID, x, y int) *agents.Agent {
	a := agents.NewSpawner(int64(id)).Spawn(world.Point{X: x, Y: y}, 0)
	a.ID = id
	a.Needs = agents.Needs{Hunger: 0.9, Energy: 0.9, Social: 0.9, Curiosity: 0.9, Safety: 0.9}
	return a
}

type fixture struct {
	sim     *Simulation
	m       *world.Map
	objects *world.Objects
	sites   *world.Structures
}

func newFixture(d scripted, cfg Config, ag ...*agents.Agent) fixture {
	return newFixtureWith(d, cfg, ag...)
}

func newFixtureWith(d brain.Decider, cfg Config, ag ...*agents.Agent) fixture {
	m := world.NewMap(20, 20)
	objects := world.NewObjects()
	sites := world.NewStructures(objects)
	w := World{Map: m, Objects: objects, Structures: sites, Weather: weather.NewCycle(1)}
	sim := NewSimulation(w, ag, d, cfg)
	return fixture{sim: sim, m: m, objects: objects, sites: sites}
}

func (f fixture) run(from, to uint64) {
	for tick := from; tick <= to; tick++ {
		f.sim.TickMinute(tick)
	}
}

func TestForageHarvestsFood(t *testing.T) {
	a := villager(1, 5, 5)
	a.Needs.Hunger = 0.3
	f := newFixture(always(agents.Action{Type: agents.ActionForage, Target: world.Point{X: 6, Y: 5}}), DefaultConfig(), a)
	bush, err := f.objects.PlaceAt(world.ObjectBerryBush, 6, 5)
	require.NoError(t, err)

	f.run(1, 3)

	obj, ok := f.objects.Get(bush)
	require.True(t, ok)
	assert.Equal(t, world.StateDepleted, obj.State)
	assert.Greater(t, a.Needs.Hunger, 0.6)
	assert.Equal(t, 1, a.Counters.Foraged)
	assert.Greater(t, a.Skills.Level(agents.SkillForaging), 0.0)
	assert.True(t, a.Memories.HasNear(agents.MemFoundFood, world.Point{X: 6, Y: 5}, 0))
	assert.Equal(t, agents.ActionIdle, a.Action.Current.Type)
}

func TestForageForgetsEmptyMemory(t *testing.T) {
	a := villager(1, 6, 5)
	a.Memories.Add(agents.Memory{Type: agents.MemFoundFood, Pos: world.Point{X: 7, Y: 5}, Significance: 0.8})
	f := newFixture(always(agents.Action{Type: agents.ActionForage, Target: world.Point{X: 7, Y: 5}}), DefaultConfig(), a)

	f.run(1, 3)
	assert.False(t, a.Memories.HasNear(agents.MemFoundFood, world.Point{X: 7, Y: 5}, 1))
}

func TestDepletedFoodMemoryIsDropped(t *testing.T) {
	a := villager(1, 5, 5)
	a.Needs.Hunger = 0.05
	bushAt := world.Point{X: 6, Y: 5}
	f := newFixtureWith(brain.NewPrioritySelector(brain.DefaultThresholds()), DefaultConfig(), a)
	bush, err := f.objects.PlaceAt(world.ObjectBerryBush, bushAt.X, bushAt.Y)
	require.NoError(t, err)

	var tick uint64
	for tick = 1; a.Counters.Foraged == 0 && tick <= 20; tick++ {
		f.sim.TickMinute(tick)
	}
	require.Equal(t, 1, a.Counters.Foraged)
	obj, ok := f.objects.Get(bush)
	require.True(t, ok)
	require.Equal(t, world.StateDepleted, obj.State)
	require.True(t, a.Memories.HasNear(agents.MemFoundFood, bushAt, 0))

	a.Needs.Hunger = 0.05
	atBush := 0
	for end := tick + 300; tick < end; tick++ {
		f.sim.TickMinute(tick)
		if a.Alive && a.Action.Current.Type == agents.ActionForage && a.Action.Current.Target == bushAt {
			atBush++
		}
	}

	assert.LessOrEqual(t, atBush, DefaultConfig().Durations.Forage+1, "one wasted trip at most")
	assert.False(t, a.Memories.HasNear(agents.MemFoundFood, bushAt, 1))
	obj, _ = f.objects.Get(bush)
	assert.Equal(t, world.StateDepleted, obj.State)
}

func TestCraftPlacesCampfire(t *testing.T) {
	a := villager(1, 8, 8)
	a.Inventory.AddTool(agents.ToolAxe)
	a.Inventory.AddTool(agents.ToolFishingRod)
	a.Inventory.Add(world.ResourceWood, 3)
	a.Inventory.Add(world.ResourceStone, 2)
	f := newFixture(func(p *perception.Perception) agents.Action {
		return agents.Action{Type: agents.ActionCraft, Target: p.Origin}
	}, DefaultConfig(), a)

	f.run(1, 9)
	_, placed := f.objects.ObjectAt(8, 8)
	assert.False(t, placed, "not before the craft completes")

	f.run(10, 10)
	obj, placed := f.objects.ObjectAt(8, 8)
	require.True(t, placed)
	assert.Equal(t, world.ObjectCampfire, obj.Type)
	assert.Zero(t, a.Inventory.Total())
	assert.Equal(t, 1, a.Counters.Crafted)
	assert.InDelta(t, agents.RepCraft, a.Reputation.Score, 1e-9)
	require.NotNil(t, a.Territory.Home)
	assert.Equal(t, world.Point{X: 8, Y: 8}, *a.Territory.Home)

	events := f.sim.RecentEvents(10)
	require.NotEmpty(t, events)
	assert.Equal(t, CategoryCraft, events[len(events)-1].Category)
}

func TestBuildRewardsAllContributors(t *testing.T) {
	a := villager(1, 9, 10)
	b := villager(2, 11, 10)
	a.Inventory.Add(world.ResourceWood, 1)
	b.Inventory.Add(world.ResourceWood, 1)
	site := world.Point{X: 10, Y: 10}
	f := newFixture(always(agents.Action{Type: agents.ActionBuild, Target: site}), DefaultConfig(), a, b)
	bp := world.Blueprint{Kind: world.ObjectHut, Required: [world.NumResources]int{world.ResourceWood: 2}}
	_, err := f.sites.StartSite(bp, site.X, site.Y, 0)
	require.NoError(t, err)

	f.run(1, 4)
	assert.Equal(t, 1, a.Inventory.Count(world.ResourceWood), "no delivery before the first window")

	f.run(5, 5)
	assert.Equal(t, 1, f.sites.Completed())
	hut, ok := f.objects.ObjectAt(site.X, site.Y)
	require.True(t, ok)
	assert.Equal(t, world.ObjectHut, hut.Type)
	for _, ag := range []*agents.Agent{a, b} {
		assert.InDelta(t, agents.RepBuildComplete, ag.Reputation.Score, 1e-9)
		assert.Equal(t, 1, ag.Counters.Built)
		assert.True(t, ag.Memories.HasNear(agents.MemBuilt, site, 0))
		assert.NotNil(t, ag.Territory.Home)
	}
}

func TestCraftyLaborEndsWhenSlotsFill(t *testing.T) {
	a := villager(1, 9, 10)
	a.Personality.Craftiness = 0.7
	f := newFixtureWith(brain.NewPrioritySelector(brain.DefaultThresholds()), DefaultConfig(), a)
	id, err := f.sites.StartSite(world.HutBlueprint, 10, 10, 0)
	require.NoError(t, err)

	f.run(1, 40)

	site, ok := f.sites.Site(id)
	require.True(t, ok)
	assert.Equal(t, world.LaborSlots, site.Labor)
	assert.Contains(t, site.Contributors, uint64(a.ID))
	assert.False(t, site.Done, "labor alone never finishes a site")
	assert.Greater(t, a.Skills.Level(agents.SkillBuilding), 0.0)

	building := 0
	for tick := uint64(41); tick <= 60; tick++ {
		f.sim.TickMinute(tick)
		if a.Action.Current.Type == agents.ActionBuild {
			building++
		}
	}
	assert.Zero(t, building)
}

func TestStarvationKillsAndWitnessesRemember(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StarvationTicks = 5
	doomed := villager(1, 10, 10)
	doomed.Needs.Hunger = 0
	witness := villager(2, 12, 10)
	f := newFixture(func(p *perception.Perception) agents.Action {
		return agents.Action{Type: agents.ActionIdle, Target: p.Origin}
	}, cfg, doomed, witness)

	f.run(1, 4)
	assert.True(t, doomed.Alive)
	assert.Equal(t, 4, doomed.StarvingTicks)

	f.run(5, 5)
	assert.False(t, doomed.Alive)
	assert.True(t, witness.Alive)
	assert.True(t, witness.Memories.HasNear(agents.MemDeath, world.Point{X: 10, Y: 10}, 0))

	deathEvents := 0
	for _, e := range f.sim.RecentEvents(0) {
		if e.Category == CategoryDeath {
			deathEvents++
		}
	}
	assert.Equal(t, 1, deathEvents)

	f.run(6, 10)
	assert.Equal(t, 5, doomed.StarvingTicks, "dead agents are not updated")
}

func TestStarvationCounterResets(t *testing.T) {
	a := villager(1, 5, 5)
	a.StarvingTicks = 100
	f := newFixture(always(agents.Action{Type: agents.ActionIdle, Target: world.Point{X: 5, Y: 5}}), DefaultConfig(), a)
	f.run(1, 1)
	assert.Zero(t, a.StarvingTicks)
}

func TestWalksToTarget(t *testing.T) {
	a := villager(1, 5, 10)
	target := world.Point{X: 15, Y: 10}
	f := newFixture(always(agents.Action{Type: agents.ActionExplore, Target: target}), DefaultConfig(), a)

	f.run(1, 2)
	assert.Equal(t, world.Point{X: 6, Y: 10}, a.Position, "one step per move interval")

	f.run(3, 25)
	assert.LessOrEqual(t, world.Distance(a.Position, target), ArrivalRange)
	assert.Equal(t, agents.PhaseResolved, a.Action.Phase)
}

func TestUnreachableTargetStandsStill(t *testing.T) {
	a := villager(1, 2, 2)
	f := newFixture(always(agents.Action{Type: agents.ActionExplore, Target: world.Point{X: 10, Y: 10}}), DefaultConfig(), a)
	for y := 0; y < 20; y++ {
		f.m.Set(5, y, world.TileWater)
	}
	f.run(1, 10)
	assert.LessOrEqual(t, a.Position.X, 4)
	assert.Empty(t, a.Path)
}

func TestShareKnowledgeDedupes(t *testing.T) {
	teller := villager(1, 0, 0)
	listener := villager(2, 1, 0)
	teller.Memories.Add(agents.Memory{Type: agents.MemFoundFood, Pos: world.Point{X: 5, Y: 5}, Significance: 0.8})
	teller.Memories.Add(agents.Memory{Type: agents.MemDanger, Pos: world.Point{X: 9, Y: 9}, Significance: 0.9})
	listener.Memories.Add(agents.Memory{Type: agents.MemFoundFood, Pos: world.Point{X: 6, Y: 6}, Significance: 0.2})

	require.Equal(t, 1, shareKnowledge(teller, listener, 10))
	danger, ok := agents.Strongest(listener.Memories.Entries, agents.MemDanger)
	require.True(t, ok)
	assert.InDelta(t, 0.9, danger.Significance, 1e-9, "danger keeps full weight")
	require.NotNil(t, danger.RelatedAgent)
	assert.Equal(t, teller.ID, *danger.RelatedAgent)

	assert.Zero(t, shareKnowledge(teller, listener, 11), "nothing new the second time")
	assert.Equal(t, 1, teller.Counters.Shared)
}

func TestShareKnowledgeDiscounts(t *testing.T) {
	teller := villager(1, 0, 0)
	listener := villager(2, 1, 0)
	teller.Memories.Add(agents.Memory{Type: agents.MemFoundShelter, Pos: world.Point{X: 3, Y: 3}, Significance: 0.6})

	require.Equal(t, 1, shareKnowledge(teller, listener, 1))
	m, ok := agents.Strongest(listener.Memories.Entries, agents.MemFoundShelter)
	require.True(t, ok)
	assert.InDelta(t, 0.3, m.Significance, 1e-9)
}

func TestBarterOneForOne(t *testing.T) {
	a := villager(1, 0, 0)
	b := villager(2, 1, 0)
	a.Inventory.Add(world.ResourceWood, 4)
	b.Inventory.Add(world.ResourceStone, 3)

	give, get, ok := barter(a, b)
	require.True(t, ok)
	assert.Equal(t, world.ResourceWood, give)
	assert.Equal(t, world.ResourceStone, get)
	assert.Equal(t, 3, a.Inventory.Count(world.ResourceWood))
	assert.Equal(t, 1, a.Inventory.Count(world.ResourceStone))
	assert.Equal(t, 1, b.Inventory.Count(world.ResourceWood))
	assert.Equal(t, 2, b.Inventory.Count(world.ResourceStone))

	_, _, ok = barter(a, b)
	assert.False(t, ok, "b now holds wood")
}

func TestSocializeRaisesSocial(t *testing.T) {
	a := villager(1, 5, 5)
	b := villager(2, 6, 5)
	a.Needs.Social = 0.2
	pid := b.ID
	f := newFixture(func(p *perception.Perception) agents.Action {
		if p.Self == 1 {
			return agents.Action{Type: agents.ActionSocialize, Target: world.Point{X: 6, Y: 5}, TargetAgent: &pid}
		}
		return agents.Action{Type: agents.ActionIdle, Target: p.Origin}
	}, DefaultConfig(), a, b)

	f.run(1, 10)
	assert.Greater(t, a.Needs.Social, 0.25)
	assert.Greater(t, a.Relationships[b.ID], 0.0)
	assert.Greater(t, b.Relationships[a.ID], 0.0)
	assert.True(t, a.Memories.HasNear(agents.MemSocialized, world.Point{X: 5, Y: 5}, 0))
}

func TestNeedsStayBoundedOverLongRun(t *testing.T) {
	sim, eng := newVillage(42)
	eng.Advance(3 * TicksPerSimDay)

	for _, a := range sim.Agents {
		for _, v := range []float64{a.Needs.Hunger, a.Needs.Energy, a.Needs.Social, a.Needs.Curiosity, a.Needs.Safety} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		assert.LessOrEqual(t, a.Memories.Len(), a.Memories.Capacity)
		assert.LessOrEqual(t, a.Inventory.Total(), a.Inventory.Capacity)
	}
	assert.Equal(t, uint64(3*TicksPerSimDay), sim.CurrentTick())
}

func TestRunIsDeterministic(t *testing.T) {
	simA, engA := newVillage(7)
	simB, engB := newVillage(7)
	engA.Advance(1500)
	engB.Advance(1500)

	require.Equal(t, len(simA.Agents), len(simB.Agents))
	for i := range simA.Agents {
		assert.Equal(t, simA.Agents[i].Position, simB.Agents[i].Position)
		assert.Equal(t, simA.Agents[i].Needs, simB.Agents[i].Needs)
	}
}

func newVillage(seed int64) (*Simulation, *Engine) {
	gen := world.SmallTestConfig()
	gen.Seed = seed
	m := world.Generate(gen)
	objects := world.NewObjects()
	center := world.PlaceVillage(m)
	world.Populate(m, objects, gen, center)
	villagers := agents.NewSpawner(seed).SpawnVillagers(6, center, m, 0)

	sim := NewSimulation(World{
		Map:        m,
		Objects:    objects,
		Structures: world.NewStructures(objects),
		Weather:    weather.NewCycle(seed),
	}, villagers, nil, DefaultConfig())
	eng := NewEngine()
	eng.OnTick = sim.TickMinute
	eng.OnHour = sim.TickHour
	eng.OnDay = sim.TickDay
	return sim, eng
}
