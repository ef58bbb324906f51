package brain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/perception"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

var origin = world.Point{X: 10, Y: 10}

func calmNeeds() agents.Needs {
	return agents.Needs{Hunger: 0.9, Energy: 0.9, Social: 0.9, Curiosity: 0.9, Safety: 0.9}
}

// scene builds a perception around an agent at origin on an open grass map.
func scene(t *testing.T, setup func(m *world.Map, objs *world.Objects, a *agents.Agent)) *perception.Perception {
	t.Helper()
	m := world.NewMap(40, 40)
	objs := world.NewObjects()
	a := &agents.Agent{
		ID:           1,
		Position:     origin,
		PrevPosition: origin,
		Needs:        calmNeeds(),
		Personality:  agents.NeutralPersonality(),
		Memories:     agents.NewMemoryStore(agents.DefaultMemoryCapacity),
		Inventory:    agents.NewInventory(agents.DefaultInventoryCapacity),
		Alive:        true,
	}
	if setup != nil {
		setup(m, objs, a)
	}
	return perception.Build(a, perception.Sources{
		Tiles:   m,
		Objects: objs,
		Env:     weather.At(600, weather.Clear),
	}, perception.DefaultConfig())
}

func place(t *testing.T, objs *world.Objects, typ world.ObjectType, x, y int) {
	t.Helper()
	_, err := objs.PlaceAt(typ, x, y)
	require.NoError(t, err)
}

func TestForageNearestFood(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectMushroom, 16, 10)
		place(t, objs, world.ObjectBerryBush, 12, 10)
		a.Needs.Hunger = 0.05
	})

	got := Decide(p)
	assert.Equal(t, agents.ActionForage, got.Type)
	assert.Equal(t, world.Point{X: 12, Y: 10}, got.Target)
	assert.Equal(t, ReasonHungerEmergency, got.Reason)
}

func TestForageFromMemory(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		a.Needs.Hunger = 0.05
		a.Memories.Add(agents.Memory{Type: agents.MemFoundFood, Pos: world.Point{X: 20, Y: 30}, Significance: 0.6})
	})

	got := Decide(p)
	assert.Equal(t, agents.ActionForage, got.Type)
	assert.Equal(t, world.Point{X: 20, Y: 30}, got.Target)
}

func TestHungerEmergencyBeatsEverything(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectBerryBush, 11, 10)
		place(t, objs, world.ObjectCampfire, 14, 10)
		a.Needs = agents.Needs{Hunger: 0.01}
		a.Personality = agents.Personality{Bravery: 0.2, Sociability: 0.8, Curiosity: 0.8, Industriousness: 0.8, Craftiness: 0.8}
	})
	p.Weather = weather.Storm

	got := Decide(p)
	assert.Equal(t, agents.ActionForage, got.Type)
	assert.Equal(t, world.Point{X: 11, Y: 10}, got.Target)
}

func TestDecideDeterministic(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectTree, 13, 12)
		place(t, objs, world.ObjectReeds, 7, 9)
		a.Needs.Curiosity = 0.1
	})
	first := Decide(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(p))
	}
}

func TestFullInventoryNeverGathers(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectTree, 12, 10)
		a.Inventory.Add(world.ResourceWood, 5)
		a.Inventory.Add(world.ResourceStone, 3)
		a.Inventory.Add(world.ResourceBerries, 2)
	})
	require.True(t, p.Inventory.Full())

	for tick := uint64(0); tick < 50; tick++ {
		p.Tick = tick
		assert.NotEqual(t, agents.ActionGather, Decide(p).Type)
	}
	p.Inventory.AddTool(agents.ToolAxe)
	p.Inventory.AddTool(agents.ToolFishingRod)
	p.Inventory.Items[world.ResourceStone] = 1
	p.Inventory.Items[world.ResourceBerries] = 4
	assert.NotEqual(t, agents.ActionGather, Decide(p).Type)
}

func TestCraftBeforeBuild(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectConstructionSite, 12, 10)
		a.Inventory.Add(world.ResourceWood, 3)
		a.Inventory.Add(world.ResourceFiber, 2)
	})
	require.Len(t, p.ConstructionSites, 1)

	got := Decide(p)
	assert.Equal(t, agents.ActionCraft, got.Type)
	assert.Equal(t, origin, got.Target)

	p.Inventory.Items[world.ResourceFiber] = 0
	got = Decide(p)
	assert.Equal(t, agents.ActionBuild, got.Type)
	assert.Equal(t, world.Point{X: 12, Y: 10}, got.Target)
}

func TestBuildGate(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectConstructionSite, 12, 10)
	})
	assert.NotEqual(t, agents.ActionBuild, Decide(p).Type, "empty-handed and not crafty")

	p.Personality.Craftiness = 0.7
	assert.Equal(t, agents.ActionBuild, Decide(p).Type)
}

func TestCraftNeedsRoomToPlace(t *testing.T) {
	campfireKit := func(a *agents.Agent) {
		a.Inventory.AddTool(agents.ToolAxe)
		a.Inventory.AddTool(agents.ToolFishingRod)
		a.Inventory.Add(world.ResourceWood, 3)
		a.Inventory.Add(world.ResourceStone, 2)
	}
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		campfireKit(a)
		place(t, objs, world.ObjectBerryBush, origin.X, origin.Y)
	})
	assert.Equal(t, agents.ActionCraft, Decide(p).Type, "a free neighbor is enough")

	p = scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		campfireKit(a)
		place(t, objs, world.ObjectBerryBush, origin.X, origin.Y)
		for _, n := range origin.Neighbors4() {
			place(t, objs, world.ObjectBerryBush, n.X, n.Y)
		}
	})
	assert.NotEqual(t, agents.ActionCraft, Decide(p).Type)
}

// siteScene is scene with construction progress visible to the agent. The
// returned look re-perceives the same world.
func siteScene(t *testing.T, setup func(sites *world.Structures, a *agents.Agent)) (look func() *perception.Perception, sites *world.Structures) {
	t.Helper()
	m := world.NewMap(40, 40)
	objs := world.NewObjects()
	sites = world.NewStructures(objs)
	a := &agents.Agent{
		ID:          1,
		Position:    origin,
		Needs:       calmNeeds(),
		Personality: agents.NeutralPersonality(),
		Memories:    agents.NewMemoryStore(agents.DefaultMemoryCapacity),
		Inventory:   agents.NewInventory(agents.DefaultInventoryCapacity),
		Alive:       true,
	}
	setup(sites, a)
	src := perception.Sources{Tiles: m, Objects: objs, Sites: sites, Env: weather.At(600, weather.Clear)}
	return func() *perception.Perception { return perception.Build(a, src, perception.DefaultConfig()) }, sites
}

func TestBuildOnlyWhereItHelps(t *testing.T) {
	hut := func(sites *world.Structures) {
		_, err := sites.StartSite(world.HutBlueprint, 12, 10, 0)
		require.NoError(t, err)
	}

	look, _ := siteScene(t, func(sites *world.Structures, a *agents.Agent) {
		a.Inventory.Add(world.ResourceFiber, 1)
		hut(sites)
	})
	p := look()
	require.Len(t, p.SiteStatus, 1)
	assert.NotEqual(t, agents.ActionBuild, Decide(p).Type, "fiber is not on the hut's list")

	look, _ = siteScene(t, func(sites *world.Structures, a *agents.Agent) {
		a.Inventory.Add(world.ResourceWood, 1)
		hut(sites)
	})
	got := Decide(look())
	assert.Equal(t, agents.ActionBuild, got.Type)
	assert.Equal(t, world.Point{X: 12, Y: 10}, got.Target)

	look, sites := siteScene(t, func(sites *world.Structures, a *agents.Agent) {
		a.Personality.Craftiness = 0.7
		hut(sites)
	})
	p = look()
	assert.Equal(t, agents.ActionBuild, Decide(p).Type, "crafty hands can still labor")

	id := p.SiteStatus[0].ID
	for i := 0; i < world.LaborSlots; i++ {
		require.True(t, sites.Labor(id, 9))
	}
	assert.False(t, sites.Labor(id, 9))
	p = look()
	require.Len(t, p.ConstructionSites, 1)
	assert.False(t, p.SiteStatus[0].LaborOpen)
	assert.NotEqual(t, agents.ActionBuild, Decide(p).Type, "labor slots are filled")
}

func TestShelterAndRest(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(m *world.Map, objs *world.Objects, a *agents.Agent)
		storm  bool
		want   agents.ActionType
		target world.Point
	}{
		{
			name: "safety emergency walks to fire",
			setup: func(m *world.Map, objs *world.Objects, a *agents.Agent) {
				place(t, objs, world.ObjectCampfire, 15, 10)
				a.Needs.Safety = 0.05
			},
			want:   agents.ActionSeekShelter,
			target: world.Point{X: 15, Y: 10},
		},
		{
			name: "exhausted beside fire rests in place",
			setup: func(m *world.Map, objs *world.Objects, a *agents.Agent) {
				place(t, objs, world.ObjectCampfire, 11, 10)
				a.Needs.Energy = 0.05
			},
			want:   agents.ActionRest,
			target: origin,
		},
		{
			name: "exhausted far from fire seeks it",
			setup: func(m *world.Map, objs *world.Objects, a *agents.Agent) {
				place(t, objs, world.ObjectCampfire, 16, 10)
				a.Needs.Energy = 0.05
			},
			want:   agents.ActionSeekShelter,
			target: world.Point{X: 16, Y: 10},
		},
		{
			name: "exhausted with shelter memory",
			setup: func(m *world.Map, objs *world.Objects, a *agents.Agent) {
				a.Needs.Energy = 0.2
				a.Memories.Add(agents.Memory{Type: agents.MemFoundShelter, Pos: world.Point{X: 30, Y: 30}, Significance: 0.5})
			},
			want:   agents.ActionSeekShelter,
			target: world.Point{X: 30, Y: 30},
		},
		{
			name: "storm in the open heads for rock",
			setup: func(m *world.Map, objs *world.Objects, a *agents.Agent) {
				m.Set(14, 10, world.TileRock)
			},
			storm:  true,
			want:   agents.ActionSeekShelter,
			target: world.Point{X: 13, Y: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scene(t, tt.setup)
			if tt.storm {
				p.Weather = weather.Storm
			}
			got := Decide(p)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.target, got.Target)
		})
	}
}

func TestStormNearShelterDoesNotFlee(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		m.Set(11, 11, world.TileRock)
	})
	p.Weather = weather.Storm
	assert.NotEqual(t, agents.ActionSeekShelter, Decide(p).Type)
}

func TestRestWithoutShelterExplores(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		a.Needs.Energy = 0.05
	})
	got := Decide(p)
	assert.Equal(t, agents.ActionExplore, got.Type)
	assert.Equal(t, ReasonEnergyCritical, got.Reason)
}

func TestSocializeNearestAgent(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		a.Needs.Social = 0.1
	})
	p.Agents = []perception.AgentView{
		{ID: 7, Pos: world.Point{X: 20, Y: 10}},
		{ID: 3, Pos: world.Point{X: 13, Y: 10}},
	}

	got := Decide(p)
	require.Equal(t, agents.ActionSocialize, got.Type)
	require.NotNil(t, got.TargetAgent)
	assert.Equal(t, agents.AgentID(3), *got.TargetAgent)
	assert.Equal(t, world.Point{X: 13, Y: 10}, got.Target)

	p.Agents = []perception.AgentView{{ID: 7, Pos: world.Point{X: 30, Y: 10}}}
	assert.NotEqual(t, agents.ActionSocialize, Decide(p).Type, "nobody within range")
}

func TestExploreTargetUsesTick(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		a.Needs.Curiosity = 0.1
	})
	var far []world.Point
	for _, tv := range p.Tiles {
		if tv.Walkable && world.Distance(origin, tv.Pos) >= ExploreMinDistance {
			far = append(far, tv.Pos)
		}
	}
	require.NotEmpty(t, far)

	for _, tick := range []uint64{0, 7, 600, 12345} {
		p.Tick = tick
		got := Decide(p)
		assert.Equal(t, agents.ActionExplore, got.Type)
		assert.Equal(t, far[tick%uint64(len(far))], got.Target)
	}
}

func TestExploreWithNothingWalkableIdles(t *testing.T) {
	p := &perception.Perception{
		Origin:      origin,
		Needs:       calmNeeds(),
		Personality: agents.NeutralPersonality(),
		Inventory:   agents.NewInventory(agents.DefaultInventoryCapacity),
	}
	got := Decide(p)
	assert.Equal(t, agents.ActionIdle, got.Type)
	assert.Equal(t, origin, got.Target)
}

func TestFishWithRod(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		m.Set(10, 14, world.TileWater)
		a.Inventory.AddTool(agents.ToolFishingRod)
		a.Needs.Hunger = 0.65
	})

	got := Decide(p)
	assert.Equal(t, agents.ActionFish, got.Type)
	assert.Equal(t, world.Point{X: 10, Y: 13}, got.Target)

	p.Needs.Hunger = 0.8
	assert.NotEqual(t, agents.ActionFish, Decide(p).Type, "not hungry enough")
}

func TestGatherScarcestFirst(t *testing.T) {
	p := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectTree, 11, 10)
		place(t, objs, world.ObjectReeds, 15, 15)
		a.Inventory.Add(world.ResourceWood, 2)
	})

	got := Decide(p)
	assert.Equal(t, agents.ActionGather, got.Type)
	assert.Equal(t, world.Point{X: 15, Y: 15}, got.Target)
}

func TestPersonalize(t *testing.T) {
	base := DefaultThresholds()
	diligent := base.Personalize(agents.Personality{Industriousness: 0.8, Bravery: 0.8, Sociability: 0.5, Curiosity: 0.5, Craftiness: 0.5})
	assert.Less(t, diligent.ModerateHunger, base.ModerateHunger)
	assert.Less(t, diligent.EmergencySafety, base.EmergencySafety)
	assert.InDelta(t, base.Social, diligent.Social, 1e-9)

	crafty := base.CraftThreshold(4, agents.Personality{Craftiness: 0.8})
	assert.Less(t, crafty, 4.0)
}

func writeWeights(t *testing.T, rows map[string]float32) string {
	t.Helper()
	w := LinearWeights{Version: 1, Actions: map[string][]float32{}}
	for tag, bias := range rows {
		row := make([]float32, perception.FeatureLen+1)
		row[perception.FeatureLen] = bias
		w.Actions[tag] = row
	}
	data, err := json.Marshal(w)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNewDecider(t *testing.T) {
	d, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, KindPriority, d.Name())

	_, err = New("oracle", "")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(KindLearned, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLinearPolicy(t *testing.T) {
	path := writeWeights(t, map[string]float32{"FORAGE": 5, "EXPLORE": 1})
	d, err := New(KindLearned, path)
	require.NoError(t, err)
	assert.Equal(t, KindLearned, d.Name())

	withFood := scene(t, func(m *world.Map, objs *world.Objects, a *agents.Agent) {
		place(t, objs, world.ObjectBerryBush, 12, 12)
	})
	got := d.Decide(withFood)
	assert.Equal(t, agents.ActionForage, got.Type)
	assert.Equal(t, world.Point{X: 12, Y: 12}, got.Target)
	assert.Equal(t, "learned:FORAGE", got.Reason)

	empty := scene(t, nil)
	got = d.Decide(empty)
	assert.Equal(t, Decide(empty), got, "unresolvable choice defers to the selector")
}

func TestLinearPolicyRejectsBadRows(t *testing.T) {
	_, err := NewLinearPolicy(LinearWeights{Actions: map[string][]float32{"FORAGE": {1, 2}}}, nil)
	assert.Error(t, err)
	_, err = NewLinearPolicy(LinearWeights{Actions: map[string][]float32{"DANCE": make([]float32, perception.FeatureLen+1)}}, nil)
	assert.Error(t, err)
}
