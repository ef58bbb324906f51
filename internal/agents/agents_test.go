package agents

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-village/internal/world"
)

func TestTraitModifierSymmetry(t *testing.T) {
	tests := []struct {
		name  string
		trait float64
		want  float64
	}{
		{"neutral", 0.5, 0.35},
		{"high", 0.8, 0.35 * 1.075},
		{"low", 0.2, 0.35 * 0.925},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TraitModifier(0.35, tt.trait, DefaultTraitStrength), 1e-9)
		})
	}

	hi := TraitModifier(0.35, 0.8, DefaultTraitStrength) - 0.35
	lo := 0.35 - TraitModifier(0.35, 0.2, DefaultTraitStrength)
	assert.InDelta(t, hi, lo, 1e-9)
}

func TestMemoryCapacityEviction(t *testing.T) {
	store := NewMemoryStore(3)
	store.Add(Memory{Type: MemFoundFood, Significance: 0.5, Detail: "a"})
	store.Add(Memory{Type: MemFoundFood, Significance: 0.2, Detail: "b"})
	store.Add(Memory{Type: MemFoundFood, Significance: 0.9, Detail: "c"})
	store.Add(Memory{Type: MemFoundFood, Significance: 0.7, Detail: "d"})

	require.Equal(t, 3, store.Len())
	for _, m := range store.Entries {
		assert.NotEqual(t, "b", m.Detail, "lowest significance should be evicted")
	}

	for i := 0; i < 50; i++ {
		store.Add(Memory{Type: MemDiscovery, Significance: float64(i) / 50, Detail: fmt.Sprint(i)})
		assert.LessOrEqual(t, store.Len(), 3)
	}
}

func TestMemoryWeakNewcomerDropped(t *testing.T) {
	store := NewMemoryStore(3)
	for _, d := range []string{"a", "b", "c"} {
		store.Add(Memory{Type: MemFoundFood, Significance: 0.9, Detail: d})
	}

	store.Add(Memory{Type: MemDiscovery, Significance: 0.1, Detail: "weak"})
	require.Equal(t, 3, store.Len())
	var kept []string
	for _, m := range store.Entries {
		kept = append(kept, m.Detail)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, kept)

	store.Add(Memory{Type: MemDiscovery, Significance: 0.9, Detail: "tie"})
	assert.NotContains(t, store.Entries, Memory{Type: MemDiscovery, Significance: 0.9, Detail: "tie"})

	store.Add(Memory{Type: MemDeath, Significance: 1, Detail: "strong"})
	require.Equal(t, 3, store.Len())
	assert.Contains(t, store.Entries, Memory{Type: MemDeath, Significance: 1, Detail: "strong"})
}

func TestMemoryDecayPurges(t *testing.T) {
	store := NewMemoryStore(DefaultMemoryCapacity)
	store.Add(Memory{Type: MemDanger, Significance: 0.0015})
	store.Add(Memory{Type: MemDeath, Significance: 1})

	assert.Equal(t, 0, store.Decay(MemoryDecayPerTick))
	assert.Equal(t, 1, store.Decay(MemoryDecayPerTick))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryForget(t *testing.T) {
	store := NewMemoryStore(DefaultMemoryCapacity)
	store.Add(Memory{Type: MemFoundFood, Pos: world.Point{X: 5, Y: 5}, Significance: 0.8})
	store.Add(Memory{Type: MemFoundFood, Pos: world.Point{X: 20, Y: 20}, Significance: 0.8})

	assert.True(t, store.HasNear(MemFoundFood, world.Point{X: 6, Y: 5}, 1))
	assert.Equal(t, 1, store.Forget(MemFoundFood, world.Point{X: 5, Y: 5}, 1))
	assert.False(t, store.HasNear(MemFoundFood, world.Point{X: 5, Y: 5}, 1))
	assert.Equal(t, 1, store.Len())
}

func TestFatigueMonotonic(t *testing.T) {
	var f Fatigue
	prev := f.Level
	for i := 0; i < 500; i++ {
		require.True(t, f.AddWorkFatigue(ActionBuild))
		assert.GreaterOrEqual(t, f.Level, prev)
		assert.LessOrEqual(t, f.Level, 1.0)
		prev = f.Level
	}
	assert.Equal(t, 1.0, f.Level)
	assert.False(t, f.AddWorkFatigue(ActionRest))

	f.Rest(true)
	assert.InDelta(t, 1-ShelterRestRecovery, f.Level, 1e-9)
	assert.Zero(t, f.WorkStreak)
}

func TestFatigueOverworkDoubles(t *testing.T) {
	f := Fatigue{WorkStreak: OverworkStreak}
	f.AddWorkFatigue(ActionForage)
	assert.InDelta(t, 0.004, f.Level, 1e-9)
}

func TestSkillsTrainDiminishing(t *testing.T) {
	var s Skills
	first := s.Train(SkillCrafting, 0.1)
	second := s.Train(SkillCrafting, 0.1)
	assert.InDelta(t, 0.1, first, 1e-9)
	assert.InDelta(t, 0.1*0.81, second, 1e-9)

	for i := 0; i < 1000; i++ {
		s.Train(SkillCrafting, 0.5)
	}
	assert.LessOrEqual(t, s.Level(SkillCrafting), 1.0)
}

func TestInventoryCapacityAndTools(t *testing.T) {
	inv := NewInventory(5)
	assert.Equal(t, 3, inv.Add(world.ResourceWood, 3))
	assert.Equal(t, 2, inv.Add(world.ResourceStone, 4))
	assert.True(t, inv.Full())
	assert.Equal(t, 0, inv.Add(world.ResourceFiber, 1))

	assert.False(t, inv.Remove(world.ResourceWood, 4))
	assert.True(t, inv.Remove(world.ResourceWood, 1))

	inv.AddTool(ToolFishingRod)
	for i := 0; i < FishingRodDurability-1; i++ {
		inv.UseTool(ToolFishingRod)
	}
	assert.True(t, inv.HasTool(ToolFishingRod))
	inv.UseTool(ToolFishingRod)
	assert.False(t, inv.HasTool(ToolFishingRod))
}

func TestAffordableRecipeSkipsOwnedTools(t *testing.T) {
	inv := NewInventory(DefaultInventoryCapacity)
	inv.Add(world.ResourceWood, 3)
	inv.Add(world.ResourceFiber, 2)
	inv.Add(world.ResourceStone, 1)

	r, ok := inv.AffordableRecipe()
	require.True(t, ok)
	assert.Equal(t, "fishing_rod", r.Name)

	inv.AddTool(ToolFishingRod)
	r, ok = inv.AffordableRecipe()
	require.True(t, ok)
	assert.Equal(t, "stone_axe", r.Name)
}

func TestActionStateTimer(t *testing.T) {
	var s ActionState
	forage := Action{Type: ActionForage, Target: world.Point{X: 3, Y: 3}}
	s.Begin(forage)
	s.Tick()
	s.Tick()
	s.Begin(forage)
	assert.Equal(t, 2, s.Timer, "same action keeps timer")

	s.Begin(Action{Type: ActionForage, Target: world.Point{X: 4, Y: 3}})
	assert.Equal(t, 0, s.Timer, "new target resets timer")
	assert.Equal(t, PhasePending, s.Phase)

	s.Tick()
	s.Finish()
	assert.Equal(t, ActionIdle, s.Current.Type)
	assert.Equal(t, 0, s.Timer)
}

func TestEvaluateMood(t *testing.T) {
	var status StatusEffects
	full := Needs{Hunger: 1, Energy: 1, Social: 1, Curiosity: 1, Safety: 1}

	assert.Equal(t, MoodContent, EvaluateMood(full, Fatigue{}, &status, ActionIdle))
	assert.Equal(t, MoodCheerful, EvaluateMood(full, Fatigue{}, &status, ActionSocialize))

	hungry := full
	hungry.Hunger = 0.05
	assert.Equal(t, MoodMiserable, EvaluateMood(hungry, Fatigue{}, &status, ActionIdle))

	status.Add(StatusCold, 1)
	assert.Equal(t, MoodAfraid, EvaluateMood(full, Fatigue{}, &status, ActionIdle))
}

func TestTitlesAwardedOnce(t *testing.T) {
	a := &Agent{AgeTier: AgeElder}
	assert.Equal(t, []string{"Elder"}, CheckTitles(a, 10))
	assert.Empty(t, CheckTitles(a, 20))
	assert.Len(t, a.Titles, 1)
}

func TestTerritoryDrift(t *testing.T) {
	var tr Territory
	home := world.Point{X: 10, Y: 10}
	require.True(t, tr.Claim(home, 5))
	assert.False(t, tr.Claim(world.Point{}, 6))

	tr.Drift(world.Point{X: 12, Y: 10})
	assert.InDelta(t, InitialFamiliarity+FamiliarityGain, tr.Familiarity, 1e-9)
	tr.Drift(world.Point{X: 30, Y: 10})
	assert.InDelta(t, InitialFamiliarity+FamiliarityGain-FamiliarityFade, tr.Familiarity, 1e-9)
}

type openField struct{}

func (openField) TileAt(x, y int) world.Tile {
	return world.Tile{Type: world.TileGrass, Walkable: true}
}

func TestSpawnerDeterministic(t *testing.T) {
	a := NewSpawner(7).SpawnVillagers(5, world.Point{X: 10, Y: 10}, openField{}, 0)
	b := NewSpawner(7).SpawnVillagers(5, world.Point{X: 10, Y: 10}, openField{}, 0)
	require.Len(t, a, 5)
	for i := range a {
		assert.Equal(t, AgentID(i+1), a[i].ID)
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Personality, b[i].Personality)
		p := a[i].Personality
		for _, v := range []float64{p.Bravery, p.Sociability, p.Curiosity, p.Industriousness, p.Craftiness} {
			assert.GreaterOrEqual(t, v, TraitMin)
			assert.LessOrEqual(t, v, TraitMax)
		}
	}
}
