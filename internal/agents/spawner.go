// Villager spawning: seeded names, personalities, and starting needs.
package agents

import (
	"math/rand"

	"github.com/talgya/mini-village/internal/world"
)

// WalkableSource reports tile walkability for spawn placement.
type WalkableSource interface {
	TileAt(x, y int) world.Tile
}

// Spawner creates agents for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID
}

// NewSpawner creates a villager spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// SpawnVillagers places count agents on walkable tiles around center.
// Agents that find no free tile within reach spawn on center itself.
func (s *Spawner) SpawnVillagers(count int, center world.Point, tiles WalkableSource, tick uint64) []*Agent {
	out := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		pos := s.spawnPoint(center, tiles)
		out = append(out, s.Spawn(pos, tick))
	}
	return out
}

// Spawn creates one agent at pos.
func (s *Spawner) Spawn(pos world.Point, tick uint64) *Agent {
	id := s.nextID
	s.nextID++

	// Needs: mostly met at start so the first hours are calm.
	needs := Needs{
		Hunger:    0.6 + s.rng.Float64()*0.4,
		Energy:    0.6 + s.rng.Float64()*0.4,
		Social:    0.6 + s.rng.Float64()*0.4,
		Curiosity: 0.6 + s.rng.Float64()*0.4,
		Safety:    0.6 + s.rng.Float64()*0.4,
	}

	a := &Agent{
		ID:           id,
		Name:         s.generateName(),
		AgeTier:      AgeYoung,
		Position:     pos,
		PrevPosition: pos,
		Needs:        needs,
		Personality:  s.generatePersonality(),
		Memories:     NewMemoryStore(DefaultMemoryCapacity),
		Mood:         MoodNeutral,
		Inventory:    NewInventory(DefaultInventoryCapacity),
		Action:       ActionState{Current: Action{Type: ActionIdle, Target: pos}},
		BornTick:     tick,
		Alive:        true,
	}
	a.Visit(pos)
	return a
}

func (s *Spawner) generatePersonality() Personality {
	trait := func() float64 {
		return TraitMin + s.rng.Float64()*(TraitMax-TraitMin)
	}
	return Personality{
		Bravery:         trait(),
		Sociability:     trait(),
		Curiosity:       trait(),
		Industriousness: trait(),
		Craftiness:      trait(),
	}
}

// spawnPoint tries random offsets within 4 tiles, then falls back to center.
func (s *Spawner) spawnPoint(center world.Point, tiles WalkableSource) world.Point {
	for attempt := 0; attempt < 32; attempt++ {
		p := world.Point{X: center.X + s.rng.Intn(9) - 4, Y: center.Y + s.rng.Intn(9) - 4}
		if tiles.TileAt(p.X, p.Y).Walkable {
			return p
		}
	}
	return center
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var firstNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Finn", "Halvard", "Jasper",
	"Leif", "Oswin", "Rowan", "Wren", "Edric", "Astrid", "Brenna",
	"Calla", "Elara", "Freya", "Iris", "Mira", "Petra", "Runa", "Thea",
	"Willa", "Fern", "Hilde",
}

var lastNames = []string{
	"Thornwood", "Ashford", "Greenvale", "Hearthstone", "Millward",
	"Deepwell", "Brightwater", "Riverstone", "Embercroft", "Holloway",
	"Thatcher", "Briar", "Harper", "Mercer", "Farrow",
}
