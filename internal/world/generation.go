// World generation using layered simplex noise.
// Elevation and moisture maps derive terrain, then objects are scattered by terrain.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width      int
	Height     int
	Seed       int64   // 0 = random
	WaterLevel float64 // Elevation below this is water
	RockLevel  float64 // Elevation above this is rock
	ForestWet  float64 // Moisture above this grows forest

	// Object density per eligible tile.
	TreeDensity     float64
	BushDensity     float64
	BoulderDensity  float64
	ReedDensity     float64
	MushroomDensity float64
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:           64,
		Height:          64,
		WaterLevel:      0.28,
		RockLevel:       0.78,
		ForestWet:       0.55,
		TreeDensity:     0.18,
		BushDensity:     0.035,
		BoulderDensity:  0.12,
		ReedDensity:     0.15,
		MushroomDensity: 0.02,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Width = 24
	cfg.Height = 24
	cfg.Seed = 42
	return cfg
}

// Generate creates the tile map from noise.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	wetNoise := opensimplex.NewNormalized(seed + 1)

	m := NewMap(cfg.Width, cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			elev := octaveNoise(elevNoise, float64(x), float64(y), 4, 0.06, 0.5)
			wet := octaveNoise(wetNoise, float64(x), float64(y), 3, 0.05, 0.5)
			m.Elevation[y*cfg.Width+x] = elev
			m.Set(x, y, deriveTile(elev, wet, cfg))
		}
	}
	markShores(m)
	return m
}

// deriveTile determines the tile type from environmental parameters.
func deriveTile(elev, wet float64, cfg GenConfig) TileType {
	switch {
	case elev < cfg.WaterLevel:
		return TileWater
	case elev > cfg.RockLevel:
		return TileRock
	case wet > cfg.ForestWet:
		return TileForest
	default:
		return TileGrass
	}
}

// markShores converts land tiles touching water into sand.
func markShores(m *Map) {
	var shore []Point
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Point{X: x, Y: y}
			if !m.TileAt(x, y).Walkable {
				continue
			}
			for _, n := range p.Neighbors4() {
				if m.TileAt(n.X, n.Y).Type == TileWater {
					shore = append(shore, p)
					break
				}
			}
		}
	}
	for _, p := range shore {
		m.Set(p.X, p.Y, TileSand)
	}
}

// Populate scatters resource objects over the map by terrain and lights a
// campfire at the village center.
func Populate(m *Map, objects *Objects, cfg GenConfig, center Point) {
	rng := rand.New(rand.NewSource(cfg.Seed + 100))

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if abs(x-center.X) <= 1 && abs(y-center.Y) <= 1 {
				continue
			}
			tile := m.TileAt(x, y)
			if !tile.Walkable {
				continue
			}
			p := Point{X: x, Y: y}
			roll := rng.Float64()
			switch tile.Type {
			case TileForest:
				if roll < cfg.TreeDensity {
					objects.PlaceAt(ObjectTree, x, y)
				} else if roll < cfg.TreeDensity+cfg.MushroomDensity {
					objects.PlaceAt(ObjectMushroom, x, y)
				}
			case TileSand:
				if roll < cfg.ReedDensity {
					objects.PlaceAt(ObjectReeds, x, y)
				}
			case TileGrass:
				if m.ShelterAdjacent(p) && roll < cfg.BoulderDensity*3 {
					objects.PlaceAt(ObjectBoulder, x, y)
				} else if roll < cfg.BushDensity {
					objects.PlaceAt(ObjectBerryBush, x, y)
				} else if roll < cfg.BushDensity+cfg.BoulderDensity/4 {
					objects.PlaceAt(ObjectBoulder, x, y)
				}
			}
		}
	}

	if m.TileAt(center.X, center.Y).Walkable {
		objects.PlaceAt(ObjectCampfire, center.X, center.Y)
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TileCounts returns a summary of tile type distribution.
func TileCounts(m *Map) map[TileType]int {
	counts := make(map[TileType]int)
	for _, t := range m.Tiles {
		counts[t]++
	}
	return counts
}
