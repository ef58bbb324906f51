package perception

import (
	"math"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// FeatureLen is the length of every vector Encode returns.
const FeatureLen = 55

// distScale normalizes distances into [0, 1].
const distScale = 16.0

var memoryTypes = []agents.MemoryType{
	agents.MemFoundFood, agents.MemFoundShelter, agents.MemDanger, agents.MemDeath,
	agents.MemSocialized, agents.MemCrafted, agents.MemBuilt, agents.MemDiscovery,
}

// Encode flattens a perception into a fixed-length feature vector. Absent
// optional data encodes as a zero presence flag with a distance of 1, so the
// length and value ranges never depend on what was perceived.
func Encode(p *Perception) []float32 {
	f := make([]float32, 0, FeatureLen)
	add := func(vs ...float64) {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			f = append(f, float32(v))
		}
	}

	n := p.Needs
	add(n.Hunger, n.Energy, n.Social, n.Curiosity, n.Safety)

	t := p.Personality
	add(t.Bravery, t.Sociability, t.Curiosity, t.Industriousness, t.Craftiness)

	capacity := float64(p.Inventory.Capacity)
	if capacity <= 0 {
		capacity = agents.DefaultInventoryCapacity
	}
	for r := world.Resource(0); r < world.NumResources; r++ {
		add(clamp01(float64(p.Inventory.Count(r)) / capacity))
	}
	add(clamp01(float64(p.Inventory.Total()) / capacity))
	add(flag(p.Inventory.HasTool(agents.ToolFishingRod)), flag(p.Inventory.HasTool(agents.ToolAxe)))

	for _, lvl := range p.Skills.Levels {
		add(clamp01(lvl))
	}

	_, d, ok := p.NearestObject(ReadyFood)
	add(presence(d, ok))
	_, d, ok = p.NearestObject(HeatSource)
	add(presence(d, ok))
	_, d, ok = p.NearestAgent()
	add(presence(d, ok))
	_, d, ok = p.NearestObject(Gatherable)
	add(presence(d, ok))
	_, d, ok = p.NearestSite()
	add(presence(d, ok))
	_, d, ok = p.NearestFishingSpot()
	add(presence(d, ok))

	for _, mt := range memoryTypes {
		count := 0
		for _, m := range p.Memories {
			if m.Type == mt {
				count++
			}
		}
		add(clamp01(float64(count) / 5))
	}

	angle := 2 * math.Pi * p.TimeOfDay
	add(math.Sin(angle), math.Cos(angle))
	add(flag(p.Night))

	for k := weather.Kind(0); k < weather.NumKinds; k++ {
		add(flag(p.Weather == k))
	}
	for s := weather.Season(0); s < weather.NumSeasons; s++ {
		add(flag(p.Season == s))
	}

	walkable := 0
	for _, tv := range p.Tiles {
		if tv.Walkable {
			walkable++
		}
	}
	frac := 0.0
	if len(p.Tiles) > 0 {
		frac = float64(walkable) / float64(len(p.Tiles))
	}
	add(frac)

	return f
}

func presence(dist float64, ok bool) (float64, float64) {
	if !ok {
		return 0, 1
	}
	return 1, clamp01(dist / distScale)
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
