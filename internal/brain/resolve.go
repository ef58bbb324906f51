package brain

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/perception"
	"github.com/talgya/mini-village/internal/world"
)

// Sub-resolution ranges.
const (
	RestRange          = 3.0
	ShelterNearRange   = 3.0
	ShelterRockRange   = 2 // Manhattan
	ExploreMinDistance = 5.0
	SocialRange        = 15.0
	ProactiveSocialRng = 10.0
	BuildCraftiness    = 0.6
	FishHungerCeiling  = 0.70
)

// resolveFood finds something to eat: a ready food object, then the
// strongest food memory.
func resolveFood(p *perception.Perception) (world.Point, bool) {
	if o, _, ok := p.NearestObject(perception.ReadyFood); ok {
		return o.Pos, true
	}
	if m, ok := agents.Strongest(p.Memories, agents.MemFoundFood); ok {
		return m.Pos, true
	}
	return world.Point{}, false
}

// resolveShelter finds cover: a heat source, then a walkable tile beside
// rock, then the strongest shelter memory.
func resolveShelter(p *perception.Perception) (world.Point, bool) {
	if o, _, ok := p.NearestObject(perception.HeatSource); ok {
		return o.Pos, true
	}
	if pos, ok := nearestRockSide(p); ok {
		return pos, true
	}
	if m, ok := agents.Strongest(p.Memories, agents.MemFoundShelter); ok {
		return m.Pos, true
	}
	return world.Point{}, false
}

func nearestRockSide(p *perception.Perception) (world.Point, bool) {
	var best world.Point
	bestDist := -1.0
	for _, tv := range p.Tiles {
		if !tv.Walkable || !touchesShelter(p, tv.Pos) {
			continue
		}
		d := world.Distance(p.Origin, tv.Pos)
		if bestDist < 0 || d < bestDist {
			best, bestDist = tv.Pos, d
		}
	}
	return best, bestDist >= 0
}

func touchesShelter(p *perception.Perception, pos world.Point) bool {
	for _, n := range pos.Neighbors4() {
		if tv, ok := p.TileAt(n); ok && tv.Type.IsShelter() {
			return true
		}
	}
	return false
}

// nearShelter reports a heat source within range or rock within Manhattan 2.
func nearShelter(p *perception.Perception) bool {
	if _, d, ok := p.NearestObject(perception.HeatSource); ok && d <= ShelterNearRange {
		return true
	}
	for _, tv := range p.Tiles {
		if tv.Type.IsShelter() && world.Manhattan(p.Origin, tv.Pos) <= ShelterRockRange {
			return true
		}
	}
	return false
}

// restAction always resolves: rest by a nearby fire, walk to a distant one,
// walk to a remembered shelter, or go looking.
func restAction(p *perception.Perception, reason string) agents.Action {
	if o, d, ok := p.NearestObject(perception.HeatSource); ok {
		if d <= RestRange {
			return agents.Action{Type: agents.ActionRest, Target: p.Origin, Reason: reason}
		}
		return agents.Action{Type: agents.ActionSeekShelter, Target: o.Pos, Reason: reason}
	}
	if m, ok := agents.Strongest(p.Memories, agents.MemFoundShelter); ok {
		return agents.Action{Type: agents.ActionSeekShelter, Target: m.Pos, Reason: reason}
	}
	return exploreAction(p, reason)
}

// exploreAction picks a walkable tile, preferring distant ones, indexed by
// tick so the choice is reproducible.
func exploreAction(p *perception.Perception, reason string) agents.Action {
	var far, all []world.Point
	for _, tv := range p.Tiles {
		if !tv.Walkable {
			continue
		}
		all = append(all, tv.Pos)
		if world.Distance(p.Origin, tv.Pos) >= ExploreMinDistance {
			far = append(far, tv.Pos)
		}
	}
	candidates := far
	if len(candidates) == 0 {
		candidates = all
	}
	if len(candidates) == 0 {
		return agents.Action{Type: agents.ActionIdle, Target: p.Origin, Reason: reason}
	}
	target := candidates[p.Tick%uint64(len(candidates))]
	return agents.Action{Type: agents.ActionExplore, Target: target, Reason: reason}
}

// socialTarget returns the nearest agent within radius.
func socialTarget(p *perception.Perception, radius float64) (perception.AgentView, bool) {
	av, d, ok := p.NearestAgent()
	if !ok || d > radius {
		return perception.AgentView{}, false
	}
	return av, true
}

func socializeAction(av perception.AgentView, reason string) agents.Action {
	id := av.ID
	return agents.Action{Type: agents.ActionSocialize, Target: av.Pos, TargetAgent: &id, Reason: reason}
}

// craftReady reports an affordable recipe and enough held resources.
func craftReady(p *perception.Perception, th Thresholds) bool {
	recipe, ok := p.Inventory.AffordableRecipe()
	if !ok {
		return false
	}
	if !recipe.MakesTool && !placementFree(p) {
		return false
	}
	need := th.CraftThreshold(p.CraftThreshold, p.Personality)
	return float64(p.Inventory.Total()) >= need
}

// placementFree reports a walkable, unoccupied tile at the origin or beside
// it, where a crafted object could be set down.
func placementFree(p *perception.Perception) bool {
	nb := p.Origin.Neighbors4()
	for _, c := range append([]world.Point{p.Origin}, nb[:]...) {
		tv, ok := p.TileAt(c)
		if !ok || !tv.Walkable {
			continue
		}
		if !occupied(p, c) {
			return true
		}
	}
	return false
}

func occupied(p *perception.Perception, pos world.Point) bool {
	for _, o := range p.Objects {
		if o.Pos == pos {
			return true
		}
	}
	return false
}

// buildTarget returns the nearest construction site the agent can help:
// one it holds a missing material for, or one still open to labor when the
// agent is crafty. Without site progress in view, holding anything counts.
func buildTarget(p *perception.Perception) (world.Point, bool) {
	crafty := p.Personality.Craftiness >= BuildCraftiness
	if p.Inventory.Total() < 1 && !crafty {
		return world.Point{}, false
	}
	site, _, ok := p.NearestObject(func(o world.Object) bool {
		if o.Type != world.ObjectConstructionSite {
			return false
		}
		v, known := p.SiteStatusOf(o.ID)
		if !known {
			return true
		}
		return suppliesSite(p, v) || (crafty && v.LaborOpen)
	})
	return site.Pos, ok
}

func suppliesSite(p *perception.Perception, v perception.SiteView) bool {
	for r := world.Resource(0); r < world.NumResources; r++ {
		if v.Remaining[r] > 0 && p.Inventory.Count(r) > 0 {
			return true
		}
	}
	return false
}

// fishTarget returns the nearest fishing spot when the agent has a rod and
// some appetite.
func fishTarget(p *perception.Perception) (world.Point, bool) {
	if !p.Inventory.HasTool(agents.ToolFishingRod) || p.Needs.Hunger > FishHungerCeiling {
		return world.Point{}, false
	}
	spot, _, ok := p.NearestFishingSpot()
	return spot, ok
}

// gatherTarget picks the nearest source of the scarcest held resource among
// those perceived.
func gatherTarget(p *perception.Perception) (world.Point, bool) {
	if p.Inventory.Full() {
		return world.Point{}, false
	}
	var seen [world.NumResources]bool
	for _, o := range p.Objects {
		if r, ok := o.Type.Yield(); ok && perception.Gatherable(o) {
			seen[r] = true
		}
	}
	var candidates []world.Resource
	for r := world.Resource(0); r < world.NumResources; r++ {
		if seen[r] {
			candidates = append(candidates, r)
		}
	}
	want, ok := p.Inventory.Scarcest(candidates)
	if !ok {
		return world.Point{}, false
	}
	o, _, ok := p.NearestObject(func(o world.Object) bool {
		r, yields := o.Type.Yield()
		return yields && r == want && perception.Gatherable(o)
	})
	return o.Pos, ok
}
