package engine

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/brain"
	"github.com/talgya/mini-village/internal/world"
)

// ArrivalRange is how close an agent must be to act on its target.
const ArrivalRange = 1.5

// Action payoffs.
const (
	ForageHunger     = 0.35
	FishHunger       = 0.30
	EatFishBelow     = 0.5
	ExploreCuriosity = 0.15
	ShelterSafety    = 0.05
	IdleSafety       = 0.0005
	SocialGain       = 0.01
	PartnerGain      = 0.005
	AffinityPerTick  = 0.002

	XPForage = 0.05
	XPGather = 0.04
	XPCraft  = 0.08
	XPBuild  = 0.05
	XPFish   = 0.05

	FoodMemory    = 0.6
	ShelterMemory = 0.6
	DiscoveryMemo = 0.3
	CraftedMemory = 0.5
	BuiltMemory   = 0.8
	MemoryScan    = 3
)

// execute is the discrete action automaton: pending until the agent reaches
// its target, then in progress until the action resolves.
func (s *Simulation) execute(a *agents.Agent, tick uint64) {
	st := &a.Action
	act := st.Current
	if world.Distance(a.Position, act.Target) > ArrivalRange {
		st.Phase = agents.PhasePending
		return
	}

	switch act.Type {
	case agents.ActionForage:
		if st.Tick() >= s.Config.Durations.Forage {
			s.resolveForage(a, tick)
			st.Finish()
		}
	case agents.ActionGather:
		if st.Tick() >= s.gatherDuration(a) {
			s.resolveGather(a)
			st.Finish()
		}
	case agents.ActionCraft:
		if st.Tick() >= s.Config.Durations.Craft {
			s.resolveCraft(a, tick)
			st.Finish()
		}
	case agents.ActionFish:
		if st.Tick() >= s.Config.Durations.Fish {
			s.resolveFish(a)
			st.Finish()
		}
	case agents.ActionBuild:
		s.buildTick(a, tick)
	case agents.ActionRest:
		st.Tick() // Recovery happens in the needs machine.
	case agents.ActionSocialize:
		s.socializeTick(a, tick)
	case agents.ActionExplore:
		if st.Phase != agents.PhaseResolved {
			s.arriveExplore(a, tick)
			st.Resolve()
		}
	case agents.ActionSeekShelter:
		if st.Phase != agents.PhaseResolved {
			s.arriveShelter(a, tick)
			st.Resolve()
		}
	case agents.ActionIdle:
		if st.Phase != agents.PhaseResolved {
			fx := s.World.Structures.EffectsAt(a.Position.X, a.Position.Y)
			if s.sheltered(a.Position, fx) {
				a.Needs.Safety += IdleSafety
				a.Needs.Clamp()
			}
			st.Resolve()
		}
	}
}

func (s *Simulation) gatherDuration(a *agents.Agent) int {
	t := a.Action.Current.Target
	if obj, ok := s.World.Objects.ObjectAt(t.X, t.Y); ok && obj.Type == world.ObjectTree && a.Inventory.HasTool(agents.ToolAxe) {
		return s.Config.Durations.GatherAxe
	}
	return s.Config.Durations.Gather
}

// resolveForage eats from the target. A remembered spot with nothing ready
// there is forgotten; exploring past it once it regrows remembers it again.
func (s *Simulation) resolveForage(a *agents.Agent, tick uint64) {
	t := a.Action.Current.Target
	obj, ok := s.World.Objects.ObjectAt(t.X, t.Y)
	if !ok || !obj.Type.IsFood() || obj.State != world.StateReady {
		a.Memories.Forget(agents.MemFoundFood, t, 1)
		return
	}
	if !s.World.Objects.Harvest(obj.ID, s.respawnTicks(obj.Type)) {
		a.Memories.Forget(agents.MemFoundFood, t, 1)
		return
	}
	a.Needs.Hunger += ForageHunger
	a.Needs.Clamp()
	a.Skills.Train(agents.SkillForaging, XPForage)
	a.Counters.Foraged++
	a.Memories.Remember(agents.Memory{Type: agents.MemFoundFood, Tick: tick, Pos: t, Significance: FoodMemory, Detail: obj.Type.String()})
}

func (s *Simulation) resolveGather(a *agents.Agent) {
	t := a.Action.Current.Target
	obj, ok := s.World.Objects.ObjectAt(t.X, t.Y)
	if !ok || obj.State != world.StateReady {
		return
	}
	res, yields := obj.Type.Yield()
	if !yields || a.Inventory.Full() {
		return
	}
	if !s.World.Objects.Harvest(obj.ID, s.respawnTicks(obj.Type)) {
		return
	}
	a.Inventory.Add(res, 1)
	if obj.Type == world.ObjectTree {
		a.Inventory.UseTool(agents.ToolAxe)
	}
	a.Skills.Train(agents.SkillGathering, XPGather)
}

func (s *Simulation) resolveCraft(a *agents.Agent, tick uint64) {
	recipe, ok := a.Inventory.AffordableRecipe()
	if !ok {
		return
	}
	if recipe.MakesTool {
		a.Inventory.Consume(recipe)
		a.Inventory.AddTool(recipe.Tool)
	} else {
		spot, found := s.placementSpot(a.Position)
		if !found {
			return
		}
		if _, err := s.World.Objects.PlaceAt(recipe.Places, spot.X, spot.Y); err != nil {
			return
		}
		a.Inventory.Consume(recipe)
	}

	a.Skills.Train(agents.SkillCrafting, XPCraft)
	a.Reputation.Grant(agents.RepCraft)
	a.Counters.Crafted++
	a.Memories.Add(agents.Memory{Type: agents.MemCrafted, Tick: tick, Pos: a.Position, Significance: CraftedMemory, Detail: recipe.Name})
	a.Territory.Claim(a.Position, tick)
	s.emit(tick, CategoryCraft, a.ID, "%s crafted a %s", a.Name, recipe.Name)
}

// placementSpot returns p, or the first free walkable neighbor of p.
func (s *Simulation) placementSpot(p world.Point) (world.Point, bool) {
	nb := p.Neighbors4()
	candidates := append([]world.Point{p}, nb[:]...)
	for _, c := range candidates {
		if !s.World.Map.TileAt(c.X, c.Y).Walkable {
			continue
		}
		if _, taken := s.World.Objects.ObjectAt(c.X, c.Y); taken {
			continue
		}
		return c, true
	}
	return world.Point{}, false
}

func (s *Simulation) resolveFish(a *agents.Agent) {
	if !a.Inventory.UseTool(agents.ToolFishingRod) {
		return
	}
	a.Skills.Train(agents.SkillFishing, XPFish)
	a.Counters.FishCaught++
	if a.Needs.Hunger < EatFishBelow || a.Inventory.Add(world.ResourceFish, 1) == 0 {
		a.Needs.Hunger += FishHunger
		a.Needs.Clamp()
	}
}

// buildTick delivers one unit, or one unit of labor, per build window and
// finishes the site when every material is in.
func (s *Simulation) buildTick(a *agents.Agent, tick uint64) {
	st := &a.Action
	t := st.Current.Target
	obj, ok := s.World.Objects.ObjectAt(t.X, t.Y)
	if !ok || obj.Type != world.ObjectConstructionSite {
		st.Finish()
		return
	}
	window := s.Config.Durations.BuildWindow
	if window <= 0 {
		window = 1
	}
	if st.Tick()%window != 0 {
		return
	}
	if !s.World.Structures.Contribute(obj.ID, uint64(a.ID), &a.Inventory) {
		// Crafty builders without the right materials lend a hand instead.
		if a.Personality.Craftiness < brain.BuildCraftiness || !s.World.Structures.Labor(obj.ID, uint64(a.ID)) {
			st.Finish()
			return
		}
	}
	a.Skills.Train(agents.SkillBuilding, XPBuild)
	if !s.World.Structures.CheckCompletion(obj.ID, tick) {
		return
	}

	contributors, err := s.World.Structures.Contributors(obj.ID)
	if err != nil {
		contributors = []uint64{uint64(a.ID)}
	}
	for _, cid := range contributors {
		c, ok := s.AgentIndex[agents.AgentID(cid)]
		if !ok || !c.Alive {
			continue
		}
		c.Reputation.Grant(agents.RepBuildComplete)
		c.Counters.Built++
		c.Memories.Add(agents.Memory{Type: agents.MemBuilt, Tick: tick, Pos: t, Significance: BuiltMemory})
		c.Territory.Claim(t, tick)
	}
	s.emit(tick, CategoryBuild, a.ID, "%s finished building with %d helpers", a.Name, len(contributors))
	st.Finish()
}

// arriveExplore rewards novelty and notes food and shelter nearby.
func (s *Simulation) arriveExplore(a *agents.Agent, tick uint64) {
	a.Needs.Curiosity += ExploreCuriosity
	a.Needs.Clamp()
	a.Memories.Remember(agents.Memory{Type: agents.MemDiscovery, Tick: tick, Pos: a.Position, Significance: DiscoveryMemo})
	for _, obj := range s.World.Objects.ObjectsInRadius(a.Position.X, a.Position.Y, MemoryScan) {
		switch {
		case obj.Type.IsFood() && obj.State == world.StateReady:
			a.Memories.Remember(agents.Memory{Type: agents.MemFoundFood, Tick: tick, Pos: obj.Pos, Significance: FoodMemory, Detail: obj.Type.String()})
		case obj.Type.IsHeatSource() || obj.Type == world.ObjectHut:
			a.Memories.Remember(agents.Memory{Type: agents.MemFoundShelter, Tick: tick, Pos: obj.Pos, Significance: ShelterMemory, Detail: obj.Type.String()})
		}
	}
}

// arriveShelter confirms cover and remembers it, or forgets a stale memory.
func (s *Simulation) arriveShelter(a *agents.Agent, tick uint64) {
	target := a.Action.Current.Target
	fx := s.World.Structures.EffectsAt(a.Position.X, a.Position.Y)
	if !s.sheltered(a.Position, fx) {
		a.Memories.Forget(agents.MemFoundShelter, target, 2)
		return
	}
	a.Needs.Safety += ShelterSafety
	a.Needs.Clamp()
	a.Memories.Remember(agents.Memory{Type: agents.MemFoundShelter, Tick: tick, Pos: a.Position, Significance: ShelterMemory})
}
