// Package perception assembles the bounded, read-only snapshot an agent
// decides from. Build is pure: it never mutates the agent or the world.
package perception

import (
	"sort"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// Config bounds what an agent can perceive.
type Config struct {
	TileRadius         int     `yaml:"tile_radius" json:"tile_radius"`
	ObjectRadius       int     `yaml:"object_radius" json:"object_radius"`
	AgentRadius        float64 `yaml:"agent_radius" json:"agent_radius"`
	CraftThresholdBase float64 `yaml:"craft_threshold_base" json:"craft_threshold_base"`
	MemoryCount        int     `yaml:"memory_count" json:"memory_count"`
}

// DefaultConfig returns the standard perception bounds.
func DefaultConfig() Config {
	return Config{
		TileRadius:         8,
		ObjectRadius:       10,
		AgentRadius:        15,
		CraftThresholdBase: 4,
		MemoryCount:        5,
	}
}

// TileSource yields tiles by coordinate; out-of-bounds tiles are unwalkable.
type TileSource interface {
	TileAt(x, y int) world.Tile
}

// ObjectSource yields objects near a point, ordered by id.
type ObjectSource interface {
	ObjectsInRadius(x, y, r int) []world.Object
}

// AgentLocator yields agents near a point. Dead agents and the perceiver
// may be included; Build filters them.
type AgentLocator interface {
	AgentsNear(center world.Point, radius float64) []*agents.Agent
}

// SiteSource reports construction progress for a site object.
type SiteSource interface {
	Site(id world.ObjectID) (world.Site, bool)
}

// Sources bundles everything Build reads besides the agent itself.
type Sources struct {
	Tiles   TileSource
	Objects ObjectSource
	Agents  AgentLocator
	Sites   SiteSource
	Env     weather.State
}

// TileView is one perceived tile.
type TileView struct {
	Pos      world.Point    `json:"pos"`
	Type     world.TileType `json:"type"`
	Walkable bool           `json:"walkable"`
}

// AgentView is another agent as seen from outside.
type AgentView struct {
	ID     agents.AgentID    `json:"id"`
	Pos    world.Point       `json:"pos"`
	Delta  world.Point       `json:"delta"`
	Action agents.ActionType `json:"action"`
}

// SiteView is what a perceived construction site still lacks.
type SiteView struct {
	ID        world.ObjectID          `json:"id"`
	Remaining [world.NumResources]int `json:"remaining"`
	LaborOpen bool                    `json:"labor_open"`
}

// Perception is an agent's view of itself and its surroundings for one tick.
type Perception struct {
	Self   agents.AgentID `json:"self"`
	Origin world.Point    `json:"origin"`

	TileRadius        int            `json:"tile_radius"`
	Tiles             []TileView     `json:"tiles"` // Row-major square around Origin
	Objects           []world.Object `json:"objects,omitempty"`
	ConstructionSites []world.Object `json:"construction_sites,omitempty"`
	SiteStatus        []SiteView     `json:"site_status,omitempty"` // Parallel to ConstructionSites when known
	Structures        []world.Object `json:"structures,omitempty"`
	FishingSpots      []world.Point  `json:"fishing_spots,omitempty"`
	Agents            []AgentView    `json:"agents,omitempty"`

	Needs       agents.Needs       `json:"needs"`
	Personality agents.Personality `json:"personality"`
	Inventory   agents.Inventory   `json:"inventory"`
	Skills      agents.Skills      `json:"skills"`
	Memories    []agents.Memory    `json:"memories,omitempty"`

	Tick      uint64         `json:"tick"`
	TimeOfDay float64        `json:"time_of_day"`
	Weather   weather.Kind   `json:"weather"`
	Season    weather.Season `json:"season"`
	Night     bool           `json:"night"`

	CraftThreshold float64 `json:"craft_threshold"` // Base value; deciders apply traits
}

// Build assembles the perception of agent a.
func Build(a *agents.Agent, src Sources, cfg Config) *Perception {
	if cfg.MemoryCount <= 0 {
		cfg.MemoryCount = 5
	}
	p := &Perception{
		Self:           a.ID,
		Origin:         a.Position,
		TileRadius:     cfg.TileRadius,
		Needs:          a.Needs,
		Personality:    a.Personality,
		Inventory:      a.Inventory.Clone(),
		Skills:         a.Skills,
		Memories:       a.Memories.Top(cfg.MemoryCount),
		Tick:           src.Env.Tick,
		TimeOfDay:      src.Env.TimeOfDay,
		Weather:        src.Env.Kind,
		Season:         src.Env.Season,
		Night:          src.Env.IsNight(),
		CraftThreshold: cfg.CraftThresholdBase,
	}
	if src.Tiles != nil {
		p.buildTiles(src.Tiles)
	}
	if src.Objects != nil {
		p.buildObjects(src.Objects, cfg.ObjectRadius)
	}
	if src.Sites != nil {
		p.buildSiteStatus(src.Sites)
	}
	if src.Agents != nil {
		p.buildAgents(a, src.Agents, cfg.AgentRadius)
	}
	return p
}

func (p *Perception) buildTiles(tiles TileSource) {
	r := p.TileRadius
	side := 2*r + 1
	p.Tiles = make([]TileView, 0, side*side)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			pos := world.Point{X: p.Origin.X + dx, Y: p.Origin.Y + dy}
			t := tiles.TileAt(pos.X, pos.Y)
			p.Tiles = append(p.Tiles, TileView{Pos: pos, Type: t.Type, Walkable: t.Walkable})
		}
	}
	for _, t := range p.Tiles {
		if !t.Walkable {
			continue
		}
		for _, n := range t.Pos.Neighbors4() {
			if nt, ok := p.TileAt(n); ok && nt.Type == world.TileWater {
				p.FishingSpots = append(p.FishingSpots, t.Pos)
				break
			}
		}
	}
}

func (p *Perception) buildObjects(objects ObjectSource, radius int) {
	p.Objects = objects.ObjectsInRadius(p.Origin.X, p.Origin.Y, radius)
	sort.Slice(p.Objects, func(i, j int) bool { return p.Objects[i].ID < p.Objects[j].ID })
	for _, o := range p.Objects {
		switch {
		case o.Type == world.ObjectConstructionSite:
			p.ConstructionSites = append(p.ConstructionSites, o)
		case o.Type.IsStructure():
			p.Structures = append(p.Structures, o)
		}
	}
}

func (p *Perception) buildSiteStatus(sites SiteSource) {
	for _, o := range p.ConstructionSites {
		site, ok := sites.Site(o.ID)
		if !ok {
			p.SiteStatus = nil
			return
		}
		v := SiteView{ID: o.ID, LaborOpen: site.LaborOpen()}
		for r := world.Resource(0); r < world.NumResources; r++ {
			v.Remaining[r] = site.Remaining(r)
		}
		p.SiteStatus = append(p.SiteStatus, v)
	}
}

// SiteStatusOf returns the progress view for a perceived site, if known.
func (p *Perception) SiteStatusOf(id world.ObjectID) (SiteView, bool) {
	for _, v := range p.SiteStatus {
		if v.ID == id {
			return v, true
		}
	}
	return SiteView{}, false
}

func (p *Perception) buildAgents(self *agents.Agent, loc AgentLocator, radius float64) {
	for _, other := range loc.AgentsNear(p.Origin, radius) {
		if other.ID == self.ID || !other.Alive {
			continue
		}
		if world.Distance(p.Origin, other.Position) > radius {
			continue
		}
		p.Agents = append(p.Agents, AgentView{
			ID:     other.ID,
			Pos:    other.Position,
			Delta:  other.Delta(),
			Action: other.Action.Current.Type,
		})
	}
	sort.Slice(p.Agents, func(i, j int) bool { return p.Agents[i].ID < p.Agents[j].ID })
}

// TileAt returns the perceived tile at pos, if it lies inside the view.
func (p *Perception) TileAt(pos world.Point) (TileView, bool) {
	r := p.TileRadius
	side := 2*r + 1
	dx, dy := pos.X-p.Origin.X+r, pos.Y-p.Origin.Y+r
	if dx < 0 || dy < 0 || dx >= side || dy >= side {
		return TileView{}, false
	}
	i := dy*side + dx
	if i >= len(p.Tiles) {
		return TileView{}, false
	}
	return p.Tiles[i], true
}

// NearestAgent returns the closest perceived agent. Lower ids win ties.
func (p *Perception) NearestAgent() (AgentView, float64, bool) {
	var best AgentView
	bestDist := -1.0
	for _, av := range p.Agents {
		d := world.Distance(p.Origin, av.Pos)
		if bestDist < 0 || d < bestDist {
			best, bestDist = av, d
		}
	}
	return best, bestDist, bestDist >= 0
}

// NearestObject returns the closest object accepted by match. Objects are in
// id order, so lower ids win ties.
func (p *Perception) NearestObject(match func(world.Object) bool) (world.Object, float64, bool) {
	return nearest(p.Origin, p.Objects, match)
}

// NearestSite returns the closest perceived construction site.
func (p *Perception) NearestSite() (world.Object, float64, bool) {
	return nearest(p.Origin, p.ConstructionSites, func(world.Object) bool { return true })
}

// NearestFishingSpot returns the closest perceived fishing spot.
func (p *Perception) NearestFishingSpot() (world.Point, float64, bool) {
	var best world.Point
	bestDist := -1.0
	for _, s := range p.FishingSpots {
		d := world.Distance(p.Origin, s)
		if bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, bestDist, bestDist >= 0
}

// AgentsWithin counts perceived agents within radius of the origin.
func (p *Perception) AgentsWithin(radius float64) int {
	n := 0
	for _, av := range p.Agents {
		if world.Distance(p.Origin, av.Pos) <= radius {
			n++
		}
	}
	return n
}

func nearest(origin world.Point, objs []world.Object, match func(world.Object) bool) (world.Object, float64, bool) {
	var best world.Object
	bestDist := -1.0
	for _, o := range objs {
		if !match(o) {
			continue
		}
		d := world.Distance(origin, o.Pos)
		if bestDist < 0 || d < bestDist {
			best, bestDist = o, d
		}
	}
	return best, bestDist, bestDist >= 0
}

// ReadyFood matches food objects that can be harvested now.
func ReadyFood(o world.Object) bool {
	return o.Type.IsFood() && o.State == world.StateReady
}

// HeatSource matches any heat-giving object.
func HeatSource(o world.Object) bool {
	return o.Type.IsHeatSource()
}

// Gatherable matches ready objects that yield a resource.
func Gatherable(o world.Object) bool {
	_, ok := o.Type.Yield()
	return ok && o.State == world.StateReady
}
