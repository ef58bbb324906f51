package world

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSite is returned for operations on a site id that was never started.
var ErrUnknownSite = errors.New("unknown construction site")

// Blueprint lists the resources a structure needs.
type Blueprint struct {
	Kind     ObjectType
	Required [NumResources]int
}

// Blueprints for buildable structures.
var (
	HutBlueprint  = Blueprint{Kind: ObjectHut, Required: [NumResources]int{ResourceWood: 6, ResourceStone: 4}}
	WellBlueprint = Blueprint{Kind: ObjectWell, Required: [NumResources]int{ResourceStone: 6, ResourceWood: 1}}
)

// ResourceHolder is anything construction can draw materials from.
type ResourceHolder interface {
	Count(r Resource) int
	Remove(r Resource, n int) bool
}

// Site tracks an in-progress or finished construction.
type Site struct {
	ID           ObjectID          `json:"id"`
	Kind         ObjectType        `json:"kind"`
	Pos          Point             `json:"pos"`
	Required     [NumResources]int `json:"required"`
	Delivered    [NumResources]int `json:"delivered"`
	Contributors []uint64          `json:"contributors"`
	Labor        int               `json:"labor"`
	StartedTick  uint64            `json:"started_tick"`
	CompletedAt  uint64            `json:"completed_at,omitempty"`
	Done         bool              `json:"done"`
	StructureID  ObjectID          `json:"structure_id,omitempty"`
}

// Remaining returns how many units of r the site still needs.
func (s *Site) Remaining(r Resource) int {
	n := s.Required[r] - s.Delivered[r]
	if n < 0 {
		return 0
	}
	return n
}

// LaborOpen reports whether an empty-handed builder can still help.
func (s *Site) LaborOpen() bool {
	return !s.Done && s.Labor < LaborSlots
}

// Effects summarizes amenities affecting a tile.
type Effects struct {
	NearHut      bool `json:"near_hut"`
	NearWell     bool `json:"near_well"`
	NearCampfire bool `json:"near_campfire"`
}

// AmenityRadius is how far structure effects reach.
const AmenityRadius = 3

// Structures manages construction sites on top of the object registry.
type Structures struct {
	objects *Objects
	sites   map[ObjectID]*Site
}

// NewStructures creates a structure manager backed by the registry.
func NewStructures(objects *Objects) *Structures {
	return &Structures{objects: objects, sites: make(map[ObjectID]*Site)}
}

// StartSite places a construction site for the blueprint at x,y.
func (s *Structures) StartSite(bp Blueprint, x, y int, tick uint64) (ObjectID, error) {
	id, err := s.objects.PlaceAt(ObjectConstructionSite, x, y)
	if err != nil {
		return 0, fmt.Errorf("start %s site: %w", bp.Kind, err)
	}
	s.sites[id] = &Site{
		ID:          id,
		Kind:        bp.Kind,
		Pos:         Point{X: x, Y: y},
		Required:    bp.Required,
		StartedTick: tick,
	}
	return id, nil
}

// Contribute moves one needed resource unit from the holder into the site.
// Returns false if the site is unknown, finished, or the holder has nothing
// the site still needs.
func (s *Structures) Contribute(siteID ObjectID, agentID uint64, inv ResourceHolder) bool {
	site, ok := s.sites[siteID]
	if !ok || site.Done {
		return false
	}
	for r := Resource(0); r < NumResources; r++ {
		if site.Remaining(r) == 0 || inv.Count(r) == 0 {
			continue
		}
		if !inv.Remove(r, 1) {
			continue
		}
		site.Delivered[r]++
		addContributor(site, agentID)
		return true
	}
	return false
}

// LaborSlots is how many labor units a site accepts from builders who bring
// no materials.
const LaborSlots = 3

// Labor records one unit of hands-on help without materials. The worker is
// credited as a contributor. Returns false once the site's slots are filled.
func (s *Structures) Labor(siteID ObjectID, agentID uint64) bool {
	site, ok := s.sites[siteID]
	if !ok || !site.LaborOpen() {
		return false
	}
	site.Labor++
	addContributor(site, agentID)
	return true
}

func addContributor(site *Site, agentID uint64) {
	for _, c := range site.Contributors {
		if c == agentID {
			return
		}
	}
	site.Contributors = append(site.Contributors, agentID)
}

// CheckCompletion finishes the site when every requirement is delivered,
// replacing the site object with the structure. Returns true only on the
// tick the structure completes.
func (s *Structures) CheckCompletion(siteID ObjectID, tick uint64) bool {
	site, ok := s.sites[siteID]
	if !ok || site.Done {
		return false
	}
	for r := Resource(0); r < NumResources; r++ {
		if site.Remaining(r) > 0 {
			return false
		}
	}
	s.objects.Remove(siteID)
	structID, err := s.objects.PlaceAt(site.Kind, site.Pos.X, site.Pos.Y)
	if err != nil {
		return false
	}
	site.Done = true
	site.CompletedAt = tick
	site.StructureID = structID
	return true
}

// Contributors returns every agent that delivered to the site.
func (s *Structures) Contributors(siteID ObjectID) ([]uint64, error) {
	site, ok := s.sites[siteID]
	if !ok {
		return nil, ErrUnknownSite
	}
	out := make([]uint64, len(site.Contributors))
	copy(out, site.Contributors)
	return out, nil
}

// Site returns a copy of the site record.
func (s *Structures) Site(siteID ObjectID) (Site, bool) {
	site, ok := s.sites[siteID]
	if !ok {
		return Site{}, false
	}
	out := *site
	out.Contributors = append([]uint64(nil), site.Contributors...)
	return out, true
}

// ActiveSites returns unfinished sites ordered by id.
func (s *Structures) ActiveSites() []Site {
	var out []Site
	for _, site := range s.sites {
		if !site.Done {
			out = append(out, *site)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Completed returns the number of finished structures.
func (s *Structures) Completed() int {
	n := 0
	for _, site := range s.sites {
		if site.Done {
			n++
		}
	}
	return n
}

// EffectsAt reports the amenities within AmenityRadius of x,y.
func (s *Structures) EffectsAt(x, y int) Effects {
	var e Effects
	for _, obj := range s.objects.ObjectsInRadius(x, y, AmenityRadius) {
		switch obj.Type {
		case ObjectHut:
			e.NearHut = true
		case ObjectWell:
			e.NearWell = true
		case ObjectCampfire:
			e.NearCampfire = true
		}
	}
	return e
}
