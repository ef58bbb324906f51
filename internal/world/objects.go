package world

import (
	"errors"
	"sort"
)

// ObjectID identifies a world object.
type ObjectID uint64

// ObjectType enumerates things placed on tiles.
type ObjectType uint8

const (
	ObjectBerryBush        ObjectType = iota // Food; gatherable for berries
	ObjectMushroom                           // Food
	ObjectTree                               // Wood
	ObjectBoulder                            // Stone
	ObjectReeds                              // Fiber
	ObjectCampfire                           // Heat source
	ObjectConstructionSite                   // Accepts resource contributions
	ObjectHut                                // Completed structure, shelter
	ObjectWell                               // Completed structure
)

var objectNames = map[ObjectType]string{
	ObjectBerryBush:        "berry_bush",
	ObjectMushroom:         "mushroom",
	ObjectTree:             "tree",
	ObjectBoulder:          "boulder",
	ObjectReeds:            "reeds",
	ObjectCampfire:         "campfire",
	ObjectConstructionSite: "construction_site",
	ObjectHut:              "hut",
	ObjectWell:             "well",
}

// String returns the snake_case object name.
func (t ObjectType) String() string {
	if n, ok := objectNames[t]; ok {
		return n
	}
	return "unknown"
}

// IsFood reports whether foraging the object restores hunger.
func (t ObjectType) IsFood() bool {
	return t == ObjectBerryBush || t == ObjectMushroom
}

// IsHeatSource reports whether the object warms and shelters nearby agents.
func (t ObjectType) IsHeatSource() bool {
	return t == ObjectCampfire
}

// IsStructure reports whether the object is a completed building.
func (t ObjectType) IsStructure() bool {
	return t == ObjectHut || t == ObjectWell
}

// Yield returns the resource produced by gathering the object, if any.
func (t ObjectType) Yield() (Resource, bool) {
	switch t {
	case ObjectTree:
		return ResourceWood, true
	case ObjectBoulder:
		return ResourceStone, true
	case ObjectBerryBush:
		return ResourceBerries, true
	case ObjectReeds:
		return ResourceFiber, true
	default:
		return 0, false
	}
}

// ObjectState describes an object's harvest or build condition.
type ObjectState uint8

const (
	StateReady ObjectState = iota
	StateDepleted
	StateBuilding
)

// Object is a single placed thing on the map.
type Object struct {
	ID        ObjectID    `json:"id"`
	Type      ObjectType  `json:"type"`
	Pos       Point       `json:"pos"`
	State     ObjectState `json:"state"`
	RespawnAt uint64      `json:"respawn_at,omitempty"`
}

// ErrOccupied is returned when placing an object on a tile that already holds one.
var ErrOccupied = errors.New("tile occupied")

// Objects is the registry of all world objects. At most one object occupies a tile.
type Objects struct {
	byID   map[ObjectID]*Object
	byPos  map[Point]ObjectID
	nextID ObjectID
	tick   uint64
}

// NewObjects creates an empty object registry.
func NewObjects() *Objects {
	return &Objects{
		byID:   make(map[ObjectID]*Object),
		byPos:  make(map[Point]ObjectID),
		nextID: 1,
	}
}

// PlaceAt adds an object of the given type at x,y.
func (o *Objects) PlaceAt(t ObjectType, x, y int) (ObjectID, error) {
	p := Point{X: x, Y: y}
	if _, taken := o.byPos[p]; taken {
		return 0, ErrOccupied
	}
	id := o.nextID
	o.nextID++
	state := StateReady
	if t == ObjectConstructionSite {
		state = StateBuilding
	}
	o.byID[id] = &Object{ID: id, Type: t, Pos: p, State: state}
	o.byPos[p] = id
	return id, nil
}

// Remove deletes an object. Unknown ids are ignored.
func (o *Objects) Remove(id ObjectID) {
	obj, ok := o.byID[id]
	if !ok {
		return
	}
	delete(o.byPos, obj.Pos)
	delete(o.byID, id)
}

// Get returns a copy of the object with the given id.
func (o *Objects) Get(id ObjectID) (Object, bool) {
	obj, ok := o.byID[id]
	if !ok {
		return Object{}, false
	}
	return *obj, true
}

// ObjectAt returns a copy of the object on tile x,y.
func (o *Objects) ObjectAt(x, y int) (Object, bool) {
	id, ok := o.byPos[Point{X: x, Y: y}]
	if !ok {
		return Object{}, false
	}
	return *o.byID[id], true
}

// ObjectsInRadius returns copies of objects within Euclidean distance r of
// x,y, ordered by id.
func (o *Objects) ObjectsInRadius(x, y, r int) []Object {
	center := Point{X: x, Y: y}
	limit := float64(r)
	var out []Object
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			p := Point{X: x + dx, Y: y + dy}
			id, ok := o.byPos[p]
			if !ok || Distance(center, p) > limit {
				continue
			}
			out = append(out, *o.byID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Harvest depletes a ready object, scheduling it to respawn after
// respawnTicks. Returns false if the object is missing or not ready.
func (o *Objects) Harvest(id ObjectID, respawnTicks uint64) bool {
	obj, ok := o.byID[id]
	if !ok || obj.State != StateReady {
		return false
	}
	obj.State = StateDepleted
	obj.RespawnAt = o.tick + respawnTicks
	return true
}

// Advance moves the registry clock forward and restores objects whose
// respawn time has passed.
func (o *Objects) Advance(tick uint64) {
	o.tick = tick
	for _, obj := range o.byID {
		if obj.State == StateDepleted && obj.RespawnAt <= tick {
			obj.State = StateReady
			obj.RespawnAt = 0
		}
	}
}

// Count returns the number of objects of the given type.
func (o *Objects) Count(t ObjectType) int {
	n := 0
	for _, obj := range o.byID {
		if obj.Type == t {
			n++
		}
	}
	return n
}

// Len returns the total number of objects.
func (o *Objects) Len() int {
	return len(o.byID)
}
