package engine

import "github.com/talgya/mini-village/internal/world"

// TileMap is the terrain the update loop reads and paths across.
type TileMap interface {
	TileAt(x, y int) world.Tile
	FindPath(start, goal world.Point, maxLen int) []world.Point
}

// ObjectRegistry is the mutable set of placed objects.
type ObjectRegistry interface {
	ObjectsInRadius(x, y, r int) []world.Object
	ObjectAt(x, y int) (world.Object, bool)
	Harvest(id world.ObjectID, respawnTicks uint64) bool
	PlaceAt(t world.ObjectType, x, y int) (world.ObjectID, error)
	Advance(tick uint64)
}

// StructureManager tracks construction sites and amenity effects.
type StructureManager interface {
	EffectsAt(x, y int) world.Effects
	Contribute(siteID world.ObjectID, agentID uint64, inv world.ResourceHolder) bool
	Labor(siteID world.ObjectID, agentID uint64) bool
	Site(siteID world.ObjectID) (world.Site, bool)
	CheckCompletion(siteID world.ObjectID, tick uint64) bool
	Contributors(siteID world.ObjectID) ([]uint64, error)
	StartSite(bp world.Blueprint, x, y int, tick uint64) (world.ObjectID, error)
	ActiveSites() []world.Site
	Completed() int
}

var (
	_ TileMap          = (*world.Map)(nil)
	_ ObjectRegistry   = (*world.Objects)(nil)
	_ StructureManager = (*world.Structures)(nil)
)
