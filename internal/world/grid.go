// Package world provides the square tile grid, world objects, construction
// sites, and bounded pathfinding that the agent core consumes as collaborators.
package world

import "math"

// Point is a tile position on the grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neighbors4 returns the four orthogonally adjacent points.
func (p Point) Neighbors4() [4]Point {
	return [4]Point{
		{X: p.X + 1, Y: p.Y},
		{X: p.X - 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
		{X: p.X, Y: p.Y - 1},
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan returns the taxicab distance between two points.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// TileType enumerates terrain on the grid.
type TileType uint8

const (
	TileGrass  TileType = iota // Open ground
	TileForest                 // Walkable woodland
	TileSand                   // Shore, walkable
	TileWater                  // Impassable, fishable from the shore
	TileRock                   // Impassable outcrop; standing next to it gives shelter
	TileVoid                   // Outside the map
)

// Walkable reports whether agents can stand on the tile type.
func (t TileType) Walkable() bool {
	switch t {
	case TileGrass, TileForest, TileSand:
		return true
	default:
		return false
	}
}

// IsShelter reports whether the tile type shields adjacent agents from weather.
func (t TileType) IsShelter() bool {
	return t == TileRock
}

// TileName returns a human-readable name for a tile type.
func TileName(t TileType) string {
	switch t {
	case TileGrass:
		return "Grass"
	case TileForest:
		return "Forest"
	case TileSand:
		return "Sand"
	case TileWater:
		return "Water"
	case TileRock:
		return "Rock"
	default:
		return "Void"
	}
}

// Tile is the result of a tile lookup.
type Tile struct {
	Type     TileType `json:"type"`
	Walkable bool     `json:"walkable"`
}

// Resource enumerates raw materials agents can carry.
type Resource uint8

const (
	ResourceWood Resource = iota
	ResourceStone
	ResourceBerries
	ResourceFiber
	ResourceFish
)

// NumResources is the total number of resource types.
const NumResources = 5

var resourceNames = [NumResources]string{"wood", "stone", "berries", "fiber", "fish"}

// String returns the lower-case resource name.
func (r Resource) String() string {
	if int(r) < NumResources {
		return resourceNames[r]
	}
	return "unknown"
}

// ParseResource maps a resource name back to its type.
func ParseResource(name string) (Resource, bool) {
	for i, n := range resourceNames {
		if n == name {
			return Resource(i), true
		}
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
