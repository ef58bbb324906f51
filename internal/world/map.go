package world

import "fmt"

// Map holds the complete square tile grid.
type Map struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Tiles     []TileType `json:"-"` // Row-major, len = Width*Height
	Elevation []float64  `json:"-"`
}

// NewMap creates a map of the given size filled with grass.
func NewMap(width, height int) *Map {
	return &Map{
		Width:     width,
		Height:    height,
		Tiles:     make([]TileType, width*height),
		Elevation: make([]float64, width*height),
	}
}

// InBounds returns true if the coordinate lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// TileAt returns the tile at x,y. Out-of-bounds lookups return an
// unwalkable void tile.
func (m *Map) TileAt(x, y int) Tile {
	if !m.InBounds(x, y) {
		return Tile{Type: TileVoid}
	}
	t := m.Tiles[y*m.Width+x]
	return Tile{Type: t, Walkable: t.Walkable()}
}

// Set places a tile type at the given coordinate. Out-of-bounds writes are ignored.
func (m *Map) Set(x, y int, t TileType) {
	if !m.InBounds(x, y) {
		return
	}
	m.Tiles[y*m.Width+x] = t
}

// ShelterAdjacent reports whether a shelter tile touches p orthogonally.
func (m *Map) ShelterAdjacent(p Point) bool {
	for _, n := range p.Neighbors4() {
		if m.TileAt(n.X, n.Y).Type.IsShelter() {
			return true
		}
	}
	return false
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, tiles=%d)", m.Width, m.Height, m.TileCount())
}
