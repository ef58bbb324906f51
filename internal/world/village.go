// Village placement: finds the most livable spot on the map to seed the population.
package world

import "math"

// PlaceVillage returns the walkable tile with the best settlement score.
// Prefers open grass with forest, shore, and rock nearby. Ties resolve to the
// tile nearest the map center, then row-major order.
func PlaceVillage(m *Map) Point {
	center := Point{X: m.Width / 2, Y: m.Height / 2}
	best := center
	bestScore := math.Inf(-1)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Point{X: x, Y: y}
			s := villageScore(m, p)
			if s <= 0 {
				continue
			}
			// Pull toward the center so villages do not hug the map edge.
			s -= Distance(p, center) * 0.05
			if s > bestScore {
				bestScore = s
				best = p
			}
		}
	}
	return best
}

// villageScore evaluates how desirable a tile is for the village campfire.
func villageScore(m *Map, p Point) float64 {
	tile := m.TileAt(p.X, p.Y)
	if tile.Type != TileGrass {
		return 0
	}

	score := 1.0
	seen := make(map[TileType]bool)
	open := 0
	const r = 6
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			t := m.TileAt(p.X+dx, p.Y+dy)
			seen[t.Type] = true
			if t.Walkable {
				open++
			}
		}
	}
	if seen[TileForest] {
		score += 1.5
	}
	if seen[TileSand] {
		score += 1.0
	}
	if seen[TileRock] {
		score += 0.8
	}
	score += float64(open) / float64((2*r+1)*(2*r+1))
	return score
}
