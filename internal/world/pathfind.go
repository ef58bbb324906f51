package world

import "container/heap"

// FindPath returns the waypoints from start (exclusive) to goal (inclusive)
// over walkable tiles using 4-connected A*. Paths longer than maxLen steps are
// rejected, and the search never expands a node whose optimistic total exceeds
// maxLen. Returns nil when no bounded path exists.
func (m *Map) FindPath(start, goal Point, maxLen int) []Point {
	if start == goal {
		return []Point{}
	}
	if !m.TileAt(goal.X, goal.Y).Walkable || maxLen <= 0 {
		return nil
	}
	if Manhattan(start, goal) > maxLen {
		return nil
	}

	open := &nodeHeap{}
	heap.Push(open, &pathNode{pos: start, g: 0, f: Manhattan(start, goal)})
	cameFrom := make(map[Point]Point)
	best := map[Point]int{start: 0}
	var seq int

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if cur.pos == goal {
			return reconstruct(cameFrom, start, goal)
		}
		if cur.g > best[cur.pos] {
			continue
		}
		for _, n := range cur.pos.Neighbors4() {
			if !m.TileAt(n.X, n.Y).Walkable {
				continue
			}
			g := cur.g + 1
			f := g + Manhattan(n, goal)
			if f > maxLen {
				continue
			}
			if old, ok := best[n]; ok && old <= g {
				continue
			}
			best[n] = g
			cameFrom[n] = cur.pos
			seq++
			heap.Push(open, &pathNode{pos: n, g: g, f: f, seq: seq})
		}
	}
	return nil
}

func reconstruct(cameFrom map[Point]Point, start, goal Point) []Point {
	var rev []Point
	for p := goal; p != start; p = cameFrom[p] {
		rev = append(rev, p)
	}
	path := make([]Point, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

type pathNode struct {
	pos  Point
	g, f int
	seq  int // insertion order, keeps ties deterministic
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*pathNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}
