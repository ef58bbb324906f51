// Bond dynamics: neighbors grow closer, untended bonds fade.
package engine

import (
	"math"
	"sort"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/world"
)

// Daily bond tuning.
const (
	NeighborBond = 0.02 // Per day, villagers whose homes are close
	BondFade     = 0.01 // Per day, toward zero
	BondFloor    = 0.005
	MaxBonds     = 20
	FriendBond   = 0.5
)

// processBonds runs the daily bond pass over living villagers in id order.
// Caller holds the write lock.
func (s *Simulation) processBonds(tick uint64) {
	var alive []*agents.Agent
	for _, a := range s.Agents {
		if a.Alive {
			alive = append(alive, a)
		}
	}

	for i, a := range alive {
		if a.Territory.Home == nil {
			continue
		}
		for _, b := range alive[i+1:] {
			if b.Territory.Home == nil {
				continue
			}
			if world.Distance(*a.Territory.Home, *b.Territory.Home) > agents.HomeRadius {
				continue
			}
			before := a.Relationships[b.ID]
			a.AdjustAffinity(b.ID, NeighborBond)
			b.AdjustAffinity(a.ID, NeighborBond)
			if before < FriendBond && a.Relationships[b.ID] >= FriendBond {
				s.emit(tick, CategoryBond, a.ID, "%s and %s have become friends", a.Name, b.Name)
			}
		}
	}

	for _, a := range s.Agents {
		fadeBonds(a)
	}
}

// fadeBonds moves every bond toward zero, forgets the negligible ones and
// keeps only the MaxBonds strongest.
func fadeBonds(a *agents.Agent) {
	for id, v := range a.Relationships {
		switch {
		case v > 0:
			v = max(0, v-BondFade)
		case v < 0:
			v = min(0, v+BondFade)
		}
		if v > -BondFloor && v < BondFloor {
			delete(a.Relationships, id)
			continue
		}
		a.Relationships[id] = v
	}
	if len(a.Relationships) <= MaxBonds {
		return
	}

	ids := make([]agents.AgentID, 0, len(a.Relationships))
	for id := range a.Relationships {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		vi, vj := math.Abs(a.Relationships[ids[i]]), math.Abs(a.Relationships[ids[j]])
		if vi != vj {
			return vi > vj
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids[MaxBonds:] {
		delete(a.Relationships, id)
	}
}
