// Agent memory: notable experiences the decision engine falls back on when
// nothing useful is in sight.
package agents

import (
	"sort"

	"github.com/talgya/mini-village/internal/world"
)

// DefaultMemoryCapacity bounds each agent's memory store.
const DefaultMemoryCapacity = 20

// MemoryDecayPerTick is subtracted from every memory's significance each tick.
const MemoryDecayPerTick = 0.001

// MemoryType categorizes what was remembered.
type MemoryType string

const (
	MemFoundFood    MemoryType = "found_food"
	MemFoundShelter MemoryType = "found_shelter"
	MemDanger       MemoryType = "danger"
	MemDeath        MemoryType = "death"
	MemSocialized   MemoryType = "socialized"
	MemCrafted      MemoryType = "crafted"
	MemBuilt        MemoryType = "built"
	MemDiscovery    MemoryType = "discovery"
)

// Memory records a notable experience.
type Memory struct {
	Type         MemoryType  `json:"type"`
	Tick         uint64      `json:"tick"`
	Pos          world.Point `json:"pos"`
	Significance float64     `json:"significance"` // 0.0–1.0
	RelatedAgent *AgentID    `json:"related_agent,omitempty"`
	Detail       string      `json:"detail,omitempty"`
}

// MemoryStore is a bounded collection of memories.
type MemoryStore struct {
	Entries  []Memory `json:"entries"`
	Capacity int      `json:"capacity"`
}

// NewMemoryStore creates an empty store with the given capacity.
func NewMemoryStore(capacity int) MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return MemoryStore{Entries: make([]Memory, 0, capacity), Capacity: capacity}
}

// Add inserts a memory. When full, the lowest-significance entry among the
// stored ones and m is dropped, so the count never exceeds capacity. A
// newcomer that is not stronger than the weakest entry is the one dropped.
func (s *MemoryStore) Add(m Memory) {
	if s.Capacity <= 0 {
		s.Capacity = DefaultMemoryCapacity
	}
	m.Significance = clamp(m.Significance, 0, 1)
	for len(s.Entries) > s.Capacity {
		i := s.weakest()
		s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	}
	if len(s.Entries) < s.Capacity {
		s.Entries = append(s.Entries, m)
		return
	}
	minIdx := s.weakest()
	if m.Significance <= s.Entries[minIdx].Significance {
		return
	}
	s.Entries = append(s.Entries[:minIdx], s.Entries[minIdx+1:]...)
	s.Entries = append(s.Entries, m)
}

func (s *MemoryStore) weakest() int {
	minIdx := 0
	for i := 1; i < len(s.Entries); i++ {
		if s.Entries[i].Significance < s.Entries[minIdx].Significance {
			minIdx = i
		}
	}
	return minIdx
}

// Remember refreshes an existing memory of the same type within one tile of
// m.Pos, or adds m when none exists.
func (s *MemoryStore) Remember(m Memory) {
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Type == m.Type && world.Distance(e.Pos, m.Pos) <= 1 {
			e.Tick = m.Tick
			if m.Significance > e.Significance {
				e.Significance = clamp(m.Significance, 0, 1)
			}
			return
		}
	}
	s.Add(m)
}

// Decay lowers every significance and purges memories that reach zero.
// Returns the number purged.
func (s *MemoryStore) Decay(amount float64) int {
	kept := s.Entries[:0]
	purged := 0
	for _, m := range s.Entries {
		m.Significance -= amount
		if m.Significance <= 0 {
			purged++
			continue
		}
		kept = append(kept, m)
	}
	s.Entries = kept
	return purged
}

// Top returns up to n memories ordered by significance, most recent first on ties.
func (s *MemoryStore) Top(n int) []Memory {
	return TopMemories(s.Entries, n)
}

// HasNear reports whether a memory of type t lies within radius of pos.
func (s *MemoryStore) HasNear(t MemoryType, pos world.Point, radius float64) bool {
	for _, m := range s.Entries {
		if m.Type == t && world.Distance(m.Pos, pos) <= radius {
			return true
		}
	}
	return false
}

// Forget removes memories of type t within radius of pos. Returns the count removed.
func (s *MemoryStore) Forget(t MemoryType, pos world.Point, radius float64) int {
	kept := s.Entries[:0]
	removed := 0
	for _, m := range s.Entries {
		if m.Type == t && world.Distance(m.Pos, pos) <= radius {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.Entries = kept
	return removed
}

// Len returns the number of stored memories.
func (s *MemoryStore) Len() int {
	return len(s.Entries)
}

// TopMemories returns a sorted copy of the n most significant memories.
func TopMemories(mems []Memory, n int) []Memory {
	if len(mems) == 0 || n <= 0 {
		return nil
	}
	sorted := make([]Memory, len(mems))
	copy(sorted, mems)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Significance != sorted[j].Significance {
			return sorted[i].Significance > sorted[j].Significance
		}
		return sorted[i].Tick > sorted[j].Tick
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Strongest returns the highest-significance memory of type t. The earliest
// entry wins ties so the result is stable for a given slice.
func Strongest(mems []Memory, t MemoryType) (Memory, bool) {
	var best Memory
	found := false
	for _, m := range mems {
		if m.Type != t {
			continue
		}
		if !found || m.Significance > best.Significance {
			best = m
			found = true
		}
	}
	return best, found
}
