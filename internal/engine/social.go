package engine

import (
	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/world"
)

// Knowledge sharing and barter.
const (
	ShareCount      = 2
	ShareDiscount   = 0.5
	ShareDedupe     = 3.0
	SocialMemory    = 0.4
	TradeAffinity   = 0.05
	ShareAffinity   = 0.02
	ShareRepeatTick = 60 // Re-share while the chat lasts this long
)

// socializeTick applies the continuous effects of spending time with the
// target partner. The first tick of a conversation, and every hour after,
// also exchanges knowledge and goods.
func (s *Simulation) socializeTick(a *agents.Agent, tick uint64) {
	st := &a.Action
	if st.Current.TargetAgent == nil {
		st.Finish()
		return
	}
	partner, ok := s.AgentIndex[*st.Current.TargetAgent]
	if !ok || !partner.Alive || partner.ID == a.ID {
		st.Finish()
		return
	}
	if world.Distance(a.Position, partner.Position) > ArrivalRange+1 {
		st.Phase = agents.PhasePending
		return
	}

	timer := st.Tick()
	a.Needs.Social += SocialGain
	partner.Needs.Social += PartnerGain
	a.Needs.Clamp()
	partner.Needs.Clamp()
	a.AdjustAffinity(partner.ID, AffinityPerTick)
	partner.AdjustAffinity(a.ID, AffinityPerTick)

	if timer != 1 && timer%ShareRepeatTick != 0 {
		return
	}
	pid := partner.ID
	a.Memories.Remember(agents.Memory{Type: agents.MemSocialized, Tick: tick, Pos: a.Position, Significance: SocialMemory, RelatedAgent: &pid, Detail: partner.Name})
	if n := shareKnowledge(partner, a, tick); n > 0 {
		s.emit(tick, CategoryKnowledge, partner.ID, "%s told %s about %d places", partner.Name, a.Name, n)
	}
	if r1, r2, ok := barter(a, partner); ok {
		s.emit(tick, CategoryTrade, a.ID, "%s traded %s for %s's %s", a.Name, r1, partner.Name, r2)
	}
}

// shareKnowledge passes up to ShareCount of the teller's strongest memories
// to the listener. Danger and death keep full weight; everything else is
// discounted. Memories the listener already holds nearby are skipped.
func shareKnowledge(teller, listener *agents.Agent, tick uint64) int {
	shared := 0
	for _, m := range teller.Memories.Top(ShareCount) {
		if m.Type == agents.MemSocialized {
			continue
		}
		if listener.Memories.HasNear(m.Type, m.Pos, ShareDedupe) {
			continue
		}
		if m.Type != agents.MemDanger && m.Type != agents.MemDeath {
			m.Significance *= ShareDiscount
		}
		tid := teller.ID
		m.Tick = tick
		m.RelatedAgent = &tid
		listener.Memories.Add(m)
		shared++
	}
	if shared > 0 {
		teller.Counters.Shared++
		teller.Reputation.Grant(agents.RepShare)
		teller.AdjustAffinity(listener.ID, ShareAffinity)
		listener.AdjustAffinity(teller.ID, ShareAffinity)
	}
	return shared
}

// barter swaps one unit of a's most plentiful resource for one unit of
// something a lacks and b has spare, when b lacks a's surplus. Totals are
// unchanged, so capacity never overflows.
func barter(a, b *agents.Agent) (give, get world.Resource, ok bool) {
	give, found := mostHeld(&a.Inventory)
	if !found || a.Inventory.Count(give) < 2 || b.Inventory.Count(give) > 0 {
		return 0, 0, false
	}
	for r := world.Resource(0); r < world.NumResources; r++ {
		if r == give || a.Inventory.Count(r) > 0 || b.Inventory.Count(r) < 2 {
			continue
		}
		a.Inventory.Remove(give, 1)
		b.Inventory.Remove(r, 1)
		a.Inventory.Add(r, 1)
		b.Inventory.Add(give, 1)
		a.AdjustAffinity(b.ID, TradeAffinity)
		b.AdjustAffinity(a.ID, TradeAffinity)
		return give, r, true
	}
	return 0, 0, false
}

func mostHeld(inv *agents.Inventory) (world.Resource, bool) {
	best, bestN := world.Resource(0), 0
	for r := world.Resource(0); r < world.NumResources; r++ {
		if n := inv.Count(r); n > bestN {
			best, bestN = r, n
		}
	}
	return best, bestN > 0
}
