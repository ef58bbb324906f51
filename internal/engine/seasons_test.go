package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

func TestRespawnTicksFollowSeason(t *testing.T) {
	f := newFixture(always(agents.Action{}), DefaultConfig())
	base := f.sim.Config.RespawnTicks

	tests := []struct {
		season weather.Season
		food   uint64
	}{
		{weather.Spring, uint64(float64(base) * 0.8)},
		{weather.Summer, base},
		{weather.Autumn, uint64(float64(base) * 0.6)},
		{weather.Winter, base * 2},
	}
	for _, tt := range tests {
		t.Run(tt.season.String(), func(t *testing.T) {
			f.sim.env = weather.At(uint64(tt.season)*weather.TicksPerSeason, weather.Clear)
			assert.Equal(t, tt.food, f.sim.respawnTicks(world.ObjectBerryBush))
			assert.Equal(t, base, f.sim.respawnTicks(world.ObjectTree))
		})
	}
}

func TestWinterHardship(t *testing.T) {
	a := villager(1, 5, 5)
	f := newFixture(always(agents.Action{}), DefaultConfig(), a)
	before := a.Needs.Safety

	f.sim.TickSeason(uint64(weather.Winter) * weather.TicksPerSeason)

	assert.InDelta(t, before-WinterHardship, a.Needs.Safety, 1e-9)
	events := f.sim.RecentEvents(0)
	if assert.Len(t, events, 1) {
		assert.Equal(t, CategorySeason, events[0].Category)
		assert.Equal(t, "Winter arrives", events[0].Description)
	}
}
