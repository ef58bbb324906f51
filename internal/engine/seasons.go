// Seasonal effects: food regrowth pace and the turn of the year.
package engine

import (
	"log/slog"

	"github.com/talgya/mini-village/internal/weather"
	"github.com/talgya/mini-village/internal/world"
)

// seasonalRegrowth scales food respawn time by season.
var seasonalRegrowth = [weather.NumSeasons]float64{
	weather.Spring: 0.8,
	weather.Summer: 1.0,
	weather.Autumn: 0.6,
	weather.Winter: 2.0,
}

// WinterHardship is the safety lost by every villager as winter sets in.
const WinterHardship = 0.15

// respawnTicks returns how long a harvested object stays depleted. Food
// follows the season; wood and stone do not.
func (s *Simulation) respawnTicks(t world.ObjectType) uint64 {
	base := s.Config.RespawnTicks
	if !t.IsFood() {
		return base
	}
	return uint64(float64(base) * seasonalRegrowth[s.env.Season])
}

// TickSeason announces the new season. Winter makes everyone uneasy.
func (s *Simulation) TickSeason(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	season := weather.At(tick, weather.Clear).Season
	s.emit(tick, CategorySeason, 0, "%s arrives", season)
	if season == weather.Winter {
		for _, a := range s.Agents {
			if !a.Alive {
				continue
			}
			a.Needs.Safety -= WinterHardship
			a.Needs.Clamp()
		}
	}
	slog.Info("season change", "time", SimTime(tick), "season", season, "alive", s.Stats.Alive)
}
