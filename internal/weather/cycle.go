package weather

import "math/rand"

// Kind is the simulated weather.
type Kind uint8

const (
	Clear Kind = iota
	Rain
	Storm
	Snow
)

// NumKinds is the number of weather kinds.
const NumKinds = 4

// String returns the lower-case weather name.
func (k Kind) String() string {
	switch k {
	case Clear:
		return "clear"
	case Rain:
		return "rain"
	case Storm:
		return "storm"
	case Snow:
		return "snow"
	default:
		return "unknown"
	}
}

// Season of the year.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// NumSeasons is the number of seasons.
const NumSeasons = 4

// String returns a human-readable season name.
func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Autumn:
		return "Autumn"
	case Winter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// Clock lengths in ticks. One tick is one sim-minute.
const (
	TicksPerDay    = 1440
	DaysPerSeason  = 10
	TicksPerSeason = TicksPerDay * DaysPerSeason
)

// State is the read-only time and weather view handed to agents each tick.
type State struct {
	Tick      uint64  `json:"tick"`
	TimeOfDay float64 `json:"time_of_day"` // 0 = midnight, 0.5 = noon
	Season    Season  `json:"season"`
	Kind      Kind    `json:"weather"`
}

// IsNight reports whether the sun is down (before 06:00 or after 20:00).
func (s State) IsNight() bool {
	return s.TimeOfDay < 0.25 || s.TimeOfDay >= 0.8333
}

// IsStorm reports whether a storm is raging.
func (s State) IsStorm() bool { return s.Kind == Storm }

// At derives the clock fields for a tick with the given weather.
func At(tick uint64, kind Kind) State {
	return State{
		Tick:      tick,
		TimeOfDay: float64(tick%TicksPerDay) / TicksPerDay,
		Season:    Season((tick / TicksPerSeason) % NumSeasons),
		Kind:      kind,
	}
}

// transition[season][from] lists cumulative probabilities of the next kind
// (clear, rain, storm, snow) at each hourly roll.
var transition = [NumSeasons][NumKinds][NumKinds]float64{
	Spring: {
		Clear: {0.80, 0.97, 1.00, 1.00},
		Rain:  {0.35, 0.90, 1.00, 1.00},
		Storm: {0.20, 0.70, 1.00, 1.00},
		Snow:  {0.60, 0.90, 0.90, 1.00},
	},
	Summer: {
		Clear: {0.88, 0.96, 1.00, 1.00},
		Rain:  {0.50, 0.90, 1.00, 1.00},
		Storm: {0.30, 0.65, 1.00, 1.00},
		Snow:  {1.00, 1.00, 1.00, 1.00},
	},
	Autumn: {
		Clear: {0.72, 0.94, 1.00, 1.00},
		Rain:  {0.30, 0.85, 1.00, 1.00},
		Storm: {0.20, 0.65, 1.00, 1.00},
		Snow:  {0.50, 0.80, 0.85, 1.00},
	},
	Winter: {
		Clear: {0.70, 0.75, 0.80, 1.00},
		Rain:  {0.30, 0.60, 0.70, 1.00},
		Storm: {0.20, 0.30, 0.60, 1.00},
		Snow:  {0.30, 0.35, 0.45, 1.00},
	},
}

// Cycle advances the simulated weather. Seeded, so a run is reproducible.
type Cycle struct {
	rng     *rand.Rand
	current Kind
	source  *Client
}

// NewCycle creates a weather cycle starting clear.
func NewCycle(seed int64) *Cycle {
	return &Cycle{rng: rand.New(rand.NewSource(seed + 500))}
}

// UseClient makes the cycle follow the client's latest fresh conditions,
// falling back to the seeded roll while there are none.
func (c *Cycle) UseClient(client *Client) {
	c.source = client
}

// Current returns the active weather kind.
func (c *Cycle) Current() Kind { return c.current }

// Set forces the weather kind.
func (c *Cycle) Set(k Kind) { c.current = k }

// State returns the clock and weather for tick.
func (c *Cycle) State(tick uint64) State {
	return At(tick, c.current)
}

// Roll picks the next hour's weather for the season. Returns true if it changed.
func (c *Cycle) Roll(season Season) bool {
	prev := c.current
	if c.source != nil {
		if cond, ok := c.source.Latest(); ok {
			c.current = KindFromConditions(cond)
			return c.current != prev
		}
	}
	x := c.rng.Float64()
	row := transition[season%NumSeasons][c.current]
	for k := Kind(0); k < NumKinds; k++ {
		if x < row[k] {
			c.current = k
			break
		}
	}
	return c.current != prev
}
