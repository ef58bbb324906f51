package engine

import "github.com/talgya/mini-village/internal/perception"

// Config tunes the per-agent update loop.
type Config struct {
	StarvationTicks int    `yaml:"starvation_ticks" json:"starvation_ticks"`
	MaxPathLength   int    `yaml:"max_path_length" json:"max_path_length"`
	MoveInterval    int    `yaml:"move_interval" json:"move_interval"`
	RespawnTicks    uint64 `yaml:"respawn_ticks" json:"respawn_ticks"`
	TitleInterval   uint64 `yaml:"title_interval" json:"title_interval"`
	EventBuffer     int    `yaml:"event_buffer" json:"event_buffer"`

	Durations Durations `yaml:"durations" json:"durations"`

	Perception perception.Config `yaml:"perception" json:"perception"`
}

// Durations are action lengths in ticks spent at the target.
type Durations struct {
	Forage      int `yaml:"forage" json:"forage"`
	Gather      int `yaml:"gather" json:"gather"`
	GatherAxe   int `yaml:"gather_axe" json:"gather_axe"`
	Craft       int `yaml:"craft" json:"craft"`
	Fish        int `yaml:"fish" json:"fish"`
	BuildWindow int `yaml:"build_window" json:"build_window"`
}

// DefaultConfig returns the standard loop tuning.
func DefaultConfig() Config {
	return Config{
		StarvationTicks: 240,
		MaxPathLength:   48,
		MoveInterval:    2,
		RespawnTicks:    720,
		TitleInterval:   120,
		EventBuffer:     1000,
		Durations: Durations{
			Forage:      3,
			Gather:      6,
			GatherAxe:   4,
			Craft:       10,
			Fish:        8,
			BuildWindow: 5,
		},
		Perception: perception.DefaultConfig(),
	}
}
