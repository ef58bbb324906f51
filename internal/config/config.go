// Package config loads villagesim's YAML tuning file, validates it against
// an embedded JSON schema, and applies environment overrides for secrets.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/mini-village/internal/brain"
	"github.com/talgya/mini-village/internal/engine"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Environment variables read by Load.
const (
	EnvAdminKey   = "VILLAGESIM_ADMIN_KEY"
	EnvWeatherKey = "OPENWEATHER_API_KEY"
	EnvDBPath     = "VILLAGESIM_DB"
)

//go:embed schema.json
var schemaSource string

const schemaURL = "villagesim.schema.json"

// Config is the full runtime configuration.
type Config struct {
	Seed      int64  `yaml:"seed"`
	Villagers int    `yaml:"villagers"`
	LogLevel  string `yaml:"log_level"`

	World      WorldConfig      `yaml:"world"`
	Decider    DeciderConfig    `yaml:"decider"`
	Thresholds brain.Thresholds `yaml:"thresholds"`
	Engine     engine.Config    `yaml:"engine"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Weather    WeatherConfig    `yaml:"weather"`
}

// WorldConfig sizes the generated map.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DeciderConfig selects the decision engine.
type DeciderConfig struct {
	Kind    string `yaml:"kind"`
	Weights string `yaml:"weights"`
}

// ServerConfig controls the live loop and HTTP API.
type ServerConfig struct {
	Addr           string  `yaml:"addr"`
	TickInterval   string  `yaml:"tick_interval"`
	Speed          float64 `yaml:"speed"`
	StreamInterval string  `yaml:"stream_interval"`
	AdminKey       string  `yaml:"-"` // Env only
}

// StorageConfig locates the database and trace output.
type StorageConfig struct {
	DBPath   string `yaml:"db_path"`
	TraceDir string `yaml:"trace_dir"`
}

// WeatherConfig enables real-world weather when an API key is set.
type WeatherConfig struct {
	Location string `yaml:"location"`
	APIKey   string `yaml:"-"` // Env only
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:       42,
		Villagers:  12,
		LogLevel:   "info",
		World:      WorldConfig{Width: 64, Height: 64},
		Decider:    DeciderConfig{Kind: brain.KindPriority},
		Thresholds: brain.DefaultThresholds(),
		Engine:     engine.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			TickInterval:   "1s",
			Speed:          1,
			StreamInterval: "1s",
		},
		Storage: StorageConfig{
			DBPath:   "data/village.db",
			TraceDir: "data/traces",
		},
		Weather: WeatherConfig{Location: "Lisbon,PT"},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Secrets always come from the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse validates raw YAML against the schema and decodes it into cfg.
// Fields absent from raw keep their current values.
func Parse(raw []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := validateSchema(doc); err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func validateSchema(doc any) error {
	schema, err := jsonschema.CompileString(schemaURL, schemaSource)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON-native types.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAdminKey); v != "" {
		c.Server.AdminKey = v
	}
	if v := os.Getenv(EnvWeatherKey); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Storage.DBPath = v
	}
}

// Validate checks rules the schema cannot express.
func (c Config) Validate() error {
	var problems []string
	if c.Decider.Kind == brain.KindLearned && c.Decider.Weights == "" {
		problems = append(problems, "decider.weights is required for the learned decider")
	}
	if c.Engine.Durations.GatherAxe > c.Engine.Durations.Gather {
		problems = append(problems, "engine.durations.gather_axe must not exceed gather")
	}
	t := c.Thresholds
	if t.EmergencyHunger > t.ModerateHunger || t.ModerateHunger > t.ProactiveHunger {
		problems = append(problems, "hunger thresholds must rise from emergency to proactive")
	}
	if t.EmergencySafety > t.ModerateSafety {
		problems = append(problems, "safety thresholds must rise from emergency to moderate")
	}
	if _, err := c.TickInterval(); err != nil {
		problems = append(problems, "server.tick_interval: "+err.Error())
	}
	if _, err := c.StreamInterval(); err != nil {
		problems = append(problems, "server.stream_interval: "+err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// TickInterval parses the live loop's base tick interval.
func (c Config) TickInterval() (time.Duration, error) {
	return time.ParseDuration(c.Server.TickInterval)
}

// StreamInterval parses how often the websocket stream pushes snapshots.
func (c Config) StreamInterval() (time.Duration, error) {
	return time.ParseDuration(c.Server.StreamInterval)
}
