// Package config loads and validates simulation configuration from YAML or
// JSON files, with environment variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"fleetsim/core/behaviour"
	"fleetsim/core/generator"
	"fleetsim/core/model"
	"fleetsim/core/mutation"
	"fleetsim/core/sim"
	inframetrics "fleetsim/infra/metrics"
)

// BehaviourConfig selects and parameterizes a driver behaviour.
type BehaviourConfig struct {
	Kind              string  `json:"kind"`
	MaxDistance       float64 `json:"max_distance"`
	MinRewardPerTime  float64 `json:"min_reward_per_time"`
	IdleTicksNeeded   int     `json:"idle_ticks_needed"`
	MaxPickupDistance float64 `json:"max_pickup_distance"`
}

// DriverConfig describes one driver of the initial fleet.
type DriverConfig struct {
	ID        int             `json:"id"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Speed     float64         `json:"speed"`
	Behaviour BehaviourConfig `json:"behaviour"`
}

// ArrivalConfig parameterizes the request generator.
type ArrivalConfig struct {
	Rate   float64          `json:"rate"`
	Bounds generator.Bounds `json:"bounds"`
}

// MetricsConfig selects the metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool                      `json:"prometheus_enabled"`
	PrometheusAddr    string                    `json:"prometheus_addr"`
	InfluxEnabled     bool                      `json:"influx_enabled"`
	Influx            inframetrics.InfluxConfig `json:"influx"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// LoggingConfig controls the per-tick JSONL log store.
type LoggingConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "ticks.log"
	}
}

// Config is the root configuration of a simulation run.
type Config struct {
	Seed       int64              `json:"seed"`
	Ticks      int                `json:"ticks"`
	Policy     string             `json:"policy"`
	Simulation sim.Config         `json:"simulation"`
	Arrival    ArrivalConfig      `json:"arrival"`
	Drivers    []DriverConfig     `json:"drivers"`
	Defaults   behaviour.Defaults `json:"behaviour_defaults"`
	Mutation   mutation.Config    `json:"mutation"`
	Metrics    MetricsConfig      `json:"metrics"`
	Logging    LoggingConfig      `json:"logging"`
}

// Load reads the configuration file, applies FS_ environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. FS_ARRIVAL__RATE=2.5.
	if err := k.Load(env.Provider("FS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults across all sub-configs.
func (c *Config) SetDefaults() {
	if c.Ticks == 0 {
		c.Ticks = 200
	}
	if c.Policy == "" {
		c.Policy = "adaptive_hybrid"
	}
	if c.Simulation.Dt == 0 {
		c.Simulation.Dt = 1
	}
	c.Defaults.SetDefaults()
	c.Mutation.SetDefaults()
	c.Metrics.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate rejects configurations the engine would refuse at construction,
// so misconfiguration fails before any resources are wired.
func (c Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("config: ticks must be positive")
	}
	if len(c.Drivers) == 0 {
		return fmt.Errorf("config: at least one driver is required")
	}
	if c.Simulation.TimeoutTicks <= 0 {
		return fmt.Errorf("config: simulation.timeout_ticks must be positive")
	}
	if c.Arrival.Rate <= 0 {
		return fmt.Errorf("config: arrival.rate must be positive")
	}
	if err := c.Arrival.Bounds.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	seen := make(map[int]bool, len(c.Drivers))
	for _, d := range c.Drivers {
		if d.Speed <= 0 {
			return fmt.Errorf("config: driver %d: speed must be positive", d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("config: duplicate driver id %d", d.ID)
		}
		seen[d.ID] = true
		if _, err := behaviour.ParseKind(d.Behaviour.Kind); err != nil {
			return fmt.Errorf("config: driver %d: %w", d.ID, err)
		}
	}
	if err := c.Mutation.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// BuildBehaviour instantiates the configured behaviour for one driver,
// falling back to the global defaults for unset parameters.
func (c Config) BuildBehaviour(bc BehaviourConfig) (model.Behaviour, error) {
	kind, err := behaviour.ParseKind(bc.Kind)
	if err != nil {
		return nil, err
	}
	params := c.Defaults
	if bc.MaxDistance > 0 {
		params.MaxDistance = bc.MaxDistance
	}
	if bc.MinRewardPerTime > 0 {
		params.MinRewardPerTime = bc.MinRewardPerTime
	}
	if bc.IdleTicksNeeded > 0 {
		params.IdleTicksNeeded = bc.IdleTicksNeeded
	}
	if bc.MaxPickupDistance > 0 {
		params.MaxPickupDistance = bc.MaxPickupDistance
	}
	return params.Build(kind)
}
