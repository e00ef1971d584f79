package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetsim/core/model"
)

const sampleYAML = `
seed: 7
ticks: 50
policy: nearest_neighbor
simulation:
  timeout_ticks: 12
arrival:
  rate: 1.5
  bounds:
    max_x: 100
    max_y: 100
drivers:
  - id: 1
    x: 10
    y: 20
    speed: 1.5
    behaviour:
      kind: greedy_distance
      max_distance: 25
  - id: 2
    speed: 1
    behaviour:
      kind: lazy
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sim.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 50, cfg.Ticks)
	assert.Equal(t, "nearest_neighbor", cfg.Policy)
	assert.Equal(t, 12, cfg.Simulation.TimeoutTicks)
	assert.InDelta(t, 1.5, cfg.Arrival.Rate, 1e-9)
	require.Len(t, cfg.Drivers, 2)
	assert.Equal(t, 25.0, cfg.Drivers[0].Behaviour.MaxDistance)

	// Defaults filled where the file is silent.
	assert.Equal(t, 1.0, cfg.Simulation.Dt)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	assert.Equal(t, "ticks.log", cfg.Logging.Path)
	require.NotNil(t, cfg.Mutation.CooldownTicks)
	assert.Equal(t, 10, *cfg.Mutation.CooldownTicks)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sim.json", `{
		"ticks": 10,
		"simulation": {"timeout_ticks": 5},
		"arrival": {"rate": 2, "bounds": {"max_x": 10, "max_y": 10}},
		"drivers": [{"id": 1, "speed": 1, "behaviour": {"kind": "earnings_max"}}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Ticks)
	assert.Equal(t, "adaptive_hybrid", cfg.Policy)
}

func TestLoadExplicitZeroMutationKnobs(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sim.yaml", sampleYAML+`
mutation:
  cooldown_ticks: 0
  exploration_prob: 0
`))
	require.NoError(t, err)

	// An explicit zero is a tuning choice, not an omission.
	require.NotNil(t, cfg.Mutation.CooldownTicks)
	assert.Equal(t, 0, *cfg.Mutation.CooldownTicks)
	require.NotNil(t, cfg.Mutation.ExplorationProb)
	assert.Equal(t, 0.0, *cfg.Mutation.ExplorationProb)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FS_ARRIVAL__RATE", "4.25")
	cfg, err := Load(writeConfig(t, "sim.yaml", sampleYAML))
	require.NoError(t, err)
	assert.InDelta(t, 4.25, cfg.Arrival.Rate, 1e-9)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "sim.toml", "ticks = 10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	base := func() Config {
		var c Config
		c.Drivers = []DriverConfig{{ID: 1, Speed: 1, Behaviour: BehaviourConfig{Kind: "lazy"}}}
		c.Simulation.TimeoutTicks = 10
		c.Arrival.Rate = 1
		c.Arrival.Bounds.MaxX = 10
		c.Arrival.Bounds.MaxY = 10
		c.SetDefaults()
		return c
	}

	cases := map[string]func(*Config){
		"no drivers":      func(c *Config) { c.Drivers = nil },
		"bad timeout":     func(c *Config) { c.Simulation.TimeoutTicks = 0 },
		"bad rate":        func(c *Config) { c.Arrival.Rate = -1 },
		"bad bounds":      func(c *Config) { c.Arrival.Bounds.MaxX = 0 },
		"bad speed":       func(c *Config) { c.Drivers[0].Speed = 0 },
		"unknown kind":    func(c *Config) { c.Drivers[0].Behaviour.Kind = "altruistic" },
		"negative ticks":  func(c *Config) { c.Ticks = -5 },
		"duplicate ids": func(c *Config) {
			c.Drivers = append(c.Drivers, DriverConfig{ID: 1, Speed: 1, Behaviour: BehaviourConfig{Kind: "lazy"}})
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			require.NoError(t, c.Validate())
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestBuildBehaviourOverrides(t *testing.T) {
	var c Config
	c.SetDefaults()

	b, err := c.BuildBehaviour(BehaviourConfig{Kind: "greedy_distance", MaxDistance: 42})
	require.NoError(t, err)
	assert.Equal(t, model.BehaviourGreedyDistance, b.Kind())

	// Unset parameters fall back to the global defaults.
	b, err = c.BuildBehaviour(BehaviourConfig{Kind: "lazy"})
	require.NoError(t, err)
	assert.Equal(t, model.BehaviourLazy, b.Kind())

	_, err = c.BuildBehaviour(BehaviourConfig{Kind: "bogus"})
	assert.Error(t, err)
}
