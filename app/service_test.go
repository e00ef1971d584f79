package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetsim/config"
	"fleetsim/core/sim/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Seed:   21,
		Ticks:  30,
		Policy: "adaptive_hybrid",
		Drivers: []config.DriverConfig{
			{ID: 1, X: 10, Y: 10, Speed: 1.5, Behaviour: config.BehaviourConfig{Kind: "greedy_distance"}},
			{ID: 2, X: 40, Y: 40, Speed: 1, Behaviour: config.BehaviourConfig{Kind: "earnings_max"}},
		},
	}
	cfg.Simulation.TimeoutTicks = 10
	cfg.Arrival.Rate = 1
	cfg.Arrival.Bounds.MaxX = 50
	cfg.Arrival.Bounds.MaxY = 50
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceRun(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.Run(context.Background()))

	snap := svc.Snapshot()
	assert.Equal(t, cfg.Ticks, snap.Time)
	assert.NotEmpty(t, snap.RunID)
	assert.Len(t, snap.Drivers, 2)
	assert.Positive(t, snap.GeneratedCount)
}

func TestServiceWritesTickLog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Enabled = true
	cfg.Logging.Path = filepath.Join(t.TempDir(), "ticks.log")

	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	require.NoError(t, svc.Run(context.Background()))

	store, err := logging.NewJSONLStore(cfg.Logging.Path)
	require.NoError(t, err)
	recs, err := store.Query(context.Background(), logging.Query{})
	require.NoError(t, err)
	assert.Len(t, recs, cfg.Ticks)
	assert.Equal(t, svc.Snapshot().RunID, recs[0].RunID)
}

func TestServiceRejectsBadBehaviour(t *testing.T) {
	cfg := testConfig(t)
	cfg.Drivers[0].Behaviour.Kind = "bogus"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestServiceEventBus(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ch := svc.EventBus().Subscribe(1024)
	require.NoError(t, svc.Run(context.Background()))

	// The generator emits at rate 1 over 30 ticks: something must arrive.
	assert.NotEmpty(t, ch)
}
