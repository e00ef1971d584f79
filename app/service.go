// Package app wires configuration into a runnable simulation service.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"fleetsim/config"
	"fleetsim/core/dispatch"
	"fleetsim/core/events"
	"fleetsim/core/generator"
	coremetrics "fleetsim/core/metrics"
	"fleetsim/core/model"
	"fleetsim/core/mutation"
	"fleetsim/core/sim"
	"fleetsim/core/sim/logging"
	"fleetsim/infra/logger"
	inframetrics "fleetsim/infra/metrics"
	"fleetsim/internal/eventbus"
)

// Service owns a configured simulation and its observability wiring.
type Service struct {
	cfg   *config.Config
	sim   *sim.Simulation
	bus   *eventbus.Bus[events.Event]
	store logging.Store
	log   logger.Logger
}

// New builds the full object graph from configuration: RNG, generator,
// policy, mutation rule, fleet, sinks, event bus and tick log store.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("fleetsim")

	// One seeded source feeds every random draw in the run, so a seed
	// reproduces the whole simulation.
	src := rand.NewSource(uint64(cfg.Seed))

	gen, err := generator.New(cfg.Arrival.Rate, cfg.Arrival.Bounds, src)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	policy, err := dispatch.New(cfg.Policy)
	if err != nil {
		return nil, err
	}
	rule, err := mutation.NewHybrid(cfg.Mutation, cfg.Defaults, rand.New(src))
	if err != nil {
		return nil, err
	}

	drivers := make([]*model.Driver, 0, len(cfg.Drivers))
	for _, dc := range cfg.Drivers {
		b, err := cfg.BuildBehaviour(dc.Behaviour)
		if err != nil {
			return nil, fmt.Errorf("driver %d: %w", dc.ID, err)
		}
		d, err := model.NewDriver(dc.ID, model.NewPoint(dc.X, dc.Y), dc.Speed, b)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	engine, err := sim.New(cfg.Simulation, drivers, policy, gen, rule, log)
	if err != nil {
		return nil, err
	}
	engine.SetRunID(uuid.NewString())

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := inframetrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, inframetrics.NewInfluxSinkWithFallback(cfg.Metrics.Influx, log))
	}
	switch len(sinks) {
	case 0:
	case 1:
		engine.SetMetricsSink(sinks[0])
	default:
		engine.SetMetricsSink(coremetrics.NewMultiSink(sinks...))
	}

	bus := eventbus.New[events.Event]()
	engine.SetEventBus(bus)

	svc := &Service{cfg: cfg, sim: engine, bus: bus, log: log}
	if cfg.Logging.Enabled {
		store, err := logging.NewJSONLStore(cfg.Logging.Path)
		if err != nil {
			return nil, fmt.Errorf("tick log store: %w", err)
		}
		svc.store = store
		engine.SetLogStore(store)
	}
	return svc, nil
}

// Run drives the configured number of ticks, serving Prometheus metrics in
// the background when enabled, and logs a final summary.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := inframetrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if err := s.sim.Run(ctx, s.cfg.Ticks); err != nil {
		return err
	}
	snap := s.sim.Snapshot()
	s.log.Infof("run %s finished: %d ticks, %d generated, %d served, %d expired, %d mutations",
		snap.RunID, snap.Time, snap.GeneratedCount, snap.ServedCount, snap.ExpiredCount, len(snap.MutationLog))
	return nil
}

// Snapshot returns the current read-only simulation state.
func (s *Service) Snapshot() sim.Snapshot {
	return s.sim.Snapshot()
}

// EventBus exposes the bus external observers can subscribe to.
func (s *Service) EventBus() *eventbus.Bus[events.Event] {
	return s.bus
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
