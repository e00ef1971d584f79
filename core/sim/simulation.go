// Package sim contains the tick orchestrator of the fleet-dispatch
// marketplace. A Simulation exclusively owns its drivers and requests; all
// mutation flows through the documented phases of Tick.
package sim

import (
	"context"
	"fmt"
	"sort"

	"fleetsim/core/dispatch"
	"fleetsim/core/events"
	"fleetsim/core/logger"
	"fleetsim/core/metrics"
	"fleetsim/core/model"
	"fleetsim/core/mutation"
	"fleetsim/core/sim/logging"
	"fleetsim/internal/eventbus"
)

// Config carries orchestrator-level settings.
type Config struct {
	// TimeoutTicks is the age at which a waiting request expires.
	TimeoutTicks int `json:"timeout_ticks"`
	// Dt is the movement step length per tick. Defaults to 1.
	Dt float64 `json:"dt"`
}

// RequestSource produces the requests arriving at a given tick. Implemented
// by generator.Generator; tests substitute scripted sources.
type RequestSource interface {
	MaybeGenerate(now int) []*model.Request
}

// Simulation owns the fleet and the request book and advances them through
// the fixed nine-phase tick. It is purely sequential: one tick completes
// fully before the next begins.
type Simulation struct {
	cfg     Config
	drivers []*model.Driver
	byID    map[int]*model.Driver

	requests []*model.Request // every request ever generated, ascending id
	open     []*model.Request // non-terminal subset, ascending id

	policy dispatch.Policy
	source RequestSource
	rule   mutation.Rule

	log   logger.Logger
	sink  metrics.Sink
	bus   *eventbus.Bus[events.Event]
	store logging.Store

	runID       string
	now         int
	served      int
	expired     int
	generated   int
	mutationLog []mutation.Entry
}

// New validates the configuration and collaborators and returns a ready
// simulation. The driver list must be non-empty with unique ids; the
// timeout must be positive.
func New(cfg Config, drivers []*model.Driver, policy dispatch.Policy, source RequestSource, rule mutation.Rule, log logger.Logger) (*Simulation, error) {
	if len(drivers) == 0 {
		return nil, fmt.Errorf("sim: at least one driver is required")
	}
	if cfg.TimeoutTicks <= 0 {
		return nil, fmt.Errorf("sim: timeout must be positive, got %d", cfg.TimeoutTicks)
	}
	if policy == nil || source == nil || rule == nil {
		return nil, fmt.Errorf("sim: policy, request source and mutation rule are required")
	}
	if cfg.Dt <= 0 {
		cfg.Dt = 1
	}
	if log == nil {
		log = nopLogger{}
	}
	ordered := append([]*model.Driver(nil), drivers...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	byID := make(map[int]*model.Driver, len(ordered))
	for _, d := range ordered {
		if _, dup := byID[d.ID]; dup {
			return nil, fmt.Errorf("sim: duplicate driver id %d", d.ID)
		}
		byID[d.ID] = d
	}
	return &Simulation{
		cfg:     cfg,
		drivers: ordered,
		byID:    byID,
		policy:  policy,
		source:  source,
		rule:    rule,
		log:     log,
		sink:    metrics.NopSink{},
	}, nil
}

// SetMetricsSink configures the sink simulation outcomes are recorded to.
func (s *Simulation) SetMetricsSink(sink metrics.Sink) {
	if sink != nil {
		s.sink = sink
	}
}

// SetEventBus configures the bus tick events are published on.
func (s *Simulation) SetEventBus(bus *eventbus.Bus[events.Event]) {
	s.bus = bus
}

// SetLogStore configures the store per-tick records are appended to.
func (s *Simulation) SetLogStore(store logging.Store) {
	s.store = store
}

// SetRunID tags snapshots and records with a run identifier.
func (s *Simulation) SetRunID(id string) {
	s.runID = id
}

// Time returns the current tick.
func (s *Simulation) Time() int { return s.now }

// Tick advances the simulation by one step. The nine phases execute
// strictly in order; a returned error signals a broken engine invariant and
// leaves the simulation unusable.
func (s *Simulation) Tick() error {
	rec := logging.TickRecord{RunID: s.runID, Time: s.now}

	// Phase 1: stochastic arrivals.
	fresh := s.source.MaybeGenerate(s.now)
	for _, r := range fresh {
		s.requests = append(s.requests, r)
		s.open = append(s.open, r)
		s.generated++
		rec.Generated = append(rec.Generated, r.ID)
		s.publish(events.RequestGenerated{Time: s.now, RequestID: r.ID, Pickup: r.Pickup, Dropoff: r.Dropoff})
	}

	// Phase 2: expire stale waiting requests.
	for _, r := range s.open {
		if r.Status != model.RequestWaiting || s.now-r.CreationTime < s.cfg.TimeoutTicks {
			continue
		}
		if err := r.MarkExpired(s.now); err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.now, err)
		}
		s.expired++
		rec.Expired = append(rec.Expired, r.ID)
		s.publish(events.RequestExpired{Time: s.now, RequestID: r.ID, WaitTime: r.WaitTime})
	}

	// Phase 3: proposals over idle drivers and waiting requests.
	proposals := s.policy.Propose(s.idleDrivers(), s.waitingRequests(), s.now)

	// Phase 4: enrich proposals into offers, filtered by driver behaviour.
	accepted := make([]model.Offer, 0, len(proposals))
	for _, p := range proposals {
		offer := model.NewOffer(p.Driver, p.Request, s.now, s.policy.Name())
		if p.Driver.Behaviour.Decide(p.Driver, offer, s.now) {
			accepted = append(accepted, offer)
		}
	}

	// Phase 5: at most one winner per request.
	final := dispatch.ResolveConflicts(accepted)

	// Phase 6: apply assignments.
	for _, o := range final {
		if err := o.Driver.AssignRequest(o.Request, s.now); err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.now, err)
		}
		if rec.Assignments == nil {
			rec.Assignments = make(map[int]int, len(final))
		}
		rec.Assignments[o.Request.ID] = o.Driver.ID
		s.publish(events.Assignment{Time: s.now, DriverID: o.Driver.ID, RequestID: o.Request.ID, Policy: o.Policy, TravelTime: o.TravelTime})
	}

	// Phase 7: move every driver, firing pickup/dropoff completions.
	deliveries := 0
	for _, d := range s.drivers {
		ev, err := d.Advance(s.cfg.Dt, s.now)
		if err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.now, err)
		}
		if ev == nil {
			continue
		}
		switch ev.Kind {
		case model.TripPickup:
			rec.Pickups = append(rec.Pickups, ev.RequestID)
			s.publish(events.Pickup{Time: s.now, DriverID: d.ID, RequestID: ev.RequestID, WaitTime: ev.WaitTime})
		case model.TripDelivery:
			s.served++
			deliveries++
			rec.Deliveries = append(rec.Deliveries, logging.DeliveryEntry{DriverID: d.ID, RequestID: ev.RequestID, Fare: ev.Fare})
			s.publish(events.Delivery{Time: s.now, DriverID: d.ID, RequestID: ev.RequestID, Fare: ev.Fare})
			s.record(s.sink.RecordDelivery(metrics.DeliveryRecord{
				RunID:     s.runID,
				Time:      s.now,
				DriverID:  d.ID,
				RequestID: ev.RequestID,
				Fare:      ev.Fare,
				WaitTime:  ev.WaitTime,
				Points:    lastPoints(d),
			}))
		}
	}

	// Phase 8: behaviour mutation.
	for _, d := range s.drivers {
		entry, err := s.rule.MaybeMutate(d, s.now)
		if err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.now, err)
		}
		if entry == nil {
			continue
		}
		s.mutationLog = append(s.mutationLog, *entry)
		rec.Mutations = append(rec.Mutations, *entry)
		s.publish(events.Mutation{Time: s.now, DriverID: entry.DriverID, From: entry.From, To: entry.To, Reason: string(entry.Reason), AvgFare: entry.AvgFare})
		s.record(s.sink.RecordMutation(metrics.MutationRecord{
			RunID:    s.runID,
			Time:     s.now,
			DriverID: entry.DriverID,
			From:     entry.From,
			To:       entry.To,
			Reason:   string(entry.Reason),
			AvgFare:  entry.AvgFare,
		}))
	}

	s.pruneOpen()
	s.record(s.sink.RecordTick(metrics.TickStats{
		RunID:           s.runID,
		Time:            s.now,
		Generated:       len(rec.Generated),
		Expired:         len(rec.Expired),
		Assigned:        len(rec.Assignments),
		Deliveries:      deliveries,
		Mutations:       len(rec.Mutations),
		IdleDrivers:     len(s.idleDrivers()),
		WaitingRequests: len(s.waitingRequests()),
	}))
	if s.store != nil {
		if err := s.store.Append(context.Background(), rec); err != nil {
			s.log.Errorf("tick log append: %v", err)
		}
	}
	s.log.Debugw("tick complete", map[string]any{
		"time":       s.now,
		"generated":  len(rec.Generated),
		"expired":    len(rec.Expired),
		"assigned":   len(rec.Assignments),
		"deliveries": deliveries,
	})

	// Phase 9: advance the clock.
	s.now++
	return nil
}

// Run advances the simulation by ticks steps, stopping early when the
// context is canceled.
func (s *Simulation) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) idleDrivers() []*model.Driver {
	var idle []*model.Driver
	for _, d := range s.drivers {
		if d.Status == model.DriverIdle {
			idle = append(idle, d)
		}
	}
	return idle
}

func (s *Simulation) waitingRequests() []*model.Request {
	var waiting []*model.Request
	for _, r := range s.open {
		if r.Status == model.RequestWaiting {
			waiting = append(waiting, r)
		}
	}
	return waiting
}

func (s *Simulation) pruneOpen() {
	kept := s.open[:0]
	for _, r := range s.open {
		if !r.Terminal() {
			kept = append(kept, r)
		}
	}
	s.open = kept
}

func (s *Simulation) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func (s *Simulation) record(err error) {
	if err != nil {
		s.log.Errorf("metrics: %v", err)
	}
}

// lastPoints returns the reward points of the driver's latest completed
// trip.
func lastPoints(d *model.Driver) float64 {
	for i := len(d.History) - 1; i >= 0; i-- {
		if d.History[i].Completed {
			return d.History[i].Points
		}
	}
	return 0
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
