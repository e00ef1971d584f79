// Package mutation adapts driver behaviours over time based on recent
// earnings. The hybrid rule combines performance thresholds with
// hysteresis exits and stagnation-driven exploration.
package mutation

import (
	"fmt"

	"fleetsim/core/model"
)

// Reason labels why a mutation fired.
type Reason string

const (
	ReasonExitGreedy   Reason = "exit_greedy"
	ReasonExitEarnings Reason = "exit_earnings"
	ReasonLowEarnings  Reason = "performance_low_earnings"
	ReasonHighEarnings Reason = "performance_high_earnings"
	ReasonStagnation   Reason = "stagnation_exploration"
)

// Entry is one record of the append-only mutation log. The log is the
// single source of truth for behaviour changes; it is never re-derived
// from driver state.
type Entry struct {
	Time     int     `json:"time"`
	DriverID int     `json:"driver_id"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Reason   Reason  `json:"reason"`
	AvgFare  float64 `json:"avg_fare"`
}

// Rule may replace a driver's behaviour. A nil entry means no mutation
// occurred this tick.
type Rule interface {
	MaybeMutate(d *model.Driver, now int) (*Entry, error)
}

// Noop never mutates. Useful for runs studying pure dispatch effects.
type Noop struct{}

func (Noop) MaybeMutate(*model.Driver, int) (*Entry, error) { return nil, nil }

// Config carries the tuning constants of the hybrid rule. The thresholds
// are policy knobs, not structural invariants, so they all live here.
type Config struct {
	// LowThreshold and HighThreshold bound the primary performance band.
	LowThreshold  float64 `json:"low_threshold"`
	HighThreshold float64 `json:"high_threshold"`
	// CooldownTicks is the minimum interval between mutations of one
	// driver. Pointer so an explicit 0 (no cooldown) survives defaulting.
	CooldownTicks *int `json:"cooldown_ticks"`
	// Window is the number of recent trips evaluated.
	Window int `json:"window"`
	// ExplorationProb is the chance a stagnating non-Lazy driver explores.
	// Pointer so an explicit 0 (never explore) survives defaulting.
	ExplorationProb *float64 `json:"exploration_prob"`
	// GreedyExitThreshold and EarningsExitThreshold are offset from the
	// entry thresholds to create a dead zone that prevents oscillation.
	GreedyExitThreshold   float64 `json:"greedy_exit_threshold"`
	EarningsExitThreshold float64 `json:"earnings_exit_threshold"`
	// StagnationBand is the relative width around the average fare and
	// StagnationFraction the share of fares that must fall inside it.
	StagnationBand     float64 `json:"stagnation_band"`
	StagnationFraction float64 `json:"stagnation_fraction"`
}

// SetDefaults applies the standard tuning.
func (c *Config) SetDefaults() {
	if c.LowThreshold == 0 {
		c.LowThreshold = 3.0
	}
	if c.HighThreshold == 0 {
		c.HighThreshold = 10.0
	}
	if c.CooldownTicks == nil {
		cooldown := 10
		c.CooldownTicks = &cooldown
	}
	if c.Window == 0 {
		c.Window = 10
	}
	if c.ExplorationProb == nil {
		prob := 0.3
		c.ExplorationProb = &prob
	}
	if c.GreedyExitThreshold == 0 {
		c.GreedyExitThreshold = 5.0
	}
	if c.EarningsExitThreshold == 0 {
		c.EarningsExitThreshold = 7.5
	}
	if c.StagnationBand == 0 {
		c.StagnationBand = 0.05
	}
	if c.StagnationFraction == 0 {
		c.StagnationFraction = 0.7
	}
}

// Validate checks the tuning for internal consistency.
func (c Config) Validate() error {
	if c.LowThreshold >= c.HighThreshold {
		return fmt.Errorf("mutation: low threshold %v must be below high threshold %v", c.LowThreshold, c.HighThreshold)
	}
	if c.CooldownTicks != nil && *c.CooldownTicks < 0 {
		return fmt.Errorf("mutation: cooldown must not be negative")
	}
	if c.Window < 2 {
		return fmt.Errorf("mutation: window must cover at least 2 trips")
	}
	if c.ExplorationProb != nil && (*c.ExplorationProb < 0 || *c.ExplorationProb > 1) {
		return fmt.Errorf("mutation: exploration probability %v outside [0,1]", *c.ExplorationProb)
	}
	if c.StagnationFraction < 0 || c.StagnationFraction > 1 {
		return fmt.Errorf("mutation: stagnation fraction %v outside [0,1]", c.StagnationFraction)
	}
	return nil
}
