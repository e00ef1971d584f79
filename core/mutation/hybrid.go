package mutation

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"fleetsim/core/behaviour"
	"fleetsim/core/model"
)

// Hybrid is the rule-based behaviour mutation state machine. Evaluation
// order: cooldown guard, history guard, hysteresis exits, performance
// thresholds, stagnation exploration.
type Hybrid struct {
	cfg      Config
	defaults behaviour.Defaults
	rng      *rand.Rand
}

// NewHybrid returns the hybrid rule. The RNG drives exploration coin flips
// and must be seeded by the caller for reproducible runs.
func NewHybrid(cfg Config, defaults behaviour.Defaults, rng *rand.Rand) (*Hybrid, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("mutation: rng is required")
	}
	defaults.SetDefaults()
	return &Hybrid{cfg: cfg, defaults: defaults, rng: rng}, nil
}

// MaybeMutate evaluates the driver and possibly replaces its behaviour.
func (h *Hybrid) MaybeMutate(d *model.Driver, now int) (*Entry, error) {
	if d.LastMutationTime != model.NeverMutated && now-d.LastMutationTime < *h.cfg.CooldownTicks {
		return nil, nil
	}
	fares := d.RecentFares(h.cfg.Window)
	if len(fares) < 2 {
		// Not an error: the driver simply is not eligible yet.
		return nil, nil
	}
	avg := stat.Mean(fares, nil)
	kind := d.Behaviour.Kind()

	if kind == model.BehaviourGreedyDistance && avg >= h.cfg.GreedyExitThreshold {
		return h.mutate(d, now, model.BehaviourLazy, ReasonExitGreedy, avg)
	}
	if kind == model.BehaviourEarningsMax && avg < h.cfg.EarningsExitThreshold {
		return h.mutate(d, now, model.BehaviourLazy, ReasonExitEarnings, avg)
	}

	// A primary threshold ends evaluation either way: a driver already
	// running the target behaviour stays put, it does not fall through to
	// the stagnation check.
	if avg < h.cfg.LowThreshold {
		if kind == model.BehaviourGreedyDistance {
			return nil, nil
		}
		return h.mutate(d, now, model.BehaviourGreedyDistance, ReasonLowEarnings, avg)
	}
	if avg > h.cfg.HighThreshold {
		if kind == model.BehaviourEarningsMax {
			return nil, nil
		}
		return h.mutate(d, now, model.BehaviourEarningsMax, ReasonHighEarnings, avg)
	}

	if !h.stagnating(fares, avg) {
		return nil, nil
	}
	// A stagnating Lazy driver always explores; others flip a coin.
	if kind != model.BehaviourLazy && h.rng.Float64() >= *h.cfg.ExplorationProb {
		return nil, nil
	}
	return h.mutate(d, now, h.explorationTarget(kind), ReasonStagnation, avg)
}

// stagnating reports whether enough recent fares cluster around the mean.
func (h *Hybrid) stagnating(fares []float64, avg float64) bool {
	band := math.Abs(avg) * h.cfg.StagnationBand
	inside := 0
	for _, f := range fares {
		if math.Abs(f-avg) <= band {
			inside++
		}
	}
	return float64(inside)/float64(len(fares)) >= h.cfg.StagnationFraction
}

// explorationTarget picks uniformly among the two kinds other than current.
func (h *Hybrid) explorationTarget(current model.BehaviourKind) model.BehaviourKind {
	others := make([]model.BehaviourKind, 0, 2)
	for _, k := range []model.BehaviourKind{model.BehaviourGreedyDistance, model.BehaviourEarningsMax, model.BehaviourLazy} {
		if k != current {
			others = append(others, k)
		}
	}
	return others[h.rng.Intn(len(others))]
}

func (h *Hybrid) mutate(d *model.Driver, now int, to model.BehaviourKind, reason Reason, avg float64) (*Entry, error) {
	from := d.Behaviour.Kind()
	b, err := h.defaults.Build(to)
	if err != nil {
		return nil, err
	}
	d.Behaviour = b
	d.LastMutationTime = now
	return &Entry{
		Time:     now,
		DriverID: d.ID,
		From:     from.String(),
		To:       to.String(),
		Reason:   reason,
		AvgFare:  avg,
	}, nil
}
