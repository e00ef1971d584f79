// Package behaviour implements the closed set of driver decision
// strategies. Each variant is a pure predicate over the driver, the offer
// and the current tick; the mutation rule swaps variants at runtime.
package behaviour

import (
	"fmt"

	"fleetsim/core/model"
)

// DefaultMaxPickupDistance bounds how far a Lazy driver will travel to a
// pickup when no explicit limit is configured.
const DefaultMaxPickupDistance = 5.0

// GreedyDistance accepts any offer whose pickup lies within MaxDistance.
type GreedyDistance struct {
	MaxDistance float64
}

// NewGreedyDistance returns a distance-bounded acceptance strategy.
func NewGreedyDistance(maxDistance float64) GreedyDistance {
	return GreedyDistance{MaxDistance: maxDistance}
}

func (g GreedyDistance) Kind() model.BehaviourKind { return model.BehaviourGreedyDistance }

func (g GreedyDistance) Decide(d *model.Driver, o model.Offer, now int) bool {
	return d.Position.DistanceTo(o.Request.Pickup) <= g.MaxDistance
}

// EarningsMax accepts offers whose reward rate clears MinRewardPerTime.
// Offers with a non-positive travel time are rejected rather than treated
// as infinitely profitable.
type EarningsMax struct {
	MinRewardPerTime float64
}

// NewEarningsMax returns a reward-rate acceptance strategy.
func NewEarningsMax(minRewardPerTime float64) EarningsMax {
	return EarningsMax{MinRewardPerTime: minRewardPerTime}
}

func (e EarningsMax) Kind() model.BehaviourKind { return model.BehaviourEarningsMax }

func (e EarningsMax) Decide(d *model.Driver, o model.Offer, now int) bool {
	if o.TravelTime <= 0 {
		return false
	}
	return o.Reward/o.TravelTime >= e.MinRewardPerTime
}

// Lazy accepts only after resting IdleTicksNeeded ticks, and then only
// nearby pickups. Both conditions must hold.
type Lazy struct {
	IdleTicksNeeded   int
	MaxPickupDistance float64
}

// NewLazy returns a rest-then-work strategy. A non-positive maxPickupDistance
// falls back to DefaultMaxPickupDistance.
func NewLazy(idleTicksNeeded int, maxPickupDistance float64) Lazy {
	if maxPickupDistance <= 0 {
		maxPickupDistance = DefaultMaxPickupDistance
	}
	return Lazy{IdleTicksNeeded: idleTicksNeeded, MaxPickupDistance: maxPickupDistance}
}

func (l Lazy) Kind() model.BehaviourKind { return model.BehaviourLazy }

func (l Lazy) Decide(d *model.Driver, o model.Offer, now int) bool {
	rested := now-d.IdleSince >= l.IdleTicksNeeded
	near := d.Position.DistanceTo(o.Request.Pickup) < l.MaxPickupDistance
	return rested && near
}

// Defaults carries the parameters used when the mutation rule instantiates
// a behaviour the driver was not configured with.
type Defaults struct {
	MaxDistance       float64 `json:"max_distance"`
	MinRewardPerTime  float64 `json:"min_reward_per_time"`
	IdleTicksNeeded   int     `json:"idle_ticks_needed"`
	MaxPickupDistance float64 `json:"max_pickup_distance"`
}

// SetDefaults fills unset fields with workable values.
func (f *Defaults) SetDefaults() {
	if f.MaxDistance <= 0 {
		f.MaxDistance = 10
	}
	if f.MinRewardPerTime <= 0 {
		f.MinRewardPerTime = 1
	}
	if f.IdleTicksNeeded <= 0 {
		f.IdleTicksNeeded = 3
	}
	if f.MaxPickupDistance <= 0 {
		f.MaxPickupDistance = DefaultMaxPickupDistance
	}
}

// Build instantiates the behaviour of the given kind from the defaults.
func (f Defaults) Build(kind model.BehaviourKind) (model.Behaviour, error) {
	switch kind {
	case model.BehaviourGreedyDistance:
		return NewGreedyDistance(f.MaxDistance), nil
	case model.BehaviourEarningsMax:
		return NewEarningsMax(f.MinRewardPerTime), nil
	case model.BehaviourLazy:
		return NewLazy(f.IdleTicksNeeded, f.MaxPickupDistance), nil
	default:
		return nil, fmt.Errorf("behaviour: unknown kind %d", kind)
	}
}

// ParseKind maps a configuration string to a behaviour kind.
func ParseKind(s string) (model.BehaviourKind, error) {
	switch s {
	case "greedy_distance":
		return model.BehaviourGreedyDistance, nil
	case "earnings_max":
		return model.BehaviourEarningsMax, nil
	case "lazy":
		return model.BehaviourLazy, nil
	default:
		return 0, fmt.Errorf("behaviour: unknown kind %q", s)
	}
}
