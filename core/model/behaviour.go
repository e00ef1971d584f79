package model

// BehaviourKind identifies one of the closed set of driver behaviours.
type BehaviourKind int

const (
	BehaviourGreedyDistance BehaviourKind = iota
	BehaviourEarningsMax
	BehaviourLazy
)

// String returns the behaviour name used in snapshots and mutation logs.
func (k BehaviourKind) String() string {
	switch k {
	case BehaviourGreedyDistance:
		return "greedy_distance"
	case BehaviourEarningsMax:
		return "earnings_max"
	case BehaviourLazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// Behaviour decides whether a driver accepts an offer. Implementations must
// be pure predicates over the driver, the offer and the current tick.
type Behaviour interface {
	Kind() BehaviourKind
	Decide(d *Driver, o Offer, now int) bool
}
