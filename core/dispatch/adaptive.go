package dispatch

import "fleetsim/core/model"

// AdaptiveHybrid re-evaluates every tick: when waiting requests outnumber
// idle drivers it runs GlobalGreedy, otherwise NearestNeighbor. The
// sub-policy that actually executed is recorded for observability.
type AdaptiveHybrid struct {
	nearest NearestNeighbor
	global  GlobalGreedy
	lastRun string
}

// NewAdaptiveHybrid returns the adaptive policy.
func NewAdaptiveHybrid() *AdaptiveHybrid {
	return &AdaptiveHybrid{}
}

func (a *AdaptiveHybrid) Name() string { return "adaptive_hybrid" }

// LastRun returns the name of the sub-policy used by the most recent
// Propose call, or an empty string before the first call.
func (a *AdaptiveHybrid) LastRun() string { return a.lastRun }

func (a *AdaptiveHybrid) Propose(idle []*model.Driver, waiting []*model.Request, now int) []Proposal {
	if len(waiting) > len(idle) {
		a.lastRun = a.global.Name()
		return a.global.Propose(idle, waiting, now)
	}
	a.lastRun = a.nearest.Name()
	return a.nearest.Propose(idle, waiting, now)
}
