package dispatch

import (
	"sort"

	"fleetsim/core/model"
)

// GlobalGreedy sorts the full driver/request cross product by distance and
// claims pairs greedily. O(d·r·log(d·r)); preferable when requests outnumber
// drivers and the global ordering matters.
type GlobalGreedy struct{}

func (GlobalGreedy) Name() string { return "global_greedy" }

func (GlobalGreedy) Propose(idle []*model.Driver, waiting []*model.Request, now int) []Proposal {
	if len(idle) == 0 || len(waiting) == 0 {
		return nil
	}
	pairs := make([]pair, 0, len(idle)*len(waiting))
	for _, d := range idle {
		for _, r := range waiting {
			pairs = append(pairs, pair{driver: d, request: r, dist: d.Position.DistanceTo(r.Pickup)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].less(pairs[j]) })

	takenDrivers := make(map[int]bool, len(idle))
	takenRequests := make(map[int]bool, len(waiting))
	var proposals []Proposal
	for _, p := range pairs {
		if takenDrivers[p.driver.ID] || takenRequests[p.request.ID] {
			continue
		}
		takenDrivers[p.driver.ID] = true
		takenRequests[p.request.ID] = true
		proposals = append(proposals, Proposal{Driver: p.driver, Request: p.request})
	}
	return proposals
}
