package dispatch

import "fleetsim/core/model"

// NearestNeighbor repeatedly picks the globally closest driver/request pair
// and removes both sides from consideration. The full rescan makes it
// O(d²·r²); it is simple and works well when drivers are abundant.
type NearestNeighbor struct{}

func (NearestNeighbor) Name() string { return "nearest_neighbor" }

func (NearestNeighbor) Propose(idle []*model.Driver, waiting []*model.Request, now int) []Proposal {
	drivers := append([]*model.Driver(nil), idle...)
	requests := append([]*model.Request(nil), waiting...)

	var proposals []Proposal
	for len(drivers) > 0 && len(requests) > 0 {
		best := pair{}
		bi, bj := -1, -1
		for i, d := range drivers {
			for j, r := range requests {
				c := pair{driver: d, request: r, dist: d.Position.DistanceTo(r.Pickup)}
				if bi == -1 || c.less(best) {
					best, bi, bj = c, i, j
				}
			}
		}
		proposals = append(proposals, Proposal{Driver: best.driver, Request: best.request})
		drivers = append(drivers[:bi], drivers[bi+1:]...)
		requests = append(requests[:bj], requests[bj+1:]...)
	}
	return proposals
}
