// Package dispatch matches idle drivers to waiting requests. Policies are
// pure functions of their inputs; they propose pairings but never touch
// driver or request state.
package dispatch

import "fleetsim/core/model"

// Proposal is a candidate pairing produced by a policy, before the driver's
// behaviour has had a say.
type Proposal struct {
	Driver  *model.Driver
	Request *model.Request
}

// Policy produces proposals for the given tick. Each driver and each
// request appears in at most one proposal.
type Policy interface {
	Name() string
	Propose(idle []*model.Driver, waiting []*model.Request, now int) []Proposal
}

// pair is a scored driver/request combination used by the greedy policies.
type pair struct {
	driver  *model.Driver
	request *model.Request
	dist    float64
}

// less orders pairs by distance, then driver id, then request id. The id
// tie-breaks keep matching reproducible under a fixed seed.
func (p pair) less(q pair) bool {
	if p.dist != q.dist {
		return p.dist < q.dist
	}
	if p.driver.ID != q.driver.ID {
		return p.driver.ID < q.driver.ID
	}
	return p.request.ID < q.request.ID
}
