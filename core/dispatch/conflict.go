package dispatch

import (
	"sort"

	"fleetsim/core/model"
)

// ResolveConflicts reduces accepted offers to at most one per request.
// Within a request the offer with the lowest travel time wins; ties go to
// the lowest driver id. Losing drivers stay idle and may be matched again
// on a later tick. Winners are returned in ascending request id order.
func ResolveConflicts(accepted []model.Offer) []model.Offer {
	winners := make(map[int]model.Offer, len(accepted))
	for _, o := range accepted {
		cur, ok := winners[o.Request.ID]
		if !ok || better(o, cur) {
			winners[o.Request.ID] = o
		}
	}
	ids := make([]int, 0, len(winners))
	for id := range winners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]model.Offer, 0, len(winners))
	for _, id := range ids {
		out = append(out, winners[id])
	}
	return out
}

func better(a, b model.Offer) bool {
	if a.TravelTime != b.TravelTime {
		return a.TravelTime < b.TravelTime
	}
	return a.Driver.ID < b.Driver.ID
}
