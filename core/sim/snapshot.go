package sim

import (
	"fleetsim/core/model"
	"fleetsim/core/mutation"
)

// NoRequest marks a driver snapshot without an active request.
const NoRequest = -1

// DriverSnapshot is the plain-record view of a driver.
type DriverSnapshot struct {
	ID               int         `json:"id"`
	Position         model.Point `json:"position"`
	Status           string      `json:"status"`
	CurrentRequestID int         `json:"current_request_id"`
	Behaviour        string      `json:"behaviour"`
	Earnings         float64     `json:"earnings"`
	IdleSince        int         `json:"idle_since"`
	CompletedTrips   int         `json:"completed_trips"`
}

// RequestSnapshot is the plain-record view of a request. WaitTime reflects
// elapsed waiting for requests not yet picked up.
type RequestSnapshot struct {
	ID               int         `json:"id"`
	Status           string      `json:"status"`
	Pickup           model.Point `json:"pickup"`
	Dropoff          model.Point `json:"dropoff"`
	CreationTime     int         `json:"creation_time"`
	WaitTime         int         `json:"wait_time"`
	AssignedDriverID int         `json:"assigned_driver_id"`
}

// Snapshot is a read-only copy of the simulation state after a tick. It
// shares no memory with the engine and can be serialized freely.
type Snapshot struct {
	RunID          string            `json:"run_id,omitempty"`
	Time           int               `json:"time"`
	Drivers        []DriverSnapshot  `json:"drivers"`
	Requests       []RequestSnapshot `json:"requests"`
	GeneratedCount int               `json:"generated_count"`
	ServedCount    int               `json:"served_count"`
	ExpiredCount   int               `json:"expired_count"`
	MutationLog    []mutation.Entry  `json:"mutation_log"`
}

// Snapshot captures the current state. It has no side effects.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:          s.runID,
		Time:           s.now,
		Drivers:        make([]DriverSnapshot, 0, len(s.drivers)),
		Requests:       make([]RequestSnapshot, 0, len(s.requests)),
		GeneratedCount: s.generated,
		ServedCount:    s.served,
		ExpiredCount:   s.expired,
		MutationLog:    append([]mutation.Entry(nil), s.mutationLog...),
	}
	for _, d := range s.drivers {
		ds := DriverSnapshot{
			ID:               d.ID,
			Position:         d.Position,
			Status:           d.Status.String(),
			CurrentRequestID: NoRequest,
			Behaviour:        d.Behaviour.Kind().String(),
			Earnings:         d.Earnings,
			IdleSince:        d.IdleSince,
			CompletedTrips:   d.CompletedTrips(),
		}
		if d.Current != nil {
			ds.CurrentRequestID = d.Current.ID
		}
		snap.Drivers = append(snap.Drivers, ds)
	}
	for _, r := range s.requests {
		wait := r.WaitTime
		if r.Status == model.RequestWaiting || r.Status == model.RequestAssigned {
			wait = s.now - r.CreationTime
		}
		snap.Requests = append(snap.Requests, RequestSnapshot{
			ID:               r.ID,
			Status:           r.Status.String(),
			Pickup:           r.Pickup,
			Dropoff:          r.Dropoff,
			CreationTime:     r.CreationTime,
			WaitTime:         wait,
			AssignedDriverID: r.AssignedDriverID,
		})
	}
	return snap
}
