package model

import (
	"fmt"
	"math"
)

// DriverStatus tracks the per-trip state machine of a driver.
type DriverStatus int

const (
	DriverIdle DriverStatus = iota
	DriverToPickup
	DriverToDropoff
)

// String returns the status name used in snapshots and logs.
func (s DriverStatus) String() string {
	switch s {
	case DriverIdle:
		return "IDLE"
	case DriverToPickup:
		return "TO_PICKUP"
	case DriverToDropoff:
		return "TO_DROPOFF"
	default:
		return "UNKNOWN"
	}
}

// ArrivalEps is the distance below which a driver counts as arrived at its
// target. It is deliberately larger than CoordEps so a driver can never
// oscillate around a point it keeps missing by rounding error.
const ArrivalEps = 1e-3

// NeverMutated is the sentinel for a driver whose behaviour was never
// replaced by the mutation rule.
const NeverMutated = -1

// WaitPenalty discounts reward points per tick a request waited for pickup.
const WaitPenalty = 0.1

// Trip is one entry in a driver's history. A record is appended when the
// driver is assigned and completed when the dropoff is reached.
type Trip struct {
	RequestID   int     `json:"request_id"`
	AssignedAt  int     `json:"assigned_at"`
	CompletedAt int     `json:"completed_at"`
	Fare        float64 `json:"fare"`
	WaitTime    int     `json:"wait_time"`
	Points      float64 `json:"points"`
	Completed   bool    `json:"completed"`
}

// TripEventKind discriminates movement completion events.
type TripEventKind int

const (
	TripPickup TripEventKind = iota
	TripDelivery
)

// TripEvent reports a pickup or dropoff completed during a movement step.
type TripEvent struct {
	Kind      TripEventKind
	RequestID int
	Fare      float64
	WaitTime  int
}

// Driver is a courier servicing at most one request at a time. Its
// behaviour reference is owned and may be replaced by the mutation rule.
type Driver struct {
	ID               int
	Position         Point
	Speed            float64
	Status           DriverStatus
	Behaviour        Behaviour
	Current          *Request
	History          []Trip
	IdleSince        int
	Earnings         float64
	LastMutationTime int
}

// NewDriver returns an idle driver. Speed must be positive and a behaviour
// is required.
func NewDriver(id int, pos Point, speed float64, b Behaviour) (*Driver, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("driver %d: speed must be positive, got %v", id, speed)
	}
	if b == nil {
		return nil, fmt.Errorf("driver %d: behaviour is required", id)
	}
	return &Driver{
		ID:               id,
		Position:         pos,
		Speed:            speed,
		Status:           DriverIdle,
		Behaviour:        b,
		LastMutationTime: NeverMutated,
	}, nil
}

// AssignRequest binds a waiting request to an idle driver and starts the
// TO_PICKUP leg. Calling it on a busy driver is a contract violation.
func (d *Driver) AssignRequest(r *Request, now int) error {
	if d.Status != DriverIdle {
		return fmt.Errorf("driver %d: cannot assign request %d while %s", d.ID, r.ID, d.Status)
	}
	if err := r.MarkAssigned(d.ID); err != nil {
		return err
	}
	d.Current = r
	d.Status = DriverToPickup
	d.History = append(d.History, Trip{RequestID: r.ID, AssignedAt: now})
	return nil
}

// Advance moves the driver for one time step of length dt. When the driver
// is already within ArrivalEps of its target the corresponding completion
// fires instead of moving. Returns the completion event, if any.
func (d *Driver) Advance(dt float64, now int) (*TripEvent, error) {
	if d.Status == DriverIdle {
		return nil, nil
	}
	if d.Current == nil {
		return nil, fmt.Errorf("driver %d: %s without a current request", d.ID, d.Status)
	}
	target := d.Current.Pickup
	if d.Status == DriverToDropoff {
		target = d.Current.Dropoff
	}
	if d.Position.DistanceTo(target) <= ArrivalEps {
		return d.complete(now)
	}
	d.Position = d.Position.MoveToward(target, d.Speed*dt)
	return nil, nil
}

func (d *Driver) complete(now int) (*TripEvent, error) {
	r := d.Current
	if d.Status == DriverToPickup {
		if err := r.MarkPicked(now); err != nil {
			return nil, err
		}
		d.Status = DriverToDropoff
		return &TripEvent{Kind: TripPickup, RequestID: r.ID, WaitTime: r.WaitTime}, nil
	}
	if err := r.MarkDelivered(now); err != nil {
		return nil, err
	}
	fare := r.Fare()
	points := math.Max(0, fare-WaitPenalty*float64(r.WaitTime))
	trip := &d.History[len(d.History)-1]
	trip.CompletedAt = now
	trip.Fare = fare
	trip.WaitTime = r.WaitTime
	trip.Points = points
	trip.Completed = true
	d.Earnings += fare
	d.Current = nil
	d.Status = DriverIdle
	d.IdleSince = now
	return &TripEvent{Kind: TripDelivery, RequestID: r.ID, Fare: fare, WaitTime: r.WaitTime}, nil
}

// RecentFares returns the fares of the last n completed trips, oldest first.
func (d *Driver) RecentFares(n int) []float64 {
	var fares []float64
	for _, t := range d.History {
		if t.Completed {
			fares = append(fares, t.Fare)
		}
	}
	if len(fares) > n {
		fares = fares[len(fares)-n:]
	}
	return fares
}

// CompletedTrips counts delivered trips in the driver's history.
func (d *Driver) CompletedTrips() int {
	n := 0
	for _, t := range d.History {
		if t.Completed {
			n++
		}
	}
	return n
}
