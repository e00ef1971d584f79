package model

import "fmt"

// RequestStatus tracks the lifecycle of a delivery request.
type RequestStatus int

const (
	RequestWaiting RequestStatus = iota
	RequestAssigned
	RequestPicked
	RequestDelivered
	RequestExpired
)

// String returns the status name used in snapshots and logs.
func (s RequestStatus) String() string {
	switch s {
	case RequestWaiting:
		return "WAITING"
	case RequestAssigned:
		return "ASSIGNED"
	case RequestPicked:
		return "PICKED"
	case RequestDelivered:
		return "DELIVERED"
	case RequestExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// NoDriver marks a request without an assigned driver.
const NoDriver = -1

// Request is a delivery request moving through the marketplace. The only
// legal transitions are WAITING→ASSIGNED→PICKED→DELIVERED and
// WAITING→EXPIRED; anything else signals a broken invariant and errors out.
type Request struct {
	ID               int
	Pickup           Point
	Dropoff          Point
	CreationTime     int
	Status           RequestStatus
	AssignedDriverID int
	WaitTime         int
}

// NewRequest returns a waiting request created at the given tick.
func NewRequest(id int, pickup, dropoff Point, now int) *Request {
	return &Request{
		ID:               id,
		Pickup:           pickup,
		Dropoff:          dropoff,
		CreationTime:     now,
		Status:           RequestWaiting,
		AssignedDriverID: NoDriver,
	}
}

func (r *Request) transitionErr(to RequestStatus) error {
	return fmt.Errorf("request %d: invalid transition %s -> %s", r.ID, r.Status, to)
}

// MarkAssigned transitions WAITING -> ASSIGNED and records the driver.
func (r *Request) MarkAssigned(driverID int) error {
	if r.Status != RequestWaiting {
		return r.transitionErr(RequestAssigned)
	}
	r.Status = RequestAssigned
	r.AssignedDriverID = driverID
	return nil
}

// MarkPicked transitions ASSIGNED -> PICKED and freezes the wait time at the
// number of ticks elapsed since creation.
func (r *Request) MarkPicked(now int) error {
	if r.Status != RequestAssigned {
		return r.transitionErr(RequestPicked)
	}
	r.Status = RequestPicked
	r.WaitTime = now - r.CreationTime
	return nil
}

// MarkDelivered transitions PICKED -> DELIVERED.
func (r *Request) MarkDelivered(now int) error {
	if r.Status != RequestPicked {
		return r.transitionErr(RequestDelivered)
	}
	r.Status = RequestDelivered
	return nil
}

// MarkExpired transitions WAITING -> EXPIRED.
func (r *Request) MarkExpired(now int) error {
	if r.Status != RequestWaiting {
		return r.transitionErr(RequestExpired)
	}
	r.Status = RequestExpired
	r.WaitTime = now - r.CreationTime
	return nil
}

// Terminal reports whether the request left active circulation.
func (r *Request) Terminal() bool {
	return r.Status == RequestDelivered || r.Status == RequestExpired
}

// Fare is the price of the trip: the pickup to dropoff distance.
func (r *Request) Fare() float64 {
	return r.Pickup.DistanceTo(r.Dropoff)
}
