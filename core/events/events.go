// Package events defines the notifications the simulation publishes on the
// event bus. External observers (reporters, GUIs) subscribe to these
// instead of reaching into engine state.
package events

import "fleetsim/core/model"

// Event is the union of simulation notifications.
type Event interface{}

// RequestGenerated fires when the generator emits a new request.
type RequestGenerated struct {
	Time      int
	RequestID int
	Pickup    model.Point
	Dropoff   model.Point
}

// RequestExpired fires when a waiting request times out.
type RequestExpired struct {
	Time      int
	RequestID int
	WaitTime  int
}

// Assignment fires when a resolved offer binds a driver to a request.
type Assignment struct {
	Time       int
	DriverID   int
	RequestID  int
	Policy     string
	TravelTime float64
}

// Pickup fires when a driver reaches the pickup point.
type Pickup struct {
	Time      int
	DriverID  int
	RequestID int
	WaitTime  int
}

// Delivery fires when a driver completes a dropoff.
type Delivery struct {
	Time      int
	DriverID  int
	RequestID int
	Fare      float64
}

// Mutation fires when the mutation rule replaces a driver's behaviour.
type Mutation struct {
	Time     int
	DriverID int
	From     string
	To       string
	Reason   string
	AvgFare  float64
}
