// Package logging persists per-tick simulation records for auditing and
// offline analysis.
package logging

import (
	"context"

	"fleetsim/core/mutation"
)

// DeliveryEntry is one completed trip within a tick record.
type DeliveryEntry struct {
	DriverID  int     `json:"driver_id"`
	RequestID int     `json:"request_id"`
	Fare      float64 `json:"fare"`
}

// TickRecord captures what happened during one tick.
type TickRecord struct {
	RunID       string           `json:"run_id"`
	Time        int              `json:"time"`
	Generated   []int            `json:"generated,omitempty"`
	Expired     []int            `json:"expired,omitempty"`
	Assignments map[int]int      `json:"assignments,omitempty"` // request id -> driver id
	Pickups     []int            `json:"pickups,omitempty"`
	Deliveries  []DeliveryEntry  `json:"deliveries,omitempty"`
	Mutations   []mutation.Entry `json:"mutations,omitempty"`
}

// AnyDriver matches every driver in a query.
const AnyDriver = -1

// Query defines filters for retrieving tick records. End is inclusive; a
// zero-valued query returns everything.
type Query struct {
	Start    int
	End      int
	DriverID int
}

// Store persists TickRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec TickRecord) error
	Query(ctx context.Context, q Query) ([]TickRecord, error)
	Close() error
}
