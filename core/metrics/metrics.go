// Package metrics defines the recording interfaces the simulation reports
// through. Concrete sinks live in infra/metrics.
package metrics

// TickStats summarizes one completed tick.
type TickStats struct {
	RunID           string
	Time            int
	Generated       int
	Expired         int
	Assigned        int
	Deliveries      int
	Mutations       int
	IdleDrivers     int
	WaitingRequests int
}

// DeliveryRecord is one completed trip.
type DeliveryRecord struct {
	RunID     string
	Time      int
	DriverID  int
	RequestID int
	Fare      float64
	WaitTime  int
	Points    float64
}

// MutationRecord is one behaviour change.
type MutationRecord struct {
	RunID    string
	Time     int
	DriverID int
	From     string
	To       string
	Reason   string
	AvgFare  float64
}

// Sink records simulation outcomes for observability purposes.
type Sink interface {
	RecordTick(TickStats) error
	RecordDelivery(DeliveryRecord) error
	RecordMutation(MutationRecord) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordTick(TickStats) error          { return nil }
func (NopSink) RecordDelivery(DeliveryRecord) error { return nil }
func (NopSink) RecordMutation(MutationRecord) error { return nil }

// MultiSink fans records out to several sinks, returning the first error
// after all sinks were attempted.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordTick(s TickStats) error {
	var first error
	for _, sink := range m.sinks {
		if err := sink.RecordTick(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordDelivery(r DeliveryRecord) error {
	var first error
	for _, sink := range m.sinks {
		if err := sink.RecordDelivery(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordMutation(r MutationRecord) error {
	var first error
	for _, sink := range m.sinks {
		if err := sink.RecordMutation(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
