package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "fleetsim/core/metrics"
)

// PromSink records simulation outcomes as Prometheus metrics.
type PromSink struct {
	generated  prometheus.Counter
	expired    prometheus.Counter
	deliveries prometheus.Counter
	fares      prometheus.Histogram
	mutations  *prometheus.CounterVec
	idle       prometheus.Gauge
	waiting    prometheus.Gauge
}

// NewPromSink registers simulation metrics on the provided registerer. If
// reg is nil, the default registerer is used. Already registered collectors
// are reused so repeated construction is safe.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_requests_generated_total",
			Help: "Total requests emitted by the generator",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_requests_expired_total",
			Help: "Total requests that timed out while waiting",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_deliveries_total",
			Help: "Total completed deliveries",
		}),
		fares: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetsim_delivery_fare",
			Help:    "Fare distribution of completed deliveries",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetsim_mutations_total",
			Help: "Behaviour mutations by reason",
		}, []string{"reason"}),
		idle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleetsim_idle_drivers",
			Help: "Idle drivers at the end of the last tick",
		}),
		waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleetsim_waiting_requests",
			Help: "Waiting requests at the end of the last tick",
		}),
	}
	if err := register(reg, &s.generated); err != nil {
		return nil, err
	}
	if err := register(reg, &s.expired); err != nil {
		return nil, err
	}
	if err := register(reg, &s.deliveries); err != nil {
		return nil, err
	}
	if err := registerHistogram(reg, &s.fares); err != nil {
		return nil, err
	}
	if err := registerVec(reg, &s.mutations); err != nil {
		return nil, err
	}
	if err := registerGauge(reg, &s.idle); err != nil {
		return nil, err
	}
	if err := registerGauge(reg, &s.waiting); err != nil {
		return nil, err
	}
	return s, nil
}

func register(reg prometheus.Registerer, c *prometheus.Counter) error {
	if err := reg.Register(*c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		*c = are.ExistingCollector.(prometheus.Counter)
	}
	return nil
}

func registerGauge(reg prometheus.Registerer, g *prometheus.Gauge) error {
	if err := reg.Register(*g); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		*g = are.ExistingCollector.(prometheus.Gauge)
	}
	return nil
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.Histogram) error {
	if err := reg.Register(*h); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		*h = are.ExistingCollector.(prometheus.Histogram)
	}
	return nil
}

func registerVec(reg prometheus.Registerer, v **prometheus.CounterVec) error {
	if err := reg.Register(*v); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		*v = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return nil
}

// RecordTick updates counters and gauges from the tick summary.
func (s *PromSink) RecordTick(st coremetrics.TickStats) error {
	s.generated.Add(float64(st.Generated))
	s.expired.Add(float64(st.Expired))
	s.idle.Set(float64(st.IdleDrivers))
	s.waiting.Set(float64(st.WaitingRequests))
	return nil
}

// RecordDelivery counts the delivery and observes its fare.
func (s *PromSink) RecordDelivery(r coremetrics.DeliveryRecord) error {
	s.deliveries.Inc()
	s.fares.Observe(r.Fare)
	return nil
}

// RecordMutation counts the mutation under its reason label.
func (s *PromSink) RecordMutation(r coremetrics.MutationRecord) error {
	s.mutations.WithLabelValues(r.Reason).Inc()
	return nil
}
