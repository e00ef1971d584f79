package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"fleetsim/core/logger"
	coremetrics "fleetsim/core/metrics"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes simulation records to InfluxDB using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig, log logger.Logger) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      log,
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing database never blocks
// a simulation run.
func NewInfluxSinkWithFallback(cfg InfluxConfig, log logger.Logger) coremetrics.Sink {
	sink := NewInfluxSink(cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Errorf("influx health check error: %v", err)
		} else {
			log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// RecordTick writes the tick summary as a single point.
func (s *InfluxSink) RecordTick(st coremetrics.TickStats) error {
	p := write.NewPointWithMeasurement("tick").
		AddTag("run_id", st.RunID).
		AddField("time", st.Time).
		AddField("generated", st.Generated).
		AddField("expired", st.Expired).
		AddField("assigned", st.Assigned).
		AddField("deliveries", st.Deliveries).
		AddField("mutations", st.Mutations).
		AddField("idle_drivers", st.IdleDrivers).
		AddField("waiting_requests", st.WaitingRequests).
		SetTime(time.Now())
	return s.write(p)
}

// RecordDelivery writes one completed trip.
func (s *InfluxSink) RecordDelivery(r coremetrics.DeliveryRecord) error {
	p := write.NewPointWithMeasurement("delivery").
		AddTag("run_id", r.RunID).
		AddTag("driver_id", strconv.Itoa(r.DriverID)).
		AddField("time", r.Time).
		AddField("request_id", r.RequestID).
		AddField("fare", r.Fare).
		AddField("wait_time", r.WaitTime).
		AddField("points", r.Points).
		SetTime(time.Now())
	return s.write(p)
}

// RecordMutation writes one behaviour change.
func (s *InfluxSink) RecordMutation(r coremetrics.MutationRecord) error {
	p := write.NewPointWithMeasurement("mutation").
		AddTag("run_id", r.RunID).
		AddTag("driver_id", strconv.Itoa(r.DriverID)).
		AddTag("reason", r.Reason).
		AddField("time", r.Time).
		AddField("from", r.From).
		AddField("to", r.To).
		AddField("avg_fare", r.AvgFare).
		SetTime(time.Now())
	return s.write(p)
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}
