// Package metrics exposes Prometheus metrics for admissions and the outbox relay.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what use cases and the relay report to.
type Recorder interface {
	RecordAdmission(outcome string)
	RecordTransition(kind string)
	RecordRelayPublished()
	RecordRelayFailed()
	RecordRelayReclaimed(count int)
	RecordPublishLatency(d time.Duration)
	SetOutboxPending(n int64)
}

// Admission outcomes.
const (
	OutcomeAdmitted = "admitted"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	admissions     *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	relayPublished prometheus.Counter
	relayFailed    prometheus.Counter
	relayReclaimed prometheus.Counter
	publishLatency prometheus.Histogram
	outboxPending  prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coachbook_admissions_total",
			Help: "Booking admission decisions by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coachbook_transitions_total",
			Help: "Committed domain events by kind.",
		}, []string{"kind"}),
		relayPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachbook_outbox_published_total",
			Help: "Outbox records acknowledged by the broker and marked published.",
		}),
		relayFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachbook_outbox_publish_failures_total",
			Help: "Failed publish attempts scheduled for retry.",
		}),
		relayReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coachbook_outbox_reclaimed_total",
			Help: "Publishing records returned to unpublished after their lease expired.",
		}),
		publishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coachbook_outbox_publish_latency_seconds",
			Help:    "Broker publish latency including confirmation.",
			Buckets: prometheus.DefBuckets,
		}),
		outboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coachbook_outbox_pending",
			Help: "Outbox records not yet published.",
		}),
	}

	reg.MustRegister(
		c.admissions,
		c.transitions,
		c.relayPublished,
		c.relayFailed,
		c.relayReclaimed,
		c.publishLatency,
		c.outboxPending,
	)

	return c
}

func (c *Collector) RecordAdmission(outcome string) {
	c.admissions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordTransition(kind string) {
	c.transitions.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordRelayPublished() {
	c.relayPublished.Inc()
}

func (c *Collector) RecordRelayFailed() {
	c.relayFailed.Inc()
}

func (c *Collector) RecordRelayReclaimed(count int) {
	c.relayReclaimed.Add(float64(count))
}

func (c *Collector) RecordPublishLatency(d time.Duration) {
	c.publishLatency.Observe(d.Seconds())
}

func (c *Collector) SetOutboxPending(n int64) {
	c.outboxPending.Set(float64(n))
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordAdmission(string)             {}
func (Noop) RecordTransition(string)            {}
func (Noop) RecordRelayPublished()              {}
func (Noop) RecordRelayFailed()                 {}
func (Noop) RecordRelayReclaimed(int)           {}
func (Noop) RecordPublishLatency(time.Duration) {}
func (Noop) SetOutboxPending(int64)             {}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
