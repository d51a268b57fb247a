// Package metrics exposes the prometheus collectors of the service.
//
// All recording methods are safe to call on a nil *Collector, which keeps
// metrics optional in tests and in the CLI.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	ReadingsRecorded   prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	TipsFired          *prometheus.CounterVec
	StoreErrors        *prometheus.CounterVec
	AIInsights         *prometheus.CounterVec
	AdsShown           *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector registers the collectors with reg. A nil reg uses a fresh
// registry so repeated construction (tests) never collides.
func NewCollector(namespace string, reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Collector{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		ReadingsRecorded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "readings",
			Name:      "recorded_total",
			Help:      "Total number of health readings stored.",
		}),

		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "readings",
			Name:      "validation_failures_total",
			Help:      "Rejected readings by field and reason.",
		}, []string{"field", "reason"}),

		TipsFired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "tips_fired_total",
			Help:      "Personalized tips produced by rule category.",
		}, []string{"category"}),

		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Store failures by operation and kind. Alert on permission_denied.",
		}, []string{"op", "kind"}),

		AIInsights: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "ai_requests_total",
			Help:      "Generative insight requests by outcome.",
		}, []string{"outcome"}),

		AdsShown: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ads",
			Name:      "interstitials_total",
			Help:      "Interstitial ad attempts by outcome.",
		}, []string{"outcome"}),

		gatherer: reg,
	}
}

// Handler serves the collectors registered by NewCollector.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRequest(method, path string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (c *Collector) InFlight(delta float64) {
	if c == nil {
		return
	}
	c.InFlightGauge.Add(delta)
}

func (c *Collector) ReadingRecorded() {
	if c == nil {
		return
	}
	c.ReadingsRecorded.Inc()
}

func (c *Collector) ValidationFailed(field, reason string) {
	if c == nil {
		return
	}
	c.ValidationFailures.WithLabelValues(field, reason).Inc()
}

func (c *Collector) TipFired(category string) {
	if c == nil {
		return
	}
	c.TipsFired.WithLabelValues(category).Inc()
}

func (c *Collector) StoreFailed(op, kind string) {
	if c == nil {
		return
	}
	c.StoreErrors.WithLabelValues(op, kind).Inc()
}

func (c *Collector) AIInsight(outcome string) {
	if c == nil {
		return
	}
	c.AIInsights.WithLabelValues(outcome).Inc()
}

func (c *Collector) AdShown(outcome string) {
	if c == nil {
		return
	}
	c.AdsShown.WithLabelValues(outcome).Inc()
}
