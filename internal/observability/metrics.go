// Package observability exposes Prometheus metrics of conversions.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tac_converter/internal/conversion"
)

const namespace = "tac_converter"

// Metrics holds the Prometheus collectors of the converter and its services.
type Metrics struct {
	Conversions        *prometheus.CounterVec   // labels: op, family, status
	ConversionDuration *prometheus.HistogramVec // labels: op, family
	FeedMessages       *prometheus.CounterVec   // labels: outcome={converted,published,stored,error}
	CacheLookups       *prometheus.CounterVec   // labels: result={hit,miss}
	HTTPRequests       *prometheus.CounterVec   // labels: route, code
}

func newMetrics() *Metrics {
	return &Metrics{
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions by operation, message family and status.",
		}, []string{"op", "family", "status"}),
		ConversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Duration of a single parse or serialize call.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}, []string{"op", "family"}),
		FeedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_messages_total",
			Help:      "Feed messages by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "API conversion cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.register(prometheus.DefaultRegisterer)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	m.register(reg)
	return m, reg
}

func (m *Metrics) register(r prometheus.Registerer) {
	r.MustRegister(
		m.Conversions,
		m.ConversionDuration,
		m.FeedMessages,
		m.CacheLookups,
		m.HTTPRequests,
	)
}

// ConversionCompleted records one parse or serialize call.
func (m *Metrics) ConversionCompleted(op string, family conversion.Family, status conversion.Status, took time.Duration) {
	f := family.String()
	m.Conversions.WithLabelValues(op, f, status.String()).Inc()
	m.ConversionDuration.WithLabelValues(op, f).Observe(took.Seconds())
}

// FeedMessage counts a feed message outcome.
func (m *Metrics) FeedMessage(outcome string) {
	m.FeedMessages.WithLabelValues(outcome).Inc()
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// HTTPRequest counts a served request by route pattern and status code.
func (m *Metrics) HTTPRequest(route string, code int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
