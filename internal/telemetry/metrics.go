package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pie"

// Metrics is the engine's Prometheus exporter. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	passes       *prometheus.CounterVec
	passDuration *prometheus.HistogramVec

	patterns            *prometheus.CounterVec
	rules               *prometheus.CounterVec
	insightsEmitted     *prometheus.CounterVec
	insightsSuppressed  *prometheus.CounterVec
	insightTransitions  *prometheus.CounterVec
	dataPointsRecorded  *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on registry, or on a fresh registry when nil.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{registry: registry}

	m.passes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "passes_total",
			Help:      "Detection passes by outcome",
		},
		[]string{"status"},
	)

	m.passDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "pass_duration_seconds",
			Help:      "Detection pass latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	m.patterns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "patterns_total",
			Help:      "Accepted patterns by kind and whether they were created or updated",
		},
		[]string{"kind", "op"},
	)

	m.rules = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "rules_total",
			Help:      "Synthesized or revalidated rules by resulting state",
		},
		[]string{"state", "op"},
	)

	m.insightsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights",
			Name:      "emitted_total",
			Help:      "Insights created by type and priority",
		},
		[]string{"type", "priority"},
	)

	m.insightsSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights",
			Name:      "suppressed_total",
			Help:      "Candidate insights the gate rejected, by reason",
		},
		[]string{"reason"},
	)

	m.insightTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights",
			Name:      "transitions_total",
			Help:      "Insight lifecycle transitions by target status",
		},
		[]string{"status"},
	)

	m.dataPointsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "data_points_total",
			Help:      "Data points recorded by type",
		},
		[]string{"data_type"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern, method and status",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	registry.MustRegister(
		m.passes,
		m.passDuration,
		m.patterns,
		m.rules,
		m.insightsEmitted,
		m.insightsSuppressed,
		m.insightTransitions,
		m.dataPointsRecorded,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordPass counts one pass. status is "ok", "error" or "busy".
func (m *Metrics) RecordPass(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(status).Inc()
	m.passDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) RecordPattern(kind, op string) {
	if m == nil {
		return
	}
	m.patterns.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) RecordRule(state, op string) {
	if m == nil {
		return
	}
	m.rules.WithLabelValues(state, op).Inc()
}

func (m *Metrics) RecordInsightEmitted(insightType, priority string) {
	if m == nil {
		return
	}
	m.insightsEmitted.WithLabelValues(insightType, priority).Inc()
}

func (m *Metrics) RecordInsightSuppressed(reason string) {
	if m == nil {
		return
	}
	m.insightsSuppressed.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.insightTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordDataPoint(dataType string) {
	if m == nil {
		return
	}
	m.dataPointsRecorded.WithLabelValues(dataType).Inc()
}

func (m *Metrics) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
