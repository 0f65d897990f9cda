// Package metrics exposes Prometheus collectors for HTTP traffic and the
// recruitment workflow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookclub"

// Application actions.
const (
	ActionApplied   = "applied"
	ActionAccepted  = "accepted"
	ActionRejected  = "rejected"
	ActionCancelled = "cancelled"
)

// Teardown results.
const (
	TeardownSucceeded  = "succeeded"
	TeardownFailed     = "failed"
	TeardownIncomplete = "incomplete"
)

// Recorder receives domain events from services.
type Recorder interface {
	ApplicationEvent(action string)
	TeardownEvent(result string)
}

// Nop discards all events.
type Nop struct{}

// ApplicationEvent implements Recorder.
func (Nop) ApplicationEvent(string) {}

// TeardownEvent implements Recorder.
func (Nop) TeardownEvent(string) {}

// Metrics owns a private registry and its collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	applications *prometheus.CounterVec
	teardowns    *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_total",
			Help:      "Team application lifecycle transitions.",
		}, []string{"action"}),
		teardowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recruitment_teardowns_total",
			Help:      "Recruitment cancellations by outcome.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.applications,
		m.teardowns,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request counts and latencies labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ApplicationEvent implements Recorder.
func (m *Metrics) ApplicationEvent(action string) {
	m.applications.WithLabelValues(action).Inc()
}

// TeardownEvent implements Recorder.
func (m *Metrics) TeardownEvent(result string) {
	m.teardowns.WithLabelValues(result).Inc()
}
