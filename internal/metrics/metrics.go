// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "user_service_http_active_requests",
			Help: "Requests currently being served.",
		},
	)

	DownstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_downstream_requests_total",
			Help: "Calls to sibling services, by service and result.",
		},
		[]string{"service", "result"},
	)

	DownstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_downstream_request_duration_seconds",
			Help:    "Latency of calls to sibling services.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 100},
		},
		[]string{"service"},
	)

	BookingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_booking_outcomes_total",
			Help: "Interpreted booking submission outcomes.",
		},
		[]string{"outcome"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_auth_attempts_total",
			Help: "Login and registration attempts, by action and result.",
		},
		[]string{"action", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "user_service_circuit_breaker_state",
			Help: "Breaker state (0=closed, 1=half-open, 2=open).",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_circuit_breaker_transitions_total",
			Help: "Breaker state transitions.",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordDownstream records one call to a sibling service.
func RecordDownstream(service, result string, d time.Duration) {
	DownstreamRequestsTotal.WithLabelValues(service, result).Inc()
	DownstreamRequestDuration.WithLabelValues(service).Observe(d.Seconds())
}
