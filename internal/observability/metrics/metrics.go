// Package metrics defines Prometheus metrics for the clinic portal.
//
// Metric naming follows Prometheus conventions:
//   - clinic_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	obserrors "github.com/target/clinic-portal/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

var (
	// LoginAttemptsTotal counts login attempts by outcome and error class.
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_login_attempts_total",
			Help: "Total number of login attempts by outcome.",
		},
		[]string{"outcome", "error_class"},
	)

	// GuardDecisionsTotal counts access guard decisions per route.
	GuardDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_guard_decisions_total",
			Help: "Total number of route access decisions by route, outcome, and reason.",
		},
		[]string{"route", "outcome", "reason"},
	)

	// APIRequestsTotal counts outbound clinic API calls by method and status code.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_api_requests_total",
			Help: "Total number of outbound API requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	// APIRequestDurationSeconds is a histogram of outbound API call latency.
	APIRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_api_request_duration_seconds",
			Help:    "Duration of outbound API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// SessionOperationsTotal counts session store mutations.
	SessionOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_session_operations_total",
			Help: "Total number of session store operations by operation.",
		},
		[]string{"op"},
	)
)

// Registry holds every collector above; it is what /metrics serves.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		LoginAttemptsTotal,
		GuardDecisionsTotal,
		APIRequestsTotal,
		APIRequestDurationSeconds,
		SessionOperationsTotal,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveLogin records a login attempt. err is classified when non-nil.
func ObserveLogin(outcome string, err error) {
	LoginAttemptsTotal.WithLabelValues(outcome, obserrors.Classify(err)).Inc()
}

// ObserveGuard records a route decision.
func ObserveGuard(route, outcome, reason string) {
	GuardDecisionsTotal.WithLabelValues(route, outcome, reason).Inc()
}

// ObserveAPIRequest records an outbound call. A zero code means the transport failed.
func ObserveAPIRequest(method string, code int, d time.Duration) {
	label := ResultError
	if code > 0 {
		label = strconv.Itoa(code)
	}
	APIRequestsTotal.WithLabelValues(method, label).Inc()
	APIRequestDurationSeconds.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveSessionOp records a session store mutation.
func ObserveSessionOp(op string) {
	SessionOperationsTotal.WithLabelValues(op).Inc()
}
