package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "txunajob",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txunajob",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "txunajob",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	serviceTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txunajob",
			Subsystem: "services",
			Name:      "transitions_total",
			Help:      "Service lifecycle transitions by operation and result.",
		},
		[]string{"op", "result"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txunajob",
			Subsystem: "accounts",
			Name:      "registrations_total",
			Help:      "Account registrations by role and result.",
		},
		[]string{"role", "result"},
	)

	adminBootstrap = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txunajob",
			Subsystem: "accounts",
			Name:      "admin_bootstrap_total",
			Help:      "Default admin bootstrap outcomes.",
		},
		[]string{"outcome"},
	)

	storeAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "txunajob",
			Subsystem: "store",
			Name:      "available",
			Help:      "1 when the last store probe succeeded, 0 in maintenance mode.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		serviceTransitions,
		registrations,
		adminBootstrap,
		storeAvailable,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RequestStarted() { httpInFlight.Inc() }

func RequestFinished(method, path string, status int, elapsed time.Duration) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Transition result labels.
const (
	ResultApplied  = "applied"
	ResultConflict = "conflict"
	ResultDenied   = "denied"
	ResultError    = "error"
)

func RecordTransition(op, result string) {
	serviceTransitions.WithLabelValues(op, result).Inc()
}

func RecordRegistration(role, result string) {
	registrations.WithLabelValues(role, result).Inc()
}

func RecordBootstrap(outcome string) {
	adminBootstrap.WithLabelValues(outcome).Inc()
}

func SetStoreAvailable(ok bool) {
	if ok {
		storeAvailable.Set(1)
		return
	}
	storeAvailable.Set(0)
}
