package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeValidation     = "validation_error"
	OutcomeBusy           = "busy"
)

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lacasita",
			Name:      "backend_requests_total",
			Help:      "Booking backend calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lacasita",
			Name:      "backend_request_duration_seconds",
			Help:      "Booking backend call latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	formActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lacasita",
			Name:      "form_actions_total",
			Help:      "Form load and submit actions by outcome.",
		},
		[]string{"action", "outcome"},
	)

	updateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lacasita",
			Name:      "bot_update_processing_seconds",
			Help:      "Time spent processing Telegram updates.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	updatePanics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lacasita",
			Name:      "bot_update_panics_total",
			Help:      "Recovered panics in update handlers.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendRequests, backendDuration, formActions, updateDuration, updatePanics)
	})
}

// ObserveBackend records one backend call.
func ObserveBackend(operation, outcome string, elapsed time.Duration) {
	backendRequests.WithLabelValues(operation, outcome).Inc()
	if elapsed > 0 {
		backendDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

// IncFormAction counts a load or submit attempt.
func IncFormAction(action, outcome string) {
	formActions.WithLabelValues(action, outcome).Inc()
}

// ObserveUpdate records the processing time of a bot update.
func ObserveUpdate(elapsed time.Duration) {
	updateDuration.Observe(elapsed.Seconds())
}

// IncPanic counts a recovered handler panic.
func IncPanic() {
	updatePanics.Inc()
}
