// Package metrics provides Prometheus metrics collection for the
// prescriptions API. It exports the HTTP server trio:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// plus counters for the prescription workflow itself. All metrics are
// registered with the Prometheus default registry during package
// initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	SuggestionsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prescription_suggestions_served_total",
			Help: "Autocomplete suggestion lists served",
		},
	)

	InteractionsDetected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prescription_interactions_detected_total",
			Help: "Drug interaction pairs flagged across all checks",
		},
	)

	PrescriptionsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prescriptions_saved_total",
			Help: "Prescriptions that passed save validation",
		},
	)

	DocumentsPrinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prescription_documents_printed_total",
			Help: "Printable prescription documents generated",
		},
	)

	ActiveDrafts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "prescription_active_drafts",
			Help: "Prescription drafts currently held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SuggestionsServed)
	prometheus.MustRegister(InteractionsDetected)
	prometheus.MustRegister(PrescriptionsSaved)
	prometheus.MustRegister(DocumentsPrinted)
	prometheus.MustRegister(ActiveDrafts)
}
