// Package metrics provides Prometheus metrics collection for the
// prescriptions API. It exports HTTP metrics for request monitoring:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// plus domain metrics for the analysis pipeline:
//   - prescription_analyses_total: Counter with outcome label
//   - medicine_matches_total: Counter with pass label (exact/fallback/none)
//   - ocr_failures_total: Counter of swallowed OCR failures
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
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
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_analyses_total",
			Help: "Total prescription analyses by outcome",
		},
		[]string{"outcome"},
	)

	MatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medicine_matches_total",
			Help: "Total matcher invocations by resolving pass",
		},
		[]string{"pass"},
	)

	OCRFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ocr_failures_total",
			Help: "Total OCR failures swallowed into empty extractions",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(MatchesTotal)
	prometheus.MustRegister(OCRFailuresTotal)
}
