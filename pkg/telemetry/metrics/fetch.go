package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FetchMetrics tracks metrics for origin fetches.
//
// Metrics:
//   - prism_fetches_total: Completed fetches by origin status class
//   - prism_fetch_duration_seconds: Time to response headers
//   - prism_origin_size_bytes: Declared origin body sizes
//   - prism_fetch_errors_total: Failed fetches by reason
//   - prism_fetch_redirects: Redirect hops followed per fetch
//   - prism_size_exceeded_total: Fetches that tripped the size limit
type FetchMetrics struct {
	// Completed fetch count by status class
	fetchesTotal *prometheus.CounterVec

	// Time from request start to response headers
	fetchDuration prometheus.Histogram

	// Declared origin body sizes
	originSize prometheus.Histogram

	// Failed fetches by reason
	errorsTotal *prometheus.CounterVec

	// Redirect hops followed per fetch
	redirects prometheus.Histogram

	// Size limit trips by stage
	sizeExceededTotal *prometheus.CounterVec
}

// NewFetchMetrics creates and registers fetch metrics with the provided registry.
func NewFetchMetrics(registry *prometheus.Registry) *FetchMetrics {
	fm := &FetchMetrics{
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Total number of completed origin fetches",
			},
			[]string{"status"},
		),

		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Time from fetch start to origin response headers",
				Buckets:   durationBuckets,
			},
		),

		originSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "origin_size_bytes",
				Help:      "Declared Content-Length of origin responses",
				Buckets:   sizeBuckets,
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_errors_total",
				Help:      "Total number of failed origin fetches by reason",
			},
			[]string{"reason"},
		),

		redirects: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_redirects",
				Help:      "Redirect hops followed per fetch",
				Buckets:   []float64{0, 1, 2, 3, 4, 5},
			},
		),

		sizeExceededTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "size_exceeded_total",
				Help:      "Fetches that exceeded the size limit, by detection stage",
			},
			[]string{"stage"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		fm.fetchesTotal,
		fm.fetchDuration,
		fm.originSize,
		fm.errorsTotal,
		fm.redirects,
		fm.sizeExceededTotal,
	)

	return fm
}

// RecordFetch records a completed fetch.
//
// Parameters:
//   - statusClass: "2xx", "3xx", "4xx", or "5xx"
//   - duration: Time to response headers
//   - bytes: Declared Content-Length, or 0 when unknown
func (fm *FetchMetrics) RecordFetch(statusClass string, duration time.Duration, bytes int64) {
	fm.fetchesTotal.WithLabelValues(statusClass).Inc()
	fm.fetchDuration.Observe(duration.Seconds())

	if bytes > 0 {
		fm.originSize.Observe(float64(bytes))
	}
}

// RecordError records a failed fetch.
func (fm *FetchMetrics) RecordError(reason string) {
	fm.errorsTotal.WithLabelValues(reason).Inc()
}

// RecordRedirects records how many redirect hops a fetch followed.
func (fm *FetchMetrics) RecordRedirects(hops int) {
	fm.redirects.Observe(float64(hops))
}

// RecordSizeExceeded records a size limit trip.
//
// Parameters:
//   - stage: "declared" or "streamed"
func (fm *FetchMetrics) RecordSizeExceeded(stage string) {
	fm.sizeExceededTotal.WithLabelValues(stage).Inc()
}

// StatusClass collapses an HTTP status code into its class label
// ("2xx", "3xx", "4xx", "5xx"). Codes outside 100-599 map to "other".
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", code/100)
}
