package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// durationBuckets covers the proxy's latency range: sub-10ms rejects,
// sub-second cached origins, and multi-second fetches of large media.
var durationBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// sizeBuckets covers media payloads from 1KB up past the default
// 100MB size limit.
var sizeBuckets = prometheus.ExponentialBuckets(1024, 4, 10)

// ProxyMetrics tracks metrics for client-facing proxy requests.
//
// Metrics:
//   - prism_requests_total: Total request count by preset and outcome
//   - prism_request_duration_seconds: Request duration histogram
//   - prism_response_size_bytes: Bytes written to clients
//   - prism_requests_in_flight: Currently executing requests
type ProxyMetrics struct {
	// Total request count
	requestsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec

	// Response size in bytes
	responseSize *prometheus.HistogramVec

	// In-flight request gauge
	inFlight prometheus.Gauge
}

// NewProxyMetrics creates and registers proxy metrics with the provided registry.
func NewProxyMetrics(registry *prometheus.Registry) *ProxyMetrics {
	pm := &ProxyMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of proxy requests processed",
			},
			[]string{"preset", "outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of proxy requests in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"preset"},
		),

		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "response_size_bytes",
				Help:      "Bytes written to the client per request",
				Buckets:   sizeBuckets,
			},
			[]string{"outcome"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of proxy requests currently executing",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		pm.requestsTotal,
		pm.requestDuration,
		pm.responseSize,
		pm.inFlight,
	)

	return pm
}

// RecordRequest records metrics for a completed request.
//
// Parameters:
//   - preset: Named preset or "custom"
//   - outcome: "streamed", "redirected", or "error"
//   - duration: Total request duration
//   - bytes: Bytes written to the client
func (pm *ProxyMetrics) RecordRequest(preset, outcome string, duration time.Duration, bytes int64) {
	pm.requestsTotal.WithLabelValues(preset, outcome).Inc()
	pm.requestDuration.WithLabelValues(preset).Observe(duration.Seconds())

	if bytes > 0 {
		pm.responseSize.WithLabelValues(outcome).Observe(float64(bytes))
	}
}

// IncInFlight increments the in-flight gauge.
func (pm *ProxyMetrics) IncInFlight() {
	pm.inFlight.Inc()
}

// DecInFlight decrements the in-flight gauge.
func (pm *ProxyMetrics) DecInFlight() {
	pm.inFlight.Dec()
}
