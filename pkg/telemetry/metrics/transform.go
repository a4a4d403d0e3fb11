package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TransformMetrics tracks metrics for the image transform pipeline.
//
// Metrics:
//   - prism_transforms_total: Pipeline runs by input format and result
//   - prism_transform_duration_seconds: Decode + resize + encode time
//   - prism_transform_input_bytes: Spooled input sizes
//   - prism_transform_output_bytes: Encoded output sizes
//   - prism_decode_failures_total: Bodies that failed to decode
type TransformMetrics struct {
	// Pipeline runs by format and result
	transformsTotal *prometheus.CounterVec

	// Pipeline duration by format
	transformDuration *prometheus.HistogramVec

	// Input size in bytes
	inputSize prometheus.Histogram

	// Output size in bytes
	outputSize prometheus.Histogram

	// Decode failures by format
	decodeFailuresTotal *prometheus.CounterVec
}

// NewTransformMetrics creates and registers transform metrics with the provided registry.
func NewTransformMetrics(registry *prometheus.Registry) *TransformMetrics {
	tm := &TransformMetrics{
		transformsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transforms_total",
				Help:      "Total number of transform pipeline runs",
			},
			[]string{"format", "result"},
		),

		transformDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transform_duration_seconds",
				Help:      "Duration of decode, resize, and encode in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"format"},
		),

		inputSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transform_input_bytes",
				Help:      "Size of spooled bodies entering the pipeline",
				Buckets:   sizeBuckets,
			},
		),

		outputSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transform_output_bytes",
				Help:      "Size of encoded pipeline results",
				Buckets:   sizeBuckets,
			},
		),

		decodeFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_failures_total",
				Help:      "Bodies that could not be decoded as their sniffed format",
			},
			[]string{"format"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		tm.transformsTotal,
		tm.transformDuration,
		tm.inputSize,
		tm.outputSize,
		tm.decodeFailuresTotal,
	)

	return tm
}

// RecordTransform records a pipeline run.
//
// Parameters:
//   - format: Sniffed input format
//   - result: "transformed", "passthrough", or "failed"
//   - duration: Pipeline duration
//   - inputBytes: Spooled input size
//   - outputBytes: Encoded output size (0 when failed)
func (tm *TransformMetrics) RecordTransform(format, result string, duration time.Duration, inputBytes, outputBytes int) {
	tm.transformsTotal.WithLabelValues(format, result).Inc()
	tm.transformDuration.WithLabelValues(format).Observe(duration.Seconds())

	if inputBytes > 0 {
		tm.inputSize.Observe(float64(inputBytes))
	}
	if outputBytes > 0 {
		tm.outputSize.Observe(float64(outputBytes))
	}
}

// RecordDecodeFailure records a decode failure.
func (tm *TransformMetrics) RecordDecodeFailure(format string) {
	tm.decodeFailuresTotal.WithLabelValues(format).Inc()
}
