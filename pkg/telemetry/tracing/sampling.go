package tracing

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newSampler builds the sampler for a configured sample ratio.
//
// The ratio selects between three behaviors: <= 0 samples nothing,
// >= 1 samples everything, and anything in between samples by trace ID
// hash so the decision is stable across services sharing a trace.
//
// The base sampler is wrapped in ParentBased, which defers to the parent
// span's decision when one exists. Either an entire trace is sampled or
// none of it is.
func newSampler(ratio float64) sdktrace.Sampler {
	var base sdktrace.Sampler
	switch {
	case ratio <= 0:
		base = sdktrace.NeverSample()
	case ratio >= 1:
		base = sdktrace.AlwaysSample()
	default:
		base = sdktrace.TraceIDRatioBased(ratio)
	}
	return sdktrace.ParentBased(base)
}
