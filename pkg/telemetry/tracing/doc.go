// Package tracing provides OpenTelemetry distributed tracing for Prism.
//
// # Overview
//
// The tracing package implements W3C Trace Context propagation, span
// creation, and OTLP gRPC export. A proxied request produces a small span
// tree covering the fetch and transform stages, linked into the caller's
// trace when the request carries a traceparent header.
//
// # Trace Context Propagation
//
// Incoming requests are linked via W3C Trace Context
// (https://www.w3.org/TR/trace-context/):
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	tracestate: congo=t61rcWkgMzE
//
// Trace context is never injected into origin fetches. Origins are
// arbitrary external hosts, and trace IDs are internal identifiers.
//
// # Usage
//
//	cfg := &config.TracingConfig{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "prism",
//	    SampleRatio: 0.1,
//	    Insecure:    true,
//	}
//	tracer, err := tracing.New(cfg, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	ctx, span := tracer.Start(ctx, "proxy_request")
//	defer span.End()
//
//	tracing.SetRequestAttributes(span, requestID, preset)
//	tracing.SetTargetAttributes(span, target.Scheme, target.Host)
//
// # Span Hierarchy
//
// A typical proxied request:
//
//	proxy_request (240ms)
//	├── fetch_origin (180ms)
//	└── transform (55ms)
//
// # Sampling
//
// The sample ratio selects the sampler: 0 disables sampling, 1 samples
// everything, and fractional ratios sample by trace ID hash so a trace is
// either fully sampled or not at all. The sampler is parent-based, so a
// caller's sampling decision wins when present.
//
// # Attributes
//
// Proxy-specific attributes live under the "prism.*" namespace. Full
// target URLs are never recorded as attribute values; query strings
// routinely carry signing credentials, so only scheme and host appear
// in traces.
//
// # Performance
//
// When tracing is disabled New returns a noop tracer and span creation
// costs under a microsecond.
package tracing
