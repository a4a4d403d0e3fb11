// Package telemetry groups the observability subpackages for Prism.
//
// # Components
//
//   - logging: structured slog-based logging with target URL redaction
//   - metrics: Prometheus metrics for the proxy, fetch, transform, and
//     policy stages
//   - tracing: OpenTelemetry distributed tracing with W3C Trace Context
//     propagation and OTLP export
//   - health: liveness, readiness, and version endpoints
//
// The subpackages are wired independently by the server from their
// sections of config.TelemetryConfig; there is no shared facade. A
// disabled component costs close to nothing: the logger short-circuits
// on level, the metrics collector no-ops when disabled, and the tracer
// hands out noop spans.
//
// # Redaction
//
// Prism's observability output treats target URLs as sensitive. Logs mask
// credentials and signed query parameters, traces record only scheme and
// host, and metrics never use hosts or URLs as label values.
package telemetry
