package tracing

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// W3C Trace Context propagation (https://www.w3.org/TR/trace-context/).
//
// Incoming requests may carry a traceparent header:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	             version-trace_id-parent_id-trace_flags
//
// Extract links the proxy's spans into the caller's trace. The proxy does
// not inject trace context into origin fetches: origins are arbitrary
// external hosts and trace IDs are internal identifiers.

// Propagator returns the configured global text map propagator.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// Extract extracts trace context from HTTP headers into a new context.
// Called on the server side when a request arrives:
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	ctx, span := tracer.Start(ctx, "proxy_request")
//	defer span.End()
//
// If the headers carry no trace context the original context is returned.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return Propagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// Inject serializes the trace context from ctx into HTTP headers as
// traceparent and tracestate.
func Inject(ctx context.Context, headers http.Header) {
	Propagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// HTTPMiddleware extracts trace context from incoming requests and, when a
// valid span exists, exposes the trace and span IDs as response headers so
// a request can be correlated with its trace from the client side.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := Extract(r.Context(), r.Header)

		if span := SpanFromContext(ctx); span.SpanContext().IsValid() {
			w.Header().Set("X-Trace-ID", span.SpanContext().TraceID().String())
			w.Header().Set("X-Span-ID", span.SpanContext().SpanID().String())
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateTraceParent reports whether a traceparent header is well formed:
// four dash-separated hex fields of 2, 32, 16, and 2 digits, with non-zero
// trace and parent IDs.
func ValidateTraceParent(traceparent string) bool {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return false
	}

	if len(parts[0]) != 2 || !isHexString(parts[0]) {
		return false
	}
	if len(parts[1]) != 32 || !isHexString(parts[1]) {
		return false
	}
	if len(parts[2]) != 16 || !isHexString(parts[2]) {
		return false
	}
	if len(parts[3]) != 2 || !isHexString(parts[3]) {
		return false
	}

	if parts[1] == strings.Repeat("0", 32) {
		return false
	}
	if parts[2] == strings.Repeat("0", 16) {
		return false
	}

	return true
}

func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// ParseTraceParent splits a traceparent header into its components.
// valid is false when the header is malformed.
func ParseTraceParent(traceparent string) (version, traceID, parentID, flags string, valid bool) {
	if !ValidateTraceParent(traceparent) {
		return "", "", "", "", false
	}

	parts := strings.Split(traceparent, "-")
	return parts[0], parts[1], parts[2], parts[3], true
}

// IsSampledFromTraceParent reports whether the sampled bit is set in a
// traceparent header's trace flags.
func IsSampledFromTraceParent(traceparent string) bool {
	_, _, _, flags, valid := ParseTraceParent(traceparent)
	if !valid {
		return false
	}

	var flagsByte byte
	if _, err := fmt.Sscanf(flags, "%02x", &flagsByte); err != nil {
		return false
	}

	return flagsByte&0x01 == 0x01
}
