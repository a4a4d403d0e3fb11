package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute helpers.
//
// Standard keys follow OpenTelemetry semantic conventions (http.*, net.*).
// Proxy-specific keys use the "prism.*" namespace. Attribute values never
// carry full target URLs; the host is enough to aggregate on and query
// strings routinely contain signing credentials.

// Attribute keys used across spans.
const (
	// Request attributes
	AttrRequestID = "prism.request_id"
	AttrPreset    = "prism.preset"
	AttrOutcome   = "prism.outcome"

	// Target attributes
	AttrTargetScheme = "prism.target.scheme"
	AttrTargetHost   = "prism.target.host"

	// Origin fetch attributes
	AttrOriginStatus    = "prism.origin.status"
	AttrOriginRedirects = "prism.origin.redirects"
	AttrBytesIn         = "prism.bytes.in"
	AttrBytesOut        = "prism.bytes.out"

	// Media attributes
	AttrMediaFormat = "prism.media.format"
	AttrMediaWidth  = "prism.media.width"
	AttrMediaHeight = "prism.media.height"
	AttrMediaFrames = "prism.media.frames"

	// Transform attributes
	AttrTransformResult = "prism.transform.result"

	// Policy attributes
	AttrBlockedReason = "prism.blocked.reason"

	// Error attributes
	AttrErrorType    = "prism.error.type"
	AttrErrorMessage = "error.message"
)

// SetRequestAttributes sets request identity attributes on a span.
func SetRequestAttributes(span trace.Span, requestID, preset string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRequestID, requestID),
	}
	if preset != "" {
		attrs = append(attrs, attribute.String(AttrPreset, preset))
	}
	span.SetAttributes(attrs...)
}

// SetTargetAttributes sets the origin target attributes on a span.
// Only scheme and host are recorded, never the full URL.
func SetTargetAttributes(span trace.Span, scheme, host string) {
	span.SetAttributes(
		attribute.String(AttrTargetScheme, scheme),
		attribute.String(AttrTargetHost, host),
	)
}

// SetFetchAttributes sets origin fetch result attributes on a span.
func SetFetchAttributes(span trace.Span, statusCode int, bytes int64, redirects int) {
	span.SetAttributes(
		attribute.Int(AttrOriginStatus, statusCode),
		attribute.Int64(AttrBytesIn, bytes),
		attribute.Int(AttrOriginRedirects, redirects),
	)
}

// SetMediaAttributes sets decoded media attributes on a span.
func SetMediaAttributes(span trace.Span, format string, width, height, frames int) {
	span.SetAttributes(
		attribute.String(AttrMediaFormat, format),
		attribute.Int(AttrMediaWidth, width),
		attribute.Int(AttrMediaHeight, height),
		attribute.Int(AttrMediaFrames, frames),
	)
}

// SetTransformAttributes sets transform result attributes on a span.
func SetTransformAttributes(span trace.Span, result string, inputBytes, outputBytes int) {
	span.SetAttributes(
		attribute.String(AttrTransformResult, result),
		attribute.Int(AttrBytesIn, inputBytes),
		attribute.Int(AttrBytesOut, outputBytes),
	)
}

// SetOutcomeAttribute sets the final request outcome on a span.
func SetOutcomeAttribute(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
}

// SetBlockedAttribute marks a span as blocked by host policy.
func SetBlockedAttribute(span trace.Span, reason string) {
	span.SetAttributes(attribute.String(AttrBlockedReason, reason))
}

// SetErrorAttributes records err with a classification, marks the span
// status as Error, and records the error event.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent adds a named event to the span with optional attributes.
//
//	AddEvent(span, "size_exceeded",
//	    attribute.String("stage", "streamed"),
//	    attribute.Int64("limit", limit),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder accumulates span attributes for a single SetAttributes
// call, typically at span start.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates an empty attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithRequest adds request identity attributes.
func (ab *AttributeBuilder) WithRequest(requestID, preset string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrRequestID, requestID))
	if preset != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrPreset, preset))
	}
	return ab
}

// WithTarget adds origin target attributes.
func (ab *AttributeBuilder) WithTarget(scheme, host string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrTargetScheme, scheme),
		attribute.String(AttrTargetHost, host),
	)
	return ab
}

// WithMedia adds media format and dimension attributes.
func (ab *AttributeBuilder) WithMedia(format string, width, height int) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrMediaFormat, format),
		attribute.Int(AttrMediaWidth, width),
		attribute.Int(AttrMediaHeight, height),
	)
	return ab
}

// WithCustom adds an attribute with a type-switched value.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the accumulated attributes as a span start option.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply sets the accumulated attributes on an existing span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
