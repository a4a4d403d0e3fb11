package middleware

import (
	"context"

	"halide-hq/prism/pkg/telemetry/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"
)

// GetRequestID extracts the request ID from the context. The ID is
// stored through the logging package so log records, trace spans, and
// handlers all read the same value. Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}
