package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"halide-hq/prism/pkg/telemetry/logging"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware generates a unique request ID for each request and adds it
// to the context and response headers. If the client provides a request ID in
// the X-Request-ID header, it will be used instead of generating a new one.
//
// The request ID is:
//   - Added to the request context for handler access
//   - Included in the X-Request-ID response header
//   - Used for correlation in logs and tracing
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if client provided a request ID
		requestID := r.Header.Get(RequestIDHeader)

		// Generate a new request ID if not provided
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// Add request ID to context
		ctx := logging.WithRequestID(r.Context(), requestID)

		// Add request ID to response headers
		w.Header().Set(RequestIDHeader, requestID)

		// Call next handler with updated context
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
