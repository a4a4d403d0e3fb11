package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/telemetry/logging"
)

// TimeoutMiddleware enforces a per-request timeout using context.WithTimeout.
// If the timeout is exceeded, the request context is cancelled and a 504
// Gateway Timeout error is returned.
//
// The timeout applies to the entire request processing pipeline including the
// origin fetch and transform. Handlers check context.Done() to detect
// cancellation; the fetch layer aborts the origin transfer when its context
// is cancelled.
//
// Example usage:
//
//	handler = TimeoutMiddleware(60*time.Second, logger)(handler)
func TimeoutMiddleware(timeout time.Duration, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Create timeout context
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			// Create a channel to signal completion
			done := make(chan struct{})

			// Run handler in goroutine
			go func() {
				defer close(done)
				next.ServeHTTP(w, r.WithContext(ctx))
			}()

			// Wait for completion or timeout
			select {
			case <-done:
				// Request completed
				return

			case <-ctx.Done():
				if ctx.Err() != context.DeadlineExceeded {
					return
				}

				// Log on the parent context: ctx is already cancelled
				logger.WarnContext(r.Context(), "request timed out",
					"request_id", GetRequestID(ctx),
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout.String(),
				)

				// Create timeout error response
				errResp := types.NewGatewayTimeoutError(
					"The request took too long to complete.",
				)

				// Write timeout error response. The handler goroutine saw
				// ctx.Done() and stops writing; downstream middleware keeps
				// the status of whoever wrote first.
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusGatewayTimeout)

				// Encode error response (ignore encoding errors)
				_ = json.NewEncoder(w).Encode(errResp)
			}
		})
	}
}
