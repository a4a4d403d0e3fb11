package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/telemetry/logging"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// Internal Server Error response in the standard error format. It logs the
// panic with stack trace for debugging but does not expose internal details
// to clients.
//
// Example usage:
//
//	handler = RecoveryMiddleware(logger)(handler)
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Capture stack trace
					stack := debug.Stack()

					// Log the panic with stack trace
					logger.ErrorContext(r.Context(), "panic in handler",
						"error", err,
						"request_id", w.Header().Get(RequestIDHeader),
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(stack),
					)

					// Create error response without internal details
					errResp := types.NewServerError(
						"An internal error occurred. Please try again later.",
						types.CodeInternalError,
					)

					// Write error response
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)

					// Encode error response (ignore encoding errors at this point)
					_ = json.NewEncoder(w).Encode(errResp)
				}
			}()

			// Call next handler
			next.ServeHTTP(w, r)
		})
	}
}
