// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// This package implements middleware functions that handle common functionality
// across all HTTP requests including request ID generation, logging, CORS,
// panic recovery, concurrency limiting, and timeout enforcement.
//
// # Middleware Chain
//
// Middleware functions are chained in a specific order:
//
//	handler = Recovery(RequestID(Logging(CORS(InFlight(Timeout(handler))))))
//
// Order (innermost to outermost):
//  1. Timeout: Enforce per-request timeout
//  2. InFlight: Bound concurrent request processing
//  3. CORS: Add Cross-Origin Resource Sharing headers
//  4. Logging: Log request/response details
//  5. RequestID: Generate and propagate request ID
//  6. Recovery: Recover from panics
//
// RequestID runs ahead of Logging so completion logs carry the ID, and
// Recovery runs outermost so a panic anywhere in the chain still produces
// a well-formed 500.
//
// # Request ID
//
// RequestIDMiddleware assigns each request a UUID v4, honoring a
// client-provided X-Request-ID so callers can stitch their own traces
// together:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The request ID is:
//   - Added to context for handler access
//   - Included in response headers
//   - Logged with all request/response logs
//   - Attached to trace spans
//
// # Logging
//
// LoggingMiddleware uses structured logging (log/slog) to record request
// details:
//
//	{
//	  "time": "2026-08-25T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "GET",
//	  "path": "/avatar.png",
//	  "status": 200,
//	  "latency_ms": 41,
//	  "bytes": 18231,
//	  "request_id": "550e8400-e29b-41d4-a716-446655440000"
//	}
//
// The full request query is never logged: it carries the target URL, which
// may hold credentials or tracking tokens. The handler layer logs the
// redacted target host separately.
//
// # CORS
//
// CORSMiddleware adds Cross-Origin Resource Sharing headers for web clients:
//
//	Access-Control-Allow-Origin: *
//	Access-Control-Allow-Methods: GET, HEAD, OPTIONS
//	Access-Control-Allow-Headers: Content-Type, X-Request-ID
//	Access-Control-Max-Age: 3600
//
// CORS configuration is loaded from the server section of the config file:
//
//	server:
//	  cors:
//	    enabled: true
//	    allowed_origins: ["*"]
//	    allowed_methods: ["GET", "HEAD", "OPTIONS"]
//	    max_age: 3600
//
// # In-Flight Limiting
//
// InFlightMiddleware bounds concurrent request processing with an atomic
// counter. Excess requests receive 503 immediately instead of queuing, so a
// stalled origin cannot accumulate goroutines behind it. A limit of zero
// disables the bound.
//
// # Recovery
//
// RecoveryMiddleware catches panics in handlers and converts them to HTTP
// 500 errors:
//
//	{
//	  "error": {
//	    "message": "An internal error occurred. Please try again later.",
//	    "type": "server_error",
//	    "code": "internal_error"
//	  }
//	}
//
// The panic stack trace is logged but not exposed to clients.
//
// # Timeout
//
// TimeoutMiddleware enforces a per-request timeout using context.WithTimeout.
// If the timeout is exceeded the request context is cancelled, the fetch
// layer aborts the origin transfer, and the client receives 504 Gateway
// Timeout. The origin fetch carries its own tighter budgets; this bound only
// catches requests that outlive all of them.
//
// # Thread Safety
//
// All middleware functions are thread-safe and can be called concurrently
// from multiple goroutines.
package middleware
