package middleware

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/telemetry/logging"
	"halide-hq/prism/pkg/telemetry/metrics"
)

// InFlightMiddleware bounds how many requests are processed concurrently.
// Each request holds one slot for its whole lifetime, fetch and stream
// included. When every slot is taken new requests are rejected with 503
// immediately rather than queued, so a slow origin cannot pile up waiting
// goroutines behind it. A limit of zero disables the bound.
//
// Example usage:
//
//	handler = InFlightMiddleware(cfg.Server.MaxInFlight, logger, collector)(handler)
func InFlightMiddleware(limit int, logger *logging.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	var inflight atomic.Int64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			if n := inflight.Add(1); n > int64(limit) {
				inflight.Add(-1)

				logger.WarnContext(r.Context(), "rejecting request at concurrency limit",
					"limit", limit,
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
				)

				errResp := types.NewServiceUnavailableError(
					"The proxy is at capacity. Retry shortly.",
				)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(errResp)
				return
			}
			defer inflight.Add(-1)

			collector.IncInFlight()
			defer collector.DecInFlight()

			next.ServeHTTP(w, r)
		})
	}
}
