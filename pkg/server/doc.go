// Package server provides the main HTTP server for the media proxy.
//
// This package ties together all proxy components (fetcher, router, handlers,
// middleware) and provides server lifecycle management including start,
// shutdown, and health checks.
//
// # Architecture
//
// The server package is the top-level orchestrator that:
//   - Loads the host deny list and starts its file watcher
//   - Builds the guarded origin fetcher and the request router
//   - Sets up HTTP routes and handlers
//   - Chains middleware for cross-cutting concerns
//   - Configures TLS termination with optional certificate hot reload
//   - Manages graceful shutdown
//   - Handles OS signals (SIGTERM, SIGINT)
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "halide-hq/prism/pkg/config"
//	    "halide-hq/prism/pkg/server"
//	)
//
//	cfg, err := config.LoadConfig(configPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv, err := server.New(cfg, logger, collector, tracer, server.BuildInfo{
//	    Version: version,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The server handles graceful shutdown automatically when receiving SIGTERM
// or SIGINT:
//
//	// Server will automatically shutdown on SIGTERM/SIGINT
//	// Or you can trigger shutdown programmatically:
//	srv.Stop()
//
// The shutdown process:
//  1. Stops accepting new connections
//  2. Waits for active connections to complete (up to shutdown timeout)
//  3. Forces connection closure if timeout exceeded
//  4. Stops the deny list watcher
//
// # Routes
//
// The server exposes the following HTTP endpoints:
//
//   - GET / - The media proxy itself; the target URL rides in the query
//     string and any other path segment is a cosmetic filename
//   - GET /health - Liveness probe (always returns 200)
//   - GET /ready - Readiness probe (runs registered checks)
//   - GET /version - Build information
//   - GET /metrics - Prometheus exposition (when metrics are enabled)
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. Timeout: Enforces per-request timeout (when configured)
//  2. InFlight: Bounds concurrent proxy requests
//  3. CORS: Adds Cross-Origin Resource Sharing headers
//  4. Logging: Logs request/response details
//  5. RequestID: Generates unique request ID for tracing
//  6. Recovery: Recovers from panics and returns 500 error
//
// Timeout and InFlight wrap only the proxy surface. Liveness probes answer
// even while the proxy sheds load, so a saturated instance is throttled,
// not restarted.
//
// # TLS Support
//
// The server terminates TLS itself when configured:
//
//	security:
//	  tls:
//	    enabled: true
//	    cert_file: "/path/to/cert.pem"
//	    key_file: "/path/to/key.pem"
//	    min_version: "1.2"
//	    reload_interval: 5m
//
// With a reload interval set, certificate files are re-read on change and
// new connections pick up the new certificate without a restart.
//
// # Thread Safety
//
// All server operations are thread-safe and can be called concurrently from
// multiple goroutines.
package server
