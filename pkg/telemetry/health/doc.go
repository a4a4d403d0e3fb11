// Package health provides liveness, readiness, and version endpoints for Prism.
//
// # Overview
//
// The health package implements the probe endpoints an orchestrator needs to
// manage a proxy instance: a liveness probe that reports whether the process
// is running, a readiness probe that runs registered component checks, and a
// version endpoint exposing build information.
//
// # Endpoints
//
//   - /health: liveness probe, process is alive
//   - /ready: readiness probe, instance can serve traffic
//   - /version: build information (version, commit, build time)
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//
//	checker.RegisterCheck("config", func(ctx context.Context) error {
//	    if cfg == nil {
//	        return errors.New("config not loaded")
//	    }
//	    return nil
//	})
//	checker.RegisterCheck("host_policy", func(ctx context.Context) error {
//	    if source.Current() == nil {
//	        return errors.New("host policy not compiled")
//	    }
//	    return nil
//	})
//
//	mux := http.NewServeMux()
//	checker.Mount(mux, version, commit, buildTime)
//
// # Liveness vs Readiness
//
// Liveness (/health) answers "is the process alive". It runs no component
// checks and always returns 200 while the handler can execute. Kubernetes
// restarts the pod when it fails.
//
// Readiness (/ready) answers "can this instance serve requests". It runs all
// registered checks concurrently, each bounded by the checker timeout, and
// returns 503 when any check fails. Kubernetes stops routing traffic to the
// pod until it recovers.
//
// # Component Checks
//
// A check is any func(ctx context.Context) error. Prism registers checks for
// the loaded configuration and the compiled host policy; a deployment fronting
// a single origin might also register an upstream reachability check.
//
// # Example Responses
//
// Readiness with a failing check:
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "config": {"status": "ok", "duration_ms": 0.04},
//	        "host_policy": {"status": "unhealthy", "message": "policy file unreadable", "duration_ms": 1.2}
//	    },
//	    "timestamp": "2026-08-25T10:30:00Z"
//	}
//
// Version:
//
//	{
//	    "version": "1.4.0",
//	    "commit": "abc123def456",
//	    "build_time": "2026-08-25T00:00:00Z",
//	    "go_version": "go1.23.4"
//	}
package health
