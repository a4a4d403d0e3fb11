// Package metrics provides Prometheus metrics collection for the proxy.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring proxy
// request handling, origin fetches, the transform pipeline, and the host
// deny policy.
//
// # Metrics Categories
//
//   - Proxy Metrics: Request count, duration, response sizes, in-flight gauge
//   - Fetch Metrics: Origin status classes, latency, sizes, errors, redirects
//   - Transform Metrics: Pipeline runs, duration, input/output sizes, decode failures
//   - Policy Metrics: Blocked requests, reload results, compiled entry counts
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(cfg, nil)
//
//	// Record a completed request
//	collector.RecordRequest(
//		"avatar",              // preset
//		"streamed",            // outcome
//		120*time.Millisecond,  // duration
//		48_213,                // bytes written
//	)
//
//	// Record fetch metrics
//	collector.RecordFetch("2xx", 80*time.Millisecond, 48_213)
//	collector.RecordFetchError("timeout")
//
//	// Record policy metrics
//	collector.RecordBlocked("private")
//	collector.RecordPolicyReload(true)
//
// # Cardinality
//
// Every label value is drawn from a fixed enum: preset names, outcomes,
// status classes, error reasons. Target hosts and URLs are never used as
// label values, so the metric space stays bounded no matter what clients
// request.
//
// # Prometheus Endpoint
//
// All metrics are exposed on the configured path (default /metrics) in
// standard Prometheus format:
//
//	# HELP prism_requests_total Total number of proxy requests processed
//	# TYPE prism_requests_total counter
//	prism_requests_total{preset="avatar",outcome="streamed"} 1234
package metrics
