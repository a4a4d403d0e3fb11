package metrics

import (
	"time"

	"halide-hq/prism/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every metric exposed by the proxy.
const namespace = "prism"

// Collector is the main orchestrator for all Prometheus metrics in the
// proxy. It manages metric registration and provides a unified interface
// for recording metrics across all components.
//
// Every label value is a fixed enum (preset names, outcome names, status
// classes, error reasons). Target hosts and URLs never become label
// values, so cardinality stays bounded without a limiter.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Proxy request metrics
	proxyMetrics *ProxyMetrics

	// Origin fetch metrics
	fetchMetrics *FetchMetrics

	// Transform pipeline metrics
	transformMetrics *TransformMetrics

	// Host policy metrics
	policyMetrics *PolicyMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Path: "/metrics"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	// Initialize metric subsystems
	c.proxyMetrics = NewProxyMetrics(registry)
	c.fetchMetrics = NewFetchMetrics(registry)
	c.transformMetrics = NewTransformMetrics(registry)
	c.policyMetrics = NewPolicyMetrics(registry)

	return c
}

// RecordRequest records metrics for a completed proxy request.
//
// Parameters:
//   - preset: Named preset ("emoji", "avatar", ...) or "custom"
//   - outcome: Terminal outcome ("streamed", "redirected", "error")
//   - duration: Total request duration
//   - bytes: Bytes written to the client
func (c *Collector) RecordRequest(preset, outcome string, duration time.Duration, bytes int64) {
	if !c.config.Enabled {
		return
	}

	c.proxyMetrics.RecordRequest(preset, outcome, duration, bytes)
}

// IncInFlight increments the in-flight request gauge.
func (c *Collector) IncInFlight() {
	if !c.config.Enabled {
		return
	}

	c.proxyMetrics.IncInFlight()
}

// DecInFlight decrements the in-flight request gauge.
func (c *Collector) DecInFlight() {
	if !c.config.Enabled {
		return
	}

	c.proxyMetrics.DecInFlight()
}

// RecordFetch records metrics for a completed origin fetch.
//
// Parameters:
//   - statusClass: Origin status class ("2xx", "3xx", "4xx", "5xx")
//   - duration: Time from dial to response headers
//   - bytes: Declared origin Content-Length, or 0 when unknown
func (c *Collector) RecordFetch(statusClass string, duration time.Duration, bytes int64) {
	if !c.config.Enabled {
		return
	}

	c.fetchMetrics.RecordFetch(statusClass, duration, bytes)
}

// RecordFetchError records a failed origin fetch.
//
// Parameters:
//   - reason: Failure reason ("dns", "connect", "read", "timeout",
//     "tls", "redirect_loop", "too_many_redirects", "bad_status",
//     "disallowed")
func (c *Collector) RecordFetchError(reason string) {
	if !c.config.Enabled {
		return
	}

	c.fetchMetrics.RecordError(reason)
}

// RecordRedirects records how many redirect hops a fetch followed.
func (c *Collector) RecordRedirects(hops int) {
	if !c.config.Enabled {
		return
	}

	c.fetchMetrics.RecordRedirects(hops)
}

// RecordSizeExceeded records a fetch that tripped the size limit.
//
// Parameters:
//   - stage: "declared" when Content-Length exceeded the limit before
//     any body read, "streamed" when the limit was hit mid-body
func (c *Collector) RecordSizeExceeded(stage string) {
	if !c.config.Enabled {
		return
	}

	c.fetchMetrics.RecordSizeExceeded(stage)
}

// RecordTransform records metrics for a transform pipeline run.
//
// Parameters:
//   - format: Sniffed input format ("png", "jpeg", "gif", ...)
//   - result: Pipeline result ("transformed", "passthrough", "failed")
//   - duration: Decode + resize + encode time
//   - inputBytes: Size of the spooled origin body
//   - outputBytes: Size of the encoded result (0 when failed)
func (c *Collector) RecordTransform(format, result string, duration time.Duration, inputBytes, outputBytes int) {
	if !c.config.Enabled {
		return
	}

	c.transformMetrics.RecordTransform(format, result, duration, inputBytes, outputBytes)
}

// RecordDecodeFailure records a body that could not be decoded as the
// format it was sniffed as.
func (c *Collector) RecordDecodeFailure(format string) {
	if !c.config.Enabled {
		return
	}

	c.transformMetrics.RecordDecodeFailure(format)
}

// RecordBlocked records a request denied by the host policy.
//
// Parameters:
//   - reason: Denial reason ("host", "ip", "private")
func (c *Collector) RecordBlocked(reason string) {
	if !c.config.Enabled {
		return
	}

	c.policyMetrics.RecordBlocked(reason)
}

// RecordPolicyReload records the result of a host policy reload.
func (c *Collector) RecordPolicyReload(success bool) {
	if !c.config.Enabled {
		return
	}

	c.policyMetrics.RecordReload(success)
}

// UpdatePolicyEntries updates the gauges tracking compiled policy size.
func (c *Collector) UpdatePolicyEntries(hosts, networks int) {
	if !c.config.Enabled {
		return
	}

	c.policyMetrics.UpdateEntries(hosts, networks)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
