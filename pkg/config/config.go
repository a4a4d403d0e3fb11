package config

import "time"

// Config is the root configuration structure for Prism.
// It contains all configuration sections for the HTTP server, origin
// fetching, media transformation, host policy, telemetry, and security.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and in-flight request limits.
	Server ServerConfig `yaml:"server"`

	// Fetch contains configuration for outbound origin requests including
	// timeouts, redirect bounds, and the payload size limit.
	Fetch FetchConfig `yaml:"fetch"`

	// Media contains configuration for the transform pipeline including
	// dimension bounds and decode failure policy.
	Media MediaConfig `yaml:"media"`

	// HostPolicy contains configuration for the operator deny list.
	HostPolicy HostPolicyConfig `yaml:"host_policy"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains security-related configuration for TLS serving.
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Media responses stream, so this must cover the slowest
	// acceptable client. A zero or negative value means no timeout.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values, including the
	// request line.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxInFlight bounds how many proxy requests may be processed
	// concurrently. Excess requests are rejected with 503. Zero means
	// unlimited.
	// Default: 0
	MaxInFlight int `yaml:"max_inflight"`

	// RequestTimeout bounds the total processing time of one request,
	// enforced by middleware. Zero disables the bound; the fetch budgets
	// still apply.
	// Default: 0
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Use ["*"] to allow all origins. Media proxies typically serve
	// every origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// The proxy only serves reads.
	// Default: ["GET", "HEAD", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials (cookies, auth headers)
	// are allowed in CORS requests.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// FetchConfig contains configuration for outbound origin requests.
type FetchConfig struct {
	// UserAgent is sent on every origin request. Requests arriving at the
	// proxy with this agent prefix are refused to stop proxy recursion.
	// Default: "prism-media-proxy/1.0"
	UserAgent string `yaml:"user_agent"`

	// ConnectTimeout is the maximum duration for dialing an origin
	// address. Each redirect hop dials under the same budget.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// FetchTimeout is the maximum duration for a whole origin transfer
	// including redirects and the body read.
	// Default: 60s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// MaxRedirects is the maximum number of redirect hops followed before
	// the fetch fails.
	// Default: 5
	MaxRedirects int `yaml:"max_redirects"`

	// SizeLimit is the maximum origin payload size in bytes the proxy
	// will relay. Larger payloads redirect the client to the origin.
	// Default: 100000000 (100MB)
	SizeLimit int64 `yaml:"size_limit"`

	// AllowPrivateNetworks disables the built-in block of loopback,
	// private, and link-local origin addresses. Intended for development
	// and tests only; the host deny list still applies.
	// Default: false
	AllowPrivateNetworks bool `yaml:"allow_private_networks"`
}

// MediaConfig contains configuration for the transform pipeline.
type MediaConfig struct {
	// MaxDimension is the bounding box applied to images fetched without
	// explicit size directives. Supported rasters are re-encoded to fit
	// within MaxDimension×MaxDimension, never upscaled.
	// Default: 2048
	MaxDimension int `yaml:"max_dimension"`

	// MaxSize is the ceiling for client-requested size directives. A
	// request asking for a larger box is clamped to this value.
	// Default: 2048
	MaxSize int `yaml:"max_size"`

	// MaxPixels bounds the source width×height the decoder will accept.
	// Payloads declaring more pixels are treated as decode failures.
	// Default: 67108864 (8192×8192)
	MaxPixels int `yaml:"max_pixels"`

	// JPEGQuality is the encoder quality for JPEG output.
	// Options: 1-100
	// Default: 85
	JPEGQuality int `yaml:"jpeg_quality"`

	// DecodeFailure selects what happens when a supported-looking payload
	// fails to decode.
	// Options: "passthrough" (relay the original bytes), "error" (500)
	// Default: "passthrough"
	DecodeFailure string `yaml:"decode_failure"`
}

// HostPolicyConfig contains configuration for the operator deny list.
type HostPolicyConfig struct {
	// Path is the YAML deny-list file. Empty disables the deny list.
	// Default: ""
	Path string `yaml:"path"`

	// Watch controls whether the deny list is hot-reloaded when the file
	// changes.
	// Default: true
	Watch bool `yaml:"watch"`

	// ReloadDebounce is how long file events are coalesced before a
	// reload.
	// Default: 500ms
	ReloadDebounce time.Duration `yaml:"reload_debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus exposition endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether OpenTelemetry tracing is active. When
	// disabled all tracing calls are no-ops.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (host:port).
	// Required when tracing is enabled.
	Endpoint string `yaml:"endpoint"`

	// ServiceName identifies this service in traces.
	// Default: "prism"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of requests to trace.
	// Options: 0.0-1.0
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables transport security to the collector endpoint.
	// Default: true (collectors are typically co-located)
	Insecure bool `yaml:"insecure"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS contains TLS serving configuration.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS serving configuration.
type TLSConfig struct {
	// Enabled controls whether the server terminates TLS itself.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM certificate file.
	// Required when TLS is enabled.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM private key file.
	// Required when TLS is enabled.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum accepted TLS version.
	// Options: "1.2", "1.3"
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes. Zero disables hot reload.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}
