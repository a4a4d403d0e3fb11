package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxInFlight     = 0       // unlimited

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// Fetch defaults
	DefaultUserAgent      = "prism-media-proxy/1.0"
	DefaultConnectTimeout = 10 * time.Second
	DefaultFetchTimeout   = 60 * time.Second
	DefaultMaxRedirects   = 5
	DefaultSizeLimit      = int64(100_000_000) // 100MB

	// Media defaults
	DefaultMaxDimension  = 2048
	DefaultMaxSize       = 2048
	DefaultMaxPixels     = 67108864 // 8192x8192
	DefaultJPEGQuality   = 85
	DefaultDecodeFailure = "passthrough"

	// Host policy defaults
	DefaultHostPolicyWatch    = true
	DefaultHostPolicyDebounce = 500 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultPrometheusPath     = "/metrics"
	DefaultTracingEnabled     = false
	DefaultTracingService     = "prism"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingInsecure    = true

	// Security defaults
	DefaultTLSEnabled        = false
	DefaultTLSMinVersion     = "1.2"
	DefaultTLSReloadInterval = 5 * time.Minute
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// CORS defaults
	if cfg.Server.CORS.AllowedOrigins == nil {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.CORS.AllowedMethods == nil {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "HEAD", "OPTIONS"}
	}
	if cfg.Server.CORS.AllowedHeaders == nil {
		cfg.Server.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Server.CORS.ExposedHeaders == nil {
		cfg.Server.CORS.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Fetch defaults
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = DefaultUserAgent
	}
	if cfg.Fetch.ConnectTimeout == 0 {
		cfg.Fetch.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.Fetch.FetchTimeout == 0 {
		cfg.Fetch.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Fetch.MaxRedirects == 0 {
		cfg.Fetch.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.Fetch.SizeLimit == 0 {
		cfg.Fetch.SizeLimit = DefaultSizeLimit
	}

	// Media defaults
	if cfg.Media.MaxDimension == 0 {
		cfg.Media.MaxDimension = DefaultMaxDimension
	}
	if cfg.Media.MaxSize == 0 {
		cfg.Media.MaxSize = DefaultMaxSize
	}
	if cfg.Media.MaxPixels == 0 {
		cfg.Media.MaxPixels = DefaultMaxPixels
	}
	if cfg.Media.JPEGQuality == 0 {
		cfg.Media.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.Media.DecodeFailure == "" {
		cfg.Media.DecodeFailure = DefaultDecodeFailure
	}

	// Host policy defaults
	if cfg.HostPolicy.ReloadDebounce == 0 {
		cfg.HostPolicy.ReloadDebounce = DefaultHostPolicyDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}

	// Security defaults
	if cfg.Security.TLS.MinVersion == "" {
		cfg.Security.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Security.TLS.ReloadInterval == 0 {
		cfg.Security.TLS.ReloadInterval = DefaultTLSReloadInterval
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
// Boolean fields that default to true are set explicitly since
// ApplyDefaults cannot distinguish false from unset.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.HostPolicy.Watch = DefaultHostPolicyWatch
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	ApplyDefaults(cfg)
	return cfg
}
