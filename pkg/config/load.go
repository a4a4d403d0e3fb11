package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(&cfg)

	// Validate
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PRISM_SECTION_FIELD (e.g., PRISM_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format PRISM_SECTION_FIELD. Values that fail
// to parse (durations, numbers, booleans) are ignored and the existing value
// is kept.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("PRISM_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("PRISM_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}
	if val := os.Getenv("PRISM_SERVER_MAX_INFLIGHT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxInFlight = i
		}
	}

	// Fetch overrides
	if val := os.Getenv("PRISM_FETCH_USER_AGENT"); val != "" {
		cfg.Fetch.UserAgent = val
	}
	if val := os.Getenv("PRISM_FETCH_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Fetch.ConnectTimeout = d
		}
	}
	if val := os.Getenv("PRISM_FETCH_FETCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Fetch.FetchTimeout = d
		}
	}
	if val := os.Getenv("PRISM_FETCH_MAX_REDIRECTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Fetch.MaxRedirects = i
		}
	}
	if val := os.Getenv("PRISM_FETCH_SIZE_LIMIT"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Fetch.SizeLimit = i
		}
	}
	if val := os.Getenv("PRISM_FETCH_ALLOW_PRIVATE_NETWORKS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Fetch.AllowPrivateNetworks = b
		}
	}

	// Media overrides
	if val := os.Getenv("PRISM_MEDIA_MAX_DIMENSION"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Media.MaxDimension = i
		}
	}
	if val := os.Getenv("PRISM_MEDIA_MAX_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Media.MaxSize = i
		}
	}
	if val := os.Getenv("PRISM_MEDIA_MAX_PIXELS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Media.MaxPixels = i
		}
	}
	if val := os.Getenv("PRISM_MEDIA_JPEG_QUALITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Media.JPEGQuality = i
		}
	}
	if val := os.Getenv("PRISM_MEDIA_DECODE_FAILURE"); val != "" {
		cfg.Media.DecodeFailure = val
	}

	// Host policy overrides
	if val := os.Getenv("PRISM_HOST_POLICY_PATH"); val != "" {
		cfg.HostPolicy.Path = val
	}
	if val := os.Getenv("PRISM_HOST_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.HostPolicy.Watch = b
		}
	}
	if val := os.Getenv("PRISM_HOST_POLICY_RELOAD_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.HostPolicy.ReloadDebounce = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("PRISM_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PRISM_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PRISM_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("PRISM_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("PRISM_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Security overrides
	if val := os.Getenv("PRISM_SECURITY_TLS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Security.TLS.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_SECURITY_TLS_CERT_FILE"); val != "" {
		cfg.Security.TLS.CertFile = val
	}
	if val := os.Getenv("PRISM_SECURITY_TLS_KEY_FILE"); val != "" {
		cfg.Security.TLS.KeyFile = val
	}
	if val := os.Getenv("PRISM_SECURITY_TLS_MIN_VERSION"); val != "" {
		cfg.Security.TLS.MinVersion = val
	}
}
