package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	// A zero config misses the listen address, size limit, media limits,
	// and logging settings all at once.
	cfg := &Config{}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}

	// Verify error message includes multiple errors
	errMsg := validationErr.Error()
	if !strings.Contains(errMsg, "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", errMsg)
	}
}

func TestValidate_ServerConfig(t *testing.T) {
	valid := ServerConfig{
		ListenAddress:  "127.0.0.1:8080",
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		IdleTimeout:    DefaultIdleTimeout,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
	}

	tests := []struct {
		name       string
		mutate     func(*ServerConfig)
		wantError  bool
		errorField string
	}{
		{
			name:      "valid server config",
			mutate:    func(*ServerConfig) {},
			wantError: false,
		},
		{
			name:       "empty listen address",
			mutate:     func(c *ServerConfig) { c.ListenAddress = "" },
			wantError:  true,
			errorField: "server.listen_address",
		},
		{
			name:       "negative read timeout",
			mutate:     func(c *ServerConfig) { c.ReadTimeout = -1 },
			wantError:  true,
			errorField: "server.read_timeout",
		},
		{
			name:       "negative write timeout",
			mutate:     func(c *ServerConfig) { c.WriteTimeout = -time.Second },
			wantError:  true,
			errorField: "server.write_timeout",
		},
		{
			name:       "negative request timeout",
			mutate:     func(c *ServerConfig) { c.RequestTimeout = -time.Second },
			wantError:  true,
			errorField: "server.request_timeout",
		},
		{
			name:       "excessive max header bytes",
			mutate:     func(c *ServerConfig) { c.MaxHeaderBytes = 20 * 1024 * 1024 },
			wantError:  true,
			errorField: "server.max_header_bytes",
		},
		{
			name:       "negative max inflight",
			mutate:     func(c *ServerConfig) { c.MaxInFlight = -1 },
			wantError:  true,
			errorField: "server.max_inflight",
		},
		{
			name:      "zero max inflight means unlimited",
			mutate:    func(c *ServerConfig) { c.MaxInFlight = 0 },
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			errs := validateServer(&cfg)
			checkFieldErrors(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_FetchConfig(t *testing.T) {
	valid := FetchConfig{
		UserAgent:      DefaultUserAgent,
		ConnectTimeout: DefaultConnectTimeout,
		FetchTimeout:   DefaultFetchTimeout,
		MaxRedirects:   DefaultMaxRedirects,
		SizeLimit:      DefaultSizeLimit,
	}

	tests := []struct {
		name       string
		mutate     func(*FetchConfig)
		wantError  bool
		errorField string
	}{
		{
			name:      "valid fetch config",
			mutate:    func(*FetchConfig) {},
			wantError: false,
		},
		{
			name:       "zero size limit",
			mutate:     func(c *FetchConfig) { c.SizeLimit = 0 },
			wantError:  true,
			errorField: "fetch.size_limit",
		},
		{
			name:       "negative size limit",
			mutate:     func(c *FetchConfig) { c.SizeLimit = -1 },
			wantError:  true,
			errorField: "fetch.size_limit",
		},
		{
			name:       "negative max redirects",
			mutate:     func(c *FetchConfig) { c.MaxRedirects = -1 },
			wantError:  true,
			errorField: "fetch.max_redirects",
		},
		{
			name:      "zero max redirects disables following",
			mutate:    func(c *FetchConfig) { c.MaxRedirects = 0 },
			wantError: false,
		},
		{
			name:       "excessive max redirects",
			mutate:     func(c *FetchConfig) { c.MaxRedirects = 50 },
			wantError:  true,
			errorField: "fetch.max_redirects",
		},
		{
			name:       "connect timeout exceeds fetch timeout",
			mutate:     func(c *FetchConfig) { c.ConnectTimeout = 2 * c.FetchTimeout },
			wantError:  true,
			errorField: "fetch.connect_timeout",
		},
		{
			name:       "negative fetch timeout",
			mutate:     func(c *FetchConfig) { c.FetchTimeout = -time.Second },
			wantError:  true,
			errorField: "fetch.fetch_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			errs := validateFetch(&cfg)
			checkFieldErrors(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_MediaConfig(t *testing.T) {
	valid := MediaConfig{
		MaxDimension:  DefaultMaxDimension,
		MaxSize:       DefaultMaxSize,
		MaxPixels:     DefaultMaxPixels,
		JPEGQuality:   DefaultJPEGQuality,
		DecodeFailure: DefaultDecodeFailure,
	}

	tests := []struct {
		name       string
		mutate     func(*MediaConfig)
		wantError  bool
		errorField string
	}{
		{
			name:      "valid media config",
			mutate:    func(*MediaConfig) {},
			wantError: false,
		},
		{
			name:       "zero max dimension",
			mutate:     func(c *MediaConfig) { c.MaxDimension = 0 },
			wantError:  true,
			errorField: "media.max_dimension",
		},
		{
			name:       "zero max size",
			mutate:     func(c *MediaConfig) { c.MaxSize = 0 },
			wantError:  true,
			errorField: "media.max_size",
		},
		{
			name:       "zero max pixels",
			mutate:     func(c *MediaConfig) { c.MaxPixels = 0 },
			wantError:  true,
			errorField: "media.max_pixels",
		},
		{
			name:       "jpeg quality too low",
			mutate:     func(c *MediaConfig) { c.JPEGQuality = 0 },
			wantError:  true,
			errorField: "media.jpeg_quality",
		},
		{
			name:       "jpeg quality too high",
			mutate:     func(c *MediaConfig) { c.JPEGQuality = 101 },
			wantError:  true,
			errorField: "media.jpeg_quality",
		},
		{
			name:      "error decode policy",
			mutate:    func(c *MediaConfig) { c.DecodeFailure = "error" },
			wantError: false,
		},
		{
			name:       "unknown decode policy",
			mutate:     func(c *MediaConfig) { c.DecodeFailure = "retry" },
			wantError:  true,
			errorField: "media.decode_failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			errs := validateMedia(&cfg)
			checkFieldErrors(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_Telemetry(t *testing.T) {
	tests := []struct {
		name       string
		telemetry  TelemetryConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid telemetry config",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
				Tracing: TracingConfig{Enabled: false},
			},
			wantError: false,
		},
		{
			name: "invalid logging level",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "invalid", Format: "json"},
			},
			wantError:  true,
			errorField: "telemetry.logging.level",
		},
		{
			name: "invalid logging format",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "invalid"},
			},
			wantError:  true,
			errorField: "telemetry.logging.format",
		},
		{
			name: "metrics enabled without path",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{Enabled: true, Path: ""},
			},
			wantError:  true,
			errorField: "telemetry.metrics.path",
		},
		{
			name: "tracing enabled without endpoint",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Tracing: TracingConfig{Enabled: true, Endpoint: ""},
			},
			wantError:  true,
			errorField: "telemetry.tracing.endpoint",
		},
		{
			name: "invalid sampling rate",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Tracing: TracingConfig{SampleRatio: 1.5},
			},
			wantError:  true,
			errorField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateTelemetry(&tt.telemetry)
			checkFieldErrors(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_Security(t *testing.T) {
	tests := []struct {
		name       string
		security   SecurityConfig
		wantError  bool
		errorField string
	}{
		{
			name: "tls disabled",
			security: SecurityConfig{
				TLS: TLSConfig{Enabled: false},
			},
			wantError: false,
		},
		{
			name: "valid tls config",
			security: SecurityConfig{
				TLS: TLSConfig{
					Enabled:  true,
					CertFile: "/path/to/cert.pem",
					KeyFile:  "/path/to/key.pem",
				},
			},
			wantError: false,
		},
		{
			name: "tls enabled without cert",
			security: SecurityConfig{
				TLS: TLSConfig{
					Enabled: true,
					KeyFile: "/path/to/key.pem",
				},
			},
			wantError:  true,
			errorField: "security.tls.cert_file",
		},
		{
			name: "tls enabled without key",
			security: SecurityConfig{
				TLS: TLSConfig{
					Enabled:  true,
					CertFile: "/path/to/cert.pem",
				},
			},
			wantError:  true,
			errorField: "security.tls.key_file",
		},
		{
			name: "invalid min version",
			security: SecurityConfig{
				TLS: TLSConfig{MinVersion: "1.0"},
			},
			wantError:  true,
			errorField: "security.tls.min_version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateSecurity(&tt.security)
			checkFieldErrors(t, errs, tt.wantError, tt.errorField)
		})
	}
}

// checkFieldErrors asserts the presence or absence of a FieldError for
// the given field.
func checkFieldErrors(t *testing.T, errs []FieldError, wantError bool, errorField string) {
	t.Helper()

	if wantError && len(errs) == 0 {
		t.Error("expected validation error, got none")
	}
	if !wantError && len(errs) > 0 {
		t.Errorf("expected no validation error, got: %v", errs)
	}
	if wantError && len(errs) > 0 {
		found := false
		for _, err := range errs {
			if err.Field == errorField {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected error for field %q, got errors: %v", errorField, errs)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		contains string
	}{
		{
			name:     "empty errors",
			err:      ValidationError{Errors: []FieldError{}},
			contains: "configuration validation failed",
		},
		{
			name: "single error",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "server.listen_address", Message: "required"},
				},
			},
			contains: "server.listen_address",
		},
		{
			name: "multiple errors",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "server.listen_address", Message: "required"},
					{Field: "fetch.size_limit", Message: "must be greater than zero"},
				},
			},
			contains: "2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			if !strings.Contains(errMsg, tt.contains) {
				t.Errorf("expected error message to contain %q, got: %s", tt.contains, errMsg)
			}
		})
	}
}
