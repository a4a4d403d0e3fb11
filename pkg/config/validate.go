package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateFetch(&cfg.Fetch)...)
	errs = append(errs, validateMedia(&cfg.Media)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateSecurity(&cfg.Security)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "request timeout must be positive",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}

	if cfg.MaxInFlight < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_inflight",
			Message: "max in-flight requests must be non-negative (0 means unlimited)",
		})
	}

	return errs
}

// validateFetch validates origin fetch configuration.
func validateFetch(cfg *FetchConfig) []FieldError {
	var errs []FieldError

	if cfg.ConnectTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "fetch.connect_timeout",
			Message: "connect timeout must be positive",
		})
	}
	if cfg.FetchTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "fetch.fetch_timeout",
			Message: "fetch timeout must be positive",
		})
	}
	if cfg.FetchTimeout > 0 && cfg.ConnectTimeout > cfg.FetchTimeout {
		errs = append(errs, FieldError{
			Field:   "fetch.connect_timeout",
			Message: "connect timeout cannot exceed the fetch timeout",
		})
	}

	if cfg.MaxRedirects < 0 {
		errs = append(errs, FieldError{
			Field:   "fetch.max_redirects",
			Message: "max redirects must be non-negative",
		})
	}
	if cfg.MaxRedirects > 20 {
		errs = append(errs, FieldError{
			Field:   "fetch.max_redirects",
			Message: "max redirects exceeds reasonable limit (20)",
		})
	}

	if cfg.SizeLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "fetch.size_limit",
			Message: "size limit must be greater than zero",
		})
	}

	return errs
}

// validateMedia validates transform pipeline configuration.
func validateMedia(cfg *MediaConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxDimension <= 0 {
		errs = append(errs, FieldError{
			Field:   "media.max_dimension",
			Message: "max dimension must be greater than zero",
		})
	}
	if cfg.MaxSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "media.max_size",
			Message: "max size must be greater than zero",
		})
	}
	if cfg.MaxPixels <= 0 {
		errs = append(errs, FieldError{
			Field:   "media.max_pixels",
			Message: "max pixels must be greater than zero",
		})
	}

	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		errs = append(errs, FieldError{
			Field:   "media.jpeg_quality",
			Message: "jpeg quality must be between 1 and 100",
		})
	}

	switch cfg.DecodeFailure {
	case "passthrough", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "media.decode_failure",
			Message: fmt.Sprintf("invalid decode failure policy %q (must be \"passthrough\" or \"error\")", cfg.DecodeFailure),
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

// validateSecurity validates security configuration.
func validateSecurity(cfg *SecurityConfig) []FieldError {
	var errs []FieldError

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "security.tls.cert_file",
				Message: "certificate file is required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "security.tls.key_file",
				Message: "key file is required when TLS is enabled",
			})
		}
	}

	switch cfg.TLS.MinVersion {
	case "", "1.2", "1.3":
	default:
		errs = append(errs, FieldError{
			Field:   "security.tls.min_version",
			Message: fmt.Sprintf("invalid TLS version %q (must be 1.2 or 1.3)", cfg.TLS.MinVersion),
		})
	}

	return errs
}
