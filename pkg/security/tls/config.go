package tls

import (
	"crypto/tls"
	"fmt"
	"os"

	"halide-hq/prism/pkg/config"
)

// Build converts the security.tls section of the proxy configuration into
// a crypto/tls.Config ready to hand to the HTTP server.
//
// Returns (nil, nil) when TLS is disabled so callers can assign the result
// to http.Server.TLSConfig unconditionally.
func Build(cfg *config.TLSConfig) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	if cfg.CertFile == "" {
		return nil, fmt.Errorf("cert_file is required when TLS is enabled")
	}
	if cfg.KeyFile == "" {
		return nil, fmt.Errorf("key_file is required when TLS is enabled")
	}

	if _, err := os.Stat(cfg.CertFile); err != nil {
		return nil, fmt.Errorf("certificate file not found: %s: %w", cfg.CertFile, err)
	}
	if _, err := os.Stat(cfg.KeyFile); err != nil {
		return nil, fmt.Errorf("key file not found: %s: %w", cfg.KeyFile, err)
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	if err := ValidateCertificate(&cert); err != nil {
		return nil, fmt.Errorf("certificate validation failed: %w", err)
	}

	// Cipher suites are left to the Go defaults.
	// #nosec G402 - MinVersion is validated at config load (1.0/1.1 rejected)
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion(cfg.MinVersion),
	}, nil
}

// minVersion maps the configured version string to a tls constant.
// Config validation only admits "1.2" and "1.3"; anything else falls
// back to 1.2, the configured default.
func minVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
