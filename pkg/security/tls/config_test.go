package tls

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"halide-hq/prism/pkg/config"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(t *testing.T) *config.TLSConfig
		wantErr string
		check   func(t *testing.T, tc *tls.Config)
	}{
		{
			name: "nil config",
			cfg:  func(t *testing.T) *config.TLSConfig { return nil },
			check: func(t *testing.T, tc *tls.Config) {
				if tc != nil {
					t.Errorf("expected nil tls.Config, got %v", tc)
				}
			},
		},
		{
			name: "disabled",
			cfg: func(t *testing.T) *config.TLSConfig {
				return &config.TLSConfig{Enabled: false}
			},
			check: func(t *testing.T, tc *tls.Config) {
				if tc != nil {
					t.Errorf("expected nil tls.Config when disabled, got %v", tc)
				}
			},
		},
		{
			name: "valid TLS 1.2",
			cfg: func(t *testing.T) *config.TLSConfig {
				certFile, keyFile := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{
					Enabled:    true,
					CertFile:   certFile,
					KeyFile:    keyFile,
					MinVersion: "1.2",
				}
			},
			check: func(t *testing.T, tc *tls.Config) {
				if tc == nil {
					t.Fatal("expected non-nil tls.Config")
				}
				if len(tc.Certificates) != 1 {
					t.Errorf("expected 1 certificate, got %d", len(tc.Certificates))
				}
				if tc.MinVersion != tls.VersionTLS12 {
					t.Errorf("MinVersion = %d, want %d", tc.MinVersion, tls.VersionTLS12)
				}
			},
		},
		{
			name: "valid TLS 1.3",
			cfg: func(t *testing.T) *config.TLSConfig {
				certFile, keyFile := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{
					Enabled:    true,
					CertFile:   certFile,
					KeyFile:    keyFile,
					MinVersion: "1.3",
				}
			},
			check: func(t *testing.T, tc *tls.Config) {
				if tc.MinVersion != tls.VersionTLS13 {
					t.Errorf("MinVersion = %d, want %d", tc.MinVersion, tls.VersionTLS13)
				}
			},
		},
		{
			name: "empty min version falls back to 1.2",
			cfg: func(t *testing.T) *config.TLSConfig {
				certFile, keyFile := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{
					Enabled:  true,
					CertFile: certFile,
					KeyFile:  keyFile,
				}
			},
			check: func(t *testing.T, tc *tls.Config) {
				if tc.MinVersion != tls.VersionTLS12 {
					t.Errorf("MinVersion = %d, want %d", tc.MinVersion, tls.VersionTLS12)
				}
			},
		},
		{
			name: "missing cert path",
			cfg: func(t *testing.T) *config.TLSConfig {
				_, keyFile := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{Enabled: true, KeyFile: keyFile}
			},
			wantErr: "cert_file is required",
		},
		{
			name: "missing key path",
			cfg: func(t *testing.T) *config.TLSConfig {
				certFile, _ := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{Enabled: true, CertFile: certFile}
			},
			wantErr: "key_file is required",
		},
		{
			name: "cert file not found",
			cfg: func(t *testing.T) *config.TLSConfig {
				_, keyFile := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{
					Enabled:  true,
					CertFile: filepath.Join(t.TempDir(), "missing.pem"),
					KeyFile:  keyFile,
				}
			},
			wantErr: "certificate file not found",
		},
		{
			name: "key file not found",
			cfg: func(t *testing.T) *config.TLSConfig {
				certFile, _ := writeValidCert(t, t.TempDir())
				return &config.TLSConfig{
					Enabled:  true,
					CertFile: certFile,
					KeyFile:  filepath.Join(t.TempDir(), "missing.pem"),
				}
			},
			wantErr: "key file not found",
		},
		{
			name: "garbage pem",
			cfg: func(t *testing.T) *config.TLSConfig {
				dir := t.TempDir()
				certFile := filepath.Join(dir, "cert.pem")
				keyFile := filepath.Join(dir, "key.pem")
				if err := os.WriteFile(certFile, []byte("not a certificate"), 0600); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(keyFile, []byte("not a key"), 0600); err != nil {
					t.Fatal(err)
				}
				return &config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile}
			},
			wantErr: "failed to load certificate",
		},
		{
			name: "expired certificate rejected",
			cfg: func(t *testing.T) *config.TLSConfig {
				now := time.Now()
				certFile, keyFile := writeTestCert(t, t.TempDir(), now.Add(-48*time.Hour), now.Add(-24*time.Hour))
				return &config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile}
			},
			wantErr: "certificate validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := Build(tt.cfg(t))

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("Build() succeeded, want error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tc)
			}
		})
	}
}

func TestMinVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    uint16
	}{
		{name: "1.2", version: "1.2", want: tls.VersionTLS12},
		{name: "1.3", version: "1.3", want: tls.VersionTLS13},
		{name: "empty falls back to 1.2", version: "", want: tls.VersionTLS12},
		{name: "unknown falls back to 1.2", version: "1.1", want: tls.VersionTLS12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := minVersion(tt.version); got != tt.want {
				t.Errorf("minVersion(%q) = %d, want %d", tt.version, got, tt.want)
			}
		})
	}
}
