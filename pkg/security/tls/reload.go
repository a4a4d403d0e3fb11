package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"os"
	"sync"
	"time"
)

// CertificateReloader watches certificate files and reloads them when
// they change on disk. Renewed certificates, for example written in
// place by an ACME client or a deploy job, are served without a
// process restart.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewCertificateReloader creates a reloader that checks the given files
// every interval. A nil logger falls back to slog.Default().
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger,
	}
}

// Start loads the initial certificate and begins watching for changes.
// The watch goroutine exits when ctx is cancelled.
func (r *CertificateReloader) Start(ctx context.Context) error {
	if err := r.reload(); err != nil {
		return err
	}

	r.logCertificateInfo()

	go r.reloadLoop(ctx)

	return nil
}

// reloadLoop periodically checks for certificate changes and reloads if needed.
func (r *CertificateReloader) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !r.needsReload() {
				continue
			}
			if err := r.reload(); err != nil {
				// The previous certificate stays in service.
				r.logger.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
				continue
			}
			r.logger.Info("certificate reloaded", "cert_file", r.certFile)
			r.logCertificateInfo()

		case <-ctx.Done():
			return
		}
	}
}

// needsReload checks if certificate files have been modified since last load.
func (r *CertificateReloader) needsReload() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}

	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return certInfo.ModTime().After(r.certTime) || keyInfo.ModTime().After(r.keyTime)
}

// reload loads the certificate and key from disk.
func (r *CertificateReloader) reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return err
	}

	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return err
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}

	if err := ValidateCertificate(&cert); err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()

	return nil
}

// GetCertificate returns the most recently loaded certificate, or nil
// before the first successful load.
func (r *CertificateReloader) GetCertificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificateFunc returns a function compatible with
// tls.Config.GetCertificate, so handshakes always see the current pair.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		return r.GetCertificate(), nil
	}
}

// logCertificateInfo logs the subject and expiry of the loaded certificate.
func (r *CertificateReloader) logCertificateInfo() {
	cert := r.GetCertificate()
	if cert == nil || len(cert.Certificate) == 0 {
		return
	}

	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return
	}

	daysUntilExpiry, warning := CheckCertificateExpiration(x509Cert)

	if warning != "" {
		r.logger.Warn("certificate expiring soon",
			"subject", x509Cert.Subject.CommonName,
			"expires_in_days", daysUntilExpiry,
			"expires_at", x509Cert.NotAfter.Format(time.RFC3339),
		)
		return
	}

	r.logger.Info("certificate loaded",
		"subject", x509Cert.Subject.CommonName,
		"issuer", x509Cert.Issuer.CommonName,
		"expires_in_days", daysUntilExpiry,
		"expires_at", x509Cert.NotAfter.Format(time.RFC3339),
	)
}
