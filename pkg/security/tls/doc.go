/*
Package tls builds the proxy's TLS listener configuration and keeps the
serving certificate fresh while the process runs.

# Configuration

The security.tls section of the proxy configuration drives everything:

	security:
	  tls:
	    enabled: true
	    cert_file: /etc/prism/tls/server.pem
	    key_file: /etc/prism/tls/server-key.pem
	    min_version: "1.2"
	    reload_interval: 5m

Build converts that section into a *crypto/tls.Config:

	tlsConfig, err := tls.Build(&cfg.Security.TLS)
	if err != nil {
		return err
	}

TLS 1.0 and 1.1 are never offered; config validation only admits "1.2"
and "1.3". Cipher suites are left to the Go defaults.

# Certificate Auto-Reload

CertificateReloader re-reads the certificate and key when their
modification times change, so renewals written in place by an ACME
client or a deploy job are served without restarting the proxy:

	reloader := tls.NewCertificateReloader(certFile, keyFile, 5*time.Minute, logger)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	tlsConfig.GetCertificate = reloader.GetCertificateFunc()

With GetCertificate set, every handshake sees the most recently loaded
pair. A pair that fails to load or validate is logged and skipped; the
previous certificate stays in service. Certificates within 30 days of
expiry are logged as warnings on each reload pass.
*/
package tls
