/*
Package security groups the transport security packages for Prism.

The tls subpackage builds the listener's TLS configuration from the
security.tls config section and keeps the serving certificate fresh
through mtime-based hot reload:

	tlsConfig, err := tls.Build(&cfg.Security.TLS)
	if err != nil {
		log.Fatal(err)
	}

Build returns nil when TLS is disabled; the server then listens in
plain HTTP. See the tls subpackage for certificate reload details.
*/
package security
