// Package server assembles and runs the Prism HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"halide-hq/prism/pkg/config"
	"halide-hq/prism/pkg/fetch"
	"halide-hq/prism/pkg/hostpolicy"
	"halide-hq/prism/pkg/proxy"
	"halide-hq/prism/pkg/proxy/handlers"
	"halide-hq/prism/pkg/proxy/middleware"
	tlsconfig "halide-hq/prism/pkg/security/tls"
	"halide-hq/prism/pkg/telemetry/health"
	"halide-hq/prism/pkg/telemetry/logging"
	"halide-hq/prism/pkg/telemetry/metrics"
	"halide-hq/prism/pkg/telemetry/tracing"
	"halide-hq/prism/pkg/transform"
)

// BuildInfo identifies the running binary on the version endpoint and in
// startup logs.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the assembled media proxy: host policy provider, origin
// fetcher, router, handler, and middleware chain around one http.Server.
type Server struct {
	cfg       *config.Config
	logger    *logging.Logger
	collector *metrics.Collector
	tracer    *tracing.Tracer
	checker   *health.Checker
	policy    *hostpolicy.Provider
	router    *proxy.Router
	build     BuildInfo

	httpServer *http.Server
	reloader   *tlsconfig.CertificateReloader

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	stopOnce     sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New assembles a server from configuration. The host policy file, when
// configured, is loaded here so a broken deny list fails startup instead
// of silently denying nothing.
func New(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector, tracer *tracing.Tracer, build BuildInfo) (*Server, error) {
	policy, err := hostpolicy.NewProvider(cfg.HostPolicy.Path, logger.Slog())
	if err != nil {
		return nil, fmt.Errorf("loading host policy: %w", err)
	}
	policy.OnReload = func(ok bool, snapshot *hostpolicy.Policy) {
		collector.RecordPolicyReload(ok)
		if ok {
			collector.UpdatePolicyEntries(snapshot.HostRuleCount(), snapshot.NetworkRuleCount())
		}
	}
	if snapshot := policy.Current(); snapshot != nil {
		collector.UpdatePolicyEntries(snapshot.HostRuleCount(), snapshot.NetworkRuleCount())
	}

	guard := &fetch.Guard{
		AllowPrivate: cfg.Fetch.AllowPrivateNetworks,
		Policy:       policy,
	}
	fetcher := fetch.NewFetcher(fetch.Options{
		UserAgent:      cfg.Fetch.UserAgent,
		ConnectTimeout: cfg.Fetch.ConnectTimeout,
		FetchTimeout:   cfg.Fetch.FetchTimeout,
		MaxRedirects:   cfg.Fetch.MaxRedirects,
	}, guard, logger.Slog())

	s := &Server{
		cfg:          cfg,
		logger:       logger,
		collector:    collector,
		tracer:       tracer,
		checker:      health.New(0),
		policy:       policy,
		router:       proxy.NewRouter(cfg, fetcher, logger, collector, tracer),
		build:        build,
		shutdownChan: make(chan struct{}),
	}
	s.registerHealthChecks()
	return s, nil
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Hot-reload the deny list while running
	if s.cfg.HostPolicy.Watch && s.cfg.HostPolicy.Path != "" {
		go func() {
			if err := s.policy.Watch(runCtx, s.cfg.HostPolicy.ReloadDebounce); err != nil {
				s.logger.Error("host policy watcher stopped", "error", err)
			}
		}()
	}

	// Create router with middleware chain
	handler := s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:           s.cfg.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
	}

	// Configure TLS if enabled
	if s.cfg.Security.TLS.Enabled {
		if err := s.configureTLS(runCtx); err != nil {
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting media proxy server",
			"address", s.cfg.Server.ListenAddress,
			"tls_enabled", s.cfg.Security.TLS.Enabled,
			"size_limit", s.cfg.Fetch.SizeLimit,
			"version", s.build.Version,
		)

		var err error
		if s.cfg.Security.TLS.Enabled {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Set up signal handlers
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop requests a graceful shutdown of a server blocked in Start.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdownChan)
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.cfg.Server.ShutdownTimeout.String())

		// Create shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown HTTP server
		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.policy.Stop()

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("media proxy server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and middleware chain. The in-flight
// and timeout bounds wrap only the proxy surface: liveness probes must
// keep answering while the proxy sheds load.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Media proxy surface
	mediaHandler := handlers.NewMediaHandler(
		s.router,
		proxy.AgentProduct(s.cfg.Fetch.UserAgent),
		s.logger,
		s.collector,
		s.tracer,
	)
	var mediaChain http.Handler = mediaHandler
	if s.cfg.Server.RequestTimeout > 0 {
		mediaChain = middleware.TimeoutMiddleware(s.cfg.Server.RequestTimeout, s.logger)(mediaChain)
	}
	mediaChain = middleware.InFlightMiddleware(s.cfg.Server.MaxInFlight, s.logger, s.collector)(mediaChain)
	mux.Handle("/", mediaChain)

	// Operational surface
	s.checker.Mount(mux, s.build.Version, s.build.Commit, s.build.BuildTime)
	if s.cfg.Telemetry.Metrics.Enabled {
		mux.Handle(s.cfg.Telemetry.Metrics.Path, s.collector.Handler())
	}

	// Apply middleware chain
	var handler http.Handler = mux

	// CORS middleware
	handler = middleware.CORSMiddleware(&s.cfg.Server.CORS)(handler)

	// Logging middleware
	handler = middleware.LoggingMiddleware(s.logger)(handler)

	// Request ID middleware
	handler = middleware.RequestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// configureTLS builds the server TLS configuration and, when a reload
// interval is set, swaps static certificates for the hot reloader.
func (s *Server) configureTLS(ctx context.Context) error {
	tlsCfg, err := tlsconfig.Build(&s.cfg.Security.TLS)
	if err != nil {
		return err
	}

	if s.cfg.Security.TLS.ReloadInterval > 0 {
		s.reloader = tlsconfig.NewCertificateReloader(
			s.cfg.Security.TLS.CertFile,
			s.cfg.Security.TLS.KeyFile,
			s.cfg.Security.TLS.ReloadInterval,
			s.logger.Slog(),
		)
		if err := s.reloader.Start(ctx); err != nil {
			return fmt.Errorf("starting certificate reloader: %w", err)
		}
		// GetCertificate is only consulted when Certificates is empty
		tlsCfg.Certificates = nil
		tlsCfg.GetCertificate = s.reloader.GetCertificateFunc()
	}

	s.httpServer.TLSConfig = tlsCfg
	return nil
}

// registerHealthChecks wires the readiness checks: configuration sanity,
// the transform pipeline's format detection, and the host policy snapshot.
func (s *Server) registerHealthChecks() {
	s.checker.RegisterCheck("config", func(ctx context.Context) error {
		return config.Validate(s.cfg)
	})

	s.checker.RegisterCheck("transform", func(ctx context.Context) error {
		probe := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
		if got := transform.Sniff(probe); got != transform.FormatPNG {
			return fmt.Errorf("format detection returned %v for a PNG header", got)
		}
		return nil
	})

	s.checker.RegisterCheck("host_policy", func(ctx context.Context) error {
		if s.cfg.HostPolicy.Path == "" {
			return nil
		}
		if s.policy.Current() == nil {
			return fmt.Errorf("deny list configured but not loaded")
		}
		return nil
	})
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
