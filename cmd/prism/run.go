package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"halide-hq/prism/pkg/cli"
	"halide-hq/prism/pkg/config"
	"halide-hq/prism/pkg/server"
	"halide-hq/prism/pkg/telemetry/logging"
	"halide-hq/prism/pkg/telemetry/metrics"
	"halide-hq/prism/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	sizeLimit     int64
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Prism media proxy server",
	Long: `Start the Prism media proxy server with the specified configuration.

The server listens on the configured address and proxies media requests,
fetching from the origin named in the url query parameter, normalizing
images to web-safe formats, and streaming the result to the client.

Examples:
  # Start with built-in defaults
  prism run

  # Start with a config file
  prism run --config /etc/prism/config.yaml

  # Override listen address
  prism run --listen 0.0.0.0:8080

  # Raise the streaming size limit to 200 MB
  prism run --size-limit 200000000

  # Validate config without starting server
  prism run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().Int64Var(&runFlags.sizeLimit, "size-limit", 0, "override streaming size limit in bytes")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides. An explicit --log-level wins over --verbose.
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.sizeLimit > 0 {
		cfg.Fetch.SizeLimit = runFlags.sizeLimit
	}

	// Initialize logging based on config
	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		RedactTargets: true,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	// Print startup banner
	printBanner(cfg)

	// Metrics and tracing
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()
	if tracer.Enabled() {
		fmt.Printf("✓ Tracing exporting to %s\n", cfg.Telemetry.Tracing.Endpoint)
	}

	// Assemble the server. A broken host policy file fails here, before
	// the listener comes up.
	srv, err := server.New(cfg, logger, collector, tracer, server.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	if cfg.HostPolicy.Path != "" {
		fmt.Printf("✓ Host policy loaded from %s\n", cfg.HostPolicy.Path)
	}

	// Start server in background goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for the listener to come up
	if err := waitForServerReady(cfg.Server.ListenAddress, 5*time.Second); err != nil {
		select {
		case startErr := <-errChan:
			return cli.NewCommandError("run", startErr)
		default:
		}
		return cli.NewCommandError("run", err)
	}

	scheme := "http"
	if cfg.Security.TLS.Enabled {
		scheme = "https"
	}

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: %s://%s/health\n", scheme, cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: %s://%s%s\n", scheme, cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for shutdown signal or server error
	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		// Shutdown applies the configured timeout itself
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Prism %s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	} else {
		fmt.Println("Using built-in default configuration")
	}
	fmt.Println("✓ Configuration loaded")
	fmt.Printf("✓ Size limit: %d bytes\n", cfg.Fetch.SizeLimit)
	if cfg.Fetch.AllowPrivateNetworks {
		fmt.Println("! Private network fetches are allowed")
	}
}

// waitForServerReady polls the listen address until a TCP connection
// succeeds or the timeout elapses.
func waitForServerReady(address string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", address, 250*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("no listener on %s after %s", address, timeout)
}
