// Package config provides configuration management for Prism.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// The proxy also runs without any configuration file: NewDefaultConfig
// returns a fully populated configuration, and Initialize("") uses it.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PRISM_SECTION_FIELD.
// For example:
//
//   - PRISM_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - PRISM_FETCH_SIZE_LIMIT overrides fetch.size_limit
//   - PRISM_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Server.ListenAddress)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., listen address, TLS cert paths)
//   - Range validation (e.g., jpeg quality must be 1-100)
//   - Enum validation (e.g., decode_failure must be passthrough or error)
//   - Logical validation (e.g., tracing endpoint required when tracing is on)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - server.listen_address: listen address is required
//	  - media.jpeg_quality: jpeg quality must be between 1 and 100
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	fetch:
//	  size_limit: 100000000
//	  fetch_timeout: "60s"
//
//	media:
//	  max_dimension: 2048
//	  decode_failure: "passthrough"
//
//	host_policy:
//	  path: "./blocklist.yaml"
//	  watch: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses read-write
// locks to allow concurrent reads while protecting against concurrent writes during
// reload operations.
package config
