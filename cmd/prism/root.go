package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Prism - streaming media reverse proxy",
	Long: `Prism is a reverse proxy that fetches media files from arbitrary origins
and streams them to clients over a single trusted endpoint.

It sits between untrusted media URLs and your users, providing:
  - Origin fetching with redirect caps and private-network guards
  - Image normalization to web-safe formats, animation preserved
  - Size-gated streaming with a redirect fallback for oversized payloads
  - A hot-reloadable host deny list
  - Prometheus metrics and OpenTelemetry tracing

For more information, visit: https://github.com/halide-hq/prism`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (built-in defaults when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Disable default completion command (we'll add our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
