// Prism is a streaming reverse proxy for media files.
//
// It fetches media from arbitrary origins on behalf of clients, providing:
//   - Origin fetching with redirect caps and private-network guards
//   - Image normalization to web-safe formats, animation preserved
//   - Size-gated streaming with a redirect fallback for oversized payloads
//   - A hot-reloadable host deny list
//   - Prometheus metrics and OpenTelemetry tracing
//
// Usage:
//
//	# Start server with built-in defaults
//	prism run
//
//	# Start with a configuration file
//	prism run --config /path/to/config.yaml
//
//	# Show version information
//	prism version
//
//	# Check a configuration file without starting the server
//	prism validate --config /path/to/config.yaml
//
// For complete documentation, see: https://github.com/halide-hq/prism
package main

func main() {
	Execute()
}
