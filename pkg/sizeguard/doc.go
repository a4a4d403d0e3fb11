// Package sizeguard enforces the maximum proxyable payload size.
//
// # Overview
//
// The size guard sits between the origin fetcher and the rest of the
// pipeline. It produces exactly one Verdict per request:
//
//   - WithinLimit: the complete payload (bounded by the limit) is available
//     for transformation or passthrough.
//   - Exceeded: the payload is too large to proxy; the router answers with
//     a redirect to the origin instead of serving any bytes itself.
//
// # Enforcement
//
// Two paths feed the verdict:
//
//   - Fast path: when the origin declares a Content-Length greater than the
//     limit, the verdict is Exceeded without reading a single body byte.
//   - Streaming path: the body is read chunk by chunk through a counting
//     reader. The moment the running total passes the limit, reading stops.
//     The overshoot is bounded by one chunk.
//
// The declared length is only ever a hint: a within-limit declaration is
// still verified against actual bytes, so a misreporting origin cannot push
// an oversized payload through the proxy.
//
// # Memory
//
// Spooling is bounded by limit + one chunk regardless of how large the
// origin payload really is. The guard never buffers past that point.
package sizeguard
