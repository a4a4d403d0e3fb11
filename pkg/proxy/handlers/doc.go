// Package handlers provides the HTTP handlers for the proxy server.
//
// The package has a single substantial handler, MediaHandler, which owns
// the proxy endpoint. Everything else the server mounts (health probes,
// metrics exposition) comes from the telemetry packages.
//
// # Request Flow
//
// MediaHandler follows one pattern for every request:
//
//  1. Gate the method: only GET and HEAD are served.
//  2. Answer the healthcheck ping: a bare request with no query string
//     gets "OK" and goes no further.
//  3. Refuse recursion: a User-Agent carrying the proxy's own product
//     token means another instance is asking, and the chain stops here.
//  4. Parse query directives into a MediaRequest.
//  5. Route through fetch, size gate, and transform.
//  6. Write the single settled outcome: payload, redirect, or error.
//
// # Response Surface
//
// A streamed payload carries the full header set in one shot:
//
//	Content-Type: image/png
//	Content-Length: 48213
//	Cache-Control: max-age=31536000, immutable
//	Content-Disposition: inline; filename=photo.png
//	Content-Security-Policy: default-src 'none'
//	Cross-Origin-Resource-Policy: cross-origin
//	X-Content-Type-Options: nosniff
//
// Content-Length is always exact because the payload is fully spooled
// before the first byte is written. HEAD requests receive the same
// headers and no body.
//
// An oversized origin payload is not an error: the client is redirected
// to the origin with a 302 and fetches it directly.
//
// # Error Handling
//
// Failures are written as a JSON envelope with a mapped status:
//
//	{
//	  "error": {
//	    "message": "The origin returned status 404.",
//	    "type": "origin_error",
//	    "code": "origin_status"
//	  }
//	}
//
// A client that disconnected mid-request gets nothing: the cancellation
// is logged and the response dropped, since there is no one to read it.
package handlers
