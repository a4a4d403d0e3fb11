// Package proxy implements the request pipeline of the media proxy:
// parsing, routing, and the outcome model that every request settles
// into.
//
// # Architecture
//
// The pipeline runs entirely within one request goroutine and has four
// stages with a strict data flow:
//
//   - Parse: ParseMediaRequest turns the query string into a
//     types.MediaRequest (target URL plus transform directives)
//   - Fetch: the guarded origin fetcher retrieves the payload
//   - Size gate: the spooled body is held against the byte limit
//     before anything is written to the client
//   - Transform: supported rasters are decoded, bounded, re-encoded;
//     everything else passes through byte-identical
//
// Router drives the last three stages and settles exactly one Outcome
// per request:
//
//   - Streamed: a payload served from the proxy's buffer
//   - Redirected: the origin body was too large to process, the client
//     is sent to the origin directly
//   - Errored: a typed error, mapped to a JSON envelope by HandleError
//
// # Basic Usage
//
//	router := proxy.NewRouter(cfg, fetcher, logger, collector, tracer)
//
//	req, err := proxy.ParseMediaRequest(r)
//	if err != nil {
//	    proxy.WriteErrorResponse(w, proxy.HandleError(err))
//	    return
//	}
//
//	outcome := router.Route(r.Context(), req)
//
// # Request Flow
//
//  1. Parse and validate the url parameter and directives
//  2. Refuse recursive requests (CheckRecursion) and badge presets
//  3. Fetch the origin through the SSRF guard and redirect budget
//  4. Settle the size verdict: declared Content-Length first, then the
//     spooled byte count
//  5. Transform or pass through, per the sniffed payload format
//  6. Hand the outcome to the response streamer
//
// # Error Handling
//
// Failures are typed (RequestError, RecursionError, and the fetch and
// transform error types) and mapped centrally by HandleError into the
// JSON envelope:
//
//	{
//	  "error": {
//	    "message": "The origin returned status 404.",
//	    "type": "origin_error",
//	    "code": "origin_status"
//	  }
//	}
//
// Origin 4xx statuses mirror through as-is; origin 5xx and transport
// failures collapse to 502. A payload over the size limit is not an
// error: it produces the Redirected outcome.
package proxy
