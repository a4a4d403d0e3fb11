// Package types defines the request and error types shared across the
// proxy server.
//
// # Core Types
//
// MediaRequest is the parsed form of a proxy request: the origin target
// plus the transformation directives (size, format, static, preset)
// found in the query string. ParseMediaRequest in the proxy package
// builds one; handlers and the router treat it as read-only.
//
// ErrorResponse is the JSON error envelope used for every failed
// request:
//
//	{
//	  "error": {
//	    "message": "url parameter is required",
//	    "type": "invalid_request_error",
//	    "param": "url",
//	    "code": "missing_url"
//	  }
//	}
//
// The HTTP status is derived from the error type, except for mirrored
// origin client errors which carry the origin's own status (a 404 at
// the origin answers 404 here, with an origin_error body).
//
// # Successful Responses
//
// Successful responses do not use a type from this package: the proxy
// answers with the media payload itself, or with a 302 redirect to the
// origin when the payload is too large to process.
package types
