package types

import (
	"fmt"
	"net/url"

	"halide-hq/prism/pkg/transform"
)

// MediaRequest is the parsed form of a media proxy request: the origin
// target plus the transformation directives found in the query string.
// ParseMediaRequest builds one per request; after that it is read-only.
type MediaRequest struct {
	// Target is the origin URL to fetch.
	Target *url.URL

	// RawTarget is the url parameter exactly as the client sent it.
	// Redirect responses point here so the client reaches the origin
	// without the proxy re-encoding the URL.
	RawTarget string

	// Filename is the cosmetic path segment of the proxy URL
	// (GET /{filename}?url=...). Clients put a filename there so saved
	// files get a sensible name; it seeds the response disposition.
	Filename string

	// MaxSize bounds the long side of the output in pixels.
	// Zero means the size directive was absent.
	MaxSize int

	// Format is the requested output format. FormatUnknown means no
	// explicit directive: the output keeps the source format where the
	// pipeline can encode it.
	Format transform.Format

	// StaticOnly collapses animated sources to their first frame.
	StaticOnly bool

	// Preset names the preset flag found on the request ("emoji",
	// "avatar", "preview", "static", "badge"), empty when none.
	Preset string
}

// Validate checks that the request carries a usable target. It returns
// a ValidationError describing the first failed field.
func (r *MediaRequest) Validate() error {
	if r.Target == nil {
		return &ValidationError{
			Field:   "url",
			Message: "url parameter is required",
		}
	}

	if r.Target.Scheme != "http" && r.Target.Scheme != "https" {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("unsupported scheme %q: only http and https targets can be proxied", r.Target.Scheme),
		}
	}

	if r.Target.Host == "" {
		return &ValidationError{
			Field:   "url",
			Message: "target URL has no host",
		}
	}

	if r.MaxSize < 0 {
		return &ValidationError{
			Field:   "size",
			Message: "size must be a positive integer",
		}
	}

	return nil
}

// ValidationError represents a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}
