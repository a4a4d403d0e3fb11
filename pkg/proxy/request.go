package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/transform"
)

const (
	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// presetFlags is the recognition order for preset query flags. The
// first flag present wins. The static flag is handled separately: it
// composes with the other presets as an animation modifier, and
// selects the static preset only when it stands alone.
var presetFlags = []string{
	transform.PresetBadge,
	transform.PresetEmoji,
	transform.PresetAvatar,
	transform.PresetPreview,
}

// ParseMediaRequest parses an HTTP request's query string into a
// MediaRequest. Unknown parameters are ignored so clients built
// against a richer proxy keep working; recognized parameters with
// unusable values are rejected.
//
// Example usage:
//
//	req, err := ParseMediaRequest(r)
//	if err != nil {
//	    // Handle validation error
//	    return err
//	}
func ParseMediaRequest(r *http.Request) (*types.MediaRequest, error) {
	query := r.URL.Query()

	raw := query.Get("url")
	if raw == "" {
		return nil, &RequestError{
			Message: "url parameter is required",
			Code:    types.CodeMissingURL,
			Param:   "url",
		}
	}

	target, err := url.Parse(raw)
	if err != nil {
		return nil, &RequestError{
			Message: fmt.Sprintf("url parameter is not a valid URL: %v", err),
			Code:    types.CodeInvalidURL,
			Param:   "url",
		}
	}

	req := &types.MediaRequest{
		Target:    target,
		RawTarget: raw,
		Filename:  requestFilename(r.URL.Path),
	}

	if s := query.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, &RequestError{
				Message: fmt.Sprintf("size must be a positive integer, got %q", s),
				Code:    types.CodeInvalidParameter,
				Param:   "size",
			}
		}
		req.MaxSize = n
	}

	if f := query.Get("format"); f != "" {
		format, ok := transform.ParseFormat(f)
		if !ok {
			return nil, &RequestError{
				Message: fmt.Sprintf("unsupported output format %q", f),
				Code:    types.CodeInvalidParameter,
				Param:   "format",
			}
		}
		req.Format = format
	}

	if query.Has("static") {
		req.StaticOnly = true
	}

	for _, name := range presetFlags {
		if query.Has(name) {
			req.Preset = name
			break
		}
	}
	if req.Preset == "" && req.StaticOnly {
		req.Preset = transform.PresetStatic
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// requestFilename extracts the cosmetic filename segment from the
// request path. The segment is decorative: clients put a filename
// there so saved files get a sensible name.
func requestFilename(p string) string {
	base := path.Base(path.Clean(p))
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// CheckRecursion refuses requests that arrive wearing this proxy's own
// User-Agent product token. A media proxy that answers its own kind
// can be driven around a loop of proxied URLs, each hop fetching the
// next, so requests from one are turned away at the door.
func CheckRecursion(r *http.Request, product string) error {
	if product == "" {
		return nil
	}
	if strings.HasPrefix(r.UserAgent(), product) {
		return &RecursionError{UserAgent: r.UserAgent()}
	}
	return nil
}

// AgentProduct returns the product token of a User-Agent string: the
// part before the "/" version separator. Recursion checks match on the
// token so an instance one version behind is still recognized.
func AgentProduct(userAgent string) string {
	if i := strings.IndexByte(userAgent, '/'); i > 0 {
		return userAgent[:i]
	}
	return userAgent
}

// ExtractRequestID extracts the request ID from the request headers.
// Returns an empty string when the client did not send one; the
// request ID middleware generates one in that case.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}
