package proxy

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"halide-hq/prism/pkg/fetch"
	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/transform"
)

// RequestError represents an error in parsing a proxy request.
type RequestError struct {
	Message string
	Code    string
	Param   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts the RequestError to the JSON error envelope.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewInvalidRequestError(e.Message, e.Param, e.Code)
}

// RecursionError marks a request that came from another media proxy
// wearing this proxy's User-Agent. Serving it would let two proxies
// fetch through each other until something gives out.
type RecursionError struct {
	UserAgent string
}

// Error implements the error interface.
func (e *RecursionError) Error() string {
	return fmt.Sprintf("refusing request from %q: proxy chains are not served", e.UserAgent)
}

// NotImplementedError marks a directive the proxy recognizes but does
// not serve.
type NotImplementedError struct {
	Feature string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	return e.Feature + " is not implemented"
}

// HandleError converts pipeline errors to JSON error responses. It maps
// parse errors, policy refusals, fetch failures, and transform failures
// to appropriate HTTP status codes and error codes.
//
// Example usage:
//
//	if err != nil {
//	    errResp := HandleError(err)
//	    WriteErrorResponse(w, errResp)
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	// Check for RequestError (parse errors)
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	// Check for field validation errors
	var valErr *types.ValidationError
	if errors.As(err, &valErr) {
		code := types.CodeInvalidParameter
		if valErr.Field == "url" {
			code = types.CodeInvalidURL
		}
		return types.NewInvalidRequestError(valErr.Message, valErr.Field, code)
	}

	var recErr *RecursionError
	if errors.As(err, &recErr) {
		return types.NewPermissionDeniedError(
			"Requests from another media proxy are not served.",
			types.CodeProxyRecursion,
		)
	}

	var notImplErr *NotImplementedError
	if errors.As(err, &notImplErr) {
		return types.NewNotImplementedError(
			fmt.Sprintf("%s is not implemented.", capitalize(notImplErr.Feature)),
		)
	}

	// Check for fetch-layer errors
	var disallowedErr *fetch.DisallowedTargetError
	if errors.As(err, &disallowedErr) {
		return types.NewPermissionDeniedError(
			fmt.Sprintf("Target %q is not allowed.", disallowedErr.Host),
			types.CodeTargetDisallowed,
		)
	}

	var statusErr *fetch.BadStatusError
	if errors.As(err, &statusErr) {
		return handleBadStatus(statusErr)
	}

	var timeoutErr *fetch.TimeoutError
	if errors.As(err, &timeoutErr) {
		return types.NewGatewayTimeoutError(
			fmt.Sprintf("The origin did not respond in time (%s).", timeoutErr.Phase),
		)
	}

	var redirectErr *fetch.RedirectError
	if errors.As(err, &redirectErr) {
		if redirectErr.Loop {
			return types.NewOriginError(
				"The origin redirect chain loops back on itself.",
				types.CodeRedirectLoop,
			)
		}
		return types.NewOriginError(
			fmt.Sprintf("The origin redirected more than %d times.", redirectErr.Hops),
			types.CodeTooManyRedirects,
		)
	}

	var originErr *fetch.OriginError
	if errors.As(err, &originErr) {
		return types.NewOriginError(
			"The origin could not be reached.",
			types.CodeOriginUnreachable,
		)
	}

	// Check for transform-layer errors. These reach the client only
	// when media.decode_failure is set to "error".
	var decodeErr *transform.DecodeError
	if errors.As(err, &decodeErr) {
		return types.NewServerError(
			fmt.Sprintf("The payload could not be decoded as %s.", decodeErr.Format),
			types.CodeDecodeFailed,
		)
	}

	// A bare deadline here means the whole-request timeout expired
	// before the origin fetch got its own timeout in.
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewGatewayTimeoutError("The request did not complete in time.")
	}

	// Default to internal server error for unknown errors
	return types.NewServerError(
		"An internal error occurred. Please try again later.",
		types.CodeInternalError,
	)
}

// handleBadStatus maps an origin status error. Client errors mirror the
// origin status so a 404 at the origin stays a 404 here; everything
// else collapses to 502 rather than implying this proxy is broken.
func handleBadStatus(err *fetch.BadStatusError) *types.ErrorResponse {
	if err.StatusCode >= 400 && err.StatusCode < 500 {
		return types.NewOriginStatusError(
			err.StatusCode,
			fmt.Sprintf("The origin returned status %d.", err.StatusCode),
		)
	}
	return types.NewOriginError(
		fmt.Sprintf("The origin returned status %d.", err.StatusCode),
		types.CodeOriginStatus,
	)
}

// FetchErrorReason maps a fetch error to its metric label. Labels are a
// fixed enum; target-derived strings never become label values.
func FetchErrorReason(err error) string {
	var (
		disallowedErr *fetch.DisallowedTargetError
		statusErr     *fetch.BadStatusError
		redirectErr   *fetch.RedirectError
		timeoutErr    *fetch.TimeoutError
		originErr     *fetch.OriginError
		certErr       *tls.CertificateVerificationError
	)
	switch {
	case errors.As(err, &disallowedErr):
		if strings.Contains(disallowedErr.Reason, "resolution") {
			return "dns"
		}
		return "disallowed"
	case errors.As(err, &statusErr):
		return "bad_status"
	case errors.As(err, &redirectErr):
		if redirectErr.Loop {
			return "redirect_loop"
		}
		return "too_many_redirects"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &certErr):
		return "tls"
	case errors.As(err, &originErr):
		if originErr.Op == "dial" {
			return "connect"
		}
		return "read"
	default:
		return "read"
	}
}

// BlockedReason maps a policy denial to its metric label, or "" when
// the denial is not a policy block (resolution failures, empty hosts).
func BlockedReason(err *fetch.DisallowedTargetError) string {
	switch {
	case strings.Contains(err.Reason, "blocked range"):
		return "private"
	case strings.Contains(err.Reason, "denied by policy"):
		if err.IP != nil {
			return "ip"
		}
		return "host"
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
