package types

import "net/http"

// ErrorResponse is the JSON error envelope the proxy returns for every
// failed request.
type ErrorResponse struct {
	// Status overrides the HTTP status derived from the error type.
	// Zero means derive from Type. Mirrored origin statuses set it so a
	// 404 at the origin stays a 404 here.
	Status int `json:"-"`

	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	// Possible values: "invalid_request_error", "permission_denied",
	// "origin_error", "gateway_timeout", "server_error",
	// "service_unavailable", "not_implemented".
	Type string `json:"type"`

	// Param identifies the request parameter that caused the error.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants.
const (
	ErrorTypeInvalidRequest     = "invalid_request_error"
	ErrorTypePermissionDenied   = "permission_denied"
	ErrorTypeOriginError        = "origin_error"
	ErrorTypeGatewayTimeout     = "gateway_timeout"
	ErrorTypeServerError        = "server_error"
	ErrorTypeServiceUnavailable = "service_unavailable"
	ErrorTypeNotImplemented     = "not_implemented"
)

// Error code constants.
const (
	CodeMissingURL        = "missing_url"
	CodeInvalidURL        = "invalid_url"
	CodeInvalidParameter  = "invalid_parameter"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeTargetDisallowed  = "target_disallowed"
	CodeProxyRecursion    = "proxy_recursion"
	CodeOriginStatus      = "origin_status"
	CodeOriginUnreachable = "origin_unreachable"
	CodeOriginTimeout     = "origin_timeout"
	CodeRedirectLoop      = "redirect_loop"
	CodeTooManyRedirects  = "too_many_redirects"
	CodeDecodeFailed      = "decode_failed"
	CodeOverloaded        = "overloaded"
	CodeInternalError     = "internal_error"
	CodeNotImplemented    = "not_implemented"
)

// NewErrorResponse creates an error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests.
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewPermissionDeniedError creates an error response for targets the
// proxy refuses to serve.
func NewPermissionDeniedError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypePermissionDenied, "", code)
}

// NewOriginError creates an error response for origin failures.
func NewOriginError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeOriginError, "", code)
}

// NewOriginStatusError mirrors an origin client-error status. The
// response status is the origin's own so caches and clients see the
// same failure they would have seen fetching directly.
func NewOriginStatusError(statusCode int, message string) *ErrorResponse {
	resp := NewErrorResponse(message, ErrorTypeOriginError, "", CodeOriginStatus)
	resp.Status = statusCode
	return resp
}

// NewGatewayTimeoutError creates an error response for origin timeouts.
func NewGatewayTimeoutError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeGatewayTimeout, "", CodeOriginTimeout)
}

// NewServerError creates an error response for internal failures.
func NewServerError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", code)
}

// NewServiceUnavailableError creates an error response for requests
// shed under load.
func NewServiceUnavailableError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServiceUnavailable, "", CodeOverloaded)
}

// NewNotImplementedError creates an error response for directives the
// proxy recognizes but does not serve.
func NewNotImplementedError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeNotImplemented, "", CodeNotImplemented)
}

// HTTPStatus returns the HTTP status code to write for this response:
// the explicit Status when one was set, otherwise the status derived
// from the error type.
func (r *ErrorResponse) HTTPStatus() int {
	if r.Status != 0 {
		return r.Status
	}
	return r.Error.HTTPStatusCode()
}

// HTTPStatusCode returns the HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypePermissionDenied:
		return http.StatusForbidden
	case ErrorTypeOriginError:
		return http.StatusBadGateway
	case ErrorTypeGatewayTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeNotImplemented:
		return http.StatusNotImplemented
	case ErrorTypeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
