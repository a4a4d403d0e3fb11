package logging

import (
	"net/url"
	"regexp"
	"strings"
)

// mask replaces credential material in log output.
const mask = "***"

// bearerPattern matches bearer tokens in free-form strings.
var bearerPattern = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// Redactor masks credentials that show up in logged values: URL
// userinfo, signed query parameters, bearer tokens, and values paired
// with sensitive keys.
type Redactor struct {
	// sensitiveParams are query parameter names whose values are
	// masked when a URL is logged (lowercase)
	sensitiveParams map[string]struct{}
}

// defaultSensitiveParams covers the signing schemes commonly seen on
// fetched media URLs (S3 presigned, GCS signed, generic tokens).
var defaultSensitiveParams = []string{
	"token",
	"access_token",
	"auth",
	"key",
	"api_key",
	"apikey",
	"secret",
	"sig",
	"signature",
	"x-amz-signature",
	"x-amz-credential",
	"x-amz-security-token",
	"x-goog-signature",
	"x-goog-credential",
}

// NewRedactor creates a Redactor. Additional query parameter names to
// mask can be supplied on top of the defaults.
func NewRedactor(extraParams []string) *Redactor {
	params := make(map[string]struct{}, len(defaultSensitiveParams)+len(extraParams))
	for _, p := range defaultSensitiveParams {
		params[strings.ToLower(p)] = struct{}{}
	}
	for _, p := range extraParams {
		params[strings.ToLower(p)] = struct{}{}
	}
	return &Redactor{sensitiveParams: params}
}

// RedactString masks credentials in a single string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	value = bearerPattern.ReplaceAllString(value, "Bearer "+mask)
	if strings.Contains(value, "://") {
		value = r.RedactURL(value)
	}
	return value
}

// RedactURL masks the userinfo component and sensitive query parameter
// values of a URL. Strings that do not parse as absolute URLs are
// returned unchanged.
func (r *Redactor) RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	changed := false

	hadUser := u.User != nil
	if hadUser {
		// url.User percent-encodes the mask, so the userinfo is dropped
		// here and the literal mask spliced back in below.
		u.User = nil
		changed = true
	}

	if u.RawQuery != "" {
		// Work on the raw query to keep parameter order and leave
		// untouched values unencoded.
		params := strings.Split(u.RawQuery, "&")
		for i, param := range params {
			name, _, hasValue := strings.Cut(param, "=")
			if hasValue && r.isSensitiveParam(name) {
				params[i] = name + "=" + mask
				changed = true
			}
		}
		u.RawQuery = strings.Join(params, "&")
	}

	if !changed {
		return raw
	}

	s := u.String()
	if hadUser {
		s = strings.Replace(s, "://", "://"+mask+"@", 1)
	}
	return s
}

// RedactArgs masks credentials in variadic log arguments.
// Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if !ok {
			continue
		}

		if isSensitiveKey(key) {
			redacted[i] = mask
			continue
		}

		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

// isSensitiveParam checks if a query parameter name carries credential
// material.
func (r *Redactor) isSensitiveParam(name string) bool {
	_, ok := r.sensitiveParams[strings.ToLower(name)]
	return ok
}

// sensitiveKeys are log field names whose values are always masked.
var sensitiveKeys = []string{
	"authorization",
	"password", "passwd", "pwd",
	"secret", "token",
	"api_key", "apikey",
	"signature",
	"cookie",
	"private_key", "privatekey",
}

// isSensitiveKey checks if a log field name indicates credential material.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}
