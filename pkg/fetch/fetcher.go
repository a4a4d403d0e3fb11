package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Defaults applied by NewFetcher for zero Options fields.
const (
	DefaultUserAgent      = "prism-media-proxy/1.0"
	DefaultAccept         = "image/webp,image/apng,image/png,image/*;q=0.8,*/*;q=0.5"
	DefaultConnectTimeout = 10 * time.Second
	DefaultFetchTimeout   = 60 * time.Second
	DefaultMaxRedirects   = 5
)

// Options configures a Fetcher.
type Options struct {
	// UserAgent is sent on every origin request. Origins (and this proxy
	// itself) use it to recognize proxy traffic.
	UserAgent string

	// Accept is the Accept header sent to origins.
	Accept string

	// ConnectTimeout bounds dialing a single origin address.
	ConnectTimeout time.Duration

	// FetchTimeout bounds the whole fetch, redirects and body included.
	FetchTimeout time.Duration

	// MaxRedirects bounds how many redirect hops are followed.
	MaxRedirects int
}

// Response is a fetched origin response whose status has already been
// vetted. Close releases the body and the transfer budget.
type Response struct {
	StatusCode         int
	ContentType        string
	ContentLength      int64 // -1 when the origin declared none
	ContentDisposition string
	FinalURL           *url.URL
	Redirects          int
	Body               io.ReadCloser

	cancel context.CancelFunc
}

// Close releases the response body and cancels the transfer budget.
func (r *Response) Close() error {
	if r.cancel != nil {
		defer r.cancel()
	}
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// SuggestedFilename derives a filename for the response: the origin's
// Content-Disposition filename when one is present, otherwise the last
// path segment of the final URL, otherwise "media".
func (r *Response) SuggestedFilename() string {
	if r.ContentDisposition != "" {
		if _, params, err := mime.ParseMediaType(r.ContentDisposition); err == nil {
			if name := sanitizeFilename(params["filename"]); name != "" {
				return name
			}
		}
	}
	if r.FinalURL != nil {
		if name := sanitizeFilename(path.Base(r.FinalURL.Path)); name != "" {
			return name
		}
	}
	return "media"
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

// Fetcher issues guarded single-attempt GET requests against origins over
// a shared pooled transport. It is safe for concurrent use.
type Fetcher struct {
	opts   Options
	guard  *Guard
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A nil guard blocks private addresses with
// no deny list.
func NewFetcher(opts Options, guard *Guard, logger *slog.Logger) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Accept == "" {
		opts.Accept = DefaultAccept
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if guard == nil {
		guard = &Guard{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fetcher{
		opts:   opts,
		guard:  guard,
		logger: logger,
	}

	// The guard's Control hook runs on the literal address being dialed,
	// after DNS, so a rebinding origin cannot slip past CheckHost.
	dialer := &net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
		Control:   guard.DialControl,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}
	f.client = &http.Client{
		Transport:     transport,
		CheckRedirect: f.checkRedirect,
	}
	return f
}

// Fetch issues a single GET against target. There are no retries. The
// returned response has a 2xx status other than 204; everything else
// comes back as a typed error.
func (f *Fetcher) Fetch(ctx context.Context, target *url.URL) (*Response, error) {
	if err := f.guard.CheckHost(ctx, target.Hostname()); err != nil {
		return nil, err
	}

	fctx, cancel := context.WithTimeout(ctx, f.opts.FetchTimeout)
	hops := 0
	fctx = context.WithValue(fctx, redirectCountKey{}, &hops)
	req, err := http.NewRequestWithContext(fctx, http.MethodGet, target.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building origin request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", f.opts.Accept)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		cancel()
		return nil, classify(err)
	}

	if !proxyableStatus(resp.StatusCode) {
		// Drain a little so the connection can be reused, then give up.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<10))
		resp.Body.Close()
		cancel()
		return nil, &BadStatusError{StatusCode: resp.StatusCode}
	}

	f.logger.Debug("origin responded",
		slog.String("host", target.Hostname()),
		slog.Int("status", resp.StatusCode),
		slog.Int64("content_length", resp.ContentLength),
		slog.Int("redirects", hops),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Response{
		StatusCode:         resp.StatusCode,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentLength:      resp.ContentLength,
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		FinalURL:           resp.Request.URL,
		Redirects:          hops,
		Body:               resp.Body,
		cancel:             cancel,
	}, nil
}

// proxyableStatus reports whether an origin status carries media worth
// relaying. A 204 has no body, so it counts as a bad status.
func proxyableStatus(code int) bool {
	return code >= 200 && code < 300 && code != http.StatusNoContent
}

// redirectCountKey carries the per-fetch hop counter through the
// redirect chain. The http client calls checkRedirect synchronously
// from Do, so plain writes are safe.
type redirectCountKey struct{}

// checkRedirect enforces the hop budget, detects revisited URLs, and
// re-runs the guard on every hop target.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if n, ok := req.Context().Value(redirectCountKey{}).(*int); ok {
		*n = len(via)
	}
	if len(via) > f.opts.MaxRedirects {
		return &RedirectError{Hops: f.opts.MaxRedirects}
	}
	for _, prev := range via {
		if sameLocation(prev.URL, req.URL) {
			return &RedirectError{Loop: true, Location: req.URL.Redacted()}
		}
	}
	return f.guard.CheckHost(req.Context(), req.URL.Hostname())
}

func sameLocation(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host && a.Path == b.Path && a.RawQuery == b.RawQuery
}

// classify maps a transport error from http.Client.Do to this package's
// typed errors. Guard and redirect errors surface as themselves through
// the url.Error wrapping; context cancellation passes through untouched
// so callers can recognize a departed client.
func classify(err error) error {
	var disallowed *DisallowedTargetError
	if errors.As(err, &disallowed) {
		return disallowed
	}
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		return redirect
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	phase := "transfer"
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		phase = "connect"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Phase: phase, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Phase: phase, Err: err}
	}
	if opErr != nil {
		return &OriginError{Op: opErr.Op, Err: err}
	}
	return &OriginError{Op: "request", Err: err}
}
