package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"halide-hq/prism/pkg/proxy"
	"halide-hq/prism/pkg/proxy/middleware"
	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/telemetry/logging"
	"halide-hq/prism/pkg/telemetry/metrics"
	"halide-hq/prism/pkg/telemetry/tracing"
)

// streamChunkSize bounds each payload write so a slow client ties up a
// bounded buffer, not the whole spool.
const streamChunkSize = 32 * 1024

// MediaHandler serves the proxy endpoint: parse the request, route it
// through the pipeline, and write exactly one response.
type MediaHandler struct {
	Router  *proxy.Router
	Product string
	Logger  *logging.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
}

// NewMediaHandler creates a media handler. product is the proxy's own
// User-Agent product token; requests arriving with it are refused as
// recursion.
func NewMediaHandler(router *proxy.Router, product string, logger *logging.Logger, collector *metrics.Collector, tracer *tracing.Tracer) *MediaHandler {
	return &MediaHandler{
		Router:  router,
		Product: product,
		Logger:  logger,
		Metrics: collector,
		Tracer:  tracer,
	}
}

// ServeHTTP implements http.Handler.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handleMediaRequest(w, r, h)
}

// handleMediaRequest drives one request from query string to response.
func handleMediaRequest(w http.ResponseWriter, r *http.Request, h *MediaHandler) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	startTime := time.Now()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("Method %s not allowed. Use GET instead.", r.Method),
			"method",
			types.CodeMethodNotAllowed,
		)
		errResp.Status = http.StatusMethodNotAllowed
		writeError(ctx, w, h, errResp)
		return
	}

	// A bare request with no query string is the healthcheck ping.
	if r.URL.RawQuery == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			if _, err := w.Write([]byte("OK")); err != nil {
				h.Logger.ErrorContext(ctx, "failed to write healthcheck response", "error", err)
			}
		}
		return
	}

	if err := proxy.CheckRecursion(r, h.Product); err != nil {
		h.Logger.WarnContext(ctx, "refusing request from another proxy",
			"request_id", requestID,
			"user_agent", r.UserAgent(),
		)
		writeError(ctx, w, h, proxy.HandleError(err))
		return
	}

	req, err := proxy.ParseMediaRequest(r)
	if err != nil {
		h.Logger.InfoContext(ctx, "rejecting malformed request",
			"request_id", requestID,
			"error", err,
		)
		writeError(ctx, w, h, proxy.HandleError(err))
		return
	}

	ctx = logging.WithTargetHost(ctx, req.Target.Hostname())
	if req.Preset != "" {
		ctx = logging.WithPreset(ctx, req.Preset)
	}

	ctx, span := h.Tracer.Start(ctx, "proxy_request")
	defer span.End()
	tracing.SetRequestAttributes(span, requestID, req.Preset)
	tracing.SetTargetAttributes(span, req.Target.Scheme, req.Target.Hostname())

	outcome := h.Router.Route(ctx, req)
	tracing.SetOutcomeAttribute(span, outcome.Kind.String())

	bytesOut := writeOutcome(ctx, w, r, h, outcome)

	h.Metrics.RecordRequest(presetLabel(req.Preset), outcome.Kind.String(), time.Since(startTime), bytesOut)
	h.Logger.InfoContext(ctx, "request settled",
		"request_id", requestID,
		"outcome", outcome.Kind.String(),
		"bytes", bytesOut,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}

// writeOutcome maps the settled outcome onto the wire and returns the
// number of payload bytes written.
func writeOutcome(ctx context.Context, w http.ResponseWriter, r *http.Request, h *MediaHandler, outcome proxy.Outcome) int64 {
	switch outcome.Kind {
	case proxy.OutcomeRedirected:
		w.Header().Set("Location", outcome.Location)
		w.WriteHeader(http.StatusFound)
		return 0

	case proxy.OutcomeErrored:
		if clientGone(ctx, outcome.Err) {
			h.Logger.WarnContext(ctx, "client disconnected, dropping response",
				"request_id", middleware.GetRequestID(ctx),
			)
			return 0
		}
		errResp := proxy.HandleError(outcome.Err)
		h.Logger.ErrorContext(ctx, "request failed",
			"request_id", middleware.GetRequestID(ctx),
			"status", errResp.HTTPStatus(),
			"error", outcome.Err,
		)
		writeError(ctx, w, h, errResp)
		return 0

	default:
		return streamPayload(ctx, w, r, h, outcome)
	}
}

// streamPayload writes the payload with its full header set. The spool
// is complete before the first byte, so Content-Length is always exact.
func streamPayload(ctx context.Context, w http.ResponseWriter, r *http.Request, h *MediaHandler, outcome proxy.Outcome) int64 {
	header := w.Header()
	header.Set("Content-Type", outcome.ContentType)
	header.Set("Content-Length", strconv.Itoa(len(outcome.Payload)))
	header.Set("Cache-Control", "max-age=31536000, immutable")
	header.Set("Content-Security-Policy", "default-src 'none'")
	header.Set("Cross-Origin-Resource-Policy", "cross-origin")
	header.Set("X-Content-Type-Options", "nosniff")
	if outcome.Filename != "" {
		header.Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": outcome.Filename}))
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return 0
	}

	var written int64
	payload := outcome.Payload
	for len(payload) > 0 {
		if err := ctx.Err(); err != nil {
			h.Logger.WarnContext(ctx, "client disconnected mid-stream",
				"request_id", middleware.GetRequestID(ctx),
				"written_bytes", written,
			)
			return written
		}

		chunk := payload
		if len(chunk) > streamChunkSize {
			chunk = chunk[:streamChunkSize]
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			h.Logger.WarnContext(ctx, "failed to write payload",
				"request_id", middleware.GetRequestID(ctx),
				"written_bytes", written,
				"error", err,
			)
			return written
		}
		payload = payload[len(chunk):]
	}
	return written
}

// clientGone reports whether err is the client abandoning the request
// rather than a pipeline failure.
func clientGone(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) && ctx.Err() != nil
}

func writeError(ctx context.Context, w http.ResponseWriter, h *MediaHandler, errResp *types.ErrorResponse) {
	if err := proxy.WriteErrorResponse(w, errResp); err != nil {
		h.Logger.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}

// presetLabel is the request-counter label for a preset. Requests
// without a preset flag land under "custom".
func presetLabel(preset string) string {
	if preset == "" {
		return "custom"
	}
	return preset
}
