package proxy

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"time"

	"halide-hq/prism/pkg/config"
	"halide-hq/prism/pkg/fetch"
	"halide-hq/prism/pkg/proxy/types"
	"halide-hq/prism/pkg/sizeguard"
	"halide-hq/prism/pkg/telemetry/logging"
	"halide-hq/prism/pkg/telemetry/metrics"
	"halide-hq/prism/pkg/telemetry/tracing"
	"halide-hq/prism/pkg/transform"
)

// OriginFetcher fetches a target URL. *fetch.Fetcher implements it; the
// indirection keeps the router testable without sockets.
type OriginFetcher interface {
	Fetch(ctx context.Context, target *url.URL) (*fetch.Response, error)
}

// Router drives one parsed request through fetch, size gate, and
// transform, and settles it into exactly one Outcome. It holds no
// per-request state and is safe for concurrent use.
type Router struct {
	media    config.MediaConfig
	fetcher  OriginFetcher
	guard    *sizeguard.Guard
	pipeline *transform.Pipeline
	logger   *logging.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
}

// NewRouter creates a Router. All arguments must be non-nil; the size
// gate and transform pipeline are built from cfg.
func NewRouter(cfg *config.Config, fetcher OriginFetcher, logger *logging.Logger, collector *metrics.Collector, tracer *tracing.Tracer) *Router {
	return &Router{
		media:   cfg.Media,
		fetcher: fetcher,
		guard:   sizeguard.New(cfg.Fetch.SizeLimit),
		pipeline: transform.NewPipeline(transform.Options{
			MaxPixels:   cfg.Media.MaxPixels,
			JPEGQuality: cfg.Media.JPEGQuality,
		}, logger.Slog()),
		logger:  logger,
		metrics: collector,
		tracer:  tracer,
	}
}

// Route drives req through the pipeline. It always settles on exactly
// one outcome; a request the client abandoned comes back as Errored
// with the context error inside, which handlers recognize and drop.
func (rt *Router) Route(ctx context.Context, req *types.MediaRequest) Outcome {
	if req.Preset == transform.PresetBadge {
		// Refused ahead of the fetch: badges were never implemented
		// and fetching the target first would only delay the answer.
		return Errored(&NotImplementedError{Feature: "badge rendering"})
	}

	fetchCtx, span := rt.tracer.Start(ctx, "fetch_origin")
	fetchStart := time.Now()
	resp, err := rt.fetcher.Fetch(fetchCtx, req.Target)
	if err != nil {
		rt.recordFetchFailure(err)
		tracing.SetError(span, err)
		span.End()
		return Errored(err)
	}
	defer resp.Close()

	declared := resp.ContentLength
	if declared < 0 {
		declared = 0
	}
	rt.metrics.RecordFetch(metrics.StatusClass(resp.StatusCode), time.Since(fetchStart), declared)
	rt.metrics.RecordRedirects(resp.Redirects)
	tracing.SetFetchAttributes(span, resp.StatusCode, resp.ContentLength, resp.Redirects)
	span.End()

	// A declared length over the limit settles the request without
	// reading a single body byte.
	if _, exceeded := rt.guard.CheckDeclared(resp.ContentLength); exceeded {
		rt.metrics.RecordSizeExceeded("declared")
		rt.logger.InfoContext(ctx, "origin payload over size limit, redirecting",
			"declared_bytes", resp.ContentLength,
			"limit_bytes", rt.guard.Limit,
		)
		return Redirected(req.RawTarget)
	}

	verdict, err := rt.guard.Consume(ctx, resp.Body, resp.ContentLength)
	if err != nil {
		return Errored(err)
	}
	if verdict.Exceeded {
		// Undeclared overrun: the spool is discarded and the origin
		// connection torn down mid-body.
		resp.Close()
		rt.metrics.RecordSizeExceeded("streamed")
		rt.logger.InfoContext(ctx, "origin payload over size limit, redirecting",
			"read_bytes", verdict.BytesRead,
			"limit_bytes", rt.guard.Limit,
		)
		return Redirected(req.RawTarget)
	}

	return rt.transformOutcome(ctx, req, resp, verdict.Payload)
}

// transformOutcome runs the spooled payload through the transform
// pipeline and settles the streamed outcome, falling back to
// byte-identical passthrough where the pipeline cannot serve.
func (rt *Router) transformOutcome(ctx context.Context, req *types.MediaRequest, resp *fetch.Response, payload []byte) Outcome {
	spec := rt.resolveSpec(req)
	source := transform.Sniff(payload)

	transformCtx, span := rt.tracer.Start(ctx, "transform")
	defer span.End()

	start := time.Now()
	result, err := rt.pipeline.Transform(transformCtx, payload, spec)
	duration := time.Since(start)

	var (
		unsupportedErr *transform.UnsupportedFormatError
		decodeErr      *transform.DecodeError
	)
	switch {
	case err == nil:
		rt.metrics.RecordTransform(source.String(), "transformed", duration, len(payload), len(result.Data))
		tracing.SetMediaAttributes(span, result.Format.String(), result.Width, result.Height, result.Frames)
		tracing.SetTransformAttributes(span, "transformed", len(payload), len(result.Data))
		rt.logger.DebugContext(ctx, "payload transformed",
			"source_format", source.String(),
			"output_format", result.Format.String(),
			"width", result.Width,
			"height", result.Height,
			"frames", result.Frames,
			"input_bytes", len(payload),
			"output_bytes", len(result.Data),
		)
		return Streamed(result.Data, result.Format.MIME(), outputFilename(req, resp, result.Format))

	case errors.As(err, &unsupportedErr):
		// Not a raster the pipeline decodes: relay byte-identical.
		rt.metrics.RecordTransform(source.String(), "passthrough", duration, len(payload), len(payload))
		tracing.SetTransformAttributes(span, "passthrough", len(payload), len(payload))
		return Streamed(payload, passthroughContentType(source, resp.ContentType), outputFilename(req, resp, source))

	case errors.As(err, &decodeErr):
		rt.metrics.RecordDecodeFailure(source.String())
		rt.metrics.RecordTransform(source.String(), "failed", duration, len(payload), 0)
		tracing.SetError(span, err)
		if rt.media.DecodeFailure == "error" {
			return Errored(err)
		}
		// Decode failure policy is passthrough: a payload that sniffed
		// as an image but will not decode is served as it arrived.
		rt.logger.WarnContext(ctx, "payload failed to decode, relaying as-is",
			"format", source.String(),
			"error", err,
		)
		return Streamed(payload, passthroughContentType(source, resp.ContentType), outputFilename(req, resp, source))

	default:
		// Context cancellation or an encode failure.
		tracing.SetError(span, err)
		return Errored(err)
	}
}

// resolveSpec turns request directives into a transform spec. Without
// directives every raster still gets the sanitization pass: decode,
// bound to the dimension cap, re-encode.
func (rt *Router) resolveSpec(req *types.MediaRequest) transform.Spec {
	if spec, ok := transform.PresetSpec(req.Preset); ok {
		if req.StaticOnly {
			spec.Animation = transform.AnimFirstFrame
		}
		spec.Format = req.Format
		return spec
	}

	box := rt.media.MaxDimension
	if req.MaxSize > 0 {
		box = req.MaxSize
		if limit := rt.media.MaxSize; limit > 0 && box > limit {
			box = limit
		}
	}

	spec := transform.Spec{
		MaxWidth:  box,
		MaxHeight: box,
		Mode:      transform.ModeFit,
		Format:    req.Format,
	}
	if req.StaticOnly {
		spec.Animation = transform.AnimFirstFrame
	}
	return spec
}

// recordFetchFailure updates fetch failure metrics. Abandoned requests
// are not origin failures and stay out of the error counters.
func (rt *Router) recordFetchFailure(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	rt.metrics.RecordFetchError(FetchErrorReason(err))

	var disallowedErr *fetch.DisallowedTargetError
	if errors.As(err, &disallowedErr) {
		if reason := BlockedReason(disallowedErr); reason != "" {
			rt.metrics.RecordBlocked(reason)
		}
	}
}

// outputFilename names the payload for the response disposition. The
// cosmetic path segment wins over the origin's own name; either way
// the extension is corrected so a saved file opens as what it now is.
func outputFilename(req *types.MediaRequest, resp *fetch.Response, format transform.Format) string {
	name := req.Filename
	if name == "" {
		name = resp.SuggestedFilename()
	}
	return fixExtension(name, format)
}

// fixExtension replaces the filename extension with the canonical one
// for the format. Unknown formats leave the name alone.
func fixExtension(name string, format transform.Format) string {
	want := format.Ext()
	if want == "" || name == "" {
		return name
	}
	ext := path.Ext(name)
	if strings.EqualFold(ext, want) {
		return name
	}
	return strings.TrimSuffix(name, ext) + want
}

// passthroughContentType picks the Content-Type for a relayed payload:
// the sniffed format when the bytes identify themselves, the origin's
// header when they do not, and octet-stream as the floor.
func passthroughContentType(source transform.Format, originType string) string {
	if mime := source.MIME(); mime != "" {
		return mime
	}
	if originType != "" {
		return originType
	}
	return "application/octet-stream"
}
