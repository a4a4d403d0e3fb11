package transform

import (
	"context"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

// Options configures a Pipeline.
type Options struct {
	// MaxPixels bounds source width×height before full decode. Zero
	// disables the guard.
	MaxPixels int

	// JPEGQuality applies to JPEG output. Zero means DefaultJPEGQuality.
	JPEGQuality int
}

// Pipeline transforms spooled payloads. It holds no per-request state and
// is safe for concurrent use.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

func NewPipeline(opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Transform decodes data, applies spec, and re-encodes. Payloads the
// pipeline cannot decode at all come back as UnsupportedFormatError so
// the caller can relay them byte-identical; corrupt or over-budget
// payloads come back as DecodeError.
func (p *Pipeline) Transform(ctx context.Context, data []byte, spec Spec) (*Result, error) {
	format := Sniff(data)
	if !Transformable(format) {
		return nil, &UnsupportedFormatError{Format: format}
	}
	if _, err := probeDimensions(data, format, p.opts.MaxPixels); err != nil {
		return nil, err
	}

	switch format {
	case FormatGIF:
		return p.transformGIF(ctx, data, spec)
	case FormatAPNG:
		return p.transformAPNG(ctx, data, spec)
	default:
		return p.transformStill(data, format, spec)
	}
}

func (p *Pipeline) transformStill(data []byte, format Format, spec Spec) (*Result, error) {
	img, err := decodeStill(data, format)
	if err != nil {
		return nil, err
	}
	return p.finishStill(img, format, spec)
}

func (p *Pipeline) transformGIF(ctx context.Context, data []byte, spec Spec) (*Result, error) {
	g, err := decodeGIF(data)
	if err != nil {
		return nil, err
	}

	if len(g.Image) == 1 || spec.Animation != AnimKeepAll {
		return p.finishStill(firstGIFFrame(g), FormatGIF, spec)
	}

	srcW, srcH := gifCanvas(g)
	tw, th, scale := targetDims(srcW, srcH, spec)
	anim, err := p.mapAnimation(ctx, tw, th, scale, func(mapFrame func(*image.RGBA) image.Image) *AnimatedImage {
		return gifFrames(g, mapFrame)
	})
	if err != nil {
		return nil, err
	}

	encoded, err := encodeAnimatedGIF(anim)
	if err != nil {
		return nil, err
	}
	return &Result{Data: encoded, Format: FormatGIF, Width: tw, Height: th, Frames: len(anim.Frames)}, nil
}

func (p *Pipeline) transformAPNG(ctx context.Context, data []byte, spec Spec) (*Result, error) {
	a, err := decodeAPNG(data)
	if err != nil {
		return nil, err
	}

	animationFrames := len(a.Frames)
	if animationFrames > 1 && a.Frames[0].IsDefault {
		animationFrames--
	}
	if animationFrames <= 1 || spec.Animation != AnimKeepAll {
		return p.finishStill(firstAPNGFrame(a), FormatAPNG, spec)
	}

	b := a.Frames[0].Image.Bounds()
	tw, th, scale := targetDims(b.Dx(), b.Dy(), spec)
	anim, err := p.mapAnimation(ctx, tw, th, scale, func(mapFrame func(*image.RGBA) image.Image) *AnimatedImage {
		return apngFrames(a, mapFrame)
	})
	if err != nil {
		return nil, err
	}

	encoded, err := encodeAPNG(anim)
	if err != nil {
		return nil, err
	}
	return &Result{Data: encoded, Format: FormatAPNG, Width: tw, Height: th, Frames: len(anim.Frames)}, nil
}

// mapAnimation drives a container walk with a per-frame map that scales
// when needed and checks for cancellation between frames.
func (p *Pipeline) mapAnimation(ctx context.Context, tw, th int, scale bool, walk func(func(*image.RGBA) image.Image) *AnimatedImage) (*AnimatedImage, error) {
	var ctxErr error
	mapFrame := func(canvas *image.RGBA) image.Image {
		if ctxErr != nil {
			return canvas
		}
		if err := ctx.Err(); err != nil {
			ctxErr = err
			return canvas
		}
		if scale {
			return scaleImage(canvas, tw, th, draw.ApproxBiLinear)
		}
		return copyRGBA(canvas)
	}
	anim := walk(mapFrame)
	if ctxErr != nil {
		return nil, ctxErr
	}
	return anim, nil
}

func (p *Pipeline) finishStill(img image.Image, source Format, spec Spec) (*Result, error) {
	b := img.Bounds()
	tw, th, scale := targetDims(b.Dx(), b.Dy(), spec)
	out := img
	if scale {
		out = scaleImage(img, tw, th, draw.CatmullRom)
	}

	target := resolveStillFormat(source, spec.Format)
	encoded, err := encodeStill(out, target, p.opts.JPEGQuality)
	if err != nil {
		return nil, err
	}
	return &Result{Data: encoded, Format: target, Width: tw, Height: th, Frames: 1}, nil
}

// resolveStillFormat picks the output container for a single-frame
// result. An explicit request wins; otherwise JPEG and GIF sources keep
// their format and everything else, WebP included, becomes PNG.
func resolveStillFormat(source, requested Format) Format {
	switch requested {
	case FormatPNG, FormatJPEG, FormatGIF:
		return requested
	case FormatAPNG:
		return FormatPNG
	}
	switch source {
	case FormatJPEG:
		return FormatJPEG
	case FormatGIF:
		return FormatGIF
	default:
		return FormatPNG
	}
}
