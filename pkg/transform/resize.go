package transform

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// targetDims computes the output dimensions for a w×h source under spec.
// Aspect ratio is preserved and the scale factor never exceeds 1. The
// returned bool reports whether scaling is needed at all.
func targetDims(w, h int, spec Spec) (int, int, bool) {
	if w <= 0 || h <= 0 || spec.MaxWidth <= 0 || spec.MaxHeight <= 0 {
		return w, h, false
	}

	var scale float64
	switch spec.Mode {
	case ModeCover:
		// Shrink until the smaller side matches the box, only when
		// both sides exceed it.
		if w <= spec.MaxWidth || h <= spec.MaxHeight {
			return w, h, false
		}
		scale = math.Max(float64(spec.MaxWidth)/float64(w), float64(spec.MaxHeight)/float64(h))
	default:
		// Shrink until the whole image fits inside the box, only
		// when it exceeds the box.
		if w <= spec.MaxWidth && h <= spec.MaxHeight {
			return w, h, false
		}
		scale = math.Min(float64(spec.MaxWidth)/float64(w), float64(spec.MaxHeight)/float64(h))
	}
	if scale >= 1 {
		return w, h, false
	}

	tw := int(math.Round(float64(w) * scale))
	th := int(math.Round(float64(h) * scale))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th, true
}

// scaleImage resamples src to tw×th with the given scaler.
func scaleImage(src image.Image, tw, th int, scaler draw.Scaler) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// copyRGBA snapshots src into a fresh RGBA. Used when a mutable canvas
// frame must be retained past the next composite step.
func copyRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
