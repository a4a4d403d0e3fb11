package transform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/kettek/apng"
	"golang.org/x/image/draw"
)

// DefaultJPEGQuality is used when the pipeline is given no quality.
const DefaultJPEGQuality = 85

func encodeStill(img image.Image, format Format, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding png: %w", err)
		}
	case FormatJPEG:
		if jpegQuality <= 0 || jpegQuality > 100 {
			jpegQuality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, flattenWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encoding jpeg: %w", err)
		}
	case FormatGIF:
		if err := gif.Encode(&buf, img, &gif.Options{NumColors: 256}); err != nil {
			return nil, fmt.Errorf("encoding gif: %w", err)
		}
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
	return buf.Bytes(), nil
}

// flattenWhite composites img over opaque white. JPEG has no alpha
// channel, and dropping it raw would turn transparency black.
func flattenWhite(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// animationPalette is WebSafe with a transparent slot at index 0, so
// composited frames with alpha survive palettization and the GIF
// background index can point at transparency.
var animationPalette = append(color.Palette{color.RGBA{}}, palette.WebSafe...)

func palettize(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), animationPalette)
	draw.FloydSteinberg.Draw(out, out.Bounds(), img, b.Min)
	return out
}

// encodeAnimatedGIF writes anim as a looping GIF. Frames are full-canvas
// composites, so each clears to the transparent background before the
// next is drawn.
func encodeAnimatedGIF(anim *AnimatedImage) ([]byte, error) {
	if len(anim.Frames) == 0 {
		return nil, fmt.Errorf("encoding gif: no frames")
	}
	first := anim.Frames[0].Image.Bounds()
	out := &gif.GIF{
		LoopCount: gifLoopCountFromPlays(anim.Loop),
		Config: image.Config{
			ColorModel: animationPalette,
			Width:      first.Dx(),
			Height:     first.Dy(),
		},
		BackgroundIndex: 0,
	}
	for _, fr := range anim.Frames {
		out.Image = append(out.Image, palettize(fr.Image))
		out.Delay = append(out.Delay, delayCentiseconds(fr.DelayNum, fr.DelayDen))
		out.Disposal = append(out.Disposal, gif.DisposalBackground)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding gif: %w", err)
	}
	return buf.Bytes(), nil
}

func delayCentiseconds(num, den uint16) int {
	if den == 0 {
		den = 100
	}
	return int(math.Round(float64(num) * 100 / float64(den)))
}

// encodeAPNG writes anim as an APNG with source delays and loop count.
func encodeAPNG(anim *AnimatedImage) ([]byte, error) {
	if len(anim.Frames) == 0 {
		return nil, fmt.Errorf("encoding apng: no frames")
	}
	loop := anim.Loop
	if loop < 0 {
		loop = 0
	}
	out := apng.APNG{LoopCount: uint(loop)}
	for _, fr := range anim.Frames {
		out.Frames = append(out.Frames, apng.Frame{
			Image:            fr.Image,
			DelayNumerator:   fr.DelayNum,
			DelayDenominator: fr.DelayDen,
			DisposeOp:        apng.DISPOSE_OP_NONE,
			BlendOp:          apng.BLEND_OP_SOURCE,
		})
	}
	var buf bytes.Buffer
	if err := apng.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding apng: %w", err)
	}
	return buf.Bytes(), nil
}
