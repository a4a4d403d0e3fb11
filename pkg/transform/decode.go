package transform

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/kettek/apng"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// probeDimensions reads the header dimensions without decoding pixels and
// enforces the pixel budget. This is what stops decompression bombs: a
// tiny payload declaring a 50000×50000 canvas never reaches the decoder.
func probeDimensions(data []byte, format Format, maxPixels int) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, &DecodeError{Format: format, Err: err}
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return cfg, &DecodeError{Format: format, Err: ErrDimensionsTooLarge}
	}
	return cfg, nil
}

func decodeStill(data []byte, format Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case FormatWebP:
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return img, nil
}

func decodeGIF(data []byte) (*gif.GIF, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: FormatGIF, Err: err}
	}
	if len(g.Image) == 0 {
		return nil, &DecodeError{Format: FormatGIF, Err: image.ErrFormat}
	}
	return g, nil
}

func decodeAPNG(data []byte) (apng.APNG, error) {
	a, err := apng.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return apng.APNG{}, &DecodeError{Format: FormatAPNG, Err: err}
	}
	if len(a.Frames) == 0 {
		return apng.APNG{}, &DecodeError{Format: FormatAPNG, Err: image.ErrFormat}
	}
	return a, nil
}

// gifCanvas returns the logical screen size, falling back to the first
// frame for encoders that omit it.
func gifCanvas(g *gif.GIF) (int, int) {
	w, h := g.Config.Width, g.Config.Height
	if w <= 0 || h <= 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	return w, h
}

// gifFrames composites every GIF frame onto the logical canvas, honoring
// disposal, and passes each full frame through mapFrame. Only mapFrame's
// result is retained, so a downscaling map keeps memory at one source
// canvas plus the output animation.
func gifFrames(g *gif.GIF, mapFrame func(*image.RGBA) image.Image) *AnimatedImage {
	w, h := gifCanvas(g)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	var prev *image.RGBA

	anim := &AnimatedImage{
		Loop:   playsFromGIFLoopCount(g.LoopCount),
		Frames: make([]Frame, 0, len(g.Image)),
	}
	for i, src := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			prev = copyRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		if delay < 0 {
			delay = 0
		}
		if delay > math.MaxUint16 {
			delay = math.MaxUint16
		}
		anim.Frames = append(anim.Frames, Frame{
			Image:    mapFrame(canvas),
			DelayNum: uint16(delay),
			DelayDen: 100,
		})

		switch disposal {
		case gif.DisposalBackground:
			clearRect(canvas, src.Bounds())
		case gif.DisposalPrevious:
			if prev != nil {
				copy(canvas.Pix, prev.Pix)
			}
		}
	}
	return anim
}

// firstGIFFrame composites frame 0 onto the logical canvas.
func firstGIFFrame(g *gif.GIF) *image.RGBA {
	w, h := gifCanvas(g)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	src := g.Image[0]
	draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
	return canvas
}

// apngFrames composites the animation frames of an APNG, honoring
// per-frame offsets, blend, and dispose operations. A default image that
// is not part of the animation is skipped.
func apngFrames(a apng.APNG, mapFrame func(*image.RGBA) image.Image) *AnimatedImage {
	b := a.Frames[0].Image.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	var prev *image.RGBA

	anim := &AnimatedImage{
		Loop:   int(a.LoopCount),
		Frames: make([]Frame, 0, len(a.Frames)),
	}
	for _, fr := range a.Frames {
		if fr.IsDefault && len(a.Frames) > 1 {
			continue
		}
		if fr.DisposeOp == apng.DISPOSE_OP_PREVIOUS {
			prev = copyRGBA(canvas)
		}

		fb := fr.Image.Bounds()
		region := image.Rect(fr.XOffset, fr.YOffset, fr.XOffset+fb.Dx(), fr.YOffset+fb.Dy())
		op := draw.Over
		if fr.BlendOp == apng.BLEND_OP_SOURCE {
			op = draw.Src
		}
		draw.Draw(canvas, region, fr.Image, fb.Min, op)

		num, den := fr.DelayNumerator, fr.DelayDenominator
		if den == 0 {
			den = 100
		}
		anim.Frames = append(anim.Frames, Frame{
			Image:    mapFrame(canvas),
			DelayNum: num,
			DelayDen: den,
		})

		switch fr.DisposeOp {
		case apng.DISPOSE_OP_BACKGROUND:
			clearRect(canvas, region)
		case apng.DISPOSE_OP_PREVIOUS:
			if prev != nil {
				copy(canvas.Pix, prev.Pix)
			}
		}
	}
	return anim
}

// firstAPNGFrame composites the first decoded frame, which is the default
// image when the APNG carries one.
func firstAPNGFrame(a apng.APNG) *image.RGBA {
	fr := a.Frames[0]
	fb := fr.Image.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
	draw.Draw(canvas, canvas.Bounds(), fr.Image, fb.Min, draw.Src)
	return canvas
}

func clearRect(img *image.RGBA, r image.Rectangle) {
	draw.Draw(img, r, image.Transparent, image.Point{}, draw.Src)
}

// playsFromGIFLoopCount normalizes image/gif loop semantics (0 forever,
// -1 once, n means n+1 plays) to a play count where 0 loops forever.
func playsFromGIFLoopCount(lc int) int {
	switch {
	case lc == 0:
		return 0
	case lc < 0:
		return 1
	default:
		return lc + 1
	}
}

// gifLoopCountFromPlays is the inverse of playsFromGIFLoopCount.
func gifLoopCountFromPlays(plays int) int {
	switch {
	case plays <= 0:
		return 0
	case plays == 1:
		return -1
	default:
		return plays - 1
	}
}
