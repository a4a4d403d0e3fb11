package transform

// Format identifies a payload's container as detected from magic bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatAPNG
	FormatJPEG
	FormatGIF
	FormatWebP
	FormatAnimatedWebP
	FormatBMP
	FormatTIFF
	FormatICO
	FormatSVG
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatAPNG:
		return "apng"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatWebP:
		return "webp"
	case FormatAnimatedWebP:
		return "animated webp"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatICO:
		return "ico"
	case FormatSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// MIME returns the media type for the format, or "" when unknown.
func (f Format) MIME() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatAPNG:
		return "image/apng"
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatWebP, FormatAnimatedWebP:
		return "image/webp"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatICO:
		return "image/x-icon"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return ""
	}
}

// Ext returns the canonical file extension including the dot, or "" when
// the format has none.
func (f Format) Ext() string {
	switch f {
	case FormatPNG, FormatAPNG:
		return ".png"
	case FormatJPEG:
		return ".jpg"
	case FormatGIF:
		return ".gif"
	case FormatWebP, FormatAnimatedWebP:
		return ".webp"
	case FormatBMP:
		return ".bmp"
	case FormatTIFF:
		return ".tiff"
	case FormatICO:
		return ".ico"
	case FormatSVG:
		return ".svg"
	default:
		return ""
	}
}

// Animated reports whether the format carries multiple frames by nature.
// FormatGIF may still hold a single frame; decoding tells.
func (f Format) Animated() bool {
	return f == FormatAPNG || f == FormatAnimatedWebP || f == FormatGIF
}

// Transformable reports whether the pipeline can decode and re-encode the
// format. Animated WebP is excluded: it can only pass through.
func Transformable(f Format) bool {
	switch f {
	case FormatPNG, FormatAPNG, FormatJPEG, FormatGIF, FormatWebP:
		return true
	default:
		return false
	}
}

// ParseFormat maps a request token to an output format. "auto" and ""
// mean negotiate from the source. "webp" is accepted but negotiates like
// auto: there is no pure-Go WebP encoder to honor it with.
func ParseFormat(token string) (Format, bool) {
	switch token {
	case "", "auto", "webp":
		return FormatUnknown, true
	case "png":
		return FormatPNG, true
	case "apng":
		return FormatAPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	case "gif":
		return FormatGIF, true
	default:
		return FormatUnknown, false
	}
}
