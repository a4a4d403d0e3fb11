package transform

import (
	"bytes"
	"encoding/binary"
)

var (
	pngSignature  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegSignature = []byte{0xff, 0xd8, 0xff}
	gif87Magic    = []byte("GIF87a")
	gif89Magic    = []byte("GIF89a")
	riffMagic     = []byte("RIFF")
	webpMagic     = []byte("WEBP")
	tiffLittle    = []byte{'I', 'I', 0x2a, 0x00}
	tiffBig       = []byte{'M', 'M', 0x00, 0x2a}
	icoMagic      = []byte{0x00, 0x00, 0x01, 0x00}
)

// Sniff detects the payload format from its leading bytes. The origin's
// Content-Type plays no part: a mislabeled payload is classified by what
// it actually is.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		if pngHasAnimationControl(data) {
			return FormatAPNG
		}
		return FormatPNG
	case bytes.HasPrefix(data, gif87Magic), bytes.HasPrefix(data, gif89Magic):
		return FormatGIF
	case bytes.HasPrefix(data, jpegSignature):
		return FormatJPEG
	case len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic):
		if webpHasAnimation(data) {
			return FormatAnimatedWebP
		}
		return FormatWebP
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(data, tiffLittle), bytes.HasPrefix(data, tiffBig):
		return FormatTIFF
	case bytes.HasPrefix(data, icoMagic):
		return FormatICO
	case looksLikeSVG(data):
		return FormatSVG
	default:
		return FormatUnknown
	}
}

// pngHasAnimationControl walks PNG chunks looking for an acTL chunk ahead
// of the first IDAT, which is what makes a PNG an APNG.
func pngHasAnimationControl(data []byte) bool {
	offset := len(pngSignature)
	for offset+8 <= len(data) {
		length := int64(binary.BigEndian.Uint32(data[offset:]))
		chunkType := string(data[offset+4 : offset+8])
		switch chunkType {
		case "acTL":
			return true
		case "IDAT", "IEND":
			return false
		}
		next := int64(offset) + 8 + length + 4
		if next <= int64(offset) || next > int64(len(data)) {
			return false
		}
		offset = int(next)
	}
	return false
}

// webpHasAnimation checks the VP8X extended-format chunk for the
// animation flag.
func webpHasAnimation(data []byte) bool {
	if len(data) < 21 {
		return false
	}
	if !bytes.Equal(data[12:16], []byte("VP8X")) {
		return false
	}
	const animationBit = 0x02
	return data[20]&animationBit != 0
}

// looksLikeSVG sniffs for an XML or svg root after optional BOM and
// whitespace. SVG is text, so magic bytes alone cannot identify it.
func looksLikeSVG(data []byte) bool {
	head := bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.HasPrefix(head, []byte("<svg")) {
		return true
	}
	return bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg"))
}
