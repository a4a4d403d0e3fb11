// Package transform sniffs, decodes, resizes, and re-encodes media
// payloads.
//
// # Overview
//
// The pipeline operates on a fully spooled payload that has already
// passed the size guard. Format detection trusts magic bytes only, never
// the origin Content-Type. Supported raster formats (PNG, APNG, JPEG,
// GIF, static WebP) are decoded, scaled down when they exceed the target
// box, and re-encoded; everything else is left to the caller to relay
// byte-identical.
//
// # Animation
//
// Animated GIF and APNG keep their container: frames are composited onto
// the logical canvas one at a time, scaled, and handed straight to the
// encoder input, so peak memory tracks one source canvas plus the output,
// not the whole animation. Per-frame delays and the loop count survive
// re-encoding. Animated WebP has no pure-Go decoder and is passed through
// unmodified.
//
// # Scaling
//
// Scaling preserves aspect ratio and never upscales. Fit shrinks an image
// into the box only when it exceeds the box; cover shrinks it until the
// smaller side matches the box, only when both sides exceed it. Stills
// use Catmull-Rom resampling, animation frames the cheaper approximate
// bilinear.
package transform
