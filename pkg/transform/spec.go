package transform

import "image"

// ResizeMode selects how the target box constrains the image.
type ResizeMode int

const (
	// ModeFit shrinks the image until it fits inside the box. Applies
	// only when the image exceeds the box.
	ModeFit ResizeMode = iota

	// ModeCover shrinks the image until its smaller side matches the
	// box. Applies only when both sides exceed the box.
	ModeCover
)

// AnimationPolicy decides what happens to multi-frame sources.
type AnimationPolicy int

const (
	// AnimKeepAll re-encodes every frame with its original delay and
	// the source loop count.
	AnimKeepAll AnimationPolicy = iota

	// AnimFirstFrame keeps frame 0 as a static image.
	AnimFirstFrame

	// AnimDrop discards animation, emitting frame 0 as a static image.
	AnimDrop
)

// Spec is the resolved set of transform parameters for one request.
// A zero box means no scaling; scaling never enlarges.
type Spec struct {
	// MaxWidth and MaxHeight bound the output. Zero disables scaling.
	MaxWidth  int
	MaxHeight int

	// Mode selects fit or cover semantics for the box.
	Mode ResizeMode

	// Format requests an output container. FormatUnknown negotiates
	// from the source. Animated sources keeping their frames always
	// keep their container.
	Format Format

	// Animation decides how multi-frame sources are handled.
	Animation AnimationPolicy
}

// Frame is one composited, output-sized raster together with its hold
// time, expressed as the DelayNum/DelayDen fraction of a second the
// animated containers use natively.
type Frame struct {
	Image    image.Image
	DelayNum uint16
	DelayDen uint16
}

// AnimatedImage is an ordered frame sequence. Loop counts total plays;
// zero loops forever.
type AnimatedImage struct {
	Frames []Frame
	Loop   int
}

// Result is a finished transform: the encoded payload and what it became.
type Result struct {
	Data   []byte
	Format Format
	Width  int
	Height int
	Frames int
}
