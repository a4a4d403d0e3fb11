package proxy

// OutcomeKind discriminates the three ways a proxy request settles.
type OutcomeKind int

const (
	// OutcomeStreamed means the proxy serves a payload from its own
	// buffer: a transformed rendition or the origin bytes untouched.
	OutcomeStreamed OutcomeKind = iota

	// OutcomeRedirected means the payload was too large to process and
	// the client is sent to the origin directly.
	OutcomeRedirected

	// OutcomeErrored means the request failed and the client gets a
	// JSON error envelope.
	OutcomeErrored
)

// String returns the metric label for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStreamed:
		return "streamed"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeErrored:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the single result of routing a request through the
// pipeline. Exactly one of the three kinds applies to any request.
// Fields beyond Kind are meaningful only for their kind.
type Outcome struct {
	Kind OutcomeKind

	// Payload, ContentType, and Filename describe a streamed response.
	// Filename may be empty, in which case no disposition is sent.
	Payload     []byte
	ContentType string
	Filename    string

	// Location is the redirect target for a redirected response.
	Location string

	// Err is the failure for an errored response.
	Err error
}

// Streamed builds a payload outcome.
func Streamed(payload []byte, contentType, filename string) Outcome {
	return Outcome{
		Kind:        OutcomeStreamed,
		Payload:     payload,
		ContentType: contentType,
		Filename:    filename,
	}
}

// Redirected builds a redirect-to-origin outcome.
func Redirected(location string) Outcome {
	return Outcome{Kind: OutcomeRedirected, Location: location}
}

// Errored builds an error outcome.
func Errored(err error) Outcome {
	return Outcome{Kind: OutcomeErrored, Err: err}
}
