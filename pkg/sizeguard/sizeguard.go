package sizeguard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultChunkSize is the read granularity of the streaming path.
	// The spool may overshoot the limit by at most one chunk.
	DefaultChunkSize = 64 * 1024

	// LengthUnknown marks an absent Content-Length declaration.
	LengthUnknown = int64(-1)
)

// ErrNilBody is returned when Consume is called without a body reader.
var ErrNilBody = errors.New("sizeguard: nil body")

// Verdict is the guard's decision for a single origin payload.
// Exactly one Verdict is produced per request.
type Verdict struct {
	// Exceeded reports whether the payload passed the configured limit.
	Exceeded bool

	// Payload is the complete spooled body. Only set when within limit.
	Payload []byte

	// BytesRead is the number of body bytes actually consumed from the
	// origin. Zero when the fast path short-circuited the read.
	BytesRead int64

	// Declared is the Content-Length the origin announced, or
	// LengthUnknown when it sent none.
	Declared int64
}

// CountingReader decorates an io.Reader with a running byte total.
// It composes with any byte stream and adds no buffering of its own.
// Not safe for concurrent use; a request body has a single reader.
type CountingReader struct {
	r io.Reader
	n int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

// Read forwards to the wrapped reader, counting every byte returned.
func (cr *CountingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// Count returns the number of bytes read so far.
func (cr *CountingReader) Count() int64 {
	return cr.n
}

// Guard enforces a byte ceiling on origin payloads.
type Guard struct {
	// Limit is the maximum payload size in bytes the proxy will serve.
	// Must be positive; config validation guarantees this at startup.
	Limit int64

	// ChunkSize is the read granularity of the streaming path.
	ChunkSize int
}

// New returns a Guard for the given limit with the default chunk size.
func New(limit int64) *Guard {
	return &Guard{Limit: limit, ChunkSize: DefaultChunkSize}
}

// CheckDeclared is the fast path. When the origin declares a length above
// the limit it returns an Exceeded verdict without touching the body, and
// reports true. Otherwise the verdict is undecided and the caller must run
// Consume.
func (g *Guard) CheckDeclared(declared int64) (Verdict, bool) {
	if declared > g.Limit {
		return Verdict{Exceeded: true, Declared: declared}, true
	}
	return Verdict{}, false
}

// Consume reads body through a counting reader into a bounded spool and
// returns the verdict. It stops reading within one chunk of passing the
// limit. On Exceeded the caller should close the origin body immediately
// so the outbound connection is torn down.
//
// The returned error is non-nil only for transport or cancellation
// failures; an oversized payload is a verdict, not an error.
func (g *Guard) Consume(ctx context.Context, body io.Reader, declared int64) (Verdict, error) {
	if body == nil {
		return Verdict{}, ErrNilBody
	}
	if v, done := g.CheckDeclared(declared); done {
		return v, nil
	}

	chunk := g.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	var spool bytes.Buffer
	if declared > 0 {
		spool.Grow(int(min64(declared, g.Limit)))
	}

	counter := NewCountingReader(body)
	buf := make([]byte, chunk)
	for {
		if err := ctx.Err(); err != nil {
			return Verdict{BytesRead: counter.Count(), Declared: declared}, fmt.Errorf("sizeguard: read aborted: %w", err)
		}

		n, err := counter.Read(buf)
		if n > 0 {
			spool.Write(buf[:n])
			if counter.Count() > g.Limit {
				return Verdict{
					Exceeded:  true,
					BytesRead: counter.Count(),
					Declared:  declared,
				}, nil
			}
		}
		if err == io.EOF {
			return Verdict{
				Payload:   spool.Bytes(),
				BytesRead: counter.Count(),
				Declared:  declared,
			}, nil
		}
		if err != nil {
			return Verdict{BytesRead: counter.Count(), Declared: declared}, fmt.Errorf("sizeguard: read origin body: %w", err)
		}
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
