package transform

import (
	"errors"
	"fmt"
)

// ErrDimensionsTooLarge marks a payload rejected by the pixel budget
// before full decode.
var ErrDimensionsTooLarge = errors.New("image dimensions exceed the pixel budget")

// DecodeError reports a payload that could not be decoded: corrupt data,
// a truncated stream, or a tripped dimension guard.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s payload: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports a payload the pipeline cannot transform.
// Callers relay such payloads byte-identical instead.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no transform available for %s payload", e.Format)
}
