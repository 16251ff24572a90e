package mesh

import (
	"errors"
	"fmt"
)

// Error categories shared by all decoders. Use errors.Is to test for them.
var (
	// ErrStructural marks corrupt or truncated containers
	ErrStructural = errors.New("structural error")
	// ErrFormat marks malformed content inside a well-formed container
	ErrFormat = errors.New("format error")
	// ErrReference marks missing documents or unknown object references
	ErrReference = errors.New("reference error")
	// ErrIO wraps failures of the underlying reader
	ErrIO = errors.New("io error")
)

// DecodeError is returned by the decoders. It matches both its category
// and the decoder specific sentinel via errors.Is.
type DecodeError struct {
	Format string // "stl", "3mf", ...
	Kind   error  // one of the categories above
	Err    error
}

// NewDecodeError builds a categorized decode error
func NewDecodeError(format string, kind, err error) *DecodeError {
	return &DecodeError{Format: format, Kind: kind, Err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
