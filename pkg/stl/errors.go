package stl

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

var (
	// ErrTooSmall is returned when a binary buffer cannot hold header and count
	ErrTooSmall = errors.New("file too small")
	// ErrInconsistentSize is returned when the declared triangle count does not fit the buffer
	ErrInconsistentSize = errors.New("inconsistent size")
	// ErrInvalidFormat is returned for malformed ASCII documents
	ErrInvalidFormat = errors.New("invalid format")
)

func invalidFormat(format string, args ...any) error {
	return mesh.NewDecodeError("stl", mesh.ErrFormat,
		fmt.Errorf("%w: %s", ErrInvalidFormat, fmt.Sprintf(format, args...)))
}
