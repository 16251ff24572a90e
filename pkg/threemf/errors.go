package threemf

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

var (
	// ErrInvalidContainer is returned for archives that are not valid ZIP files
	ErrInvalidContainer = errors.New("invalid container")
	// ErrModelNotFound is returned when the archive holds no model document
	ErrModelNotFound = errors.New("model not found")
	// ErrXMLParseFailed is returned for malformed model XML
	ErrXMLParseFailed = errors.New("xml parse failed")
	// ErrUnknownObject is returned when a build item or component references an undefined object
	ErrUnknownObject = errors.New("unknown object")
	// ErrCyclicComponent is returned when a component tree references itself
	ErrCyclicComponent = errors.New("cyclic component reference")
)

const formatName = "3mf"

func invalidContainer(format string, args ...any) error {
	return mesh.NewDecodeError(formatName, mesh.ErrStructural,
		fmt.Errorf("%w: %s", ErrInvalidContainer, fmt.Sprintf(format, args...)))
}

func xmlParseFailed(doc string, err error) error {
	return mesh.NewDecodeError(formatName, mesh.ErrFormat,
		fmt.Errorf("%w: %s: %w", ErrXMLParseFailed, doc, err))
}

func referenceError(sentinel error, format string, args ...any) error {
	return mesh.NewDecodeError(formatName, mesh.ErrReference,
		fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}
