package facts

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnresolvedType is returned when a supertype or a requested class is
	// not declared by any loaded document.
	ErrUnresolvedType = errors.New("unresolved type")

	// ErrInheritanceCycle is returned when a class is, directly or through
	// other classes, its own supertype.
	ErrInheritanceCycle = errors.New("inheritance cycle")

	// ErrDuplicateClass is returned when two documents declare the same
	// qualified name.
	ErrDuplicateClass = errors.New("duplicate class")
)
