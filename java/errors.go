package java

import "github.com/cockroachdb/errors"

var (
	// ErrConstruction marks a descriptor that violates one of its invariants.
	// Construction never yields a partially built value alongside it.
	ErrConstruction = errors.New("malformed descriptor")

	// ErrUnsupportedShape marks a source fact that does not map onto any known
	// type shape.
	ErrUnsupportedShape = errors.New("unsupported type shape")

	// ErrNotConcrete is returned when an operation that only makes sense for
	// concrete types is applied to a type parameter.
	ErrNotConcrete = errors.New("type parameter is not a concrete type")
)

func constructionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConstruction)
}

// UnsupportedShapef builds an error marked with ErrUnsupportedShape.
func UnsupportedShapef(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnsupportedShape)
}
