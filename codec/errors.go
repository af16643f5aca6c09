package codec

import "errors"

var (
	// ErrInvalidEnumValue reports an assignment or filter value outside the column's EnumSpec.
	ErrInvalidEnumValue = errors.New("codec: value not in enum spec")

	// ErrInvalidArrayShape reports a nested or associative input to an array column.
	ErrInvalidArrayShape = errors.New("codec: array elements must be flat scalars")

	// ErrUnsupportedValueKind reports an encode input the codec cannot represent.
	ErrUnsupportedValueKind = errors.New("codec: unsupported value kind")

	// ErrCorruptEncoding reports stored bytes that violate the codec's format invariant.
	ErrCorruptEncoding = errors.New("codec: corrupt encoding")

	// ErrUnknownTypeTag reports a column type with no registered codec.
	ErrUnknownTypeTag = errors.New("codec: no codec registered for type tag")

	// ErrMissingEnumSpec reports an enum column declared without a value set.
	ErrMissingEnumSpec = errors.New("codec: enum column has no enum spec")
)
