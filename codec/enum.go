package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/tuannm99/typedcol"
)

// Enum codec: a member value is stored as its 0-based position in the
// column's EnumSpec, little-endian uint16.

func enumCodec() Codec {
	return Codec{
		Encode: func(col typedcol.Column, v any) ([]byte, error) {
			idx, err := enumIndex(col, v)
			if err != nil {
				return nil, err
			}
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(idx))
			return b[:], nil
		},
		Decode: func(col typedcol.Column, b []byte) (any, error) {
			if col.Enum == nil {
				return nil, ErrMissingEnumSpec
			}
			if len(b) != 2 {
				return nil, fmt.Errorf("%w: enum needs 2 bytes, got %d", ErrCorruptEncoding, len(b))
			}
			idx := int(binary.LittleEndian.Uint16(b))
			val, ok := col.Enum.At(idx)
			if !ok {
				return nil, fmt.Errorf("%w: enum position %d out of range", ErrCorruptEncoding, idx)
			}
			return val, nil
		},
		Validate: func(col typedcol.Column, v any) error {
			_, err := enumIndex(col, v)
			return err
		},
	}
}

func enumIndex(col typedcol.Column, v any) (int, error) {
	if col.Enum == nil {
		return 0, ErrMissingEnumSpec
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%w: want string, got %T", ErrUnsupportedValueKind, v)
	}
	idx, ok := col.Enum.Index(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q not in %v", ErrInvalidEnumValue, s, col.Enum.Values())
	}
	return idx, nil
}
