package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tuannm99/typedcol"
)

// Primitive codecs: fixed-width little-endian numerics, raw UTF-8 text.

func textCodec() Codec {
	return Codec{
		Encode: func(_ typedcol.Column, v any) ([]byte, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: want string, got %T", ErrUnsupportedValueKind, v)
			}
			return []byte(s), nil
		},
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			return string(b), nil
		},
		Validate: func(_ typedcol.Column, v any) error {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: want string, got %T", ErrUnsupportedValueKind, v)
			}
			return nil
		},
	}
}

func int64Codec() Codec {
	return Codec{
		Encode: func(_ typedcol.Column, v any) ([]byte, error) {
			x, ok := asInt64(v)
			if !ok {
				return nil, fmt.Errorf("%w: want int64, got %T", ErrUnsupportedValueKind, v)
			}
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(x))
			return b[:], nil
		},
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			if len(b) != 8 {
				return nil, fmt.Errorf("%w: int64 needs 8 bytes, got %d", ErrCorruptEncoding, len(b))
			}
			return int64(binary.LittleEndian.Uint64(b)), nil
		},
		Validate: func(_ typedcol.Column, v any) error {
			if _, ok := asInt64(v); !ok {
				return fmt.Errorf("%w: want int64, got %T", ErrUnsupportedValueKind, v)
			}
			return nil
		},
	}
}

func float64Codec() Codec {
	return Codec{
		Encode: func(_ typedcol.Column, v any) ([]byte, error) {
			x, ok := asFloat64(v)
			if !ok {
				return nil, fmt.Errorf("%w: want float64, got %T", ErrUnsupportedValueKind, v)
			}
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(x))
			return b[:], nil
		},
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			if len(b) != 8 {
				return nil, fmt.Errorf("%w: float64 needs 8 bytes, got %d", ErrCorruptEncoding, len(b))
			}
			return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
		},
		Validate: func(_ typedcol.Column, v any) error {
			if _, ok := asFloat64(v); !ok {
				return fmt.Errorf("%w: want float64, got %T", ErrUnsupportedValueKind, v)
			}
			return nil
		},
	}
}

func boolCodec() Codec {
	return Codec{
		Encode: func(_ typedcol.Column, v any) ([]byte, error) {
			x, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: want bool, got %T", ErrUnsupportedValueKind, v)
			}
			if x {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		},
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			if len(b) != 1 {
				return nil, fmt.Errorf("%w: bool needs 1 byte, got %d", ErrCorruptEncoding, len(b))
			}
			return b[0] != 0, nil
		},
		Validate: func(_ typedcol.Column, v any) error {
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%w: want bool, got %T", ErrUnsupportedValueKind, v)
			}
			return nil
		},
	}
}

// ---- small helpers to accept multiple numeric widths on encode ----

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}
