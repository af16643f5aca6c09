package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/tuannm99/typedcol"
)

// Object codec: versioned, deterministic tag-length-value encoding.
// Determinism is a hard requirement: equality predicates compare stored
// encodings byte for byte, so equal values must always serialize to equal
// bytes. Map keys are therefore emitted in sorted order and all numerics are
// normalized to a single canonical width before encoding.
//
// Layout: [version:1] value
// value:  [tag:1] payload
//   nil            -> no payload
//   bool           -> 1 byte
//   int64          -> 8 bytes LE (two's complement)
//   float64        -> 8 bytes LE (IEEE 754 bits)
//   string, bytes  -> u32 LE length + raw bytes
//   list           -> u32 LE count + values
//   map            -> u32 LE count + (u32 LE key length + key + value), keys sorted

const objectEncVersion = 0x01

const (
	tagNil byte = iota
	tagBool
	tagInt
	tagFloat
	tagString
	tagBytes
	tagList
	tagMap
)

func objectCodec() Codec {
	return Codec{
		Encode: func(_ typedcol.Column, v any) ([]byte, error) {
			var buf bytes.Buffer
			buf.WriteByte(objectEncVersion)
			if err := encodeValue(&buf, v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			if len(b) < 1 {
				return nil, fmt.Errorf("%w: empty object encoding", ErrCorruptEncoding)
			}
			if b[0] != objectEncVersion {
				return nil, fmt.Errorf("%w: unknown object encoding version %d", ErrCorruptEncoding, b[0])
			}
			v, rest, err := decodeValue(b[1:])
			if err != nil {
				return nil, err
			}
			if len(rest) != 0 {
				return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptEncoding, len(rest))
			}
			return v, nil
		},
		Validate: func(_ typedcol.Column, v any) error {
			return validateObject(v)
		},
	}
}

func encodeValue(buf *bytes.Buffer, v any) error {
	if v == nil {
		buf.WriteByte(tagNil)
		return nil
	}
	if x, ok := asInt64(v); ok {
		buf.WriteByte(tagInt)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(x))
		buf.Write(b[:])
		return nil
	}
	if x, ok := asFloat64(v); ok {
		buf.WriteByte(tagFloat)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(x))
		buf.Write(b[:])
		return nil
	}
	switch x := v.(type) {
	case bool:
		buf.WriteByte(tagBool)
		if x {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case string:
		buf.WriteByte(tagString)
		writeLenPrefixed(buf, []byte(x))
	case []byte:
		buf.WriteByte(tagBytes)
		writeLenPrefixed(buf, x)
	case []any:
		buf.WriteByte(tagList)
		writeU32(buf, uint32(len(x)))
		for _, el := range x {
			if err := encodeValue(buf, el); err != nil {
				return err
			}
		}
	case map[string]any:
		buf.WriteByte(tagMap)
		writeU32(buf, uint32(len(x)))
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeLenPrefixed(buf, []byte(k))
			if err := encodeValue(buf, x[k]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %T in object value", ErrUnsupportedValueKind, v)
	}
	return nil
}

func decodeValue(b []byte) (any, []byte, error) {
	if len(b) < 1 {
		return nil, nil, fmt.Errorf("%w: missing value tag", ErrCorruptEncoding)
	}
	tag, rest := b[0], b[1:]
	switch tag {
	case tagNil:
		return nil, rest, nil
	case tagBool:
		if len(rest) < 1 {
			return nil, nil, fmt.Errorf("%w: truncated bool", ErrCorruptEncoding)
		}
		return rest[0] != 0, rest[1:], nil
	case tagInt:
		if len(rest) < 8 {
			return nil, nil, fmt.Errorf("%w: truncated int", ErrCorruptEncoding)
		}
		return int64(binary.LittleEndian.Uint64(rest[:8])), rest[8:], nil
	case tagFloat:
		if len(rest) < 8 {
			return nil, nil, fmt.Errorf("%w: truncated float", ErrCorruptEncoding)
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(rest[:8])), rest[8:], nil
	case tagString:
		raw, rest, err := readLenPrefixed(rest)
		if err != nil {
			return nil, nil, err
		}
		return string(raw), rest, nil
	case tagBytes:
		raw, rest, err := readLenPrefixed(rest)
		if err != nil {
			return nil, nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return cp, rest, nil
	case tagList:
		if len(rest) < 4 {
			return nil, nil, fmt.Errorf("%w: truncated list header", ErrCorruptEncoding)
		}
		n := int(binary.LittleEndian.Uint32(rest[:4]))
		rest = rest[4:]
		// Each element takes at least one tag byte.
		if n > len(rest) {
			return nil, nil, fmt.Errorf("%w: list count %d exceeds buffer", ErrCorruptEncoding, n)
		}
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			var (
				el  any
				err error
			)
			el, rest, err = decodeValue(rest)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, el)
		}
		return out, rest, nil
	case tagMap:
		if len(rest) < 4 {
			return nil, nil, fmt.Errorf("%w: truncated map header", ErrCorruptEncoding)
		}
		n := int(binary.LittleEndian.Uint32(rest[:4]))
		rest = rest[4:]
		// Each entry takes at least a key length prefix and a value tag.
		if n > len(rest) {
			return nil, nil, fmt.Errorf("%w: map count %d exceeds buffer", ErrCorruptEncoding, n)
		}
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			var (
				key []byte
				val any
				err error
			)
			key, rest, err = readLenPrefixed(rest)
			if err != nil {
				return nil, nil, err
			}
			val, rest, err = decodeValue(rest)
			if err != nil {
				return nil, nil, err
			}
			out[string(key)] = val
		}
		return out, rest, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown value tag %d", ErrCorruptEncoding, tag)
	}
}

func validateObject(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := asInt64(v); ok {
		return nil
	}
	if _, ok := asFloat64(v); ok {
		return nil
	}
	switch x := v.(type) {
	case bool, string, []byte:
		return nil
	case []any:
		for _, el := range x {
			if err := validateObject(el); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, el := range x {
			if err := validateObject(el); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T in object value", ErrUnsupportedValueKind, v)
	}
}

func writeU32(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

func writeLenPrefixed(buf *bytes.Buffer, raw []byte) {
	writeU32(buf, uint32(len(raw)))
	buf.Write(raw)
}

func readLenPrefixed(b []byte) ([]byte, []byte, error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated length prefix", ErrCorruptEncoding)
	}
	n := int(binary.LittleEndian.Uint32(b[:4]))
	b = b[4:]
	if len(b) < n {
		return nil, nil, fmt.Errorf("%w: length %d exceeds buffer", ErrCorruptEncoding, n)
	}
	return b[:n], b[n:], nil
}
