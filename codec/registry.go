// Package codec maps logical column types to encode/decode function pairs and
// implements the built-in codecs for text, numeric, blob, enum, object and
// array columns. Encoded forms are opaque to the storage layer; their only
// contract is byte-exact equality for equal inputs, which the predicate layer
// relies on.
package codec

import (
	"errors"
	"fmt"

	"github.com/tuannm99/typedcol"
)

// Codec is a paired encode/decode (plus optional validate) for one column type.
// Encode and Decode are pure functions of their inputs. Validate checks a
// candidate value without producing bytes; when nil, Encode is the only check.
type Codec struct {
	Encode   func(col typedcol.Column, v any) ([]byte, error)
	Decode   func(col typedcol.Column, b []byte) (any, error)
	Validate func(col typedcol.Column, v any) error
}

// Registry holds the codec for each column type tag. It is read-mostly:
// populate it up front, then share freely; Register is not safe for use
// concurrently with Encode/Decode.
type Registry struct {
	codecs map[typedcol.ColumnType]Codec
}

// NewRegistry returns a registry with all built-in codecs installed.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[typedcol.ColumnType]Codec)}
	r.codecs[typedcol.ColText] = textCodec()
	r.codecs[typedcol.ColInt64] = int64Codec()
	r.codecs[typedcol.ColFloat64] = float64Codec()
	r.codecs[typedcol.ColBool] = boolCodec()
	r.codecs[typedcol.ColBlob] = blobCodec()
	r.codecs[typedcol.ColEnum] = enumCodec()
	r.codecs[typedcol.ColObject] = objectCodec()
	r.codecs[typedcol.ColArray] = arrayCodec()
	return r
}

// Register installs (or replaces) the codec for a type tag.
func (r *Registry) Register(tag typedcol.ColumnType, c Codec) error {
	if c.Encode == nil || c.Decode == nil {
		return errors.New("codec: Register needs both encode and decode")
	}
	r.codecs[tag] = c
	return nil
}

// Lookup returns the codec registered for tag.
func (r *Registry) Lookup(tag typedcol.ColumnType) (Codec, bool) {
	c, ok := r.codecs[tag]
	return c, ok
}

// Encode serializes v for col using the codec registered for col.Type.
func (r *Registry) Encode(col typedcol.Column, v any) ([]byte, error) {
	c, ok := r.codecs[col.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTypeTag, col.Type)
	}
	b, err := c.Encode(col, v)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", col.Name, err)
	}
	return b, nil
}

// Decode reconstructs the in-memory value for col from stored bytes.
func (r *Registry) Decode(col typedcol.Column, b []byte) (any, error) {
	c, ok := r.codecs[col.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTypeTag, col.Type)
	}
	v, err := c.Decode(col, b)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", col.Name, err)
	}
	return v, nil
}

// Validate checks v against col's codec rules without encoding.
func (r *Registry) Validate(col typedcol.Column, v any) error {
	c, ok := r.codecs[col.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTypeTag, col.Type)
	}
	if c.Validate == nil {
		return nil
	}
	if err := c.Validate(col, v); err != nil {
		return fmt.Errorf("column %q: %w", col.Name, err)
	}
	return nil
}
