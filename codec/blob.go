package codec

import (
	"fmt"
	"io"

	"github.com/tuannm99/typedcol"
)

// Blob codec: identity pass-through on encode, stream-shaped on decode.
// Decode never hands back a raw buffer; callers always get a seekable
// *typedcol.BlobValue even though the store cannot stream large objects.

func blobCodec() Codec {
	return Codec{
		Encode: encodeBlob,
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			cp := make([]byte, len(b))
			copy(cp, b)
			return typedcol.NewBlobValue(cp), nil
		},
		Validate: func(_ typedcol.Column, v any) error {
			switch v.(type) {
			case []byte, string, io.Reader:
				return nil
			default:
				return fmt.Errorf("%w: want bytes, string or reader, got %T", ErrUnsupportedValueKind, v)
			}
		},
	}
}

func encodeBlob(_ typedcol.Column, v any) ([]byte, error) {
	switch x := v.(type) {
	case *typedcol.BlobValue:
		// Consume from the start so a previously read handle still encodes fully.
		if _, err := x.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("blob seek: %w", err)
		}
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, fmt.Errorf("blob read: %w", err)
		}
		return b, nil
	case []byte:
		cp := make([]byte, len(x))
		copy(cp, x)
		return cp, nil
	case string:
		return []byte(x), nil
	case io.Reader:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, fmt.Errorf("blob read: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: want bytes, string or reader, got %T", ErrUnsupportedValueKind, v)
	}
}
