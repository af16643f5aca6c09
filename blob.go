package typedcol

import (
	"bytes"
	"errors"
	"io"
)

var ErrBlobClosed = errors.New("typedcol: blob already closed")

// BlobValue is the stream-shaped handle a blob column decodes into.
// It is a single-owner resource: the holder reads it once and must Close it
// on every exit path. Re-reading is only possible via Seek back to offset 0.
type BlobValue struct {
	r      *bytes.Reader
	closed bool
}

var (
	_ io.ReadSeeker = (*BlobValue)(nil)
	_ io.Closer     = (*BlobValue)(nil)
)

// NewBlobValue wraps b in a seekable stream handle. The bytes are not copied;
// the caller hands over ownership.
func NewBlobValue(b []byte) *BlobValue {
	return &BlobValue{r: bytes.NewReader(b)}
}

func (bv *BlobValue) Read(p []byte) (int, error) {
	if bv.closed {
		return 0, ErrBlobClosed
	}
	return bv.r.Read(p)
}

func (bv *BlobValue) Seek(offset int64, whence int) (int64, error) {
	if bv.closed {
		return 0, ErrBlobClosed
	}
	return bv.r.Seek(offset, whence)
}

func (bv *BlobValue) Len() int64 { return bv.r.Size() }

func (bv *BlobValue) Close() error {
	bv.closed = true
	return nil
}
