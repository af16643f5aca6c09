// Package record is the typed accessor/mutator surface over one row of a
// schema: per-field get/set with codec validation, dirty tracking, array
// convenience operations, and save/load against a key-addressed store.
package record

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/tuannm99/typedcol"
	"github.com/tuannm99/typedcol/codec"
)

var (
	ErrUnknownColumn  = errors.New("record: unknown column")
	ErrNotArrayColumn = errors.New("record: not an array column")
	ErrNotNullable    = errors.New("record: column is not nullable")
)

// Store is the key-addressed record store boundary. The core only ever hands
// opaque encoded bytes across it; a column absent from the map is NULL.
type Store interface {
	Put(key uuid.UUID, cols map[string][]byte) error
	Get(key uuid.UUID) (map[string][]byte, error)
}

// Record holds the decoded in-memory values of one row plus a per-field dirty
// flag. Flags reset on load and on successful save.
type Record struct {
	schema typedcol.Schema
	reg    *codec.Registry
	values []any
	dirty  []bool
}

func New(schema typedcol.Schema, reg *codec.Registry) *Record {
	return &Record{
		schema: schema,
		reg:    reg,
		values: make([]any, schema.NumCols()),
		dirty:  make([]bool, schema.NumCols()),
	}
}

func (r *Record) col(name string) (int, typedcol.Column, error) {
	i := r.schema.ColIndex(name)
	if i < 0 {
		return 0, typedcol.Column{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, r.schema.Cols[i], nil
}

// Get returns the decoded in-memory value, or nil for a NULL field. It never
// validates: whatever the last Set or Load put there comes back as-is.
func (r *Record) Get(name string) (any, error) {
	i, _, err := r.col(name)
	if err != nil {
		return nil, err
	}
	return r.values[i], nil
}

// Set validates v against the column's codec rules, stores it, and marks the
// field dirty. Validation fails fast: on error the stored value is untouched.
//
// Dirty policy: non-blob fields skip the flag when the new value is deep-equal
// to the current one. Blob fields are marked dirty on every call, identical
// handle or not, because stream contents can change out-of-band between read
// and write and handle identity proves nothing about content equality.
func (r *Record) Set(name string, v any) error {
	i, col, err := r.col(name)
	if err != nil {
		return err
	}

	if v == nil {
		if !col.Nullable {
			return fmt.Errorf("%w: %q", ErrNotNullable, name)
		}
		if r.values[i] != nil {
			r.dirty[i] = true
		}
		r.values[i] = nil
		return nil
	}

	if err := r.reg.Validate(col, v); err != nil {
		return err
	}

	switch col.Type {
	case typedcol.ColArray:
		norm, err := codec.NormalizeArray(v)
		if err != nil {
			return err
		}
		v = norm
	case typedcol.ColBlob:
		// Keep the field stream-shaped: buffered inputs get wrapped so Get
		// hands back the same kind of handle a Load would.
		switch x := v.(type) {
		case []byte:
			cp := make([]byte, len(x))
			copy(cp, x)
			v = typedcol.NewBlobValue(cp)
		case string:
			v = typedcol.NewBlobValue([]byte(x))
		}
	}

	if col.Type == typedcol.ColBlob {
		r.dirty[i] = true
	} else if !reflect.DeepEqual(r.values[i], v) {
		r.dirty[i] = true
	}
	r.values[i] = v
	return nil
}

// IsDirty reports whether the field has unsaved mutations.
func (r *Record) IsDirty(name string) (bool, error) {
	i, _, err := r.col(name)
	if err != nil {
		return false, err
	}
	return r.dirty[i], nil
}

// DirtyColumns lists the names of all fields with unsaved mutations, in
// schema order.
func (r *Record) DirtyColumns() []string {
	var out []string
	for i, d := range r.dirty {
		if d {
			out = append(out, r.schema.Cols[i].Name)
		}
	}
	return out
}

// ----- Array column convenience operations -----

func (r *Record) arrayCol(name string) (int, []any, error) {
	i, col, err := r.col(name)
	if err != nil {
		return 0, nil, err
	}
	if col.Type != typedcol.ColArray {
		return 0, nil, fmt.Errorf("%w: %q is %s", ErrNotArrayColumn, name, col.Type)
	}
	cur, _ := r.values[i].([]any)
	return i, cur, nil
}

// Has reports whether the array field currently contains elem. A NULL field
// contains nothing.
func (r *Record) Has(name string, elem any) (bool, error) {
	_, cur, err := r.arrayCol(name)
	if err != nil {
		return false, err
	}
	n, err := codec.NormalizeScalar(elem)
	if err != nil {
		return false, err
	}
	for _, el := range cur {
		if el == n {
			return true, nil
		}
	}
	return false, nil
}

// Add appends elem to the array field (a NULL field becomes a one-element
// list) and marks it dirty.
func (r *Record) Add(name string, elem any) error {
	i, cur, err := r.arrayCol(name)
	if err != nil {
		return err
	}
	n, err := codec.NormalizeScalar(elem)
	if err != nil {
		return err
	}
	next := make([]any, len(cur), len(cur)+1)
	copy(next, cur)
	r.values[i] = append(next, n)
	r.dirty[i] = true
	return nil
}

// Remove drops the first occurrence of elem from the array field and marks it
// dirty. Removing an absent element is a no-op: no error, flag untouched.
func (r *Record) Remove(name string, elem any) error {
	i, cur, err := r.arrayCol(name)
	if err != nil {
		return err
	}
	n, err := codec.NormalizeScalar(elem)
	if err != nil {
		return err
	}
	for j, el := range cur {
		if el != n {
			continue
		}
		next := make([]any, 0, len(cur)-1)
		next = append(next, cur[:j]...)
		next = append(next, cur[j+1:]...)
		r.values[i] = next
		r.dirty[i] = true
		return nil
	}
	return nil
}

// ----- Storage boundary -----

// Save encodes every non-NULL field and writes the row under key. NULL fields
// are stored as absence. All dirty flags reset on success.
func (r *Record) Save(s Store, key uuid.UUID) error {
	cols := make(map[string][]byte, r.schema.NumCols())
	for i, col := range r.schema.Cols {
		if r.values[i] == nil {
			continue
		}
		b, err := r.reg.Encode(col, r.values[i])
		if err != nil {
			return err
		}
		cols[col.Name] = b
	}
	if err := s.Put(key, cols); err != nil {
		return err
	}
	for i := range r.dirty {
		r.dirty[i] = false
	}
	return nil
}

// Load reads the row under key and decodes it into a clean record. Columns
// absent from storage decode to explicit nil, not an error.
func Load(s Store, key uuid.UUID, schema typedcol.Schema, reg *codec.Registry) (*Record, error) {
	cols, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	r := New(schema, reg)
	for i, col := range schema.Cols {
		b, present := cols[col.Name]
		if !present {
			continue
		}
		v, err := reg.Decode(col, b)
		if err != nil {
			return nil, err
		}
		r.values[i] = v
	}
	return r, nil
}
