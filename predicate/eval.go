package predicate

import (
	"bytes"
	"fmt"
)

// Matches is the reference evaluator: it interprets a fragment tree against
// one encoded row, given as column name -> stored bytes. A column absent from
// the map is NULL and matches no Equals or Substring fragment. Real backends
// render the tree into their own query language instead of calling this, but
// the semantics they must preserve are exactly these.
func Matches(f Fragment, row map[string][]byte) (bool, error) {
	switch frag := f.(type) {
	case *AndFragment:
		for _, child := range frag.Children {
			ok, err := Matches(child, row)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case *OrFragment:
		for _, child := range frag.Children {
			ok, err := Matches(child, row)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case *NotFragment:
		ok, err := Matches(frag.Child, row)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case *EqualsFragment:
		stored, present := row[frag.Column]
		if !present {
			return false, nil
		}
		return bytes.Equal(stored, frag.Literal), nil

	case *SubstringFragment:
		stored, present := row[frag.Column]
		if !present {
			return false, nil
		}
		return bytes.Contains(stored, frag.Literal), nil

	default:
		return false, fmt.Errorf("predicate: unsupported fragment type %T", f)
	}
}
