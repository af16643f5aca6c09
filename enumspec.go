package typedcol

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyEnumSpec     = errors.New("typedcol: enum spec needs at least one value")
	ErrDuplicateEnumItem = errors.New("typedcol: duplicate enum value")
)

// EnumSpec is the fixed, ordered set of permitted values for an enum column.
// Values are addressed by 0-based position; the position is what gets stored.
type EnumSpec struct {
	values []string
	index  map[string]int
}

func NewEnumSpec(values ...string) (*EnumSpec, error) {
	if len(values) == 0 {
		return nil, ErrEmptyEnumSpec
	}
	s := &EnumSpec{
		values: make([]string, len(values)),
		index:  make(map[string]int, len(values)),
	}
	copy(s.values, values)
	for i, v := range values {
		if _, dup := s.index[v]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEnumItem, v)
		}
		s.index[v] = i
	}
	return s, nil
}

// MustEnumSpec is NewEnumSpec for static declarations; panics on a bad value set.
func MustEnumSpec(values ...string) *EnumSpec {
	s, err := NewEnumSpec(values...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *EnumSpec) Len() int { return len(s.values) }

// Index returns the position of v, or false if v is not a member.
func (s *EnumSpec) Index(v string) (int, bool) {
	i, ok := s.index[v]
	return i, ok
}

// At returns the value at position i, or false if i is out of range.
func (s *EnumSpec) At(i int) (string, bool) {
	if i < 0 || i >= len(s.values) {
		return "", false
	}
	return s.values[i], true
}

// Values returns a copy of the permitted values in declaration order.
func (s *EnumSpec) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}
