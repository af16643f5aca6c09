package predicate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tuannm99/typedcol"
	"github.com/tuannm99/typedcol/codec"
)

var (
	// ErrUnsupportedFilterTarget reports a filter against a column type that
	// forbids it (blob columns, or array columns outside the Contains* modes).
	ErrUnsupportedFilterTarget = errors.New("predicate: column type does not support this filter")

	// ErrNoFilterValues reports a membership filter called with an empty value list.
	ErrNoFilterValues = errors.New("predicate: membership filter needs at least one value")
)

// Translator converts typed filter requests into fragment trees using the
// column's codec to produce the encoded literals.
type Translator struct {
	reg *codec.Registry
	log *zap.Logger
}

func NewTranslator(reg *codec.Registry, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{reg: reg, log: log}
}

// Equals builds a byte-exact equality fragment for col. Enum values are
// validated against the EnumSpec before encoding so an out-of-set filter
// fails fast instead of matching nothing. Blob and array columns are not
// equality-filterable.
func (t *Translator) Equals(col typedcol.Column, v any) (Fragment, error) {
	switch col.Type {
	case typedcol.ColBlob:
		return nil, fmt.Errorf("%w: blob column %q", ErrUnsupportedFilterTarget, col.Name)
	case typedcol.ColArray:
		return nil, fmt.Errorf("%w: array column %q takes Contains filters", ErrUnsupportedFilterTarget, col.Name)
	case typedcol.ColEnum:
		if err := t.reg.Validate(col, v); err != nil {
			return nil, err
		}
	}

	lit, err := t.reg.Encode(col, v)
	if err != nil {
		return nil, err
	}
	return &EqualsFragment{Column: col.Name, Literal: lit}, nil
}

// ContainsAll matches rows whose array column holds every given element.
func (t *Translator) ContainsAll(col typedcol.Column, values ...any) (Fragment, error) {
	frags, err := t.elementFragments(col, values)
	if err != nil {
		return nil, err
	}
	return And(frags...), nil
}

// ContainsSome matches rows whose array column holds at least one given element.
func (t *Translator) ContainsSome(col typedcol.Column, values ...any) (Fragment, error) {
	frags, err := t.elementFragments(col, values)
	if err != nil {
		return nil, err
	}
	return Or(frags...), nil
}

// ContainsNone matches rows whose array column holds none of the given elements.
func (t *Translator) ContainsNone(col typedcol.Column, values ...any) (Fragment, error) {
	frags, err := t.elementFragments(col, values)
	if err != nil {
		return nil, err
	}
	return Not(Or(frags...)), nil
}

// Contains is the scalar convenience filter: ContainsAll of one element.
func (t *Translator) Contains(col typedcol.Column, v any) (Fragment, error) {
	return t.ContainsAll(col, v)
}

func (t *Translator) elementFragments(col typedcol.Column, values []any) ([]Fragment, error) {
	if col.Type != typedcol.ColArray {
		return nil, fmt.Errorf("%w: %s column %q takes no membership filter",
			ErrUnsupportedFilterTarget, col.Type, col.Name)
	}
	if len(values) == 0 {
		return nil, ErrNoFilterValues
	}

	frags := make([]Fragment, len(values))
	for i, v := range values {
		pat, err := codec.ArrayElementPattern(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		frags[i] = &SubstringFragment{Column: col.Name, Literal: pat}
	}
	t.advise(col)
	return frags, nil
}

// advise flags that the emitted fragment cannot be served from a storage
// index. Pattern matches against serialized encodings are unanchored, so the
// backend will fall back to a full-relation scan.
func (t *Translator) advise(col typedcol.Column) {
	t.log.Warn("filter degrades to full-relation scan",
		zap.String("column", col.Name),
		zap.String("type", col.Type.String()),
	)
}
