// Package query is the typed filter surface over a schema: one filter method
// per kind of column, each pre-bound to the right codec context.
package query

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tuannm99/typedcol"
	"github.com/tuannm99/typedcol/codec"
	"github.com/tuannm99/typedcol/predicate"
)

var (
	ErrUnknownColumn = errors.New("query: unknown column")
	ErrNoFilters     = errors.New("query: no filters applied")
)

// Query accumulates typed per-column filters and builds one conjunctive
// fragment tree. Methods chain; the first error sticks and surfaces at Build.
type Query struct {
	schema typedcol.Schema
	tr     *predicate.Translator
	frags  []predicate.Fragment
	err    error
}

func New(schema typedcol.Schema, reg *codec.Registry, log *zap.Logger) *Query {
	return &Query{
		schema: schema,
		tr:     predicate.NewTranslator(reg, log),
	}
}

// FilterByEqual adds a byte-exact equality filter. Enum filter values are
// checked against the EnumSpec before translation, so a value outside the set
// fails here instead of producing a query guaranteed to match nothing.
func (q *Query) FilterByEqual(column string, v any) *Query {
	return q.apply(column, func(col typedcol.Column) (predicate.Fragment, error) {
		return q.tr.Equals(col, v)
	})
}

// FilterBy adds the scalar membership convenience filter for an array column:
// the row must contain the single given element.
func (q *Query) FilterBy(column string, elem any) *Query {
	return q.apply(column, func(col typedcol.Column) (predicate.Fragment, error) {
		return q.tr.Contains(col, elem)
	})
}

// FilterByAll requires the array column to contain every given element.
func (q *Query) FilterByAll(column string, values ...any) *Query {
	return q.apply(column, func(col typedcol.Column) (predicate.Fragment, error) {
		return q.tr.ContainsAll(col, values...)
	})
}

// FilterBySome requires the array column to contain at least one given element.
func (q *Query) FilterBySome(column string, values ...any) *Query {
	return q.apply(column, func(col typedcol.Column) (predicate.Fragment, error) {
		return q.tr.ContainsSome(col, values...)
	})
}

// FilterByNone requires the array column to contain none of the given elements.
func (q *Query) FilterByNone(column string, values ...any) *Query {
	return q.apply(column, func(col typedcol.Column) (predicate.Fragment, error) {
		return q.tr.ContainsNone(col, values...)
	})
}

func (q *Query) apply(column string, build func(typedcol.Column) (predicate.Fragment, error)) *Query {
	if q.err != nil {
		return q
	}
	col, ok := q.schema.Col(column)
	if !ok {
		q.err = fmt.Errorf("%w: %q", ErrUnknownColumn, column)
		return q
	}
	frag, err := build(col)
	if err != nil {
		q.err = err
		return q
	}
	q.frags = append(q.frags, frag)
	return q
}

// Build returns the accumulated filters as one conjunctive fragment tree.
func (q *Query) Build() (predicate.Fragment, error) {
	if q.err != nil {
		return nil, q.err
	}
	if len(q.frags) == 0 {
		return nil, ErrNoFilters
	}
	return predicate.And(q.frags...), nil
}
