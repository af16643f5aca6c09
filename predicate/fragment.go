// Package predicate turns typed filter requests into storage-neutral fragment
// trees and provides a reference evaluator over encoded rows. The query
// execution layer that renders fragments into its native query language lives
// outside this module.
package predicate

// Fragment is one node of an abstract filter tree. The storage layer renders
// the tree into its own query language; inside this module only the reference
// evaluator interprets it.
type Fragment interface {
	fragmentNode()
}

// ----- Fragment nodes -----

type AndFragment struct {
	Children []Fragment
}

func (*AndFragment) fragmentNode() {}

type OrFragment struct {
	Children []Fragment
}

func (*OrFragment) fragmentNode() {}

type NotFragment struct {
	Child Fragment
}

func (*NotFragment) fragmentNode() {}

// EqualsFragment matches rows whose stored encoding for Column is byte-equal
// to Literal.
type EqualsFragment struct {
	Column  string
	Literal []byte
}

func (*EqualsFragment) fragmentNode() {}

// SubstringFragment matches rows whose stored encoding for Column contains
// Literal anywhere. Unanchored by nature: backends cannot serve it from an
// index, so it degrades to a full-relation scan.
type SubstringFragment struct {
	Column  string
	Literal []byte
}

func (*SubstringFragment) fragmentNode() {}

// ----- Raw composition entry points -----
//
// These build boolean structure only and never reach into the codec layer:
// the advanced-type filters (enum/object equality, array membership) are
// available exclusively through the typed Translator surface.

// And combines fragments conjunctively. A single child is returned as-is.
func And(children ...Fragment) Fragment {
	if len(children) == 1 {
		return children[0]
	}
	return &AndFragment{Children: children}
}

// Or combines fragments disjunctively. A single child is returned as-is.
func Or(children ...Fragment) Fragment {
	if len(children) == 1 {
		return children[0]
	}
	return &OrFragment{Children: children}
}

// Not negates a fragment.
func Not(child Fragment) Fragment {
	return &NotFragment{Child: child}
}
