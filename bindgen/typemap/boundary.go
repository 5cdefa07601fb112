package typemap

import "github.com/wastalk/wastalk/schema"

// Class describes how a value of a given type crosses the component
// boundary.
type Class int

const (
	// Native values cross as their IDL shape directly: primitives, lists,
	// tuples, options, and none (the absent option). Classification is per
	// leaf, not transitive: a composite is native at the top level even
	// when it contains dynamic leaves, which are encoded individually.
	Native Class = iota
	// Pairs values are dicts: the IDL carries list<tuple<key, value>> and
	// each wrapper converts to/from its native mapping type at runtime.
	Pairs
	// JSON values (any, class references) cross as JSON inside the IDL
	// string primitive, with the documented decode-failure leniency on the
	// source side.
	JSON
)

// Boundary classifies the top-level crossing behavior of a type. A nil type
// is unannotated and treated as any. The generators and the Go codec in the
// boundary package dispatch on this classification, then recurse per leaf.
func Boundary(t *schema.Type) Class {
	if t == nil {
		return JSON
	}
	switch t.Kind {
	case schema.KindDict:
		return Pairs
	case schema.KindAny, schema.KindClass:
		return JSON
	default:
		return Native
	}
}

// AlwaysForward reports whether the source wrapper must forward a parameter
// of this type even when its value is falsy. Boolean and numeric parameters
// cross natively, so False and 0 are legitimate values, not absence markers.
// For strings and JSON-boundary types an empty value is indistinguishable
// from "not provided" and is omitted so the native default applies; this is
// a deliberate, documented boundary convention.
func AlwaysForward(t *schema.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind != schema.KindPrimitive {
		return false
	}
	switch t.Primitive {
	case schema.PrimitiveInt, schema.PrimitiveFloat, schema.PrimitiveBool:
		return true
	}
	return false
}
