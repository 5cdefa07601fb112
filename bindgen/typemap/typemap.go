// Package typemap maps the closed schema type variant to type expressions in
// each generation target: the IDL (WIT), the source wrapper language
// (Python), and the consumer language (TypeScript).
//
// All three mappings are pure functions of the Type value. The wire format
// has no native map and no union-with-payload-by-name, so dynamic values
// (any, class references) are carried as JSON inside the IDL's string
// primitive; dicts cross as lists of key/value pairs. Each wrapper must
// encode and decode these identically; boundary drift here is the dominant
// source of subtle bugs, so every composite variant is covered by tests.
package typemap

import (
	"strings"

	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Wit maps a Type to its IDL type expression.
//
// The IDL has no unit type, so none maps to a placeholder option; it has no
// dynamic type, so any and class references map to string (JSON-encoded at
// the boundary).
func Wit(t *schema.Type) (string, error) {
	if t == nil {
		return "string", nil // unannotated: same as any
	}
	switch t.Kind {
	case schema.KindPrimitive:
		switch t.Primitive {
		case schema.PrimitiveStr:
			return "string", nil
		case schema.PrimitiveInt:
			return "s64", nil
		case schema.PrimitiveFloat:
			return "f64", nil
		case schema.PrimitiveBool:
			return "bool", nil
		}
		return "", errors.Newf("unsupported primitive %q", t.Primitive)
	case schema.KindList:
		elem, err := Wit(t.Element)
		if err != nil {
			return "", err
		}
		return "list<" + elem + ">", nil
	case schema.KindDict:
		key, err := Wit(t.Key)
		if err != nil {
			return "", err
		}
		value, err := Wit(t.Value)
		if err != nil {
			return "", err
		}
		return "list<tuple<" + key + ", " + value + ">>", nil
	case schema.KindOptional:
		inner, err := Wit(t.Inner)
		if err != nil {
			return "", err
		}
		return "option<" + inner + ">", nil
	case schema.KindTuple:
		parts, err := mapElements(t.Elements, Wit)
		if err != nil {
			return "", err
		}
		return "tuple<" + strings.Join(parts, ", ") + ">", nil
	case schema.KindClass, schema.KindAny:
		return "string", nil
	case schema.KindNone:
		return "option<string>", nil
	default:
		return "", errors.Newf("unsupported type kind %q", t.Kind)
	}
}

// Python maps a Type to its source-wrapper annotation.
func Python(t *schema.Type) (string, error) {
	if t == nil {
		return "str", nil
	}
	switch t.Kind {
	case schema.KindPrimitive:
		switch t.Primitive {
		case schema.PrimitiveStr:
			return "str", nil
		case schema.PrimitiveInt:
			return "int", nil
		case schema.PrimitiveFloat:
			return "float", nil
		case schema.PrimitiveBool:
			return "bool", nil
		}
		return "", errors.Newf("unsupported primitive %q", t.Primitive)
	case schema.KindList:
		elem, err := Python(t.Element)
		if err != nil {
			return "", err
		}
		return "list[" + elem + "]", nil
	case schema.KindDict:
		key, err := Python(t.Key)
		if err != nil {
			return "", err
		}
		value, err := Python(t.Value)
		if err != nil {
			return "", err
		}
		return "dict[" + key + ", " + value + "]", nil
	case schema.KindOptional:
		inner, err := Python(t.Inner)
		if err != nil {
			return "", err
		}
		return inner + " | None", nil
	case schema.KindTuple:
		parts, err := mapElements(t.Elements, Python)
		if err != nil {
			return "", err
		}
		return "tuple[" + strings.Join(parts, ", ") + "]", nil
	case schema.KindClass, schema.KindAny:
		return "str", nil
	case schema.KindNone:
		return "None", nil
	default:
		return "", errors.Newf("unsupported type kind %q", t.Kind)
	}
}

// TypeScript maps a Type to the consumer-facing declaration type.
func TypeScript(t *schema.Type) (string, error) {
	if t == nil {
		return "unknown", nil
	}
	switch t.Kind {
	case schema.KindPrimitive:
		switch t.Primitive {
		case schema.PrimitiveStr:
			return "string", nil
		case schema.PrimitiveInt, schema.PrimitiveFloat:
			return "number", nil
		case schema.PrimitiveBool:
			return "boolean", nil
		}
		return "", errors.Newf("unsupported primitive %q", t.Primitive)
	case schema.KindList:
		elem, err := TypeScript(t.Element)
		if err != nil {
			return "", err
		}
		// Union element types need grouping: (string | null)[].
		if strings.Contains(elem, "|") {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil
	case schema.KindDict:
		key, err := TypeScript(t.Key)
		if err != nil {
			return "", err
		}
		value, err := TypeScript(t.Value)
		if err != nil {
			return "", err
		}
		// Record keys must be string or number; anything else needs Map.
		if key == "string" || key == "number" {
			return "Record<" + key + ", " + value + ">", nil
		}
		return "Map<" + key + ", " + value + ">", nil
	case schema.KindOptional:
		inner, err := TypeScript(t.Inner)
		if err != nil {
			return "", err
		}
		return inner + " | null", nil
	case schema.KindTuple:
		parts, err := mapElements(t.Elements, TypeScript)
		if err != nil {
			return "", err
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case schema.KindClass, schema.KindAny:
		return "unknown", nil
	case schema.KindNone:
		return "void", nil
	default:
		return "", errors.Newf("unsupported type kind %q", t.Kind)
	}
}

func mapElements(elements []*schema.Type, f func(*schema.Type) (string, error)) ([]string, error) {
	parts := make([]string, len(elements))
	for i, e := range elements {
		s, err := f(e)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return parts, nil
}
