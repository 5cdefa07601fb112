package typescript

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// The transpiled component exposes 64-bit integers as BigInt, while the
// consumer surface promises plain numbers. These expression builders bridge
// that, alongside the pair-list and JSON boundary conversions shared with
// the source wrapper.

func encodeParamExpr(t *schema.Type, expr string) (string, error) {
	return encodeExpr(t, expr, 0)
}

func decodeResultExpr(t *schema.Type, expr string) (string, error) {
	return decodeExpr(t, expr, 0)
}

func encodeExpr(t *schema.Type, expr string, depth int) (string, error) {
	if t == nil || t.Kind == schema.KindAny || t.Kind == schema.KindClass {
		return fmt.Sprintf("_encodeValue(%s)", expr), nil
	}
	switch t.Kind {
	case schema.KindPrimitive:
		if t.Primitive == schema.PrimitiveInt {
			return fmt.Sprintf("BigInt(Math.trunc(%s))", expr), nil
		}
		return expr, nil
	case schema.KindNone:
		return expr, nil
	case schema.KindList:
		item := itemVar(depth)
		inner, err := encodeExpr(t.Element, item, depth+1)
		if err != nil {
			return "", err
		}
		if inner == item {
			return expr, nil
		}
		return fmt.Sprintf("%s.map((%s) => %s)", expr, item, inner), nil
	case schema.KindTuple:
		return tupleExpr(t.Elements, expr, depth, encodeExpr)
	case schema.KindOptional:
		inner, err := encodeExpr(t.Inner, expr, depth)
		if err != nil {
			return "", err
		}
		if inner == expr {
			return expr, nil
		}
		return fmt.Sprintf("(%s === null || %s === undefined ? null : %s)", expr, expr, inner), nil
	case schema.KindDict:
		pairs := fmt.Sprintf("_toPairs(%s)", expr)
		kExpr, err := encodeExpr(t.Key, "key", depth+1)
		if err != nil {
			return "", err
		}
		vExpr, err := encodeExpr(t.Value, "value", depth+1)
		if err != nil {
			return "", err
		}
		if kExpr == "key" && vExpr == "value" {
			return pairs, nil
		}
		return fmt.Sprintf("%s.map(([key, value]) => [%s, %s])", pairs, kExpr, vExpr), nil
	}
	return "", errors.Newf("unsupported type kind %q", t.Kind)
}

func decodeExpr(t *schema.Type, expr string, depth int) (string, error) {
	if t == nil || t.Kind == schema.KindAny || t.Kind == schema.KindClass {
		return fmt.Sprintf("_decodeResult(%s)", expr), nil
	}
	switch t.Kind {
	case schema.KindPrimitive:
		if t.Primitive == schema.PrimitiveInt {
			return fmt.Sprintf("Number(%s)", expr), nil
		}
		return expr, nil
	case schema.KindNone:
		return expr, nil
	case schema.KindList:
		item := itemVar(depth)
		inner, err := decodeExpr(t.Element, item, depth+1)
		if err != nil {
			return "", err
		}
		if inner == item {
			return expr, nil
		}
		return fmt.Sprintf("%s.map((%s) => %s)", expr, item, inner), nil
	case schema.KindTuple:
		return tupleExpr(t.Elements, expr, depth, decodeExpr)
	case schema.KindOptional:
		inner, err := decodeExpr(t.Inner, expr, depth)
		if err != nil {
			return "", err
		}
		if inner == expr {
			return fmt.Sprintf("(%s === undefined ? null : %s)", expr, expr), nil
		}
		return fmt.Sprintf("(%s === null || %s === undefined ? null : %s)", expr, expr, inner), nil
	case schema.KindDict:
		kExpr, err := decodeExpr(t.Key, "key", depth+1)
		if err != nil {
			return "", err
		}
		vExpr, err := decodeExpr(t.Value, "value", depth+1)
		if err != nil {
			return "", err
		}
		pairs := expr
		if kExpr != "key" || vExpr != "value" {
			pairs = fmt.Sprintf("%s.map(([key, value]) => [%s, %s])", expr, kExpr, vExpr)
		}
		if recordKey(t.Key) {
			return fmt.Sprintf("Object.fromEntries(%s)", pairs), nil
		}
		return fmt.Sprintf("new Map(%s)", pairs), nil
	}
	return "", errors.Newf("unsupported type kind %q", t.Kind)
}

// recordKey reports whether the dict's key type can index a plain object.
func recordKey(t *schema.Type) bool {
	return t != nil && t.Kind == schema.KindPrimitive &&
		(t.Primitive == schema.PrimitiveStr || t.Primitive == schema.PrimitiveInt || t.Primitive == schema.PrimitiveFloat)
}

func tupleExpr(elements []*schema.Type, expr string, depth int, conv func(*schema.Type, string, int) (string, error)) (string, error) {
	parts := make([]string, len(elements))
	identity := true
	for i, el := range elements {
		sub := fmt.Sprintf("%s[%d]", expr, i)
		out, err := conv(el, sub, depth+1)
		if err != nil {
			return "", err
		}
		if out != sub {
			identity = false
		}
		parts[i] = out
	}
	if identity {
		return expr, nil
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", ")), nil
}

// jsDefault is the neutral value attached to an optional parameter so an
// omitted argument still satisfies the typed boundary. The source wrapper's
// falsy-omission rule turns these back into "use the native default".
func jsDefault(t *schema.Type) (string, error) {
	if t == nil || t.Kind == schema.KindAny || t.Kind == schema.KindClass {
		return "null", nil
	}
	switch t.Kind {
	case schema.KindPrimitive:
		switch t.Primitive {
		case schema.PrimitiveStr:
			return `""`, nil
		case schema.PrimitiveInt, schema.PrimitiveFloat:
			return "0", nil
		case schema.PrimitiveBool:
			return "false", nil
		}
		return "", errors.Newf("unsupported primitive %q", t.Primitive)
	case schema.KindList:
		return "[]", nil
	case schema.KindDict:
		return "{}", nil
	case schema.KindOptional, schema.KindNone:
		return "null", nil
	case schema.KindTuple:
		parts := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			d, err := jsDefault(el)
			if err != nil {
				return "", err
			}
			parts[i] = d
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", ")), nil
	}
	return "", errors.Newf("unsupported type kind %q", t.Kind)
}

func itemVar(depth int) string {
	if depth == 0 {
		return "item"
	}
	return fmt.Sprintf("item%d", depth)
}
