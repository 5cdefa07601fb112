package python

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// decodeExpr builds the Python expression converting a wire value named by
// expr into its native shape. Native-crossing types come back unchanged;
// pair lists are rebuilt into dicts; JSON-boundary values go through
// _decode_value. depth disambiguates comprehension variables when composite
// types nest.
func decodeExpr(t *schema.Type, expr string, depth int) (string, error) {
	if t == nil || t.Kind == schema.KindAny || t.Kind == schema.KindClass {
		return fmt.Sprintf("_decode_value(%s)", expr), nil
	}
	switch t.Kind {
	case schema.KindPrimitive, schema.KindNone:
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
		return fmt.Sprintf("[%s for %s in %s]", inner, item, expr), nil
	case schema.KindTuple:
		return tupleExpr(t.Elements, expr, depth, decodeExpr)
	case schema.KindOptional:
		inner, err := decodeExpr(t.Inner, expr, depth)
		if err != nil {
			return "", err
		}
		if inner == expr {
			return expr, nil
		}
		return fmt.Sprintf("(None if %s is None else %s)", expr, inner), nil
	case schema.KindDict:
		kExpr, err := decodeExpr(t.Key, "key", depth+1)
		if err != nil {
			return "", err
		}
		vExpr, err := decodeExpr(t.Value, "value", depth+1)
		if err != nil {
			return "", err
		}
		if kExpr == "key" && vExpr == "value" {
			return fmt.Sprintf("dict(%s)", expr), nil
		}
		return fmt.Sprintf("{%s: %s for key, value in %s}", kExpr, vExpr, expr), nil
	}
	return "", errors.Newf("unsupported type kind %q", t.Kind)
}

// encodeExpr is the inverse of decodeExpr: it converts a native value into
// its wire shape for the return path.
func encodeExpr(t *schema.Type, expr string, depth int) (string, error) {
	if t == nil || t.Kind == schema.KindAny || t.Kind == schema.KindClass {
		return fmt.Sprintf("_encode_result(%s)", expr), nil
	}
	switch t.Kind {
	case schema.KindPrimitive:
		return expr, nil
	case schema.KindNone:
		return "None", nil
	case schema.KindList:
		item := itemVar(depth)
		inner, err := encodeExpr(t.Element, item, depth+1)
		if err != nil {
			return "", err
		}
		if inner == item {
			return expr, nil
		}
		return fmt.Sprintf("[%s for %s in %s]", inner, item, expr), nil
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
		return fmt.Sprintf("(None if %s is None else %s)", expr, inner), nil
	case schema.KindDict:
		kExpr, err := encodeExpr(t.Key, "key", depth+1)
		if err != nil {
			return "", err
		}
		vExpr, err := encodeExpr(t.Value, "value", depth+1)
		if err != nil {
			return "", err
		}
		if kExpr == "key" && vExpr == "value" {
			return fmt.Sprintf("list(%s.items())", expr), nil
		}
		return fmt.Sprintf("[(%s, %s) for key, value in %s.items()]", kExpr, vExpr, expr), nil
	}
	return "", errors.Newf("unsupported type kind %q", t.Kind)
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
	if len(parts) == 1 {
		return fmt.Sprintf("(%s,)", parts[0]), nil
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", ")), nil
}

func itemVar(depth int) string {
	if depth == 0 {
		return "item"
	}
	return fmt.Sprintf("item%d", depth)
}
