// Package boundary implements the wire conventions the generated wrappers
// agree on, as a Go codec. Round-trip tests pin the conventions here so a
// drift in either generated wrapper shows up against a reference
// implementation:
//
//   - primitives cross natively (strings, 64-bit ints, floats, bools);
//   - lists and tuples cross as slices, options as nil-or-value, and a
//     none value crosses as the absent option;
//   - dicts cross as ordered key/value pair lists;
//   - any and class values cross as JSON-in-string, with a lenient decode
//     that keeps a non-JSON string verbatim.
//
// Dispatch follows typemap.Boundary, the same classification the
// generators consume.
package boundary

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/wastalk/wastalk/bindgen/typemap"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Pair is one dict entry on the wire.
type Pair struct {
	Key   any
	Value any
}

// Encode converts a native value into its wire shape for the given type.
// A nil type is treated as any, matching the schema convention for missing
// annotations.
func Encode(t *schema.Type, v any) (any, error) {
	switch typemap.Boundary(t) {
	case typemap.JSON:
		return encodeJSON(v)
	case typemap.Pairs:
		return encodePairs(t, v)
	}
	switch t.Kind {
	case schema.KindPrimitive:
		return coercePrimitive(t.Primitive, v)
	case schema.KindNone:
		return nil, nil
	case schema.KindList:
		return encodeSequence(t.Element, v)
	case schema.KindTuple:
		return encodeTuple(t.Elements, v)
	case schema.KindOptional:
		if v == nil {
			return nil, nil
		}
		return Encode(t.Inner, v)
	}
	return nil, errors.Newf("unsupported type kind %q", t.Kind)
}

// Decode converts a wire value back into its native shape.
func Decode(t *schema.Type, v any) (any, error) {
	switch typemap.Boundary(t) {
	case typemap.JSON:
		return decodeJSON(v)
	case typemap.Pairs:
		return decodePairs(t, v)
	}
	switch t.Kind {
	case schema.KindPrimitive:
		return coercePrimitive(t.Primitive, v)
	case schema.KindNone:
		return nil, nil
	case schema.KindList:
		return decodeSequence(t.Element, v)
	case schema.KindTuple:
		return decodeTuple(t.Elements, v)
	case schema.KindOptional:
		if v == nil {
			return nil, nil
		}
		return Decode(t.Inner, v)
	}
	return nil, errors.Newf("unsupported type kind %q", t.Kind)
}

// encodeJSON applies the JSON boundary: nil becomes the empty string,
// strings cross verbatim, everything else is marshalled.
func encodeJSON(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "json boundary")
	}
	return string(raw), nil
}

// decodeJSON is deliberately lenient: a string that is not valid JSON is
// handed back verbatim, because the producing side may have sent a bare
// string across the same boundary.
func decodeJSON(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	if s == "" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return s, nil
	}
	return out, nil
}

func coercePrimitive(p string, v any) (any, error) {
	switch p {
	case schema.PrimitiveStr:
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf("expected string, got %T", v)
		}
		return s, nil
	case schema.PrimitiveInt:
		return asInt64(v)
	case schema.PrimitiveFloat:
		return asFloat64(v)
	case schema.PrimitiveBool:
		b, ok := v.(bool)
		if !ok {
			return nil, errors.Newf("expected bool, got %T", v)
		}
		return b, nil
	}
	return nil, errors.Newf("unsupported primitive %q", p)
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return 0, errors.Newf("expected integer, got fractional %v", n)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.Wrap(err, "expected integer")
		}
		return i, nil
	}
	return 0, errors.Newf("expected integer, got %T", v)
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	}
	return 0, errors.Newf("expected float, got %T", v)
}

func encodeSequence(elem *schema.Type, v any) (any, error) {
	items, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		enc, err := Encode(elem, item)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = enc
	}
	return out, nil
}

func decodeSequence(elem *schema.Type, v any) (any, error) {
	items, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		dec, err := Decode(elem, item)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = dec
	}
	return out, nil
}

func encodeTuple(elements []*schema.Type, v any) (any, error) {
	items, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	if len(items) != len(elements) {
		return nil, errors.Newf("tuple arity mismatch: want %d, got %d", len(elements), len(items))
	}
	out := make([]any, len(items))
	for i, item := range items {
		enc, err := Encode(elements[i], item)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = enc
	}
	return out, nil
}

func decodeTuple(elements []*schema.Type, v any) (any, error) {
	items, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	if len(items) != len(elements) {
		return nil, errors.Newf("tuple arity mismatch: want %d, got %d", len(elements), len(items))
	}
	out := make([]any, len(items))
	for i, item := range items {
		dec, err := Decode(elements[i], item)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = dec
	}
	return out, nil
}

// encodePairs converts a native map into an ordered pair list. Ordering is
// by the key's string form so the wire value is deterministic.
func encodePairs(t *schema.Type, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, errors.Newf("expected map, got %T", v)
	}
	pairs := make([]Pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := Encode(t.Key, iter.Key().Interface())
		if err != nil {
			return nil, errors.Wrap(err, "key")
		}
		value, err := Encode(t.Value, iter.Value().Interface())
		if err != nil {
			return nil, errors.Wrapf(err, "value for key %v", key)
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return fmt.Sprint(pairs[i].Key) < fmt.Sprint(pairs[j].Key)
	})
	return pairs, nil
}

func decodePairs(t *schema.Type, v any) (any, error) {
	pairs, ok := v.([]Pair)
	if !ok {
		return nil, errors.Newf("expected pair list, got %T", v)
	}
	out := make(map[any]any, len(pairs))
	for _, p := range pairs {
		key, err := Decode(t.Key, p.Key)
		if err != nil {
			return nil, errors.Wrap(err, "key")
		}
		value, err := Decode(t.Value, p.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "value for key %v", key)
		}
		out[key] = value
	}
	return out, nil
}

func asSlice(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Newf("expected sequence, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
