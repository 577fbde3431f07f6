package ir

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
)

// ToAny converts a resolved tree to plain Go values: map[string]any,
// []any, string, bool, nil, int for integers and float64 for other
// numbers. Placeholders and unresolved interpolations are errors.
func ToAny(node *Node) (any, error) {
	switch node.Type {
	case NullType:
		return nil, nil
	case BoolType:
		return node.Bool, nil
	case StringType:
		return node.String, nil
	case NumberType:
		if node.Int64 != nil {
			if *node.Int64 >= math.MinInt && *node.Int64 <= math.MaxInt {
				return int(*node.Int64), nil
			}
			return *node.Int64, nil
		}
		f, _ := node.Float()
		return f, nil
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			a, err := ToAny(v)
			if err != nil {
				return nil, err
			}
			res[i] = a
		}
		return res, nil
	case ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			a, err := ToAny(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[f.String] = a
		}
		return res, nil
	case MissingType:
		return nil, NewPathError("convert", node.KPath(), ErrMissingRequired)
	case InterpType:
		return nil, NewPathError("convert", node.KPath(), fmt.Errorf("%w: unresolved %q", ErrTypeMismatch, node.String))
	}
	return nil, fmt.Errorf("%w: unknown type %s", ErrTypeMismatch, node.Type)
}

// FromAny converts a Go value built from maps, slices and scalars to a
// tree. Map keys must be strings and are sorted. A *Node is cloned.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone().Detach(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case float64:
		return FromFloat(x), nil
	case []any:
		elts := make([]*Node, len(x))
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			elts[i] = n
		}
		return FromSlice(elts), nil
	case map[string]any:
		kvs := make([]KeyVal, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, KeyVal{Key: FromString(k), Val: n})
		}
		return FromKeyVals(kvs), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) (*Node, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return FromBool(rv.Bool()), nil
	case reflect.String:
		return FromString(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return FromFloat(float64(u)), nil
		}
		return FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return FromFloat(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		elts := make([]*Node, rv.Len())
		for i := range rv.Len() {
			n, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elts[i] = n
		}
		return FromSlice(elts), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrTypeMismatch, rv.Type().Key())
		}
		m := make(map[string]*Node, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = n
		}
		return FromMap(m), nil
	}
	return nil, fmt.Errorf("%w: cannot convert %s", ErrTypeMismatch, rv.Type())
}
