package gomap

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/signadot/hconf/ir"
)

// IRToer is implemented by types which encode themselves as a node.
type IRToer interface {
	ToIR() (*ir.Node, error)
}

var (
	irToerType      = reflect.TypeFor[IRToer]()
	textMarshalType = reflect.TypeFor[encoding.TextMarshaler]()
)

// ToIR encodes v as a node. Struct fields are named as in FromIR and keep
// declaration order; map keys are sorted.
func ToIR(v any) (*ir.Node, error) {
	return toIR(reflect.ValueOf(v))
}

func toIR(rv reflect.Value) (*ir.Node, error) {
	if !rv.IsValid() {
		return ir.Null(), nil
	}
	if rv.Type() == nodeType {
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return rv.Interface().(*ir.Node).Clone().Detach(), nil
	}
	if rv.Type().Implements(irToerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ir.Null(), nil
		}
		return rv.Interface().(IRToer).ToIR()
	}
	if rv.Type() == durationType {
		return ir.FromString(time.Duration(rv.Int()).String()), nil
	}
	if rv.Type().Implements(textMarshalType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ir.Null(), nil
		}
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return ir.FromString(string(text)), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return toIR(rv.Elem())
	case reflect.Bool:
		return ir.FromBool(rv.Bool()), nil
	case reflect.String:
		return ir.FromString(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return nil, fmt.Errorf("gomap: %d overflows int64", u)
		}
		return ir.FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ir.FromSlice(nil), nil
		}
		elts := make([]*ir.Node, rv.Len())
		for i := range elts {
			elt, err := toIR(rv.Index(i))
			if err != nil {
				return nil, err
			}
			elts[i] = elt
		}
		return ir.FromSlice(elts), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("gomap: map key type %s is not a string", rv.Type().Key())
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		kvs := make([]ir.KeyVal, 0, len(keys))
		for _, k := range keys {
			v, err := toIR(rv.MapIndex(k))
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(k.String()), Val: v})
		}
		return ir.FromKeyVals(kvs), nil
	case reflect.Struct:
		fields := structFields(rv.Type())
		kvs := make([]ir.KeyVal, 0, len(fields))
		for _, fi := range fields {
			fv := rv.FieldByIndex(fi.index)
			if fi.omitEmpty && fv.IsZero() {
				continue
			}
			v, err := toIR(fv)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(fi.name), Val: v})
		}
		return ir.FromKeyVals(kvs), nil
	}
	return nil, fmt.Errorf("gomap: unsupported kind %s", rv.Kind())
}
