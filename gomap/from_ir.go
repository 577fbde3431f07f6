package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
	"github.com/signadot/hconf/resolve"
)

type fromOpts struct {
	strict    bool
	parseOpts []parse.ParseOption
	overrides []*resolve.Override
}

type FromOption func(*fromOpts)

// Strict makes keys without a matching struct field an error.
func Strict(v bool) FromOption { return func(o *fromOpts) { o.strict = v } }

// LoadParseOptions passes options to the parser in Load.
func LoadParseOptions(opts ...parse.ParseOption) FromOption {
	return func(o *fromOpts) { o.parseOpts = append(o.parseOpts, opts...) }
}

// LoadOverrides applies overrides before resolution in Load.
func LoadOverrides(ovs ...*resolve.Override) FromOption {
	return func(o *fromOpts) { o.overrides = append(o.overrides, ovs...) }
}

// IRFromer is implemented by types which decode themselves from a node.
type IRFromer interface {
	FromIR(*ir.Node) error
}

var (
	irFromerType      = reflect.TypeFor[IRFromer]()
	textUnmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType      = reflect.TypeFor[time.Duration]()
	nodeType          = reflect.TypeFor[*ir.Node]()
)

// Load parses and resolves d and decodes the result into v.
func Load(d []byte, v any, opts ...FromOption) error {
	o := &fromOpts{}
	for _, opt := range opts {
		opt(o)
	}
	node, err := parse.Parse(d, o.parseOpts...)
	if err != nil {
		return err
	}
	res, err := resolve.Resolve(node, o.overrides...)
	if err != nil {
		return err
	}
	return FromIR(res.Root, v, opts...)
}

// FromIR decodes node into the value pointed to by v.
func FromIR(node *ir.Node, v any, opts ...FromOption) error {
	o := &fromOpts{}
	for _, opt := range opts {
		opt(o)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("gomap: FromIR needs a non-nil pointer, got %T", v)
	}
	d := &decoder{strict: o.strict}
	return d.value(node, rv.Elem())
}

type decoder struct {
	strict bool
}

func (d *decoder) fail(node *ir.Node, rv reflect.Value, err error) error {
	return &UnmarshalError{Path: node.KPath(), Node: node.Type, Type: rv.Type(), Err: err}
}

func (d *decoder) mismatch(node *ir.Node, rv reflect.Value) error {
	return d.fail(node, rv, ir.ErrTypeMismatch)
}

func (d *decoder) value(node *ir.Node, rv reflect.Value) error {
	switch node.Type {
	case ir.MissingType:
		return d.fail(node, rv, ir.ErrMissingRequired)
	case ir.InterpType:
		return d.fail(node, rv, fmt.Errorf("%w: unresolved %q", ir.ErrTypeMismatch, node.String))
	}
	if rv.Type() == nodeType {
		rv.Set(reflect.ValueOf(node.Clone().Detach()))
		return nil
	}
	if rv.CanAddr() {
		pv := rv.Addr()
		if pv.Type().Implements(irFromerType) {
			if err := pv.Interface().(IRFromer).FromIR(node); err != nil {
				return d.fail(node, rv, err)
			}
			return nil
		}
	}
	if node.Type == ir.NullType {
		rv.SetZero()
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.value(node, rv.Elem())
	}
	if rv.Type() == durationType {
		return d.duration(node, rv)
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(textUnmarshalType) {
		var text string
		switch node.Type {
		case ir.StringType:
			text = node.String
		case ir.NumberType:
			text = node.Number
		case ir.BoolType:
			text = fmt.Sprint(node.Bool)
		default:
			return d.mismatch(node, rv)
		}
		if err := rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return d.fail(node, rv, err)
		}
		return nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return d.mismatch(node, rv)
		}
		a, err := ir.ToAny(node)
		if err != nil {
			return d.fail(node, rv, err)
		}
		if a == nil {
			rv.SetZero()
			return nil
		}
		rv.Set(reflect.ValueOf(a))
		return nil
	case reflect.Bool:
		if node.Type != ir.BoolType {
			return d.mismatch(node, rv)
		}
		rv.SetBool(node.Bool)
		return nil
	case reflect.String:
		if node.Type != ir.StringType {
			return d.mismatch(node, rv)
		}
		rv.SetString(node.String)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !node.IsInt() {
			return d.mismatch(node, rv)
		}
		if rv.OverflowInt(*node.Int64) {
			return d.fail(node, rv, fmt.Errorf("%w: %s overflows", ir.ErrTypeMismatch, node.Number))
		}
		rv.SetInt(*node.Int64)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !node.IsInt() {
			return d.mismatch(node, rv)
		}
		i := *node.Int64
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return d.fail(node, rv, fmt.Errorf("%w: %s out of range", ir.ErrTypeMismatch, node.Number))
		}
		rv.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := node.Float()
		if !ok {
			return d.mismatch(node, rv)
		}
		if rv.OverflowFloat(f) && !math.IsInf(f, 0) {
			return d.fail(node, rv, fmt.Errorf("%w: %s overflows", ir.ErrTypeMismatch, node.Number))
		}
		rv.SetFloat(f)
		return nil
	case reflect.Slice:
		if node.Type != ir.ArrayType {
			return d.mismatch(node, rv)
		}
		res := reflect.MakeSlice(rv.Type(), len(node.Values), len(node.Values))
		for i, v := range node.Values {
			if err := d.value(v, res.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(res)
		return nil
	case reflect.Array:
		if node.Type != ir.ArrayType {
			return d.mismatch(node, rv)
		}
		if len(node.Values) != rv.Len() {
			return d.fail(node, rv, fmt.Errorf("%w: need %d elements, got %d", ir.ErrTypeMismatch, rv.Len(), len(node.Values)))
		}
		for i, v := range node.Values {
			if err := d.value(v, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		return d.mapValue(node, rv)
	case reflect.Struct:
		return d.structValue(node, rv)
	}
	return d.fail(node, rv, fmt.Errorf("unsupported kind %s", rv.Kind()))
}

func (d *decoder) duration(node *ir.Node, rv reflect.Value) error {
	switch node.Type {
	case ir.StringType:
		dur, err := time.ParseDuration(node.String)
		if err != nil {
			return d.fail(node, rv, err)
		}
		rv.SetInt(int64(dur))
		return nil
	case ir.NumberType:
		f, _ := node.Float()
		rv.SetInt(int64(f * float64(time.Second)))
		return nil
	}
	return d.mismatch(node, rv)
}

func (d *decoder) mapValue(node *ir.Node, rv reflect.Value) error {
	if node.Type != ir.ObjectType {
		return d.mismatch(node, rv)
	}
	kt := rv.Type().Key()
	if kt.Kind() != reflect.String {
		return d.fail(node, rv, fmt.Errorf("map key type %s is not a string", kt))
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(rv.Type(), len(node.Fields)))
	}
	et := rv.Type().Elem()
	for i, f := range node.Fields {
		ev := reflect.New(et).Elem()
		if err := d.value(node.Values[i], ev); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(f.String).Convert(kt), ev)
	}
	return nil
}

func (d *decoder) structValue(node *ir.Node, rv reflect.Value) error {
	if node.Type != ir.ObjectType {
		return d.mismatch(node, rv)
	}
	fields := structFields(rv.Type())
	byName := make(map[string]*fieldInfo, len(fields))
	for i := range fields {
		byName[fields[i].name] = &fields[i]
	}
	set := map[string]bool{}
	for i, f := range node.Fields {
		fi := byName[f.String]
		if fi == nil {
			if d.strict {
				return d.fail(node.Values[i], rv, fmt.Errorf("%w: unknown field %q", ir.ErrPathNotFound, f.String))
			}
			continue
		}
		set[fi.name] = true
		if err := d.value(node.Values[i], fieldByIndex(rv, fi.index)); err != nil {
			return err
		}
	}
	for i := range fields {
		fi := &fields[i]
		if fi.required && !set[fi.name] {
			return &UnmarshalError{
				Path: join(node.KPath(), fi.name),
				Node: ir.MissingType,
				Type: rv.FieldByIndex(fi.index).Type(),
				Err:  ir.ErrMissingRequired,
			}
		}
	}
	return nil
}

// fieldByIndex is reflect.Value.FieldByIndex allocating nil embedded
// pointers.
func fieldByIndex(rv reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv
}

func join(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}
