package ir

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// MissingLiteral is the source text of a required placeholder.
const MissingLiteral = "???"

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

// CloneTo deep copies y into dst. The copy keeps y's parent links so that
// KPath on a clone reports the position of the original.
func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Values = nil
	dst.Fields = nil
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
	}
	for i, yv := range y.Values {
		dstI := yv.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := yf.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yf.String
		dst.Fields[i] = dstI
	}
	dst.String = y.String
	dst.Number = y.Number
	dst.Float64 = nil
	dst.Int64 = nil
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	return dst
}

// Detach clears the parent links of y, making it a root.
func (y *Node) Detach() *Node {
	y.Parent = nil
	y.ParentIndex = 0
	y.ParentField = ""
	return y
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Int64:  &v,
		Number: strconv.FormatInt(v, 10),
	}
}

func FromFloat(f float64) *Node {
	lit := strconv.FormatFloat(f, 'g', -1, 64)
	switch {
	case math.IsInf(f, 1):
		lit = ".inf"
	case math.IsInf(f, -1):
		lit = "-.inf"
	case math.IsNaN(f):
		lit = ".nan"
	case !strings.ContainsAny(lit, ".e"):
		lit += ".0"
	}
	return &Node{
		Type:    NumberType,
		Float64: &f,
		Number:  lit,
	}
}

// FromNumber parses a numeric literal. Integer literals (including hex,
// octal, binary and '_' separated forms) set Int64, everything else
// Float64. The literal is kept as is.
//
// A leading zero means octal, so "08" is not a number. Floats beyond the
// float64 range fail with an error wrapping strconv.ErrRange.
func FromNumber(lit string) (*Node, error) {
	s := strings.ReplaceAll(lit, "_", "")
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return &Node{Type: NumberType, Int64: &i, Number: lit}, nil
	}
	if badOctal(s) {
		return nil, fmt.Errorf("%w: bad octal number %q", ErrSyntax, lit)
	}
	switch strings.ToLower(s) {
	case ".inf", "+.inf", "-.inf", ".nan":
		s = strings.Replace(strings.ToLower(s), ".", "", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0):
		return nil, fmt.Errorf("%w: number %q: %w", ErrSyntax, lit, strconv.ErrRange)
	case err != nil && !errors.Is(err, strconv.ErrRange):
		return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
	}
	return &Node{Type: NumberType, Float64: &f, Number: lit}, nil
}

// badOctal reports whether s is a run of decimal digits with a leading
// zero which did not parse as octal.
func badOctal(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// Missing returns a required placeholder.
func Missing() *Node {
	return &Node{Type: MissingType, String: MissingLiteral}
}

// FromInterp returns an unresolved interpolation node for template v.
func FromInterp(v string) *Node {
	return &Node{Type: InterpType, String: v}
}

// IsInt reports whether y is a number with an integer value.
func (y *Node) IsInt() bool {
	return y.Type == NumberType && y.Int64 != nil
}

// Float returns the value of a number node as a float64.
func (y *Node) Float() (float64, bool) {
	if y.Type != NumberType {
		return 0, false
	}
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	return 0, false
}

func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, field := range node.Fields {
		res[field.String] = node.Values[i]
	}
	return res
}

// FromMap returns an object with the keys of yMap in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(yMap))
	kvs := make([]KeyVal, len(keys))
	for i, key := range keys {
		kvs[i] = KeyVal{Key: FromString(key), Val: yMap[key]}
	}
	return FromKeyVals(kvs)
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	return FromKeyValsAt(&Node{}, kvs)
}

func FromKeyValsAt(res *Node, kvs []KeyVal) *Node {
	res.Type = ObjectType
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		kv.Key.Parent = res
		kv.Key.ParentIndex = i
		kv.Key.ParentField = kv.Key.String
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key.String
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ArrayType,
	}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = ""
	}
	return res
}

// Get returns the value of field in object y, or nil.
func Get(y *Node, field string) *Node {
	if i := y.FieldIndex(field); i != -1 {
		return y.Values[i]
	}
	return nil
}

// FieldIndex returns the position of field in object y, or -1.
func (y *Node) FieldIndex(field string) int {
	if y.Type != ObjectType {
		return -1
	}
	for i, f := range y.Fields {
		if f.String == field {
			return i
		}
	}
	return -1
}

// SetField sets field in object y to v, appending the key when absent.
func (y *Node) SetField(field string, v *Node) {
	v.Parent = y
	v.ParentField = field
	if i := y.FieldIndex(field); i != -1 {
		v.ParentIndex = i
		y.Values[i] = v
		return
	}
	k := FromString(field)
	k.Parent = y
	k.ParentField = field
	k.ParentIndex = len(y.Fields)
	v.ParentIndex = len(y.Values)
	y.Fields = append(y.Fields, k)
	y.Values = append(y.Values, v)
}

// DeleteField removes field from object y, reporting whether it was
// present.
func (y *Node) DeleteField(field string) bool {
	i := y.FieldIndex(field)
	if i == -1 {
		return false
	}
	y.Fields = slices.Delete(y.Fields, i, i+1)
	y.Values = slices.Delete(y.Values, i, i+1)
	y.reindex(i)
	return true
}

// DeleteIndex removes element i from array y.
func (y *Node) DeleteIndex(i int) bool {
	if y.Type != ArrayType || i < 0 || i >= len(y.Values) {
		return false
	}
	y.Values = slices.Delete(y.Values, i, i+1)
	y.reindex(i)
	return true
}

// Append adds v to the end of array y.
func (y *Node) Append(v *Node) {
	v.Parent = y
	v.ParentIndex = len(y.Values)
	v.ParentField = ""
	y.Values = append(y.Values, v)
}

func (y *Node) reindex(from int) {
	for j := from; j < len(y.Values); j++ {
		y.Values[j].ParentIndex = j
		if j < len(y.Fields) {
			y.Fields[j].ParentIndex = j
		}
	}
}

// ReplaceWith puts v at the position of y in y's parent. When y is a root
// the contents of v are copied into y instead, so callers holding y see
// the new value.
func (y *Node) ReplaceWith(v *Node) *Node {
	p := y.Parent
	if p == nil {
		v.CloneTo(y)
		return y.Detach()
	}
	v.Parent = p
	v.ParentIndex = y.ParentIndex
	v.ParentField = y.ParentField
	p.Values[y.ParentIndex] = v
	return v
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Up returns the n-th ancestor of y, or nil.
func (y *Node) Up(n int) *Node {
	res := y
	for ; n > 0 && res != nil; n-- {
		res = res.Parent
	}
	return res
}
