package ir

import (
	"cmp"
	"strings"
)

// typeRank orders values of different types:
// Missing < Null < Bool < Number < String < Interp < Array < Object.
var typeRank = map[Type]int{
	MissingType: 0,
	NullType:    1,
	BoolType:    2,
	NumberType:  3,
	StringType:  4,
	InterpType:  5,
	ArrayType:   6,
	ObjectType:  7,
}

// Compare orders two nodes, returning -1, 0 or +1.
//
// Numbers compare by value, so 1 and 1.0 are equal whatever their
// literals. Objects compare key by key in order, so two objects with the
// same keys in a different order are not equal.
func Compare(a, b *Node) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(typeRank[a.Type], typeRank[b.Type]); c != 0 {
		return c
	}
	switch a.Type {
	case NumberType:
		if a.IsInt() && b.IsInt() {
			return cmp.Compare(*a.Int64, *b.Int64)
		}
		fa, okA := a.Float()
		fb, okB := b.Float()
		if okA && okB {
			return cmp.Compare(fa, fb)
		}
		return strings.Compare(a.Number, b.Number)
	case StringType, InterpType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		return cmp.Compare(boolRank(a.Bool), boolRank(b.Bool))
	case ArrayType, ObjectType:
		return compareChildren(a, b)
	}
	return 0
}

// Equal reports whether Compare(a, b) == 0.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func compareChildren(a, b *Node) int {
	keyed := a.Type == ObjectType
	n := min(len(a.Values), len(b.Values))
	for i := range n {
		if keyed {
			if c := strings.Compare(a.Fields[i].String, b.Fields[i].String); c != 0 {
				return c
			}
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Values), len(b.Values))
}
