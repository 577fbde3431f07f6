package ir

import "fmt"

// Type tags the variant held by a Node.
type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
	// InterpType is a string holding ${...} not yet resolved.
	InterpType
	// MissingType is the ??? placeholder.
	MissingType
)

var typeNames = [...]string{
	NullType:    "Null",
	NumberType:  "Number",
	StringType:  "String",
	BoolType:    "Bool",
	ObjectType:  "Object",
	ArrayType:   "Array",
	InterpType:  "Interp",
	MissingType: "Missing",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for i, name := range typeNames {
		if name == string(d) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

// Types returns every type in declaration order.
func Types() []Type {
	res := make([]Type, len(typeNames))
	for i := range typeNames {
		res[i] = Type(i)
	}
	return res
}

func (t Type) IsLeaf() bool {
	return t != ObjectType && t != ArrayType
}
