package gomap

import (
	"fmt"
	"reflect"

	"github.com/signadot/hconf/ir"
)

// UnmarshalError reports a node which could not be decoded into a Go
// value.
type UnmarshalError struct {
	// Path is the dot-path of the node.
	Path string
	// Node is the type of the node.
	Node ir.Type
	// Type is the Go type being decoded into.
	Type reflect.Type
	Err  error
}

func (e *UnmarshalError) Error() string {
	p := e.Path
	if p == "" {
		p = "<root>"
	}
	return fmt.Sprintf("gomap: cannot decode %s into %s at %s: %s", e.Node, e.Type, p, e.Err)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}
