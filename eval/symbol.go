package eval

import (
	"github.com/signadot/hconf/ir"
)

// Context gives a resolver access to the document being resolved.
type Context struct {
	// Node is the interpolation node whose value is being computed.
	Node *ir.Node
	// Lookup returns the resolved node at an absolute or relative
	// dot-path. Errors wrap ir.ErrPathNotFound when the path does not
	// exist.
	Lookup func(path string) (*ir.Node, error)
}

// Path returns the dot-path of the node being resolved.
func (c *Context) Path() string {
	if c == nil || c.Node == nil {
		return ""
	}
	return c.Node.KPath()
}

type Symbol interface {
	String() string
	// Resolve computes the value of a call from its arguments. The result
	// must not share nodes with args or the document.
	Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error)
}

type name string

func (s name) String() string {
	return string(s)
}

// ResolverFunc is the signature of a resolver implemented by a function.
type ResolverFunc func(ctx *Context, args []*ir.Node) (*ir.Node, error)

// Func returns a Symbol named n which calls f.
func Func(n string, f ResolverFunc) Symbol {
	return &funcSymbol{name: name(n), f: f}
}

type funcSymbol struct {
	name
	f ResolverFunc
}

func (s *funcSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	return s.f(ctx, args)
}
