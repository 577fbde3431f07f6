package eval

import (
	"github.com/signadot/hconf/debug"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
)

var decodeSym = &decodeSymbol{name: decodeName}

// Decode returns the oc.decode resolver, which parses a string as a YAML
// value. Null passes through.
func Decode() Symbol {
	return decodeSym
}

const (
	decodeName name = "oc.decode"
)

type decodeSymbol struct {
	name
}

func (s decodeSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	if len(args) != 1 {
		return nil, resolverErr(s, "expects 1 arg, got %d", len(args))
	}
	if args[0].Type == ir.NullType {
		return ir.Null(), nil
	}
	v, err := argString(s, args, 0)
	if err != nil {
		return nil, err
	}
	if debug.Eval() {
		debug.Logf("oc.decode %q at %s\n", v, ctx.Path())
	}
	if v == "" {
		return ir.FromString(""), nil
	}
	res, err := parse.ParseString(v, parse.ParseSource(ctx.Path()))
	if err != nil {
		return nil, resolverErr(s, "%s", err)
	}
	return res, nil
}
