package eval

import (
	"github.com/signadot/hconf/ir"
)

var selectSym = &selectSymbol{name: selectName}

// Select returns the oc.select resolver: ${oc.select:path,default} is the
// value at path, or default when path is absent or holds ???.
func Select() Symbol {
	return selectSym
}

const (
	selectName name = "oc.select"
)

type selectSymbol struct {
	name
}

func (s selectSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, resolverErr(s, "expects 1 or 2 args, got %d", len(args))
	}
	p, err := argString(s, args, 0)
	if err != nil {
		return nil, err
	}
	if ctx == nil || ctx.Lookup == nil {
		return nil, resolverErr(s, "no document")
	}
	res, err := ctx.Lookup(p)
	switch {
	case err == nil && res.Type != ir.MissingType:
		return res.Clone().Detach(), nil
	case err != nil && !notFound(err):
		return nil, err
	case len(args) == 2:
		return args[1].Clone().Detach(), nil
	case err != nil:
		return nil, err
	}
	return ir.Missing(), nil
}
