package eval

import (
	"os"
	"strings"

	"github.com/signadot/hconf/debug"
	"github.com/signadot/hconf/ir"
)

var osenvSym = &osenvSymbol{name: osenvName}

// OSEnv returns the oc.env resolver. The variable's value is always a
// string; a default may be any value. An unset variable without default
// is an error, an empty one is not.
func OSEnv() Symbol {
	return osenvSym
}

const (
	osenvName name = "oc.env"
)

type osenvSymbol struct {
	name
}

func (s osenvSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, resolverErr(s, "expects 1 or 2 args, got %d", len(args))
	}
	v, err := argString(s, args, 0)
	if err != nil {
		return nil, err
	}
	v = strings.TrimSpace(v)
	if debug.Eval() {
		debug.Logf("oc.env %s at %s\n", v, ctx.Path())
	}
	if val, ok := os.LookupEnv(v); ok {
		return ir.FromString(val), nil
	}
	if len(args) == 2 {
		return args[1].Clone().Detach(), nil
	}
	return nil, resolverErr(s, "environment variable %q not set", v)
}
