package eval

import (
	"fmt"

	"github.com/signadot/hconf/debug"
	"github.com/signadot/hconf/ir"

	"github.com/expr-lang/expr"
)

var scriptSym = &scriptSymbol{name: scriptName}

// Script returns the eval resolver. Its first argument is an expr-lang
// expression, further arguments are available to it as args[0], args[1]
// and so on.
//
//	${eval:'${model.hidden} / ${model.heads}'}
//	${eval:'args[0] * 4',${model.hidden}}
func Script() Symbol {
	return scriptSym
}

const (
	scriptName name = "eval"
)

type scriptSymbol struct {
	name
}

func (s scriptSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	if len(args) == 0 {
		return nil, resolverErr(s, "expects an expression")
	}
	src, err := argString(s, args, 0)
	if err != nil {
		return nil, err
	}
	env := map[string]any{}
	rest := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := ir.ToAny(a)
		if err != nil {
			return nil, resolverErr(s, "%s", err)
		}
		rest = append(rest, v)
	}
	env["args"] = rest
	if debug.Eval() {
		debug.Logf("eval %q at %s\n", src, ctx.Path())
	}
	prg, err := expr.Compile(src, append(exprOpts(ctx), expr.Env(env))...)
	if err != nil {
		return nil, resolverErr(s, "compile %q: %s", src, err)
	}
	out, err := expr.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: run %q: %w", ir.ErrResolver, s, src, err)
	}
	res, err := ir.FromAny(out)
	if err != nil {
		return nil, resolverErr(s, "result of %q: %s", src, err)
	}
	return res, nil
}
