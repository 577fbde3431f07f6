package eval

import (
	"os"

	"github.com/signadot/hconf/ir"

	"github.com/expr-lang/expr"
)

// exprOpts are the functions available to eval expressions besides the
// expr-lang builtins.
func exprOpts(ctx *Context) []expr.Option {
	lookup := func(path string) (*ir.Node, error) {
		if ctx == nil || ctx.Lookup == nil {
			return nil, resolverErr(scriptSym, "no document to look up %q in", path)
		}
		return ctx.Lookup(path)
	}
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			return ctx.Path(), nil
		},
			new(func() string)),
		expr.Function("getpath", func(params ...any) (any, error) {
			res, err := lookup(params[0].(string))
			if err != nil {
				return nil, err
			}
			return ir.ToAny(res)
		},
			new(func(string) any)),
		expr.Function("haspath", func(params ...any) (any, error) {
			res, err := lookup(params[0].(string))
			switch {
			case notFound(err):
				return false, nil
			case err != nil:
				return nil, err
			}
			return res.Type != ir.MissingType, nil
		},
			new(func(string) bool)),
		// round_up(50257, 128) is 50304, the padded vocabulary size
		expr.Function("round_up", func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, resolverErr(scriptSym, "round_up expects 2 arguments, got %d", len(params))
			}
			x, err := ir.FromAny(params[0])
			if err != nil {
				return nil, err
			}
			m, err := ir.FromAny(params[1])
			if err != nil {
				return nil, err
			}
			if !x.IsInt() || !m.IsInt() || *m.Int64 <= 0 {
				return nil, resolverErr(scriptSym, "round_up needs an integer and a positive multiple")
			}
			return (*x.Int64 + *m.Int64 - 1) / *m.Int64 * *m.Int64, nil
		}),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}
