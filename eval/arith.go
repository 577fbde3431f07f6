package eval

import (
	"math"

	"github.com/signadot/hconf/ir"
)

// Multiply returns the multiply resolver. The result is an integer when
// every argument is one.
func Multiply() Symbol {
	return &arithSymbol{name: "multiply", unit: 1, op: func(a, b float64) float64 { return a * b }}
}

// Sum returns the sum resolver.
func Sum() Symbol {
	return &arithSymbol{name: "sum", unit: 0, op: func(a, b float64) float64 { return a + b }}
}

type arithSymbol struct {
	name
	unit float64
	op   func(a, b float64) float64
}

func (s *arithSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	nums, err := numbers(s, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, resolverErr(s, "no arguments")
	}
	allInt := true
	acc := s.unit
	var iacc int64
	if s.unit == 1 {
		iacc = 1
	}
	for _, n := range nums {
		f, _ := n.Float()
		acc = s.op(acc, f)
		if !n.IsInt() {
			allInt = false
			continue
		}
		if s.unit == 1 {
			iacc *= *n.Int64
		} else {
			iacc += *n.Int64
		}
	}
	if allInt && math.Abs(acc) < 1<<53 {
		return ir.FromInt(iacc), nil
	}
	return ir.FromFloat(acc), nil
}

// numbers flattens array arguments, so ${sum:${layers}} adds the elements
// of a list.
func numbers(s Symbol, args []*ir.Node) ([]*ir.Node, error) {
	var res []*ir.Node
	for i, a := range args {
		switch a.Type {
		case ir.NumberType:
			res = append(res, a)
		case ir.ArrayType:
			sub, err := numbers(s, a.Values)
			if err != nil {
				return nil, err
			}
			res = append(res, sub...)
		case ir.MissingType:
			return nil, resolverErr(s, "argument %d: %s", i+1, ir.ErrMissingRequired)
		default:
			return nil, resolverErr(s, "argument %d: expected number, got %s", i+1, a.Type)
		}
	}
	return res, nil
}

var intDivSym = &intDivSymbol{name: intDivName}

// IntDiv returns the int_div resolver, integer division truncated toward
// zero.
func IntDiv() Symbol {
	return intDivSym
}

const intDivName name = "int_div"

type intDivSymbol struct {
	name
}

func (s intDivSymbol) Resolve(ctx *Context, args []*ir.Node) (*ir.Node, error) {
	if len(args) != 2 {
		return nil, resolverErr(s, "expects 2 args, got %d", len(args))
	}
	for i, a := range args {
		if !a.IsInt() {
			return nil, resolverErr(s, "argument %d: expected integer, got %s", i+1, a.Type)
		}
	}
	if *args[1].Int64 == 0 {
		return nil, resolverErr(s, "division by zero")
	}
	return ir.FromInt(*args[0].Int64 / *args[1].Int64), nil
}
