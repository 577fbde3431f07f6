package hparams

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/hconf/ir"
)

// Precision is a trainer precision. Configs write it either as a number
// of bits (32) or as a mode ("bf16-mixed").
type Precision string

var precisions = []Precision{
	"64", "32", "16", "bf16",
	"64-true", "32-true", "16-true", "bf16-true",
	"16-mixed", "bf16-mixed",
	"transformer-engine",
}

func (p *Precision) FromIR(n *ir.Node) error {
	switch n.Type {
	case ir.NumberType:
		if !n.IsInt() {
			return fmt.Errorf("%w: precision %s is not an integer", ir.ErrTypeMismatch, n.Number)
		}
		*p = Precision(strconv.FormatInt(*n.Int64, 10))
	case ir.StringType:
		*p = Precision(n.String)
	default:
		return fmt.Errorf("%w: precision is %s", ir.ErrTypeMismatch, n.Type)
	}
	return nil
}

// ToIR gives back a number for the plain bit widths.
func (p Precision) ToIR() (*ir.Node, error) {
	if i, err := strconv.ParseInt(string(p), 10, 64); err == nil {
		return ir.FromInt(i), nil
	}
	return ir.FromString(string(p)), nil
}

func (p Precision) Valid() bool {
	return slices.Contains(precisions, p)
}

// Bits returns the width of the parameters, or 0 for transformer-engine.
func (p Precision) Bits() int {
	s := string(p)
	switch {
	case strings.HasPrefix(s, "bf16"), strings.HasPrefix(s, "16"):
		return 16
	case strings.HasPrefix(s, "32"):
		return 32
	case strings.HasPrefix(s, "64"):
		return 64
	}
	return 0
}

// Mixed reports whether p is a mixed precision mode.
func (p Precision) Mixed() bool {
	return strings.HasSuffix(string(p), "-mixed")
}
