package libdiff

import (
	"fmt"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/ir"
)

type Op int

const (
	Added Op = iota
	Removed
	Changed
)

func (o Op) String() string {
	switch o {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Changed:
		return "~"
	}
	return "?"
}

// Change is a difference at one path. From is nil for Added and To for
// Removed.
type Change struct {
	Op   Op
	Path string
	From *ir.Node
	To   *ir.Node
}

func (c *Change) String() string {
	p := c.Path
	if p == "" {
		p = "<root>"
	}
	switch c.Op {
	case Added:
		return fmt.Sprintf("+ %s: %s", p, flow(c.To))
	case Removed:
		return fmt.Sprintf("- %s: %s", p, flow(c.From))
	}
	return fmt.Sprintf("~ %s: %s -> %s", p, flow(c.From), flow(c.To))
}

// flow prints a node on one line.
func flow(n *ir.Node) string {
	switch n.Type {
	case ir.ObjectType, ir.ArrayType:
		return encode.MustString(n, encode.EncodeFormat(format.JSONFormat), encode.EncodeWire(true), encode.EscapeInterp(false))
	}
	return encode.MustString(n)
}

// Reverse returns the changes which undo changes.
func Reverse(changes []*Change) []*Change {
	res := make([]*Change, len(changes))
	for i, c := range changes {
		r := &Change{Path: c.Path, From: c.To, To: c.From}
		switch c.Op {
		case Added:
			r.Op = Removed
		case Removed:
			r.Op = Added
		default:
			r.Op = Changed
		}
		res[len(changes)-1-i] = r
	}
	return res
}
