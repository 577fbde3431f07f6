package libdiff

import (
	"strconv"

	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/token"
)

// Diff returns the changes turning from into to, in document order. The
// nodes in the result are clones.
func Diff(from, to *ir.Node) []*Change {
	d := &differ{}
	d.node("", from, to)
	return d.changes
}

type differ struct {
	changes []*Change
}

func (d *differ) add(op Op, path string, from, to *ir.Node) {
	c := &Change{Op: op, Path: path}
	if from != nil {
		c.From = from.Clone().Detach()
	}
	if to != nil {
		c.To = to.Clone().Detach()
	}
	d.changes = append(d.changes, c)
}

func (d *differ) node(path string, from, to *ir.Node) {
	if from.Type != to.Type {
		d.add(Changed, path, from, to)
		return
	}
	switch from.Type {
	case ir.ObjectType:
		d.object(path, from, to)
	case ir.ArrayType:
		d.array(path, from, to)
	default:
		if !ir.Equal(from, to) {
			d.add(Changed, path, from, to)
		}
	}
}

func (d *differ) object(path string, from, to *ir.Node) {
	for i, f := range from.Fields {
		p := fieldPath(path, f.String)
		tv := ir.Get(to, f.String)
		if tv == nil {
			d.add(Removed, p, from.Values[i], nil)
			continue
		}
		d.node(p, from.Values[i], tv)
	}
	for i, f := range to.Fields {
		if from.FieldIndex(f.String) == -1 {
			d.add(Added, fieldPath(path, f.String), nil, to.Values[i])
		}
	}
}

func fieldPath(prefix, field string) string {
	f := field
	if token.KPathQuoteField(f) {
		f = token.Quote(f)
	}
	if prefix == "" {
		return f
	}
	return prefix + "." + f
}

func indexPath(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}
