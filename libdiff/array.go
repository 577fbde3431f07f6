package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/hconf/ir"
)

// array aligns the elements of from and to by summary and recurses into
// aligned pairs. A deletion directly followed by an insertion at the same
// position is a change.
//
// Paths of removed elements use their index in from; all others use the
// index in to.
func (d *differ) array(path string, from, to *ir.Node) {
	m := map[uint64]rune{}
	fromRunes := summaries(m, from)
	toRunes := summaries(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	fi, ti := 0, 0
	var pending []int
	flush := func() {
		for _, i := range pending {
			d.add(Removed, indexPath(path, i), from.Values[i], nil)
		}
		pending = pending[:0]
	}
	for i := range diffs {
		n := len([]rune(diffs[i].Text))
		switch diffs[i].Type {
		case diffpatch.DiffDelete:
			for range n {
				pending = append(pending, fi)
				fi++
			}
		case diffpatch.DiffInsert:
			for range n {
				if len(pending) != 0 {
					d.node(indexPath(path, ti), from.Values[pending[0]], to.Values[ti])
					pending = pending[1:]
				} else {
					d.add(Added, indexPath(path, ti), nil, to.Values[ti])
				}
				ti++
			}
			flush()
		case diffpatch.DiffEqual:
			flush()
			for range n {
				d.node(indexPath(path, ti), from.Values[fi], to.Values[ti])
				fi++
				ti++
			}
		}
	}
	flush()
}

// summaries maps each element to a rune standing for its summary. Equal
// scalars share a summary; containers of the same type do too, so that
// they are aligned and compared recursively.
func summaries(m map[uint64]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		sum := summary(v)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summary(node *ir.Node) uint64 {
	switch node.Type {
	case ir.ObjectType, ir.ArrayType:
		return uint64(node.Type)
	case ir.StringType, ir.InterpType:
		if strings.Contains(node.String, "\n") {
			return uint64(node.Type)
		}
	}
	return node.Hash()
}
