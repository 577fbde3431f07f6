package ir

import (
	"fmt"
	"strconv"

	"github.com/signadot/hconf/ir/kpath"
	"github.com/signadot/hconf/token"
)

// KPath returns the dot-path of this node's position in the tree.
//
// Examples:
//   - Root node → ""
//   - Object field "a" → "a"
//   - Array element at index 0 of the root → "[0]"
//   - Mixed "a[0].b" → "a[0].b"
func (node *Node) KPath() string {
	if node.Parent == nil {
		return ""
	}
	switch node.Parent.Type {
	case ObjectType:
		f := node.ParentField
		if token.KPathQuoteField(f) {
			f = token.Quote(f)
		}
		prefix := node.Parent.KPath()
		if prefix == "" {
			return f
		}
		return prefix + "." + f

	case ArrayType:
		return node.Parent.KPath() + "[" + strconv.Itoa(node.ParentIndex) + "]"

	default:
		panic("parent but not in container")
	}
}

// Path returns the parsed form of KPath.
func (node *Node) Path() *kpath.KPath {
	var res *kpath.KPath
	for n := node; n.Parent != nil; n = n.Parent {
		var seg *kpath.KPath
		if n.Parent.Type == ArrayType {
			seg = kpath.Index(n.ParentIndex)
		} else {
			seg = kpath.Field(n.ParentField)
		}
		seg.Next = res
		res = seg
	}
	return res
}

// Lookup returns the node at p in place. Missing keys, out of range
// indices and paths through scalars fail with ErrPathNotFound. A field
// segment made only of digits addresses an array element.
func (node *Node) Lookup(p *kpath.KPath) (*Node, error) {
	res := node
	for seg := p; seg != nil; seg = seg.Next {
		next, err := res.step(seg)
		if err != nil {
			return nil, NewPathError("get", p.String(), err)
		}
		res = next
	}
	return res, nil
}

func (node *Node) step(seg *kpath.KPath) (*Node, error) {
	switch {
	case seg.FieldAll, seg.IndexAll:
		return nil, fmt.Errorf("%w: wildcard %q in lookup", ErrSyntax, seg.SegmentString())
	case seg.Index != nil:
		return node.index(*seg.Index)
	case seg.Field != nil:
		switch node.Type {
		case ObjectType:
			if v := Get(node, *seg.Field); v != nil {
				return v, nil
			}
			return nil, fmt.Errorf("%w: no key %q", ErrPathNotFound, *seg.Field)
		case ArrayType:
			i, err := strconv.Atoi(*seg.Field)
			if err != nil || i < 0 {
				return nil, fmt.Errorf("%w: field %q in array", ErrPathNotFound, *seg.Field)
			}
			return node.index(i)
		}
		return nil, fmt.Errorf("%w: field %q in %s", ErrPathNotFound, *seg.Field, node.Type)
	}
	return nil, fmt.Errorf("%w: empty segment", ErrSyntax)
}

func (node *Node) index(i int) (*Node, error) {
	if node.Type != ArrayType {
		return nil, fmt.Errorf("%w: index [%d] in %s", ErrPathNotFound, i, node.Type)
	}
	if i < 0 || i >= len(node.Values) {
		return nil, fmt.Errorf("%w: index %d out of bounds (len %d)", ErrPathNotFound, i, len(node.Values))
	}
	return node.Values[i], nil
}

// GetKPath returns a clone of the node at dot-path kp.
func (node *Node) GetKPath(kp string) (*Node, error) {
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	res, err := node.Lookup(p)
	if err != nil {
		return nil, err
	}
	return res.Clone(), nil
}

// ListKPath collects every node matching a dot-path which may contain
// wildcards. Matches are appended to dst in document order and are not
// cloned.
func (node *Node) ListKPath(dst []*Node, kp string) ([]*Node, error) {
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return node.ListPath(dst, p), nil
}

// ListPath is ListKPath for a parsed path.
func (node *Node) ListPath(dst []*Node, p *kpath.KPath) []*Node {
	if p == nil {
		return append(dst, node)
	}
	switch {
	case p.FieldAll:
		if node.Type != ObjectType {
			return dst
		}
		for _, v := range node.Values {
			dst = v.ListPath(dst, p.Next)
		}
		return dst
	case p.IndexAll:
		if node.Type != ArrayType {
			return dst
		}
		for _, v := range node.Values {
			dst = v.ListPath(dst, p.Next)
		}
		return dst
	}
	next, err := node.step(p)
	if err != nil {
		return dst
	}
	return next.ListPath(dst, p.Next)
}
