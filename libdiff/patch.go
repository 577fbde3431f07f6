package libdiff

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
)

// MergePatch returns the RFC 7386 merge patch turning from into to.
func MergePatch(from, to *ir.Node) (*ir.Node, error) {
	a, err := toJSON(from)
	if err != nil {
		return nil, err
	}
	b, err := toJSON(to)
	if err != nil {
		return nil, err
	}
	d, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	res, err := fromJSON(d)
	if err != nil {
		return nil, err
	}
	return reorder(res, to), nil
}

// ApplyMergePatch applies an RFC 7386 merge patch to doc. Keys keep the
// order they have in doc; new keys follow in the order of the patch.
func ApplyMergePatch(doc, patch *ir.Node) (*ir.Node, error) {
	a, err := toJSON(doc)
	if err != nil {
		return nil, err
	}
	p, err := toJSON(patch)
	if err != nil {
		return nil, err
	}
	d, err := jsonpatch.MergePatch(a, p)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	res, err := fromJSON(d)
	if err != nil {
		return nil, err
	}
	return reorder(reorder(res, patch), doc), nil
}

func toJSON(n *ir.Node) ([]byte, error) {
	var buf bytes.Buffer
	err := encode.Encode(n, &buf, encode.EncodeFormat(format.JSONFormat), encode.EncodeWire(true))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fromJSON(d []byte) (*ir.Node, error) {
	return parse.Parse(d, parse.ParseFormat(format.JSONFormat), parse.ParseSource("<merge patch>"))
}

// reorder sorts the fields of objects in n so that keys also present in
// like come first, in like's order. Numbers equal to the number at the same
// place in like take its literal.
func reorder(n, like *ir.Node) *ir.Node {
	if like == nil {
		return n
	}
	if n.Type == ir.NumberType && like.Type == ir.NumberType && ir.Equal(n, like) {
		n.Number = like.Number
		return n
	}
	if n.Type != ir.ObjectType || like.Type != ir.ObjectType {
		return n
	}
	kvs := make([]ir.KeyVal, 0, len(n.Fields))
	used := make([]bool, len(n.Fields))
	for i, f := range like.Fields {
		j := n.FieldIndex(f.String)
		if j == -1 {
			continue
		}
		used[j] = true
		kvs = append(kvs, ir.KeyVal{Key: n.Fields[j], Val: reorder(n.Values[j], like.Values[i])})
	}
	for j, f := range n.Fields {
		if !used[j] {
			kvs = append(kvs, ir.KeyVal{Key: f, Val: n.Values[j]})
		}
	}
	return ir.FromKeyValsAt(n, kvs)
}
