package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	ytoken "github.com/goccy/go-yaml/token"

	"github.com/signadot/hconf/debug"
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/token"
)

// Parse parses a single YAML or JSON document. Empty input (or input with
// only comments) gives an empty object.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.format == format.JSONFormat {
		if err := checkJSON(d, o.source); err != nil {
			return nil, err
		}
	}
	file, err := parser.ParseBytes(d, 0)
	if err != nil {
		return nil, fromYAMLError(err, o.source)
	}
	p := &docParser{
		source:  o.source,
		anchors: map[string]*ir.Node{},
		pos:     map[*ir.Node]Pos{},
	}
	var docs []*ast.DocumentNode
	for _, doc := range file.Docs {
		if doc.Body == nil {
			continue
		}
		docs = append(docs, doc)
	}
	switch len(docs) {
	case 0:
		return ir.FromKeyVals(nil), nil
	case 1:
	default:
		return nil, p.errAt(docs[1].Body, "multiple documents")
	}
	res, err := p.node(docs[0].Body)
	if err != nil {
		return nil, err
	}
	if o.positions != nil {
		_ = res.Visit(func(n *ir.Node, isPost bool) (bool, error) {
			if !isPost {
				if pos, ok := p.pos[n]; ok {
					o.positions[n.KPath()] = pos
				}
			}
			return true, nil
		})
	}
	if debug.Parse() {
		debug.Logf("parsed %s:\n%v\n", p.sourceName(), res)
	}
	return res, nil
}

// ParseString is Parse for a string.
func ParseString(s string, opts ...ParseOption) (*ir.Node, error) {
	return Parse([]byte(s), opts...)
}

type docParser struct {
	source  string
	anchors map[string]*ir.Node
	pos     map[*ir.Node]Pos
}

func (p *docParser) sourceName() string {
	if p.source == "" {
		return "<string>"
	}
	return p.source
}

func (p *docParser) errAt(n ast.Node, format string, args ...any) *SyntaxError {
	e := &SyntaxError{Source: p.source, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		if tk := n.GetToken(); tk != nil && tk.Position != nil {
			e.Line = tk.Position.Line
			e.Col = tk.Position.Column
		}
	}
	return e
}

func (p *docParser) mark(res *ir.Node, n ast.Node) *ir.Node {
	if tk := n.GetToken(); tk != nil && tk.Position != nil {
		p.pos[res] = Pos{Line: tk.Position.Line, Col: tk.Position.Column}
	}
	return res
}

func (p *docParser) node(n ast.Node) (*ir.Node, error) {
	switch x := n.(type) {
	case *ast.NullNode:
		return p.mark(ir.Null(), n), nil
	case *ast.BoolNode:
		return p.mark(ir.FromBool(x.Value), n), nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		lit := n.GetToken().Value
		res, err := ir.FromNumber(lit)
		switch {
		case errors.Is(err, strconv.ErrRange):
			return nil, p.errAt(n, "%s", err)
		case err != nil:
			// 08 and the like read as strings
			return p.mark(ir.FromString(lit), n), nil
		}
		return p.mark(res, n), nil
	case *ast.StringNode:
		plain := x.Token != nil && x.Token.Type == ytoken.StringType
		return p.str(n, x.Value, plain)
	case *ast.LiteralNode:
		return p.str(n, x.Value.Value, false)
	case *ast.MappingNode:
		return p.mapping(n, x.Values)
	case *ast.MappingValueNode:
		return p.mapping(n, []*ast.MappingValueNode{x})
	case *ast.SequenceNode:
		elts := make([]*ir.Node, 0, len(x.Values))
		for _, v := range x.Values {
			elt, err := p.node(v)
			if err != nil {
				return nil, err
			}
			elts = append(elts, elt)
		}
		return p.mark(ir.FromSlice(elts), n), nil
	case *ast.AnchorNode:
		res, err := p.node(x.Value)
		if err != nil {
			return nil, err
		}
		p.anchors[x.Name.GetToken().Value] = res
		return res, nil
	case *ast.AliasNode:
		name := x.Value.GetToken().Value
		target, ok := p.anchors[name]
		if !ok {
			return nil, p.errAt(n, "unknown alias %q", name)
		}
		return p.mark(target.Clone().Detach(), n), nil
	case *ast.TagNode:
		return p.tagged(x)
	}
	return nil, p.errAt(n, "unsupported construct %s", n.Type())
}

var plainNumber = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9][0-9_]*(\.[0-9_]*)?)([eE][-+]?[0-9]+)?$`)

func (p *docParser) str(n ast.Node, v string, plain bool) (*ir.Node, error) {
	switch {
	case v == ir.MissingLiteral:
		return p.mark(ir.Missing(), n), nil
	case plain && plainNumber.MatchString(v):
		// forms like 1e-6 which YAML 1.2 core schema leaves as strings
		res, err := ir.FromNumber(v)
		if err == nil {
			return p.mark(res, n), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return nil, p.errAt(n, "%s", err)
		}
	case token.HasInterpolation(v):
		tmpl, err := token.Tokenize(v)
		if err != nil {
			return nil, p.errAt(n, "%s", err)
		}
		if lit, ok := tmpl.Literal(); ok {
			return p.mark(ir.FromString(lit), n), nil
		}
		return p.mark(ir.FromInterp(v), n), nil
	}
	return p.mark(ir.FromString(v), n), nil
}

func (p *docParser) mapping(n ast.Node, mvs []*ast.MappingValueNode) (*ir.Node, error) {
	res := p.mark(ir.FromKeyVals(nil), n)
	explicit := map[string]bool{}
	var merges []*ast.MappingValueNode
	for _, mv := range mvs {
		if _, ok := mv.Key.(*ast.MergeKeyNode); ok {
			merges = append(merges, mv)
			continue
		}
		key, err := p.key(mv.Key)
		if err != nil {
			return nil, err
		}
		if explicit[key] {
			return nil, p.errAt(mv.Key, "duplicate key %q", key)
		}
		explicit[key] = true
		v, err := p.node(mv.Value)
		if err != nil {
			return nil, err
		}
		res.SetField(key, v)
	}
	for _, mv := range merges {
		srcs, err := p.mergeSources(mv.Value)
		if err != nil {
			return nil, err
		}
		for _, src := range srcs {
			for i, f := range src.Fields {
				if res.FieldIndex(f.String) != -1 {
					continue
				}
				res.SetField(f.String, src.Values[i].Clone())
			}
		}
	}
	return res, nil
}

func (p *docParser) mergeSources(n ast.Node) ([]*ir.Node, error) {
	var vals []ast.Node
	if seq, ok := n.(*ast.SequenceNode); ok {
		vals = seq.Values
	} else {
		vals = []ast.Node{n}
	}
	res := make([]*ir.Node, 0, len(vals))
	for _, v := range vals {
		src, err := p.node(v)
		if err != nil {
			return nil, err
		}
		if src.Type != ir.ObjectType {
			return nil, p.errAt(v, "merge key value must be a mapping, got %s", src.Type)
		}
		res = append(res, src)
	}
	return res, nil
}

func (p *docParser) key(k ast.MapKeyNode) (string, error) {
	switch x := k.(type) {
	case *ast.StringNode:
		return x.Value, nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.NullNode, *ast.InfinityNode, *ast.NanNode:
		return k.GetToken().Value, nil
	}
	return "", p.errAt(k, "unsupported key %s", k.Type())
}

func (p *docParser) tagged(x *ast.TagNode) (*ir.Node, error) {
	tag := x.Start.Value
	switch tag {
	case "!!str":
		if s, ok := x.Value.(*ast.StringNode); ok {
			if s.Value == ir.MissingLiteral {
				return p.mark(ir.FromString(s.Value), x), nil
			}
			return p.str(x, s.Value, false)
		}
		tk := x.Value.GetToken()
		if tk == nil {
			return nil, p.errAt(x, "!!str on non scalar")
		}
		return p.mark(ir.FromString(tk.Value), x), nil
	case "!!int", "!!float":
		tk := x.Value.GetToken()
		res, err := ir.FromNumber(tk.Value)
		if err != nil {
			return nil, p.errAt(x, "%s %q: %s", tag, tk.Value, err)
		}
		if tag == "!!int" && !res.IsInt() {
			return nil, p.errAt(x, "!!int %q is not an integer", tk.Value)
		}
		return p.mark(res, x), nil
	case "!!bool", "!!null", "!!map", "!!seq":
		res, err := p.node(x.Value)
		if err != nil {
			return nil, err
		}
		want := map[string]ir.Type{
			"!!bool": ir.BoolType,
			"!!null": ir.NullType,
			"!!map":  ir.ObjectType,
			"!!seq":  ir.ArrayType,
		}[tag]
		if res.Type != want {
			return nil, p.errAt(x, "%s value is %s", tag, res.Type)
		}
		return res, nil
	}
	return nil, p.errAt(x, "unsupported tag %s", tag)
}

func fromYAMLError(err error, source string) error {
	var yerr yaml.Error
	if errors.As(err, &yerr) {
		e := &SyntaxError{Source: source, Msg: yerr.GetMessage(), Err: err}
		if tk := yerr.GetToken(); tk != nil && tk.Position != nil {
			e.Line = tk.Position.Line
			e.Col = tk.Position.Column
		}
		return e
	}
	return &SyntaxError{Source: source, Msg: err.Error(), Err: err}
}

func checkJSON(d []byte, source string) error {
	if len(bytes.TrimSpace(d)) == 0 {
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(d))
	err := dec.Decode(&v)
	if err == nil {
		if dec.More() {
			return &SyntaxError{Source: source, Msg: "multiple documents"}
		}
		return nil
	}
	e := &SyntaxError{Source: source, Msg: err.Error(), Err: err}
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		e.Line, e.Col = lineCol(d, int(serr.Offset))
	}
	return e
}

func lineCol(d []byte, off int) (int, int) {
	off = min(off, len(d))
	line := 1 + bytes.Count(d[:off], []byte("\n"))
	col := off - bytes.LastIndexByte(d[:off], '\n')
	return line, col
}
