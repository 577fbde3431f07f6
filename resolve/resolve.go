package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/signadot/hconf/debug"
	"github.com/signadot/hconf/eval"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/ir/kpath"
	"github.com/signadot/hconf/token"
)

// maxRewrites bounds how many times a resolver result which is itself an
// interpolation is evaluated again.
const maxRewrites = 32

// Result is the outcome of Resolve.
type Result struct {
	// Root is the resolved tree. It shares nothing with the input.
	Root *ir.Node
	// Order lists the interpolation paths in the order they were resolved.
	Order []string
}

// Resolve applies overrides to a clone of root and then resolves every
// interpolation in it.
func Resolve(root *ir.Node, overrides ...*Override) (*Result, error) {
	res := root.Clone().Detach()
	if err := Apply(res, overrides...); err != nil {
		return nil, err
	}
	if res.Type == ir.InterpType {
		return nil, ir.NewPathError("resolve", "", fmt.Errorf("%w: document root is the interpolation %q", ir.ErrTypeMismatch, res.String))
	}
	r := newResolver(res)
	if err := r.all(res); err != nil {
		return nil, err
	}
	return &Result{Root: res, Order: r.order}, nil
}

// Interps returns the dot-paths of the interpolations under node, sorted.
func Interps(node *ir.Node) []string {
	var res []string
	_ = node.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if !isPost && n.Type == ir.InterpType {
			res = append(res, n.KPath())
		}
		return true, nil
	})
	slices.Sort(res)
	return res
}

type resolver struct {
	root     *ir.Node
	visiting map[string]bool
	done     map[string]bool
	stack    []string
	order    []string
}

func newResolver(root *ir.Node) *resolver {
	return &resolver{
		root:     root,
		visiting: map[string]bool{},
		done:     map[string]bool{},
	}
}

// all resolves every interpolation under node.
func (r *resolver) all(node *ir.Node) error {
	for _, p := range Interps(node) {
		if err := r.resolvePath(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) at(p string) (*ir.Node, error) {
	kp, err := kpath.Parse(p)
	if err != nil {
		return nil, err
	}
	return r.root.Lookup(kp)
}

func (r *resolver) resolvePath(p string) error {
	if r.done[p] {
		return nil
	}
	if r.visiting[p] {
		i := slices.Index(r.stack, p)
		cycle := append(slices.Clone(r.stack[i:]), p)
		return &CircularReferenceError{Cycle: cycle}
	}
	node, err := r.at(p)
	if err != nil {
		return err
	}
	if node.Type != ir.InterpType {
		r.done[p] = true
		return nil
	}
	r.visiting[p] = true
	r.stack = append(r.stack, p)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.visiting, p)
	}()

	val, err := r.interp(node)
	if err != nil {
		return wrapOnce(p, err)
	}
	val = node.ReplaceWith(val)
	if err := r.all(val); err != nil {
		return wrapOnce(p, err)
	}
	r.done[p] = true
	r.order = append(r.order, p)
	if debug.Resolve() {
		debug.Logf("resolved %s: %v\n", p, val)
	}
	return nil
}

func wrapOnce(p string, err error) error {
	var (
		pe *ir.PathError
		ce *CircularReferenceError
	)
	if errors.As(err, &pe) || errors.As(err, &ce) {
		return err
	}
	return ir.NewPathError("resolve", p, err)
}

// interp computes the value of the interpolation node.
func (r *resolver) interp(node *ir.Node) (*ir.Node, error) {
	src := node.String
	for range maxRewrites {
		tmpl, err := token.Tokenize(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ir.ErrSyntax, err)
		}
		res, err := r.template(node, tmpl)
		if err != nil {
			return nil, err
		}
		if res.Type != ir.InterpType {
			return res, nil
		}
		src = res.String
	}
	return nil, fmt.Errorf("%w: interpolation rewritten more than %d times", ir.ErrResolver, maxRewrites)
}

// template evaluates tmpl in the context of node. A single reference or
// call keeps its type; anything else is text.
func (r *resolver) template(node *ir.Node, tmpl *token.Template) (*ir.Node, error) {
	if tmpl.IsSingle() {
		return r.tok(node, &tmpl.Toks[0])
	}
	return r.text(node, tmpl)
}

// text evaluates tmpl to a string, or to ??? if it embeds one.
func (r *resolver) text(node *ir.Node, tmpl *token.Template) (*ir.Node, error) {
	var b []byte
	for i := range tmpl.Toks {
		tok := &tmpl.Toks[i]
		if tok.Type == token.TText {
			b = append(b, tok.Text...)
			continue
		}
		v, err := r.tok(node, tok)
		if err != nil {
			return nil, err
		}
		switch v.Type {
		case ir.MissingType:
			return ir.Missing(), nil
		case ir.StringType, ir.InterpType:
			b = append(b, v.String...)
		case ir.NumberType:
			b = append(b, v.Number...)
		case ir.BoolType:
			b = strconv.AppendBool(b, v.Bool)
		case ir.NullType:
			b = append(b, "null"...)
		default:
			return nil, fmt.Errorf("%w: cannot embed %s in %q", ir.ErrTypeMismatch, v.Type, tmpl.Raw)
		}
	}
	return ir.FromString(string(b)), nil
}

func (r *resolver) tok(node *ir.Node, tok *token.Token) (*ir.Node, error) {
	switch tok.Type {
	case token.TRef:
		p, err := r.text(node, tok.Path)
		if err != nil {
			return nil, err
		}
		if p.Type == ir.MissingType {
			return p, nil
		}
		target, err := r.lookup(node, p.String)
		if err != nil {
			return nil, err
		}
		return target.Clone().Detach(), nil
	case token.TCall:
		return r.call(node, tok)
	}
	return ir.FromString(tok.Text), nil
}

func (r *resolver) call(node *ir.Node, tok *token.Token) (*ir.Node, error) {
	args := make([]*ir.Node, 0, len(tok.Args))
	missing := false
	for _, a := range tok.Args {
		v, err := r.arg(node, a)
		if err != nil {
			return nil, err
		}
		if v.Type == ir.MissingType {
			missing = true
		}
		args = append(args, v)
	}
	if missing && tok.Text != "oc.select" {
		return ir.Missing(), nil
	}
	ctx := &eval.Context{
		Node: node,
		Lookup: func(p string) (*ir.Node, error) {
			res, err := r.lookup(node, p)
			if err != nil {
				return nil, err
			}
			return res.Clone().Detach(), nil
		},
	}
	if debug.Eval() {
		debug.Logf("call %s at %s with %d args\n", tok.Text, node.KPath(), len(args))
	}
	return eval.Call(tok.Text, ctx, args)
}

// arg evaluates a resolver argument. Quoted arguments are strings, a lone
// interpolation keeps its type and other text is read as a YAML value.
func (r *resolver) arg(node *ir.Node, a *token.Template) (*ir.Node, error) {
	switch {
	case a.Quoted:
		return r.text(node, a)
	case a.IsSingle():
		return r.tok(node, &a.Toks[0])
	}
	v, err := r.text(node, a)
	if err != nil || v.Type == ir.MissingType {
		return v, err
	}
	if token.HasInterpolation(v.String) {
		return v, nil
	}
	return ParseValue(v.String)
}

// lookup returns the resolved node at path, which may be relative to the
// container of from. The node is in place; callers clone it.
func (r *resolver) lookup(from *ir.Node, path string) (*ir.Node, error) {
	up, kp, err := kpath.ParseRel(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ir.ErrSyntax, err)
	}
	if kp.IsWild() {
		return nil, fmt.Errorf("%w: wildcard in reference %q", ir.ErrSyntax, path)
	}
	cur := r.root
	if up >= 0 {
		cur = from.Parent.Up(up)
		if cur == nil {
			return nil, fmt.Errorf("reference %q: %w: climbs above the root", path, ir.ErrPathNotFound)
		}
	}
	for seg := kp; ; seg = seg.Next {
		if cur, err = r.settle(cur); err != nil {
			return nil, err
		}
		if cur.Type == ir.MissingType {
			return cur, nil
		}
		if seg == nil {
			break
		}
		one := *seg
		one.Next = nil
		next, err := cur.Lookup(&one)
		if err != nil {
			var pe *ir.PathError
			if errors.As(err, &pe) {
				err = pe.Err
			}
			return nil, fmt.Errorf("reference %q: %w", path, err)
		}
		cur = next
	}
	if cur.Type == ir.ObjectType || cur.Type == ir.ArrayType {
		if err := r.all(cur); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// settle resolves cur if it is an interpolation and returns what replaced
// it.
func (r *resolver) settle(cur *ir.Node) (*ir.Node, error) {
	if cur.Type != ir.InterpType {
		return cur, nil
	}
	p := cur.KPath()
	if err := r.resolvePath(p); err != nil {
		return nil, err
	}
	return r.at(p)
}
