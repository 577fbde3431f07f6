package resolve

import (
	"fmt"
	"os"
	"strings"

	"github.com/signadot/hconf/debug"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/ir/kpath"
)

// EnvOverrides names the environment variable holding whitespace
// separated overrides.
const EnvOverrides = "HCONF_OVERRIDES"

type OverrideOp int

const (
	OpSet OverrideOp = iota
	OpAdd
	OpUpsert
	OpDelete
)

func (o OverrideOp) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpUpsert:
		return "upsert"
	case OpDelete:
		return "delete"
	}
	return "<unknown op>"
}

// Override is one parsed override.
type Override struct {
	Op   OverrideOp
	Path *kpath.KPath
	// Value is nil for a delete without value.
	Value *ir.Node
	// Raw is the source text.
	Raw string
}

func (o *Override) String() string {
	if o.Raw != "" {
		return o.Raw
	}
	prefix := map[OverrideOp]string{OpAdd: "+", OpUpsert: "++", OpDelete: "~"}[o.Op]
	if o.Value == nil {
		return prefix + o.Path.String()
	}
	return prefix + o.Path.String() + "=<value>"
}

// Set returns an upsert override of path to v.
func Set(path string, v *ir.Node) (*Override, error) {
	p, err := overridePath(path, path)
	if err != nil {
		return nil, err
	}
	return &Override{Op: OpUpsert, Path: p, Value: v}, nil
}

// ParseOverride parses one override in the grammar described in the
// package documentation.
func ParseOverride(s string) (*Override, error) {
	o := &Override{Raw: s}
	var rest string
	o.Op, rest = splitOp(s)
	eq := assignIndex(rest)
	if eq == -1 && o.Op != OpDelete {
		return nil, fmt.Errorf("%w: %q: expected path=value", ir.ErrOverride, s)
	}
	pathText := rest
	if eq != -1 {
		pathText = rest[:eq]
	}
	p, err := overridePath(strings.TrimSpace(pathText), s)
	if err != nil {
		return nil, err
	}
	o.Path = p
	if eq == -1 {
		return o, nil
	}
	v, err := ParseValue(rest[eq+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: bad value: %w", ir.ErrOverride, s, err)
	}
	o.Value = v
	return o, nil
}

// NewOverride returns the override which key, written as the left side
// of an override with its op prefix, describes for the value v. A nil v
// deletes without matching.
func NewOverride(key string, v *ir.Node) (*Override, error) {
	op, rest := splitOp(key)
	if v == nil && op != OpDelete {
		return nil, fmt.Errorf("%w: %q: no value", ir.ErrOverride, key)
	}
	p, err := overridePath(strings.TrimSpace(rest), key)
	if err != nil {
		return nil, err
	}
	return &Override{Op: op, Path: p, Value: v}, nil
}

func splitOp(s string) (OverrideOp, string) {
	switch {
	case strings.HasPrefix(s, "++"):
		return OpUpsert, s[2:]
	case strings.HasPrefix(s, "+"):
		return OpAdd, s[1:]
	case strings.HasPrefix(s, "~"):
		return OpDelete, s[1:]
	}
	return OpSet, s
}

// ParseOverrides parses each of items.
func ParseOverrides(items []string) ([]*Override, error) {
	res := make([]*Override, 0, len(items))
	for _, item := range items {
		o, err := ParseOverride(item)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, nil
}

// LoadEnvOverrides parses the overrides in $HCONF_OVERRIDES, if any.
func LoadEnvOverrides() ([]*Override, error) {
	v := os.Getenv(EnvOverrides)
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	res, err := ParseOverrides(strings.Fields(v))
	if err != nil {
		return nil, fmt.Errorf("error decoding $%s: %w", EnvOverrides, err)
	}
	if debug.Override() {
		debug.Logf("loaded %d overrides from $%s\n", len(res), EnvOverrides)
	}
	return res, nil
}

func overridePath(text, raw string) (*kpath.KPath, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: %q: empty path", ir.ErrOverride, raw)
	}
	p, err := kpath.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ir.ErrOverride, raw, err)
	}
	if p.IsWild() {
		return nil, fmt.Errorf("%w: %q: wildcards not allowed", ir.ErrOverride, raw)
	}
	return p, nil
}

// assignIndex returns the index of the first '=' outside quotes.
func assignIndex(s string) int {
	var q byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case q != 0:
			if c == '\\' {
				i++
			} else if c == q {
				q = 0
			}
		case c == '"' || c == '\'':
			q = c
		case c == '=':
			return i
		}
	}
	return -1
}

// Apply applies overrides to root in order. Values are cloned into the
// tree.
func Apply(root *ir.Node, overrides ...*Override) error {
	for _, o := range overrides {
		if debug.Override() {
			debug.Logf("override %s %s\n", o.Op, o)
		}
		if err := apply(root, o); err != nil {
			return err
		}
	}
	return nil
}

func apply(root *ir.Node, o *Override) error {
	if o.Path == nil {
		return fmt.Errorf("%w: %q: empty path", ir.ErrOverride, o.Raw)
	}
	path := o.Path.String()
	parentPath, last := o.Path.Parent()
	var (
		parent *ir.Node
		err    error
	)
	switch o.Op {
	case OpAdd, OpUpsert:
		parent, err = ensure(root, parentPath)
	default:
		parent, err = root.Lookup(parentPath)
	}
	if err != nil {
		return ir.NewPathError("override", path, unwrapPath(err))
	}
	cur, idx := child(parent, last)
	switch o.Op {
	case OpSet:
		if cur == nil {
			return ir.NewPathError("override", path, fmt.Errorf("%w (use +%s=... to add it)", ir.ErrPathNotFound, path))
		}
		cur.ReplaceWith(o.Value.Clone())
	case OpAdd:
		if cur != nil {
			return ir.NewPathError("override", path, fmt.Errorf("%w: key exists (use ++%s=... to replace it)", ir.ErrOverride, path))
		}
		return add(parent, last, o.Value.Clone(), path)
	case OpUpsert:
		if cur != nil {
			cur.ReplaceWith(o.Value.Clone())
			return nil
		}
		return add(parent, last, o.Value.Clone(), path)
	case OpDelete:
		if cur == nil {
			return ir.NewPathError("override", path, ir.ErrPathNotFound)
		}
		if o.Value != nil && !ir.Equal(cur, o.Value) {
			return ir.NewPathError("override", path, fmt.Errorf("%w: value does not match", ir.ErrOverride))
		}
		if parent.Type == ir.ArrayType {
			parent.DeleteIndex(idx)
		} else {
			parent.DeleteField(cur.ParentField)
		}
	}
	return nil
}

func unwrapPath(err error) error {
	if pe, ok := err.(*ir.PathError); ok {
		return pe.Err
	}
	return err
}

// child returns the node addressed by the single segment seg in parent
// and its index, or nil.
func child(parent *ir.Node, seg *kpath.KPath) (*ir.Node, int) {
	n, err := parent.Lookup(seg)
	if err != nil {
		return nil, -1
	}
	return n, n.ParentIndex
}

// ensure looks up p creating missing objects on the way.
func ensure(root *ir.Node, p *kpath.KPath) (*ir.Node, error) {
	cur := root
	for seg := p; seg != nil; seg = seg.Next {
		one := *seg
		one.Next = nil
		next, err := cur.Lookup(&one)
		if err == nil {
			cur = next
			continue
		}
		if cur.Type != ir.ObjectType || seg.Field == nil {
			return nil, err
		}
		next = ir.FromKeyVals(nil)
		cur.SetField(*seg.Field, next)
		cur = next
	}
	return cur, nil
}

func add(parent *ir.Node, seg *kpath.KPath, v *ir.Node, path string) error {
	switch parent.Type {
	case ir.ObjectType:
		if seg.Field == nil {
			return ir.NewPathError("override", path, fmt.Errorf("%w: index into object", ir.ErrTypeMismatch))
		}
		parent.SetField(*seg.Field, v)
		return nil
	case ir.ArrayType:
		if seg.Index != nil && *seg.Index == len(parent.Values) {
			parent.Append(v)
			return nil
		}
		return ir.NewPathError("override", path, fmt.Errorf("%w: can only append at index %d", ir.ErrPathNotFound, len(parent.Values)))
	}
	return ir.NewPathError("override", path, fmt.Errorf("%w: cannot add to %s", ir.ErrPathNotFound, parent.Type))
}
