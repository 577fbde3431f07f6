package schema

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/signadot/hconf/gomap"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/ir/kpath"
	"github.com/signadot/hconf/parse"
)

type Schema struct {
	Name  string
	Rules []*Rule
}

// Rule constrains the nodes matching Path.
type Rule struct {
	Path string `hconf:"-"`
	Constraint

	kp *kpath.KPath
}

type Constraint struct {
	Type     string     `hconf:"type,omitempty"`
	Enum     []*ir.Node `hconf:"enum,omitempty"`
	Required bool       `hconf:"required,omitempty"`
	Nullable bool       `hconf:"nullable,omitempty"`
	Min      *float64   `hconf:"min,omitempty"`
	Max      *float64   `hconf:"max,omitempty"`
}

var types = []string{"int", "float", "number", "string", "bool", "list", "map"}

type schemaDoc struct {
	Name   string
	Fields *ir.Node
}

// Parse reads a schema document.
func Parse(d []byte, opts ...parse.ParseOption) (*Schema, error) {
	node, err := parse.Parse(d, opts...)
	if err != nil {
		return nil, err
	}
	return FromIR(node)
}

// Load reads a schema file.
func Load(path string) (*Schema, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(d, parse.ParseSource(path))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

func FromIR(node *ir.Node) (*Schema, error) {
	var doc schemaDoc
	if err := gomap.FromIR(node, &doc, gomap.Strict(true)); err != nil {
		return nil, err
	}
	s := &Schema{Name: doc.Name}
	if doc.Fields == nil || doc.Fields.Type == ir.NullType {
		return s, nil
	}
	if doc.Fields.Type != ir.ObjectType {
		return nil, fmt.Errorf("schema fields: %w: got %s", ir.ErrTypeMismatch, doc.Fields.Type)
	}
	for i, f := range doc.Fields.Fields {
		r, err := NewRule(f.String, doc.Fields.Values[i])
		if err != nil {
			return nil, err
		}
		s.Rules = append(s.Rules, r)
	}
	return s, nil
}

// NewRule decodes the constraint c for path.
func NewRule(path string, c *ir.Node) (*Rule, error) {
	kp, err := kpath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("schema rule %q: %w", path, err)
	}
	r := &Rule{Path: path, kp: kp}
	if err := gomap.FromIR(c, &r.Constraint, gomap.Strict(true)); err != nil {
		return nil, fmt.Errorf("schema rule %q: %w", path, err)
	}
	if r.Type != "" && !slices.Contains(types, r.Type) {
		return nil, fmt.Errorf("schema rule %q: unknown type %q (want one of %s)", path, r.Type, strings.Join(types, ", "))
	}
	return r, nil
}

// Validate checks root against every rule and returns all violations, in
// rule order.
func (s *Schema) Validate(root *ir.Node) []*Violation {
	var res []*Violation
	for _, r := range s.Rules {
		res = r.check(root, res)
	}
	return res
}

func (r *Rule) violation(path, msg string, err error) *Violation {
	return &Violation{Path: path, Rule: r.Path, Msg: msg, Err: err}
}

func (r *Rule) check(root *ir.Node, dst []*Violation) []*Violation {
	if r.Required {
		dst = r.checkPresent(root, dst)
	}
	for _, n := range root.ListPath(nil, r.kp) {
		if v := r.checkNode(n); v != nil {
			dst = append(dst, v)
		}
	}
	return dst
}

// checkPresent reports containers matching the rule's parent path which
// lack the last segment.
func (r *Rule) checkPresent(root *ir.Node, dst []*Violation) []*Violation {
	parent, last := r.kp.Parent()
	if last == nil || last.IsWild() {
		return dst
	}
	for _, p := range root.ListPath(nil, parent) {
		if _, err := p.Lookup(last); err == nil {
			continue
		}
		path := kpath.Join(p.Path(), last).String()
		dst = append(dst, r.violation(path, "required value is absent", ir.ErrMissingRequired))
	}
	return dst
}

func (r *Rule) checkNode(n *ir.Node) *Violation {
	path := n.KPath()
	switch n.Type {
	case ir.MissingType:
		if r.Required {
			return r.violation(path, "required value is ???", ir.ErrMissingRequired)
		}
		return nil
	case ir.InterpType:
		return r.violation(path, fmt.Sprintf("unresolved %q", n.String), ir.ErrTypeMismatch)
	case ir.NullType:
		if r.Nullable || r.Type == "" {
			return nil
		}
	}
	if !r.typeOK(n) {
		return r.violation(path, fmt.Sprintf("expected %s, got %s", r.Type, n.Type), ir.ErrTypeMismatch)
	}
	if len(r.Enum) != 0 && !slices.ContainsFunc(r.Enum, func(e *ir.Node) bool { return ir.Equal(e, n) }) {
		return r.violation(path, fmt.Sprintf("%s is not one of %s", scalarString(n), enumString(r.Enum)), ErrConstraint)
	}
	if r.Min == nil && r.Max == nil {
		return nil
	}
	x, what, ok := measure(n)
	if !ok {
		return nil
	}
	if r.Min != nil && x < *r.Min {
		return r.violation(path, fmt.Sprintf("%s %v is below the minimum %v", what, x, *r.Min), ErrConstraint)
	}
	if r.Max != nil && x > *r.Max {
		return r.violation(path, fmt.Sprintf("%s %v is above the maximum %v", what, x, *r.Max), ErrConstraint)
	}
	return nil
}

func (r *Rule) typeOK(n *ir.Node) bool {
	switch r.Type {
	case "":
		return true
	case "int":
		return n.IsInt()
	case "float", "number":
		return n.Type == ir.NumberType
	case "string":
		return n.Type == ir.StringType
	case "bool":
		return n.Type == ir.BoolType
	case "list":
		return n.Type == ir.ArrayType
	case "map":
		return n.Type == ir.ObjectType
	}
	return false
}

func measure(n *ir.Node) (float64, string, bool) {
	switch n.Type {
	case ir.NumberType:
		f, ok := n.Float()
		return f, "value", ok
	case ir.StringType:
		return float64(len(n.String)), "length", true
	case ir.ArrayType, ir.ObjectType:
		return float64(len(n.Values)), "length", true
	}
	return 0, "", false
}

func scalarString(n *ir.Node) string {
	switch n.Type {
	case ir.StringType:
		return fmt.Sprintf("%q", n.String)
	case ir.NumberType:
		return n.Number
	case ir.BoolType:
		return fmt.Sprint(n.Bool)
	}
	return n.Type.String()
}

func enumString(enum []*ir.Node) string {
	parts := make([]string, len(enum))
	for i, e := range enum {
		parts[i] = scalarString(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
