package hconf

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/gomap"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
	"github.com/signadot/hconf/resolve"
)

// Document is a resolved configuration. It is not modified after Load
// returns; accessors hand out copies.
type Document struct {
	// Source is the file name, or "<string>".
	Source string
	// LoadedAt is when resolution finished.
	LoadedAt time.Time
	// Overrides lists the overrides applied, in order.
	Overrides []*resolve.Override
	// Order lists the interpolation paths in the order they were
	// resolved.
	Order []string

	root      *ir.Node
	positions map[string]parse.Pos
}

// Load parses and resolves a document.
func Load(d []byte, opts ...Option) (*Document, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	positions := map[string]parse.Pos{}
	root, err := parse.Parse(d,
		parse.ParseFormat(o.format),
		parse.ParseSource(o.source),
		parse.ParsePositions(positions))
	if err != nil {
		return nil, err
	}
	doc, err := o.resolve(root)
	if err != nil {
		return nil, err
	}
	doc.positions = positions
	return doc, nil
}

// LoadNode resolves a tree built in memory, applying the overrides of
// opts. WithFormat has no effect.
func LoadNode(root *ir.Node, opts ...Option) (*Document, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o.resolve(root)
}

func (o *options) resolve(root *ir.Node) (*Document, error) {
	ovs, err := o.allOverrides()
	if err != nil {
		return nil, err
	}
	doc, err := Resolve(root, ovs...)
	if err != nil {
		return nil, err
	}
	if o.source != "" {
		doc.Source = o.source
	}
	return doc, nil
}

// LoadFile reads and loads the file at path.
func LoadFile(path string, opts ...Option) (*Document, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	all := []Option{WithSource(path), WithFormat(format.FromFilename(path))}
	return Load(d, append(all, opts...)...)
}

// Resolve applies overrides to a copy of root and resolves it.
func Resolve(root *ir.Node, overrides ...*resolve.Override) (*Document, error) {
	res, err := resolve.Resolve(root, overrides...)
	if err != nil {
		return nil, err
	}
	return &Document{
		Source:    "<string>",
		LoadedAt:  time.Now(),
		Overrides: overrides,
		Order:     res.Order,
		root:      res.Root,
	}, nil
}

// Root returns a copy of the resolved tree.
func (d *Document) Root() *ir.Node {
	return d.root.Clone()
}

// Pos returns the source position of the value at path, when it came
// from the source text.
func (d *Document) Pos(path string) (parse.Pos, bool) {
	p, ok := d.positions[path]
	return p, ok
}

// Where describes path for messages: "file:line:col: path" when the
// position is known.
func (d *Document) Where(path string) string {
	if p, ok := d.Pos(path); ok {
		return fmt.Sprintf("%s:%d:%d: %s", d.Source, p.Line, p.Col, path)
	}
	return path
}

// ValidateRequired returns the paths still holding ??? in document order.
func (d *Document) ValidateRequired() []string {
	var res []string
	_ = d.root.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if !isPost && n.Type == ir.MissingType {
			res = append(res, n.KPath())
		}
		return true, nil
	})
	return res
}

// Required returns an error wrapping ErrMissingRequired listing every ???
// left, or nil.
func (d *Document) Required() error {
	ps := d.ValidateRequired()
	if len(ps) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w: %s", d.Source, ErrMissingRequired, strings.Join(ps, ", "))
}

// Decode decodes the whole document into v.
func (d *Document) Decode(v any, opts ...gomap.FromOption) error {
	return gomap.FromIR(d.root, v, opts...)
}

func (d *Document) Encode(w io.Writer, opts ...encode.EncodeOption) error {
	return encode.Encode(d.root, w, opts...)
}
