package hconf

import (
	"fmt"

	"github.com/signadot/hconf/gomap"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/ir/kpath"
)

// Get returns a copy of the value at path. A ??? there fails with
// ErrMissingRequired.
func (d *Document) Get(path string) (*ir.Node, error) {
	n, err := d.lookup(path)
	if err != nil {
		return nil, err
	}
	return n.Clone().Detach(), nil
}

func (d *Document) lookup(path string) (*ir.Node, error) {
	p, err := kpath.Parse(path)
	if err != nil {
		return nil, ir.NewPathError("get", path, fmt.Errorf("%w: %w", ErrSyntax, err))
	}
	n, err := d.root.Lookup(p)
	if err != nil {
		return nil, err
	}
	if n.Type == ir.MissingType {
		return nil, ir.NewPathError("get", path, ErrMissingRequired)
	}
	return n, nil
}

func mismatch(path string, n *ir.Node, want string) error {
	return ir.NewPathError("get", path, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, n.Type))
}

// Int returns the integer at path.
func (d *Document) Int(path string) (int, error) {
	n, err := d.lookup(path)
	if err != nil {
		return 0, err
	}
	if !n.IsInt() {
		return 0, mismatch(path, n, "int")
	}
	return int(*n.Int64), nil
}

// Float returns the number at path. Integers are converted.
func (d *Document) Float(path string) (float64, error) {
	n, err := d.lookup(path)
	if err != nil {
		return 0, err
	}
	f, ok := n.Float()
	if !ok {
		return 0, mismatch(path, n, "float")
	}
	return f, nil
}

func (d *Document) String(path string) (string, error) {
	n, err := d.lookup(path)
	if err != nil {
		return "", err
	}
	if n.Type != ir.StringType {
		return "", mismatch(path, n, "string")
	}
	return n.String, nil
}

func (d *Document) Bool(path string) (bool, error) {
	n, err := d.lookup(path)
	if err != nil {
		return false, err
	}
	if n.Type != ir.BoolType {
		return false, mismatch(path, n, "bool")
	}
	return n.Bool, nil
}

// Strings returns the list of strings at path.
func (d *Document) Strings(path string) ([]string, error) {
	n, err := d.lookup(path)
	if err != nil {
		return nil, err
	}
	if n.Type != ir.ArrayType {
		return nil, mismatch(path, n, "list of strings")
	}
	res := make([]string, len(n.Values))
	for i, v := range n.Values {
		if v.Type == ir.MissingType {
			return nil, ir.NewPathError("get", v.KPath(), ErrMissingRequired)
		}
		if v.Type != ir.StringType {
			return nil, mismatch(v.KPath(), v, "string")
		}
		res[i] = v.String
	}
	return res, nil
}

// GetAs decodes the value at path into a T.
func GetAs[T any](d *Document, path string, opts ...gomap.FromOption) (T, error) {
	var res T
	n, err := d.lookup(path)
	if err != nil {
		return res, err
	}
	if err := gomap.FromIR(n, &res, opts...); err != nil {
		return res, err
	}
	return res, nil
}

// List returns copies of every value matching path, which may contain *
// and [*] wildcards, in document order.
func (d *Document) List(path string) ([]*ir.Node, error) {
	ns, err := d.root.ListKPath(nil, path)
	if err != nil {
		return nil, ir.NewPathError("list", path, err)
	}
	for i, n := range ns {
		ns[i] = n.Clone().Detach()
	}
	return ns, nil
}
