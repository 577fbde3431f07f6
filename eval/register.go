package eval

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/hconf/ir"
)

var (
	mu sync.RWMutex
	d  = map[string]Symbol{}
)

var ErrSymbolExists = errors.New("symbol exists")

func Register(s Symbol) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[s.String()]
	if present {
		return fmt.Errorf("%s: %w", s, ErrSymbolExists)
	}
	d[s.String()] = s
	return nil
}

// Unregister removes the resolver named s, reporting whether it existed.
func Unregister(s string) bool {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[s]
	delete(d, s)
	return present
}

func init() {
	Register(OSEnv())
	Register(Decode())
	Register(Select())
	Register(Multiply())
	Register(Sum())
	Register(IntDiv())
	Register(Script())
}

func Lookup(s string) Symbol {
	mu.RLock()
	defer mu.RUnlock()
	return d[s]
}

// Symbols returns the registered resolvers sorted by name.
func Symbols() []Symbol {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Symbol, 0, len(d))
	for _, s := range d {
		res = append(res, s)
	}
	slices.SortFunc(res, func(a, b Symbol) int {
		return strings.Compare(a.String(), b.String())
	})
	return res
}

// Call looks up and runs resolver s.
func Call(s string, ctx *Context, args []*ir.Node) (*ir.Node, error) {
	sym := Lookup(s)
	if sym == nil {
		return nil, fmt.Errorf("%w: unknown resolver %q", ir.ErrResolver, s)
	}
	res, err := sym.Resolve(ctx, args)
	if err != nil {
		if errors.Is(err, ir.ErrResolver) || errors.Is(err, ir.ErrPathNotFound) ||
			errors.Is(err, ir.ErrMissingRequired) || errors.Is(err, ir.ErrCircularReference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ir.ErrResolver, s, err)
	}
	return res, nil
}

// notFound reports whether a lookup failed because the path does not
// exist. A path which exists but refers to something missing is an error
// of its own.
func notFound(err error) bool {
	var pe *ir.PathError
	if errors.As(err, &pe) && pe.Op == "resolve" {
		return false
	}
	return errors.Is(err, ir.ErrPathNotFound)
}

func resolverErr(s Symbol, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ir.ErrResolver, s, fmt.Sprintf(format, args...))
}

func argString(s Symbol, args []*ir.Node, i int) (string, error) {
	a := args[i]
	switch a.Type {
	case ir.StringType:
		return a.String, nil
	case ir.NumberType:
		return a.Number, nil
	case ir.BoolType:
		if a.Bool {
			return "true", nil
		}
		return "false", nil
	}
	return "", resolverErr(s, "argument %d must be a string, got %s", i+1, a.Type)
}
