package ir

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax            = errors.New("syntax error")
	ErrMissingRequired   = errors.New("missing required value")
	ErrCircularReference = errors.New("circular reference")
	ErrPathNotFound      = errors.New("path not found")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrOverride          = errors.New("bad override")
	ErrResolver          = errors.New("resolver error")
)

// PathError records an error and the operation and dot-path which caused
// it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	p := e.Path
	if p == "" {
		p = "<root>"
	}
	if e.Op == "" {
		return p + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, p, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError returns a PathError for op at path.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}
