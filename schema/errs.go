package schema

import (
	"errors"
	"fmt"
)

var ErrConstraint = errors.New("constraint violated")

// Violation is one failed check. Err wraps ir.ErrTypeMismatch,
// ir.ErrMissingRequired or ErrConstraint.
type Violation struct {
	// Path is the dot-path in the document.
	Path string
	// Rule is the schema path which matched it.
	Rule string
	Msg  string
	Err  error
}

func (v *Violation) Error() string {
	p := v.Path
	if p == "" {
		p = "<root>"
	}
	return fmt.Sprintf("%s: %s", p, v.Msg)
}

func (v *Violation) Unwrap() error {
	return v.Err
}
