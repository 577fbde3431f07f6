package parse

import (
	"fmt"

	"github.com/signadot/hconf/ir"
)

var ErrSyntax = ir.ErrSyntax

// SyntaxError reports malformed source text. Line and Col are 1 based, or
// 0 when unknown.
type SyntaxError struct {
	Source string
	Line   int
	Col    int
	Msg    string
	// Err is the underlying error, if any.
	Err error
}

func (e *SyntaxError) Error() string {
	src := e.Source
	if src == "" {
		src = "<string>"
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s: %s", src, ErrSyntax, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", src, e.Line, e.Col, ErrSyntax, e.Msg)
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSyntax}
	}
	return []error{ErrSyntax, e.Err}
}
