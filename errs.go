package hconf

import (
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
	"github.com/signadot/hconf/resolve"
)

var (
	ErrSyntax            = ir.ErrSyntax
	ErrMissingRequired   = ir.ErrMissingRequired
	ErrCircularReference = ir.ErrCircularReference
	ErrPathNotFound      = ir.ErrPathNotFound
	ErrTypeMismatch      = ir.ErrTypeMismatch
	ErrOverride          = ir.ErrOverride
	ErrResolver          = ir.ErrResolver
)

type (
	SyntaxError            = parse.SyntaxError
	PathError              = ir.PathError
	CircularReferenceError = resolve.CircularReferenceError
)
