package token

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnterminated = errors.New("unterminated interpolation")
	ErrEmpty        = errors.New("empty interpolation")
	ErrBadResolver  = errors.New("bad resolver name")
	ErrBadQuote     = errors.New("bad quoted string")
)

// TemplateErr locates an error within a template string.
type TemplateErr struct {
	Err error
	Src string
	Off int
}

func (e *TemplateErr) Unwrap() error {
	return e.Err
}

func (e *TemplateErr) Error() string {
	return fmt.Sprintf("%s in %s at offset %d", e.Err.Error(), strconv.Quote(e.Src), e.Off)
}

func newErr(err error, src string, off int) *TemplateErr {
	return &TemplateErr{Err: err, Src: src, Off: off}
}
