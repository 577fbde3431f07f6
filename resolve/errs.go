package resolve

import (
	"strings"

	"github.com/signadot/hconf/ir"
)

// CircularReferenceError is returned when references form a cycle. Cycle
// starts and ends with the same path.
type CircularReferenceError struct {
	Cycle []string
}

func (e *CircularReferenceError) Error() string {
	return ir.ErrCircularReference.Error() + ": " + strings.Join(e.Cycle, " -> ")
}

func (e *CircularReferenceError) Unwrap() error {
	return ir.ErrCircularReference
}
