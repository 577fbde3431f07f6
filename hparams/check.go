package hparams

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/hconf/schema"
)

// checker collects violations so Validate reports all of them at once.
type checker struct {
	errs []error
}

func (c *checker) fail(path, rule, format string, args ...any) {
	c.errs = append(c.errs, &schema.Violation{
		Path: path,
		Rule: rule,
		Msg:  fmt.Sprintf(format, args...),
		Err:  schema.ErrConstraint,
	})
}

func (c *checker) oneOf(path, v string, allowed ...string) {
	if slices.Contains(allowed, v) {
		return
	}
	c.fail(path, "enum", "%q is not one of %s", v, strings.Join(allowed, ", "))
}

func positive[T cmp.Ordered](c *checker, path string, v T) {
	var zero T
	if v <= zero {
		c.fail(path, "positive", "must be positive, got %v", v)
	}
}

func inRange[T cmp.Ordered](c *checker, path string, v, lo, hi T) {
	if v < lo || v > hi {
		c.fail(path, "range", "%v is outside [%v, %v]", v, lo, hi)
	}
}

func (c *checker) divides(path string, n, d int, what string) {
	if d <= 0 || n%d != 0 {
		c.fail(path, "divisible", "%d is not divisible by %s (%d)", n, what, d)
	}
}

func (c *checker) err() error {
	return errors.Join(c.errs...)
}

// Violations returns the violations in an error returned by Validate.
func Violations(err error) []*schema.Violation {
	if err == nil {
		return nil
	}
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	var res []*schema.Violation
	for _, e := range errs {
		var v *schema.Violation
		if errors.As(e, &v) {
			res = append(res, v)
		}
	}
	return res
}
