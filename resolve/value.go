package resolve

import (
	"strings"

	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
)

// ParseValue parses text from an override or a resolver argument as a
// YAML value. Text which would parse as a block mapping ("a: b") or
// fails to parse is a plain string; the empty text is the empty string.
func ParseValue(text string) (*ir.Node, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return ir.FromString(""), nil
	}
	res, err := parse.ParseString(s)
	if err != nil {
		if s[0] == '[' || s[0] == '{' {
			return nil, err
		}
		return ir.FromString(s), nil
	}
	switch res.Type {
	case ir.ObjectType:
		if s[0] != '{' {
			return ir.FromString(s), nil
		}
	case ir.ArrayType:
		if s[0] != '[' {
			return ir.FromString(s), nil
		}
	}
	return res, nil
}
