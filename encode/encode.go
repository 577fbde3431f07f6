package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/token"
)

type EncState struct {
	indent       int
	wire         bool
	escapeInterp bool

	format format.Format

	Color func(ir.Type, ColorAttr, string) string
}

func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent:       2,
		escapeInterp: true,
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.format.IsJSON() {
		if err := es.json(w, node, 0); err != nil {
			return err
		}
		return writeString(w, "\n")
	}
	if err := es.yaml(w, node, 0, false); err != nil {
		return err
	}
	if isBlock(node) {
		return nil
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func (es *EncState) pad(depth int) string {
	return strings.Repeat(" ", es.indent*depth)
}

func (es *EncState) color(t ir.Type, a ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, a, v)
}

// isBlock reports whether node is printed in YAML block style, ending
// with its own newline.
func isBlock(node *ir.Node) bool {
	return !node.Type.IsLeaf() && len(node.Values) != 0
}

// yaml writes node at depth. When inline is set the first line continues
// the current line (after "- ").
func (es *EncState) yaml(w io.Writer, node *ir.Node, depth int, inline bool) error {
	if !isBlock(node) {
		s, err := es.yamlScalar(node)
		if err != nil {
			return err
		}
		return writeString(w, s)
	}
	switch node.Type {
	case ir.ObjectType:
		for i, f := range node.Fields {
			if i > 0 || !inline {
				if err := writeString(w, es.pad(depth)); err != nil {
					return err
				}
			}
			key := f.String
			if token.NeedsQuote(key) {
				key = token.Quote(key)
			}
			sep := es.color(ir.ObjectType, SepColor, ":")
			if err := writeString(w, es.color(ir.ObjectType, FieldColor, key)+sep); err != nil {
				return err
			}
			v := node.Values[i]
			if isBlock(v) {
				if err := writeString(w, "\n"); err != nil {
					return err
				}
				if err := es.yaml(w, v, depth+1, false); err != nil {
					return err
				}
				continue
			}
			if err := writeString(w, " "); err != nil {
				return err
			}
			if err := es.yaml(w, v, depth+1, false); err != nil {
				return err
			}
			if err := writeString(w, "\n"); err != nil {
				return err
			}
		}
	case ir.ArrayType:
		for i, v := range node.Values {
			if i > 0 || !inline {
				if err := writeString(w, es.pad(depth)); err != nil {
					return err
				}
			}
			if err := writeString(w, es.color(ir.ArrayType, SepColor, "-")+" "); err != nil {
				return err
			}
			if err := es.yaml(w, v, depth+1, true); err != nil {
				return err
			}
			if !isBlock(v) {
				if err := writeString(w, "\n"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (es *EncState) yamlScalar(node *ir.Node) (string, error) {
	var s string
	switch node.Type {
	case ir.ObjectType:
		s = "{}"
	case ir.ArrayType:
		s = "[]"
	case ir.NullType:
		s = "null"
	case ir.BoolType:
		s = strconv.FormatBool(node.Bool)
	case ir.NumberType:
		s = numberLiteral(node)
	case ir.MissingType:
		s = ir.MissingLiteral
	case ir.InterpType:
		s = node.String
		if token.NeedsQuote(s) {
			s = token.Quote(s)
		}
	case ir.StringType:
		s = node.String
		if es.escapeInterp && token.HasInterpolation(s) {
			s = strings.ReplaceAll(s, "${", `\${`)
		}
		switch {
		case s == ir.MissingLiteral:
			s = "!!str " + s
		case token.NeedsQuote(s):
			s = token.Quote(s)
		}
	default:
		return "", fmt.Errorf("%w: unknown type %s at %q", ErrEncoding, node.Type, node.KPath())
	}
	return es.color(node.Type, ValueColor, s), nil
}

func numberLiteral(node *ir.Node) string {
	if node.Number != "" {
		return node.Number
	}
	if node.Int64 != nil {
		return strconv.FormatInt(*node.Int64, 10)
	}
	if node.Float64 != nil {
		return formatFloat(*node.Float64)
	}
	return "0"
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func (es *EncState) json(w io.Writer, node *ir.Node, depth int) error {
	nl, inner, outer, colon := "\n", es.pad(depth+1), es.pad(depth), ": "
	if es.wire {
		nl, inner, outer, colon = "", "", "", ":"
	}
	switch node.Type {
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			return writeString(w, "{}")
		}
		if err := writeString(w, "{"+nl); err != nil {
			return err
		}
		for i, f := range node.Fields {
			key, err := jsonString(f.String)
			if err != nil {
				return err
			}
			if err := writeString(w, inner+es.color(ir.ObjectType, FieldColor, key)+colon); err != nil {
				return err
			}
			if err := es.json(w, node.Values[i], depth+1); err != nil {
				return err
			}
			if i < len(node.Fields)-1 {
				if err := writeString(w, ","); err != nil {
					return err
				}
			}
			if err := writeString(w, nl); err != nil {
				return err
			}
		}
		return writeString(w, outer+"}")
	case ir.ArrayType:
		if len(node.Values) == 0 {
			return writeString(w, "[]")
		}
		if err := writeString(w, "["+nl); err != nil {
			return err
		}
		for i, v := range node.Values {
			if err := writeString(w, inner); err != nil {
				return err
			}
			if err := es.json(w, v, depth+1); err != nil {
				return err
			}
			if i < len(node.Values)-1 {
				if err := writeString(w, ","); err != nil {
					return err
				}
			}
			if err := writeString(w, nl); err != nil {
				return err
			}
		}
		return writeString(w, outer+"]")
	}
	s, err := es.jsonScalar(node)
	if err != nil {
		return err
	}
	return writeString(w, es.color(node.Type, ValueColor, s))
}

func (es *EncState) jsonScalar(node *ir.Node) (string, error) {
	switch node.Type {
	case ir.NullType:
		return "null", nil
	case ir.BoolType:
		return strconv.FormatBool(node.Bool), nil
	case ir.NumberType:
		lit := numberLiteral(node)
		if json.Valid([]byte(lit)) {
			return lit, nil
		}
		if node.Int64 != nil {
			return strconv.FormatInt(*node.Int64, 10), nil
		}
		f, _ := node.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", fmt.Errorf("%w: %s at %q has no JSON form", ErrEncoding, lit, node.KPath())
		}
		return formatFloat(f), nil
	case ir.MissingType:
		return jsonString(ir.MissingLiteral)
	case ir.InterpType:
		return jsonString(node.String)
	case ir.StringType:
		s := node.String
		if es.escapeInterp && token.HasInterpolation(s) {
			s = strings.ReplaceAll(s, "${", `\${`)
		}
		return jsonString(s)
	}
	return "", fmt.Errorf("%w: unknown type %s at %q", ErrEncoding, node.Type, node.KPath())
}

func jsonString(s string) (string, error) {
	d, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return string(d), nil
}
