package encode

import (
	"strings"

	"github.com/signadot/hconf/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// palette holds the colors for values; separators and keys are set in
// NewColors.
var palette = map[ir.Type]*color.Color{
	ir.NumberType:  color.RGB(128, 216, 236),
	ir.NullType:    color.RGB(168, 0, 196),
	ir.BoolType:    color.New(color.FgCyan),
	ir.StringType:  color.RGB(8, 196, 16),
	ir.InterpType:  color.RGB(198, 198, 46),
	ir.MissingType: color.New(color.FgRed, color.Bold),
}

// NewColors returns the default terminal colors. Unresolved ${...} and
// ??? stand out from resolved values.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	sep := color.RGB(255, 0, 196)
	for _, t := range ir.Types() {
		colors.set(Colorable{Type: t, Attr: SepColor}, sep)
		if c, ok := palette[t]; ok {
			colors.set(Colorable{Type: t, Attr: ValueColor}, c)
		}
	}
	colors.set(Colorable{Type: ir.ObjectType, Attr: FieldColor}, color.RGB(128, 168, 196))
	colors.set(Colorable{Type: ir.ObjectType, Attr: SepColor}, color.RGB(196, 128, 128))
	return colors
}

// set maps k to col. Text is printed as is, never as a format.
func (c *Colors) set(k Colorable, col *color.Color) {
	f := col.SprintfFunc()
	c.Map[k] = func(v string, _ ...any) string {
		return f(strings.ReplaceAll(v, "%", "%%"))
	}
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
