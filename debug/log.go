package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/ir"
)

var out io.Writer = os.Stderr

// Logf writes a debug message to stderr. *ir.Node arguments are printed
// as YAML and maps or slices as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			if x == nil {
				args[i] = "<nil>"
				continue
			}
			args[i] = nodeString(x)
		}
	}
	fmt.Fprintf(out, msg, args...)
}

func nodeString(x *ir.Node) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("[raw *ir.Node] %v", x)
		}
	}()
	return encode.MustString(x)
}
