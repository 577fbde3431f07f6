package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/ir"
)

// Text returns a line diff of the YAML forms of from and to, each line
// prefixed with "-", "+" or " ". It is empty when the texts are equal.
func Text(from, to *ir.Node, opts ...encode.EncodeOption) string {
	a := encode.MustString(from, opts...) + "\n"
	b := encode.MustString(to, opts...) + "\n"
	if a == b {
		return ""
	}
	return Lines(a, b)
}

// Lines diffs two texts line by line.
func Lines(a, b string) string {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	var buf strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(ln)
			if !strings.HasSuffix(ln, "\n") {
				buf.WriteByte('\n')
			}
		}
	}
	return buf.String()
}
