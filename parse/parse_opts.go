package parse

import (
	"github.com/signadot/hconf/format"
)

type parseOpts struct {
	format    format.Format
	source    string
	positions map[string]Pos
}

// Pos is a position in source text.
type Pos struct {
	Line int
	Col  int
}

type ParseOption func(*parseOpts)

func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// ParseSource names the input in errors.
func ParseSource(name string) ParseOption {
	return func(o *parseOpts) { o.source = name }
}

// ParsePositions records the position of every node, keyed by its
// dot-path, in m.
func ParsePositions(m map[string]Pos) ParseOption {
	return func(o *parseOpts) {
		o.positions = m
	}
}
