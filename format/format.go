package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is an input or output syntax.
type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

// names lists the accepted spellings of each format, canonical first.
// File suffixes are matched against the same list.
var names = [...][]string{
	YAMLFormat: {"yaml", "yml", "y"},
	JSONFormat: {"json", "j"},
}

// ParseFormat reads a format name such as "yaml" or "j".
func ParseFormat(v string) (Format, error) {
	for f, ns := range names {
		if slices.Contains(ns, v) {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromFilename guesses the format from a file suffix, defaulting to YAML.
func FromFilename(name string) Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return YAMLFormat
}

func (f Format) valid() bool {
	return f >= 0 && int(f) < len(names)
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return names[f][0]
}

func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }

// Suffix returns the file extension for f, with the dot.
func (f Format) Suffix() string {
	if !f.valid() {
		return ""
	}
	return "." + f.String()
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	res := make([]Format, len(names))
	for i := range names {
		res[i] = Format(i)
	}
	return res
}
