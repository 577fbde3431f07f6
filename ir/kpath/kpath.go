// Package kpath parses and prints the dot-paths used to address nodes in a
// configuration tree.
package kpath

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/hconf/token"
)

// KPath is one segment of a dot-path; segments are chained through Next.
//
//   - "a.b" → Field a, then Field b
//   - "a[0]" or "a.0" → Field a, then Index 0 (a bare all-digit field
//     addresses an array element when the container is an array)
//   - "a.*" → Field a, then every field
//   - "a[*]" → Field a, then every element
type KPath struct {
	Field    *string
	FieldAll bool
	Index    *int
	IndexAll bool
	Next     *KPath
}

// Field returns a single field segment.
func Field(f string) *KPath {
	return &KPath{Field: &f}
}

// Index returns a single index segment.
func Index(i int) *KPath {
	return &KPath{Index: &i}
}

// String returns the canonical dot-path representation.
//
//	KPath{Field: &"a", Next: &KPath{Index: &0}} → "a[0]"
func (p *KPath) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		seg := x.SegmentString()
		if seg == "" {
			continue
		}
		if buf.Len() > 0 && seg[0] != '[' {
			buf.WriteByte('.')
		}
		buf.WriteString(seg)
	}
	return buf.String()
}

// SegmentString returns the representation of this single segment.
func (p *KPath) SegmentString() string {
	if p == nil {
		return ""
	}
	switch {
	case p.FieldAll:
		return "*"
	case p.Field != nil:
		if token.KPathQuoteField(*p.Field) {
			return token.Quote(*p.Field)
		}
		return *p.Field
	case p.IndexAll:
		return "[*]"
	case p.Index != nil:
		return "[" + strconv.Itoa(*p.Index) + "]"
	}
	return ""
}

// IsWild reports whether any segment is a wildcard.
func (p *KPath) IsWild() bool {
	for x := p; x != nil; x = x.Next {
		if x.FieldAll || x.IndexAll {
			return true
		}
	}
	return false
}

// Len returns the number of segments.
func (p *KPath) Len() int {
	n := 0
	for x := p; x != nil; x = x.Next {
		n++
	}
	return n
}

// Clone returns a deep copy of the path.
func (p *KPath) Clone() *KPath {
	if p == nil {
		return nil
	}
	res := &KPath{FieldAll: p.FieldAll, IndexAll: p.IndexAll}
	if p.Field != nil {
		f := *p.Field
		res.Field = &f
	}
	if p.Index != nil {
		i := *p.Index
		res.Index = &i
	}
	res.Next = p.Next.Clone()
	return res
}

// Join returns a new path consisting of p followed by q. Either may be nil.
func Join(p, q *KPath) *KPath {
	if p == nil {
		return q.Clone()
	}
	res := p.Clone()
	last := res
	for last.Next != nil {
		last = last.Next
	}
	last.Next = q.Clone()
	return res
}

// Parent splits off the last segment, returning the parent path (nil for a
// single segment) and the last segment.
func (p *KPath) Parent() (*KPath, *KPath) {
	if p == nil {
		return nil, nil
	}
	if p.Next == nil {
		return nil, p.segment()
	}
	res := p.Clone()
	x := res
	for x.Next.Next != nil {
		x = x.Next
	}
	last := x.Next
	x.Next = nil
	return res, last
}

func (p *KPath) segment() *KPath {
	c := *p
	c.Next = nil
	return c.Clone()
}

// Parse parses an absolute dot-path. The empty string is the root and
// parses to nil.
//
//   - "model.optim.lr"
//   - "model.layers[3].size" or "model.layers.3.size"
//   - `data."file.name"` (quoted field)
//   - "trainer.*", "layers[*].size" (wildcards)
func Parse(kp string) (*KPath, error) {
	if kp == "" {
		return nil, nil
	}
	if kp[0] == '.' {
		return nil, fmt.Errorf("%w: %q: absolute path may not start with '.'", ErrSyntax, kp)
	}
	return parseFrag(kp, kp)
}

// ParseRel parses a path which may be relative. Each leading dot beyond the
// first climbs one level: ".x" addresses x in the current container, "..x"
// addresses x in the container's parent. For an absolute path, up is -1.
func ParseRel(kp string) (up int, p *KPath, err error) {
	n := 0
	for n < len(kp) && kp[n] == '.' {
		n++
	}
	if n == 0 {
		p, err = Parse(kp)
		return -1, p, err
	}
	if n == len(kp) {
		return n - 1, nil, nil
	}
	p, err = parseFrag(kp[n:], kp)
	return n - 1, p, err
}

// MustParse is Parse which panics on error.
func MustParse(kp string) *KPath {
	p, err := Parse(kp)
	if err != nil {
		panic(err)
	}
	return p
}

func parseFrag(frag, whole string) (*KPath, error) {
	var (
		head, tail *KPath
		i          int
	)
	push := func(seg *KPath) {
		if head == nil {
			head = seg
		} else {
			tail.Next = seg
		}
		tail = seg
	}
	expectSeg := true
	for i < len(frag) {
		c := frag[i]
		switch {
		case c == '.':
			if expectSeg {
				return nil, fmt.Errorf("%w: %q: empty segment at offset %d", ErrSyntax, whole, i)
			}
			expectSeg = true
			i++
			if i == len(frag) {
				return nil, fmt.Errorf("%w: %q: trailing '.'", ErrSyntax, whole)
			}
		case c == '[':
			j := strings.IndexByte(frag[i:], ']')
			if j == -1 {
				return nil, fmt.Errorf("%w: %q: unterminated '['", ErrSyntax, whole)
			}
			body := strings.TrimSpace(frag[i+1 : i+j])
			seg := &KPath{}
			if body == "*" {
				seg.IndexAll = true
			} else {
				n, err := strconv.Atoi(body)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("%w: %q: bad index %q", ErrSyntax, whole, body)
				}
				seg.Index = &n
			}
			push(seg)
			i += j + 1
			expectSeg = false
		case c == '"' || c == '\'':
			if !expectSeg {
				return nil, fmt.Errorf("%w: %q: expected '.' before quoted field", ErrSyntax, whole)
			}
			end := quoteEnd(frag, i)
			if end == -1 {
				return nil, fmt.Errorf("%w: %q: unterminated quote", ErrSyntax, whole)
			}
			f, err := token.Unquote(frag[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, whole, err)
			}
			push(&KPath{Field: &f})
			i = end + 1
			expectSeg = false
		case c == ']':
			return nil, fmt.Errorf("%w: %q: unexpected ']'", ErrSyntax, whole)
		default:
			if !expectSeg {
				return nil, fmt.Errorf("%w: %q: expected '.' at offset %d", ErrSyntax, whole, i)
			}
			j := i
			for j < len(frag) && frag[j] != '.' && frag[j] != '[' && frag[j] != ']' {
				j++
			}
			f := frag[i:j]
			if f == "*" {
				push(&KPath{FieldAll: true})
			} else {
				push(&KPath{Field: &f})
			}
			i = j
			expectSeg = false
		}
	}
	return head, nil
}

func quoteEnd(s string, start int) int {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}
