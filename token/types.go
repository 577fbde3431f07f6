package token

import "strings"

type TokenType int

const (
	TText TokenType = iota
	TRef
	TCall
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TText: "TText",
		TRef:  "TRef",
		TCall: "TCall",
	}[t]
}

// Token is one piece of a Template.
type Token struct {
	Type TokenType
	// Off is the byte offset of the token in the enclosing template.
	Off int
	// Text is the literal text for TText (escapes removed) and the
	// resolver name for TCall.
	Text string
	// Path is the reference path for TRef. It may itself interpolate,
	// as in ${models.${name}.lr}.
	Path *Template
	// Args are the call arguments for TCall.
	Args []*Template
}

// Template is a tokenized configuration string.
type Template struct {
	Raw  string
	Toks []Token
	// Quoted is set on resolver arguments written in quotes; their
	// value is always a string.
	Quoted bool
}

// IsSingle reports whether the template consists of exactly one reference
// or call and nothing else. Such a template takes the type of its value.
func (t *Template) IsSingle() bool {
	return len(t.Toks) == 1 && t.Toks[0].Type != TText
}

// Literal returns the text of a template without interpolations.
func (t *Template) Literal() (string, bool) {
	var b strings.Builder
	for i := range t.Toks {
		tok := &t.Toks[i]
		if tok.Type != TText {
			return "", false
		}
		b.WriteString(tok.Text)
	}
	return b.String(), true
}

// Refs calls f for every reference in the template, including those nested
// in paths and arguments. Iteration stops when f returns false.
func (t *Template) Refs(f func(tok *Token) bool) bool {
	for i := range t.Toks {
		tok := &t.Toks[i]
		switch tok.Type {
		case TRef:
			if !tok.Path.Refs(f) {
				return false
			}
			if !f(tok) {
				return false
			}
		case TCall:
			for _, a := range tok.Args {
				if !a.Refs(f) {
					return false
				}
			}
		}
	}
	return true
}
