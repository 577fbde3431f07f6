package token

import (
	"strings"
)

// HasInterpolation reports whether v needs tokenizing, that is whether it
// contains an interpolation or an escaped one.
func HasInterpolation(v string) bool {
	return strings.Contains(v, "${")
}

// Tokenize splits v into literal text, references and resolver calls.
func Tokenize(v string) (*Template, error) {
	t, end, err := parseUntil(v, 0, "", false)
	if err != nil {
		return nil, err
	}
	if end != len(v) {
		return nil, newErr(ErrUnterminated, v, end)
	}
	return t, nil
}

// parseUntil reads a template starting at off and stops, without consuming
// it, at the first byte from stops which is not nested in an
// interpolation, bracket or (when args is set) a quote.
func parseUntil(src string, off int, stops string, args bool) (*Template, int, error) {
	t := &Template{}
	var text []byte
	textOff := off
	flush := func() {
		if len(text) == 0 {
			return
		}
		t.Toks = append(t.Toks, Token{Type: TText, Off: textOff, Text: string(text)})
		text = text[:0]
	}
	depth := 0
	i := off
	for i < len(src) {
		c := src[i]
		if depth == 0 && strings.IndexByte(stops, c) != -1 {
			break
		}
		switch {
		case c == '\\' && strings.HasPrefix(src[i+1:], "${"):
			if len(text) == 0 {
				textOff = i
			}
			text = append(text, '$', '{')
			i += 3
			continue
		case c == '$' && i+1 < len(src) && src[i+1] == '{':
			flush()
			tok, end, err := parseInterp(src, i)
			if err != nil {
				return nil, 0, err
			}
			t.Toks = append(t.Toks, *tok)
			i = end
			textOff = i
			continue
		case args && (c == '[' || c == '{'):
			depth++
		case args && depth > 0 && (c == ']' || c == '}'):
			depth--
		}
		if len(text) == 0 {
			textOff = i
		}
		text = append(text, c)
		i++
	}
	flush()
	t.Raw = src[off:i]
	return t, i, nil
}

// parseInterp parses "${...}" starting at off, returning the token and the
// offset just past the closing brace.
func parseInterp(src string, off int) (*Token, int, error) {
	i := off + 2
	name := i
	for name < len(src) && isResolverByte(src[name]) {
		name++
	}
	if name < len(src) && src[name] == ':' {
		return parseCall(src, off, i, name)
	}
	path, end, err := parseUntil(src, i, "}", false)
	if err != nil {
		return nil, 0, err
	}
	if end >= len(src) {
		return nil, 0, newErr(ErrUnterminated, src, off)
	}
	if strings.TrimSpace(path.Raw) == "" {
		return nil, 0, newErr(ErrEmpty, src, off)
	}
	trim(path)
	return &Token{Type: TRef, Off: off, Path: path}, end + 1, nil
}

func parseCall(src string, off, nameStart, nameEnd int) (*Token, int, error) {
	name := src[nameStart:nameEnd]
	if name == "" || name[0] == '.' || name[len(name)-1] == '.' {
		return nil, 0, newErr(ErrBadResolver, src, nameStart)
	}
	tok := &Token{Type: TCall, Off: off, Text: name}
	i := nameEnd + 1
	for {
		for i < len(src) && src[i] == ' ' {
			i++
		}
		if i >= len(src) {
			return nil, 0, newErr(ErrUnterminated, src, off)
		}
		if src[i] == '}' && len(tok.Args) == 0 {
			return tok, i + 1, nil
		}
		arg, end, err := parseArg(src, i)
		if err != nil {
			return nil, 0, err
		}
		tok.Args = append(tok.Args, arg)
		if end >= len(src) {
			return nil, 0, newErr(ErrUnterminated, src, off)
		}
		i = end + 1
		if src[end] == '}' {
			return tok, i, nil
		}
	}
}

func parseArg(src string, off int) (*Template, int, error) {
	q := src[off]
	if q != '\'' && q != '"' {
		arg, end, err := parseUntil(src, off, ",}", true)
		if err != nil {
			return nil, 0, err
		}
		trim(arg)
		return arg, end, nil
	}
	endQ := -1
	for j := off + 1; j < len(src); j++ {
		if src[j] == '\\' {
			j++
			continue
		}
		if src[j] == q {
			endQ = j
			break
		}
	}
	if endQ == -1 {
		return nil, 0, newErr(ErrBadQuote, src, off)
	}
	body, err := Unquote(src[off : endQ+1])
	if err != nil {
		return nil, 0, newErr(ErrBadQuote, src, off)
	}
	arg, err := Tokenize(body)
	if err != nil {
		return nil, 0, err
	}
	arg.Quoted = true
	end := endQ + 1
	for end < len(src) && src[end] == ' ' {
		end++
	}
	if end < len(src) && src[end] != ',' && src[end] != '}' {
		return nil, 0, newErr(ErrBadQuote, src, end)
	}
	return arg, end, nil
}

func isResolverByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// trim removes surrounding whitespace from leading and trailing text.
func trim(t *Template) {
	t.Raw = strings.TrimSpace(t.Raw)
	n := len(t.Toks)
	if n == 0 {
		return
	}
	if t.Toks[0].Type == TText {
		t.Toks[0].Text = strings.TrimLeft(t.Toks[0].Text, " \t")
	}
	if t.Toks[n-1].Type == TText {
		t.Toks[n-1].Text = strings.TrimRight(t.Toks[n-1].Text, " \t")
	}
	toks := t.Toks[:0]
	for _, tok := range t.Toks {
		if tok.Type == TText && tok.Text == "" {
			continue
		}
		toks = append(toks, tok)
	}
	t.Toks = toks
}
