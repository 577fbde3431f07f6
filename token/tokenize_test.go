package token

import (
	"errors"
	"testing"
)

type tokSummary struct {
	Type TokenType
	Text string
	Path string
	Args []string
}

func summarize(t *Template) []tokSummary {
	var res []tokSummary
	for _, tok := range t.Toks {
		s := tokSummary{Type: tok.Type, Text: tok.Text}
		if tok.Path != nil {
			s.Path = tok.Path.Raw
		}
		for _, a := range tok.Args {
			s.Args = append(s.Args, a.Raw)
		}
		res = append(res, s)
	}
	return res
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in     string
		want   []tokSummary
		single bool
	}{
		{
			in:   "plain",
			want: []tokSummary{{Type: TText, Text: "plain"}},
		},
		{
			in:     "${a}",
			want:   []tokSummary{{Type: TRef, Path: "a"}},
			single: true,
		},
		{
			in:     "${model.optim.lr}",
			want:   []tokSummary{{Type: TRef, Path: "model.optim.lr"}},
			single: true,
		},
		{
			in:     "${ ..sample_rate }",
			want:   []tokSummary{{Type: TRef, Path: "..sample_rate"}},
			single: true,
		},
		{
			in: "run_${name}_${seed}",
			want: []tokSummary{
				{Type: TText, Text: "run_"},
				{Type: TRef, Path: "name"},
				{Type: TText, Text: "_"},
				{Type: TRef, Path: "seed"},
			},
		},
		{
			in:   `cost \${x}`,
			want: []tokSummary{{Type: TText, Text: "cost ${x}"}},
		},
		{
			in:     "${oc.env:HOME,/tmp}",
			want:   []tokSummary{{Type: TCall, Text: "oc.env", Args: []string{"HOME", "/tmp"}}},
			single: true,
		},
		{
			in:     "${multiply:${a}, 2}",
			want:   []tokSummary{{Type: TCall, Text: "multiply", Args: []string{"${a}", "2"}}},
			single: true,
		},
		{
			in:     "${eval:'${a} * 2'}",
			want:   []tokSummary{{Type: TCall, Text: "eval", Args: []string{"${a} * 2"}}},
			single: true,
		},
		{
			in:     "${sum:[1, 2], 3}",
			want:   []tokSummary{{Type: TCall, Text: "sum", Args: []string{"[1, 2]", "3"}}},
			single: true,
		},
		{
			in:     "${now:}",
			want:   []tokSummary{{Type: TCall, Text: "now"}},
			single: true,
		},
		{
			in:     "${models.${name}.lr}",
			want:   []tokSummary{{Type: TRef, Path: "models.${name}.lr"}},
			single: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tmpl, err := Tokenize(tt.in)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.in, err)
			}
			got := summarize(tmpl)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %+v, want %+v", len(got), got, tt.want)
			}
			for i := range got {
				g, w := got[i], tt.want[i]
				if g.Type != w.Type || g.Text != w.Text || g.Path != w.Path || len(g.Args) != len(w.Args) {
					t.Errorf("token %d = %+v, want %+v", i, g, w)
					continue
				}
				for j := range g.Args {
					if g.Args[j] != w.Args[j] {
						t.Errorf("token %d arg %d = %q, want %q", i, j, g.Args[j], w.Args[j])
					}
				}
			}
			if tmpl.IsSingle() != tt.single {
				t.Errorf("IsSingle() = %v, want %v", tmpl.IsSingle(), tt.single)
			}
		})
	}
}

func TestTokenizeQuotedArg(t *testing.T) {
	tmpl, err := Tokenize("${eval:'${a} * 2'}")
	if err != nil {
		t.Fatal(err)
	}
	arg := tmpl.Toks[0].Args[0]
	if !arg.Quoted {
		t.Error("expected quoted arg")
	}
	n := 0
	tmpl.Refs(func(tok *Token) bool {
		n++
		if tok.Path.Raw != "a" {
			t.Errorf("ref path %q", tok.Path.Raw)
		}
		return true
	})
	if n != 1 {
		t.Errorf("got %d refs, want 1", n)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"${a", ErrUnterminated},
		{"x ${a.b", ErrUnterminated},
		{"${}", ErrEmpty},
		{"${ }", ErrEmpty},
		{"${oc.env:HOME", ErrUnterminated},
		{"${.bad:x}", ErrBadResolver},
		{"${f:'open}", ErrBadQuote},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Tokenize(tt.in)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Tokenize(%q) err = %v, want %v", tt.in, err, tt.err)
			}
			var te *TemplateErr
			if !errors.As(err, &te) {
				t.Errorf("expected *TemplateErr, got %T", err)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	tmpl, err := Tokenize(`a \${b} c`)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := tmpl.Literal()
	if !ok || s != "a ${b} c" {
		t.Errorf("Literal() = %q, %v", s, ok)
	}
	if HasInterpolation("abc") || !HasInterpolation("a${b}") {
		t.Error("HasInterpolation")
	}
}

func TestNeedsQuote(t *testing.T) {
	quote := []string{"", "true", "null", "???", "12", "1e-6", "0x1F", "- a", "-", "a: b", "a #c", " lead", "trail ", "{x}", "[x]", "*x", "&x", "!x", "%x", "@x", "-5", "a\nb", "key:"}
	plain := []string{"adam", "RMSNorm", "${a.b}", "cosine_annealing", "-x", "a:b", "path/to/file", "a#b"}
	for _, v := range quote {
		if !NeedsQuote(v) {
			t.Errorf("NeedsQuote(%q) = false", v)
		}
	}
	for _, v := range plain {
		if NeedsQuote(v) {
			t.Errorf("NeedsQuote(%q) = true", v)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`"a b"`:    "a b",
		`'a b'`:    "a b",
		`'it''s'`:  "it's",
		`"x\"y"`:   `x"y`,
		`'it\'s'`:  "it's",
		`"tab\tx"`: "tab\tx",
	}
	for in, want := range tests {
		got, err := Unquote(in)
		if err != nil || got != want {
			t.Errorf("Unquote(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := Unquote("x"); err == nil {
		t.Error("expected error")
	}
}
