package libdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
)

func mustParse(t *testing.T, src string) *ir.Node {
	t.Helper()
	n, err := parse.ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func changeStrings(cs []*Change) []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.String()
	}
	return res
}

func TestDiff(t *testing.T) {
	from := mustParse(t, `
model:
  lr: 1e-3
  dims: [512, 512, 1536]
  act: relu
  layers:
    - {size: 1}
    - {size: 2}
trainer:
  devices: 8
`)
	to := mustParse(t, `
model:
  lr: 0.001
  dims: [512, 256, 512, 1536]
  act: gelu
  layers:
    - {size: 1}
    - {size: 3}
  dropout: 0.1
trainer: ???
`)
	want := []string{
		"+ model.dims[1]: 256",
		"~ model.act: relu -> gelu",
		"~ model.layers[1].size: 2 -> 3",
		"+ model.dropout: 0.1",
		`~ trainer: {"devices":8} -> ???`,
	}
	got := changeStrings(Diff(from, to))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if cs := Diff(from, from.Clone()); len(cs) != 0 {
		t.Errorf("self diff: %v", changeStrings(cs))
	}
}

func TestDiffArrays(t *testing.T) {
	tests := []struct {
		from, to string
		want     []string
	}{
		{"[1, 2, 3]", "[1, 3]", []string{"- [1]: 2"}},
		{"[1, 2, 3]", "[1, 4, 3]", []string{"~ [1]: 2 -> 4"}},
		{"[a, b]", "[a, b, c]", []string{"+ [2]: c"}},
		{"[a, b]", "[]", []string{"- [0]: a", "- [1]: b"}},
		{"[[1], [2]]", "[[1], [2, 3]]", []string{"+ [1][1]: 3"}},
	}
	for _, tt := range tests {
		got := changeStrings(Diff(mustParse(t, tt.from), mustParse(t, tt.to)))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s -> %s (-want +got):\n%s", tt.from, tt.to, diff)
		}
	}
}

func TestReverse(t *testing.T) {
	from := mustParse(t, "a: 1\nb: 2\n")
	to := mustParse(t, "a: 3\nc: 4\n")
	got := changeStrings(Reverse(Diff(from, to)))
	want := []string{"- c: 4", "+ b: 2", "~ a: 3 -> 1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestText(t *testing.T) {
	from := mustParse(t, "a: 1\nb: x\nc: true\n")
	to := mustParse(t, "a: 1\nb: y\nc: true\n")
	want := " a: 1\n-b: x\n+b: y\n c: true\n"
	if diff := cmp.Diff(want, Text(from, to)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := Text(from, from); got != "" {
		t.Errorf("expected no diff, got %q", got)
	}
}

func TestMergePatch(t *testing.T) {
	from := mustParse(t, "model:\n  lr: 1e-3\n  act: relu\n  dropout: 0.1\nname: x\n")
	to := mustParse(t, "model:\n  lr: 1e-6\n  act: relu\nname: x\nseed: 3\n")
	patch, err := MergePatch(from, to)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"model":{"lr":1e-6,"dropout":null},"seed":3}`
	got := encode.MustString(patch, encode.EncodeFormat(format.JSONFormat), encode.EncodeWire(true))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patch (-want +got):\n%s", diff)
	}
	res, err := ApplyMergePatch(from, patch)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(encode.MustString(to), encode.MustString(res)); diff != "" {
		t.Errorf("apply (-want +got):\n%s", diff)
	}
}
