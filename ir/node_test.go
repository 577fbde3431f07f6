package ir

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *Node {
	return FromKeyVals([]KeyVal{
		{Key: FromString("model"), Val: FromKeyVals([]KeyVal{
			{Key: FromString("name"), Val: FromString("ecapa")},
			{Key: FromString("layers"), Val: FromSlice([]*Node{FromInt(512), FromInt(1536)})},
		})},
		{Key: FromString("lr"), Val: FromInterp("${model.layers[0]}")},
		{Key: FromString("seed"), Val: Missing()},
	})
}

func TestFromNumber(t *testing.T) {
	tests := []struct {
		lit   string
		isInt bool
		f     float64
	}{
		{"3200", true, 3200},
		{"1_000", true, 1000},
		{"0x10", true, 16},
		{"-7", true, -7},
		{"1e-6", false, 1e-6},
		{"0.0003", false, 0.0003},
		{"3.0", false, 3},
	}
	for _, tt := range tests {
		n, err := FromNumber(tt.lit)
		if err != nil {
			t.Fatalf("FromNumber(%q): %v", tt.lit, err)
		}
		if n.IsInt() != tt.isInt {
			t.Errorf("FromNumber(%q).IsInt() = %v", tt.lit, n.IsInt())
		}
		if f, _ := n.Float(); f != tt.f {
			t.Errorf("FromNumber(%q) = %v, want %v", tt.lit, f, tt.f)
		}
		if n.Number != tt.lit {
			t.Errorf("literal %q not kept, got %q", tt.lit, n.Number)
		}
	}
	for _, lit := range []string{"abc", "08", "-0129", "1e400", "-2.5e999"} {
		if _, err := FromNumber(lit); !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected ErrSyntax, got %v", lit, err)
		}
	}
	for _, lit := range []string{"1e400", "-2.5e999"} {
		if _, err := FromNumber(lit); !errors.Is(err, strconv.ErrRange) {
			t.Errorf("%q: expected ErrRange, got %v", lit, err)
		}
	}
	if n, err := FromNumber("0123"); err != nil || *n.Int64 != 83 {
		t.Errorf("0123: %v %v", n, err)
	}
	if n, err := FromNumber("1e-400"); err != nil || n.IsInt() {
		t.Errorf("1e-400: %v %v", n, err)
	}
}

func TestCloneIndependent(t *testing.T) {
	orig := sample()
	c := orig.Clone()
	if !Equal(orig, c) {
		t.Fatal("clone differs")
	}
	c.Values[0].Values[1].Values[0] = FromInt(1)
	*c.Values[0].Values[0] = *FromString("changed")
	if got := orig.Values[0].Values[0].String; got != "ecapa" {
		t.Errorf("original mutated: %q", got)
	}
	if got := *orig.Values[0].Values[1].Values[0].Int64; got != 512 {
		t.Errorf("original mutated: %d", got)
	}
	if c.Values[0].Parent != c {
		t.Error("clone children must point to clone")
	}
}

func TestSetDelete(t *testing.T) {
	root := sample()
	model := Get(root, "model")
	model.SetField("dropout", FromFloat(0.1))
	model.SetField("name", FromString("nest"))
	keys := []string{}
	for _, f := range model.Fields {
		keys = append(keys, f.String)
	}
	if diff := cmp.Diff([]string{"name", "layers", "dropout"}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if got := Get(model, "name").String; got != "nest" {
		t.Errorf("name = %q", got)
	}
	if !model.DeleteField("name") {
		t.Fatal("delete failed")
	}
	if model.DeleteField("name") {
		t.Error("deleted twice")
	}
	if got := Get(model, "dropout").KPath(); got != "model.dropout" {
		t.Errorf("KPath after delete = %q", got)
	}
	if Get(model, "dropout").ParentIndex != 1 {
		t.Error("reindex")
	}
	layers := Get(model, "layers")
	layers.Append(FromInt(3072))
	if !layers.DeleteIndex(0) {
		t.Fatal("delete index")
	}
	if got := layers.Values[1].KPath(); got != "model.layers[1]" {
		t.Errorf("KPath = %q", got)
	}
}

func TestReplaceWith(t *testing.T) {
	root := sample()
	lr := Get(root, "lr")
	v := lr.ReplaceWith(FromFloat(0.001))
	if Get(root, "lr") != v || v.KPath() != "lr" {
		t.Errorf("replace in parent failed")
	}
	r := FromString("x")
	got := r.ReplaceWith(FromSlice([]*Node{FromInt(1)}))
	if got != r || r.Type != ArrayType || r.Values[0].Parent != r {
		t.Errorf("replace at root failed: %+v", r)
	}
}

func TestAny(t *testing.T) {
	root := sample()
	Get(root, "lr").ReplaceWith(FromFloat(0.5))
	Get(root, "seed").ReplaceWith(FromInt(7))
	got, err := ToAny(root)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"model": map[string]any{"name": "ecapa", "layers": []any{512, 1536}},
		"lr":    0.5,
		"seed":  7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToAny (-want +got):\n%s", diff)
	}
	back, err := FromAny(got)
	if err != nil {
		t.Fatal(err)
	}
	if got := *Get(back, "seed").Int64; got != 7 {
		t.Errorf("seed = %d", got)
	}
	if _, err := ToAny(Missing()); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("expected ErrMissingRequired, got %v", err)
	}
	n, err := FromAny(map[string][]uint8{"b": {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != ObjectType || len(Get(n, "b").Values) != 2 {
		t.Errorf("reflect conversion: %+v", n)
	}
}
