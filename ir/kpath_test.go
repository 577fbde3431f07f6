package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hconf/ir/kpath"
)

func TestNode_KPath(t *testing.T) {
	root := FromKeyVals([]KeyVal{
		{Key: FromString("a"), Val: FromSlice([]*Node{
			FromKeyVals([]KeyVal{{Key: FromString("b"), Val: FromInt(1)}}),
		})},
		{Key: FromString("file.name"), Val: FromString("x")},
	})
	tests := []struct {
		node *Node
		want string
	}{
		{root, ""},
		{root.Values[0], "a"},
		{root.Values[0].Values[0], "a[0]"},
		{root.Values[0].Values[0].Values[0], "a[0].b"},
		{root.Values[1], `"file.name"`},
		{FromSlice([]*Node{Null(), Null()}).Values[1], "[1]"},
	}
	for _, tt := range tests {
		if got := tt.node.KPath(); got != tt.want {
			t.Errorf("KPath() = %q, want %q", got, tt.want)
		}
		if got := tt.node.Path().String(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	root := sample()
	tests := []struct {
		path string
		want *Node
		err  error
	}{
		{path: "model.name", want: FromString("ecapa")},
		{path: "model.layers[1]", want: FromInt(1536)},
		{path: "model.layers.1", want: FromInt(1536)},
		{path: "", want: root},
		{path: "model.missing", err: ErrPathNotFound},
		{path: "model.layers[2]", err: ErrPathNotFound},
		{path: "model.name.x", err: ErrPathNotFound},
		{path: "model.layers.x", err: ErrPathNotFound},
		{path: "model.*", err: ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := root.Lookup(kpath.MustParse(tt.path))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				var pe *PathError
				if !errors.As(err, &pe) || pe.Path != tt.path {
					t.Errorf("expected PathError for %q, got %v", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
	if _, err := root.GetKPath("a[x"); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
	c, err := root.GetKPath("model")
	if err != nil {
		t.Fatal(err)
	}
	if c == Get(root, "model") {
		t.Error("GetKPath must clone")
	}
}

func TestListKPath(t *testing.T) {
	root := FromKeyVals([]KeyVal{
		{Key: FromString("layers"), Val: FromSlice([]*Node{
			FromKeyVals([]KeyVal{{Key: FromString("size"), Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: FromString("size"), Val: FromInt(2)}}),
			FromKeyVals([]KeyVal{{Key: FromString("other"), Val: FromInt(3)}}),
		})},
		{Key: FromString("opt"), Val: FromKeyVals([]KeyVal{
			{Key: FromString("lr"), Val: FromInt(4)},
			{Key: FromString("wd"), Val: FromInt(5)},
		})},
	})
	tests := []struct {
		path string
		want []string
	}{
		{"layers[*].size", []string{"layers[0].size", "layers[1].size"}},
		{"opt.*", []string{"opt.lr", "opt.wd"}},
		{"*.lr", []string{"opt.lr"}},
		{"layers.1.size", []string{"layers[1].size"}},
		{"nope[*]", nil},
	}
	for _, tt := range tests {
		nodes, err := root.ListKPath(nil, tt.path)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, n := range nodes {
			got = append(got, n.KPath())
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ListKPath(%q) (-want +got):\n%s", tt.path, diff)
		}
	}
}
