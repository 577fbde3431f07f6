package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf/resolve"
)

func TestOverrideExtras(t *testing.T) {
	var o Overrides
	rest, err := o.extras([]string{"cfg.yaml", "--", "a=1", "~b", "++c.d=[1, 2]"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"cfg.yaml"}, rest); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
	var got []string
	for _, ov := range o.List {
		got = append(got, ov.Op.String()+" "+ov.Path.String())
	}
	want := []string{
		resolve.OpSet.String() + " a",
		resolve.OpDelete.String() + " b",
		resolve.OpUpsert.String() + " c.d",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("overrides (-want +got):\n%s", diff)
	}

	if _, err := o.extras([]string{"f", "--", "=1"}); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("bad override: got %v, want ErrUsage", err)
	}
}

func TestLoadDoc(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "run.yaml")
	src := "model:\n  hidden: 512\n  ffn: ${multiply:${model.hidden},4}\n"
	if err := os.WriteFile(file, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(resolve.EnvOverrides, "model.hidden=256")
	ov, err := resolve.ParseOverride("++model.heads=4")
	if err != nil {
		t.Fatal(err)
	}
	ovs := &Overrides{List: []*resolve.Override{ov}}

	doc, err := loadDoc(&MainConfig{}, nil, file, ovs)
	if err != nil {
		t.Fatal(err)
	}
	for path, want := range map[string]int{"model.ffn": 1024, "model.heads": 4} {
		got, err := doc.Int(path)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s: got %d, want %d", path, got, want)
		}
	}

	doc, err = loadDoc(&MainConfig{NoEnv: true}, nil, file, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := doc.Int("model.ffn"); got != 2048 {
		t.Errorf("-noenv: model.ffn got %d, want 2048", got)
	}
}

func TestFindSchema(t *testing.T) {
	s, err := findSchema("gpt")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "gpt" {
		t.Errorf("got schema %q", s.Name)
	}
	if _, err := findSchema("no-such-schema"); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("got %v, want ErrUsage", err)
	}
}
