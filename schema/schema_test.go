package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
)

const testSchema = `
name: test
fields:
  optim.name: {type: string, enum: [adam, adamw, sgd]}
  optim.lr: {type: float, min: 0, max: 1, required: true}
  trainer.devices: {type: int, min: 1}
  trainer.strategy: {type: string, nullable: true}
  layers[*].act: {enum: [relu, gelu]}
  layers[*].size: {type: int, required: true}
  tags: {type: list, max: 2}
  seed: {required: true}
`

func mustSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Parse([]byte(testSchema))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestValidateOK(t *testing.T) {
	doc, err := parse.ParseString(`
seed: 1
optim: {name: adamw, lr: 3}
trainer: {devices: 8, strategy: null}
layers:
  - {act: relu, size: 512}
  - {size: 1536}
tags: [a]
`)
	if err != nil {
		t.Fatal(err)
	}
	s := mustSchema(t)
	// lr above max
	vs := s.Validate(doc)
	if len(vs) != 1 || vs[0].Path != "optim.lr" || !errors.Is(vs[0], ErrConstraint) {
		t.Fatalf("got %v", vs)
	}
	ir.Get(doc, "optim").SetField("lr", ir.FromFloat(0.5))
	if vs := s.Validate(doc); len(vs) != 0 {
		t.Errorf("unexpected violations %v", vs)
	}
}

func TestValidateViolations(t *testing.T) {
	doc, err := parse.ParseString(`
optim: {name: lamb, lr: ???}
trainer: {devices: 0.5, strategy: null}
layers:
  - {act: tanh, size: 512}
  - {act: gelu}
tags: [a, b, c]
`)
	if err != nil {
		t.Fatal(err)
	}
	type got struct {
		Path, Rule string
		Err        error
	}
	var res []got
	for _, v := range mustSchema(t).Validate(doc) {
		res = append(res, got{v.Path, v.Rule, v.Err})
	}
	want := []got{
		{"optim.name", "optim.name", ErrConstraint},
		{"optim.lr", "optim.lr", ir.ErrMissingRequired},
		{"trainer.devices", "trainer.devices", ir.ErrTypeMismatch},
		{"layers[0].act", "layers[*].act", ErrConstraint},
		{"layers[1].size", "layers[*].size", ir.ErrMissingRequired},
		{"tags", "tags", ErrConstraint},
		{"seed", "seed", ir.ErrMissingRequired},
	}
	if diff := cmp.Diff(want, res, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"fields: {a: {type: integer}}",
		"fields: {a: {typ: int}}",
		"fields: {'a..b': {type: int}}",
		"fields: [a]",
		"other: 1",
	} {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
}

func TestRegistry(t *testing.T) {
	s := &Schema{Name: "registry-test"}
	if err := Register(s); err != nil {
		t.Fatal(err)
	}
	if err := Register(s); err == nil {
		t.Error("expected duplicate registration error")
	}
	if Lookup("registry-test") != s {
		t.Error("lookup failed")
	}
	if _, ok := All()["registry-test"]; !ok {
		t.Error("All is missing the schema")
	}
	if err := Register(&Schema{}); err == nil {
		t.Error("expected error for unnamed schema")
	}
}
