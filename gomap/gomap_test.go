package gomap

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
	"github.com/signadot/hconf/resolve"
)

type Common struct {
	Seed int
}

type Optim struct {
	Name        string
	LR          float64
	WeightDecay float64   `hconf:"weight_decay"`
	Betas       []float64 `hconf:"betas,omitempty"`
}

type Trainer struct {
	Common
	Devices     int
	MaxEpochs   *int
	Precision   string
	ValInterval time.Duration
	Timeout     time.Duration
	Addr        netip.Addr
	Extra       map[string]any
	Raw         *ir.Node
	Ignored     string `hconf:"-"`
	FFNHidden   int
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"LR":            "lr",
		"WeightDecay":   "weight_decay",
		"FFNHiddenSize": "ffn_hidden_size",
		"NumGPU":        "num_gpu",
		"D2Model":       "d2_model",
		"MaxEpochs":     "max_epochs",
		"x":             "x",
	}
	for in, want := range tests {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromIR(t *testing.T) {
	src := `
seed: 42
devices: 8
max_epochs: 100
precision: bf16-mixed
val_interval: 1m30s
timeout: 2.5
addr: 10.0.0.1
extra:
  a: 1
  b: [x, true]
raw: {k: v}
ignored: nope
ffn_hidden: 4096
unknown: 1
`
	var tr Trainer
	if err := Load([]byte(src), &tr); err != nil {
		t.Fatal(err)
	}
	epochs := 100
	want := Trainer{
		Common:      Common{Seed: 42},
		Devices:     8,
		MaxEpochs:   &epochs,
		Precision:   "bf16-mixed",
		ValInterval: 90 * time.Second,
		Timeout:     2500 * time.Millisecond,
		Addr:        netip.MustParseAddr("10.0.0.1"),
		Extra:       map[string]any{"a": 1, "b": []any{"x", true}},
		FFNHidden:   4096,
	}
	if got := encode.MustString(tr.Raw); got != "k: v" {
		t.Errorf("raw = %q", got)
	}
	tr.Raw = nil
	if diff := cmp.Diff(want, tr, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFromIRResolved(t *testing.T) {
	src := "name: adamw\nlr: 1e-3\nweight_decay: ${lr}\nbetas: [0.9, 0.98]\n"
	ov, err := resolve.ParseOverride("lr=0.0005")
	if err != nil {
		t.Fatal(err)
	}
	var o Optim
	if err := Load([]byte(src), &o, LoadOverrides(ov)); err != nil {
		t.Fatal(err)
	}
	want := Optim{Name: "adamw", LR: 0.0005, WeightDecay: 0.0005, Betas: []float64{0.9, 0.98}}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFromIRErrors(t *testing.T) {
	tests := []struct {
		src  string
		v    any
		want error
		path string
	}{
		{"devices: eight", &Trainer{}, ir.ErrTypeMismatch, "devices"},
		{"devices: 1.5", &Trainer{}, ir.ErrTypeMismatch, "devices"},
		{"lr: ???", &Optim{}, ir.ErrMissingRequired, "lr"},
		{"betas: [0.9, x]", &Optim{}, ir.ErrTypeMismatch, "betas[1]"},
		{"name: [a]", &Optim{}, ir.ErrTypeMismatch, "name"},
		{"val_interval: soon", &Trainer{}, nil, "val_interval"},
		{"addr: nowhere", &Trainer{}, nil, "addr"},
		{"x: 300", &struct{ X int8 }{}, ir.ErrTypeMismatch, "x"},
		{"x: -1", &struct{ X uint }{}, ir.ErrTypeMismatch, "x"},
		{"x: [1, 2, 3]", &struct{ X [2]int }{}, ir.ErrTypeMismatch, "x"},
		{"a: 1", &struct {
			B int `hconf:",required"`
		}{}, ir.ErrMissingRequired, "b"},
	}
	for _, tt := range tests {
		node, err := parse.ParseString(tt.src)
		if err != nil {
			t.Fatal(err)
		}
		err = FromIR(node, tt.v)
		var ue *UnmarshalError
		if !errors.As(err, &ue) {
			t.Errorf("%q: expected UnmarshalError, got %v", tt.src, err)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.src, tt.want, err)
		}
		if ue.Path != tt.path {
			t.Errorf("%q: path %q, want %q", tt.src, ue.Path, tt.path)
		}
	}
}

func TestFromIRStrict(t *testing.T) {
	node, err := parse.ParseString("name: sgd\nmomentum: 0.9\n")
	if err != nil {
		t.Fatal(err)
	}
	var o Optim
	if err := FromIR(node, &o); err != nil {
		t.Fatalf("lenient: %v", err)
	}
	err = FromIR(node, &o, Strict(true))
	var ue *UnmarshalError
	if !errors.As(err, &ue) || ue.Path != "momentum" {
		t.Errorf("strict: got %v", err)
	}
	if err := FromIR(node, o); err == nil {
		t.Error("expected error for non pointer")
	}
}

func TestToIR(t *testing.T) {
	epochs := 3
	tr := Trainer{
		Common:      Common{Seed: 1},
		Devices:     2,
		MaxEpochs:   &epochs,
		Precision:   "32",
		ValInterval: time.Minute,
		Addr:        netip.MustParseAddr("::1"),
		Extra:       map[string]any{"z": 1, "a": "b"},
	}
	node, err := ToIR(tr)
	if err != nil {
		t.Fatal(err)
	}
	want := `seed: 1
devices: 2
max_epochs: 3
precision: "32"
val_interval: 1m0s
timeout: 0s
addr: "::1"
extra:
  a: b
  z: 1
raw: null
ffn_hidden: 0`
	if diff := cmp.Diff(want, encode.MustString(node)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	var back Trainer
	if err := FromIR(node, &back); err != nil {
		t.Fatal(err)
	}
	if back.ValInterval != time.Minute || *back.MaxEpochs != 3 || back.Addr != tr.Addr {
		t.Errorf("round trip: %+v", back)
	}

	o := Optim{Name: "adam"}
	node, err = ToIR(&o)
	if err != nil {
		t.Fatal(err)
	}
	if got := encode.MustString(node); got != "name: adam\nlr: 0.0\nweight_decay: 0.0" {
		t.Errorf("omitempty: %q", got)
	}
}
