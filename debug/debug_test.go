package debug

import (
	"bytes"
	"testing"

	"github.com/signadot/hconf/ir"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	old := out
	out = &buf
	defer func() { out = old }()
	node := ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString("a"), Val: ir.FromInt(1)}})
	Logf("node %v flag %v\n", node, true)
	if got, want := buf.String(), "node a: 1 flag true\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("HCONF_TEST_FLAG", "1")
	if !boolEnv("HCONF_TEST_FLAG") {
		t.Error("expected true")
	}
	t.Setenv("HCONF_TEST_FLAG", "nope")
	if boolEnv("HCONF_TEST_FLAG") {
		t.Error("expected false")
	}
}
