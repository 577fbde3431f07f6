package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse    bool
	Resolve  bool
	Override bool
	Eval     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("HCONF_DEBUG_PARSE")
	d.Resolve = boolEnv("HCONF_DEBUG_RESOLVE")
	d.Override = boolEnv("HCONF_DEBUG_OVERRIDE")
	d.Eval = boolEnv("HCONF_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Resolve() bool {
	return d.Resolve
}
func Override() bool {
	return d.Override
}
func Eval() bool {
	return d.Eval
}
