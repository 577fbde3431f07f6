package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf/schema"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := oneFile(cfg.Validate, "validate", cc, &cfg.Overrides, args, 1)
	if err != nil {
		return err
	}
	var s *schema.Schema
	if cfg.Schema != "" {
		s, err = findSchema(cfg.Schema)
		if err != nil {
			return err
		}
	}
	doc, err := loadDoc(cfg.MainConfig, cc, args[0], &cfg.Overrides)
	if err != nil {
		return err
	}
	n := 0
	for _, p := range doc.ValidateRequired() {
		fmt.Fprintf(cc.Out, "%s: required value is ???\n", doc.Where(p))
		n++
	}
	if s != nil {
		for _, v := range s.Validate(doc.Root()) {
			fmt.Fprintf(cc.Out, "%s: %s (rule %s)\n", doc.Where(v.Path), v.Msg, v.Rule)
			n++
		}
	}
	if n != 0 {
		theLog.Error("invalid", "file", doc.Source, "violations", n)
		return cli.ExitCodeErr(1)
	}
	return nil
}

// findSchema loads a schema file, falling back to the registry.
func findSchema(name string) (*schema.Schema, error) {
	s, err := schema.Load(name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if s := schema.Lookup(name); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: no schema file or registered schema %q", cli.ErrUsage, name)
}
