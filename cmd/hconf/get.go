package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/ir/kpath"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := oneFile(cfg.Get, "get", cc, &cfg.Overrides, args, 2)
	if err != nil {
		return err
	}
	path, file := args[0], args[1]
	p, err := kpath.Parse(path)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	doc, err := loadDoc(cfg.MainConfig, cc, file, &cfg.Overrides)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	if !p.IsWild() {
		node, err := doc.Get(path)
		if err != nil {
			return err
		}
		return encode.Encode(node, cc.Out, opts...)
	}
	nodes, err := doc.List(path)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		theLog.Warn("no match", "path", path, "file", file)
		return cli.ExitCodeErr(1)
	}
	for i, node := range nodes {
		if i > 0 && !cfg.J {
			if _, err := fmt.Fprintln(cc.Out, "---"); err != nil {
				return err
			}
		}
		if err := encode.Encode(node, cc.Out, opts...); err != nil {
			return err
		}
	}
	return nil
}
