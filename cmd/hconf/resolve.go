package main

import (
	"github.com/scott-cotton/cli"
)

func resolveCmd(cfg *ResolveConfig, cc *cli.Context, args []string) error {
	args, err := oneFile(cfg.Resolve, "resolve", cc, &cfg.Overrides, args, 1)
	if err != nil {
		return err
	}
	doc, err := loadDoc(cfg.MainConfig, cc, args[0], &cfg.Overrides)
	if err != nil {
		return err
	}
	if missing := doc.ValidateRequired(); len(missing) != 0 {
		if !cfg.AllowMissing {
			for _, p := range missing {
				theLog.Error("missing value", "at", doc.Where(p))
			}
			return cli.ExitCodeErr(1)
		}
		theLog.Warn("missing values left", "count", len(missing))
	}
	if len(doc.Overrides) != 0 {
		theLog.Debug("applied overrides", "n", len(doc.Overrides))
	}
	return doc.Encode(cc.Out, cfg.encOpts(cc.Out)...)
}
