package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	if cfg.Text && cfg.MergePatch {
		return fmt.Errorf("%w: -text and -merge-patch are exclusive", cli.ErrUsage)
	}
	a, err := loadDoc(cfg.MainConfig, cc, args[0], nil)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	b, err := loadDoc(cfg.MainConfig, cc, args[1], nil)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[1], err)
	}
	from, to := a.Root(), b.Root()
	if cfg.Reverse {
		from, to = to, from
	}
	changes := libdiff.Diff(from, to)
	if len(changes) == 0 {
		return nil
	}
	switch {
	case cfg.MergePatch:
		patch, err := libdiff.MergePatch(from, to)
		if err != nil {
			return err
		}
		if err := encode.Encode(patch, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	case cfg.Text:
		var opts []encode.EncodeOption
		if cfg.J {
			opts = append(opts, encode.EncodeFormat(cfg.outFormat()))
		}
		if _, err := fmt.Fprint(cc.Out, libdiff.Text(from, to, opts...)); err != nil {
			return err
		}
	default:
		for _, c := range changes {
			if _, err := fmt.Fprintln(cc.Out, c); err != nil {
				return err
			}
		}
	}
	return cli.ExitCodeErr(1)
}
