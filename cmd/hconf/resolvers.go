package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf/eval"
)

func resolvers(cfg *ResolversConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Resolvers.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: resolvers takes no arguments", cli.ErrUsage)
	}
	fmt.Fprintf(cc.Out, "available resolvers:\n")
	for _, s := range eval.Symbols() {
		fmt.Fprintf(cc.Out, "\t- %s\n", s)
	}
	return nil
}
