package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf"
)

func hconfMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// loadDoc loads file, or standard input for "-".
func loadDoc(cfg *MainConfig, cc *cli.Context, file string, ovs *Overrides) (*hconf.Document, error) {
	var list Overrides
	if ovs != nil {
		list = *ovs
	}
	opts := cfg.loadOpts(list.List)
	if file != "-" {
		return hconf.LoadFile(file, opts...)
	}
	d, err := io.ReadAll(cc.In)
	if err != nil {
		return nil, fmt.Errorf("error reading stdin: %w", err)
	}
	return hconf.Load(d, append([]hconf.Option{hconf.WithSource("<stdin>")}, opts...)...)
}

// oneFile parses the arguments of a command taking overrides and a
// single file.
func oneFile(cmd *cli.Command, name string, cc *cli.Context, ovs *Overrides, args []string, want int) ([]string, error) {
	args, err := cmd.Parse(cc, args)
	if err != nil {
		cmd.Usage(cc, err)
		return nil, cli.ExitCodeErr(1)
	}
	args, err = ovs.extras(args)
	if err != nil {
		return nil, err
	}
	if len(args) != want {
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", cli.ErrUsage, name, want, len(args))
	}
	return args, nil
}
