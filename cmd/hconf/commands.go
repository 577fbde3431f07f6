package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y (default from the file suffix)",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "hconf").
		WithSynopsis("hconf [opts] command [opts]").
		WithDescription("hconf resolves hierarchical configuration files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return hconfMain(cfg, cc, args)
		}).
		WithSubs(
			ResolveCommand(cfg),
			GetCommand(cfg),
			ValidateCommand(cfg),
			OrderCommand(cfg),
			DiffCommand(cfg),
			ResolversCommand(cfg))
}

func ResolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResolveConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, cfg.Overrides.opt())
	return cli.NewCommandAt(&cfg.Resolve, "resolve").
		WithAliases("r", "res").
		WithSynopsis("resolve [-e path=val]... [-allow-missing] file [-- overrides...]").
		WithDescription(resolveDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return resolveCmd(cfg, cc, args)
		})
}

const resolveDescription = `resolve applies overrides to a configuration file, resolves
every ${...} interpolation and prints the result.

Overrides are applied in this order: $HCONF_OVERRIDES (unless -noenv),
then -e options, then arguments after '--'. Each has one of the forms

  path=value     set an existing key
  +path=value    add a key which must not exist
  ++path=value   set or add
  ~path[=value]  delete a key

Values are parsed as YAML, so '-e model.layers=[1,2]' sets a list.
Without -allow-missing, values left as ??? are an error.`

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-e path=val]... <path> file [-- overrides...]").
		WithDescription("get a value from a resolved file; paths may contain * and [*]").
		WithOpts(cfg.Overrides.opt()).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, cfg.Overrides.opt())
	return cli.NewCommandAt(&cfg.Validate, "validate").
		WithAliases("v", "check").
		WithSynopsis("validate [-schema file|name] [-e path=val]... file [-- overrides...]").
		WithDescription("check a resolved file for ??? values and schema violations").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

func OrderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OrderConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Order, "order").
		WithSynopsis("order [-e path=val]... file [-- overrides...]").
		WithDescription("print interpolated paths in the order they were resolved").
		WithOpts(cfg.Overrides.opt()).
		WithRun(func(cc *cli.Context, args []string) error {
			return order(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-r] [-text|-merge-patch] a b").
		WithDescription("diff two resolved files; exits 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ResolversCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResolversConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Resolvers, "resolvers").
		WithSynopsis("resolvers").
		WithDescription("list the registered resolvers").
		WithRun(func(cc *cli.Context, args []string) error {
			return resolvers(cfg, cc, args)
		})
}
