package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/hconf"
	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/resolve"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	WireOut bool `cli:"name=wire desc='output json on one line'"`
	NoEnv   bool `cli:"name=noenv desc='ignore $HCONF_OVERRIDES'"`

	J bool `cli:"name=j aliases=json desc='output json'"`
	Y bool `cli:"name=y aliases=yaml desc='output yaml'"`

	InFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.J {
		return format.JSONFormat
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) loadOpts(ovs []*resolve.Override) []hconf.Option {
	res := []hconf.Option{
		hconf.WithEnvOverrides(!cfg.NoEnv),
		hconf.WithParsedOverrides(ovs...),
	}
	if cfg.InFormat != nil {
		res = append(res, hconf.WithFormat(*cfg.InFormat))
	}
	return res
}

func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return false
		}
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.useColor(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// Overrides collects -e options.
type Overrides struct {
	List []*resolve.Override
}

func (o *Overrides) opt() *cli.Opt {
	return &cli.Opt{
		Name:        "e",
		Description: "override, repeatable",
		Type: cli.NamedFuncOpt(cli.FuncOpt(func(_ *cli.Context, a string) (any, error) {
			ov, err := resolve.ParseOverride(a)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
			}
			o.List = append(o.List, ov)
			return 0, nil
		}), "(path=val)"),
	}
}

// extras splits args at "--", parsing what follows as overrides.
func (o *Overrides) extras(args []string) ([]string, error) {
	for i, arg := range args {
		if arg != "--" {
			continue
		}
		ovs, err := resolve.ParseOverrides(args[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		o.List = append(o.List, ovs...)
		return args[:i], nil
	}
	return args, nil
}

type ResolveConfig struct {
	*MainConfig
	Overrides
	AllowMissing bool `cli:"name=allow-missing desc='print documents with ??? values left'"`

	Resolve *cli.Command
}

type GetConfig struct {
	*MainConfig
	Overrides

	Get *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	Overrides
	Schema string `cli:"name=schema desc='schema file or registered schema name'"`

	Validate *cli.Command
}

type OrderConfig struct {
	*MainConfig
	Overrides

	Order *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse    bool `cli:"name=r desc='reverse the diff'"`
	Text       bool `cli:"name=text desc='line diff of the encoded documents'"`
	MergePatch bool `cli:"name=merge-patch desc='output an RFC 7386 merge patch'"`

	Diff *cli.Command
}

type ResolversConfig struct {
	*MainConfig

	Resolvers *cli.Command
}
