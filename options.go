package hconf

import (
	"github.com/signadot/hconf/format"
	"github.com/signadot/hconf/resolve"
)

type options struct {
	format    format.Format
	source    string
	overrides []overrideArg
	env       bool
}

// overrideArg holds the overrides of one WithOverrides or
// WithParsedOverrides option. They apply in option order.
type overrideArg struct {
	items  []string
	parsed []*resolve.Override
}

type Option func(*options)

// WithFormat sets the input format. LoadFile picks it from the file name
// otherwise.
func WithFormat(f format.Format) Option {
	return func(o *options) { o.format = f }
}

// WithSource names the input in errors and in Document.Source.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// WithOverrides adds overrides in command line form, such as
// "model.optim.lr=0.0005" or "~trainer.profiler".
func WithOverrides(items ...string) Option {
	return func(o *options) { o.overrides = append(o.overrides, overrideArg{items: items}) }
}

// WithParsedOverrides adds overrides built with the resolve package.
// Overrides from all options apply in the order the options are given.
func WithParsedOverrides(ovs ...*resolve.Override) Option {
	return func(o *options) { o.overrides = append(o.overrides, overrideArg{parsed: ovs}) }
}

// WithEnvOverrides applies the overrides in $HCONF_OVERRIDES before any
// others.
func WithEnvOverrides(v bool) Option {
	return func(o *options) { o.env = v }
}

func (o *options) allOverrides() ([]*resolve.Override, error) {
	var res []*resolve.Override
	if o.env {
		env, err := resolve.LoadEnvOverrides()
		if err != nil {
			return nil, err
		}
		res = append(res, env...)
	}
	for _, arg := range o.overrides {
		if arg.parsed != nil {
			res = append(res, arg.parsed...)
			continue
		}
		items, err := resolve.ParseOverrides(arg.items)
		if err != nil {
			return nil, err
		}
		res = append(res, items...)
	}
	return res, nil
}
