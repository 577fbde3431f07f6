package hparams

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/signadot/hconf"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/parse"
	"github.com/signadot/hconf/resolve"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// ErrUnknownPreset is returned for a preset name not in [Presets].
var ErrUnknownPreset = errors.New("unknown preset")

// Presets lists the embedded preset names, sorted.
func Presets() []string {
	names, _ := fs.Glob(presetFS, "presets/*.yaml")
	res := make([]string, len(names))
	for i, name := range names {
		res[i] = strings.TrimSuffix(path.Base(name), ".yaml")
	}
	return res
}

// Preset returns the unresolved document of the named preset.
//
// A preset named base_variant is the preset base with the variant file
// applied to it. Each key of a variant file is the left side of an
// override (model.hidden_size, ++model.bias, ~model.dropout) and its
// value the value to set; a null deletes.
func Preset(name string) (*ir.Node, error) {
	baseName, _, isVariant := strings.Cut(name, "_")
	base, err := readPreset(baseName)
	if err != nil {
		return nil, err
	}
	if !isVariant {
		return base, nil
	}
	variant, err := readPreset(name)
	if err != nil {
		return nil, err
	}
	if variant.Type != ir.ObjectType {
		return nil, fmt.Errorf("hparams: preset %s: expected a mapping of overrides, got %s", name, variant.Type)
	}
	ovs := make([]*resolve.Override, len(variant.Fields))
	for i, k := range variant.Fields {
		v := variant.Values[i]
		if v.Type == ir.NullType && strings.HasPrefix(k.String, "~") {
			v = nil
		}
		ovs[i], err = resolve.NewOverride(k.String, v)
		if err != nil {
			return nil, fmt.Errorf("hparams: preset %s: %w", name, err)
		}
	}
	if err := resolve.Apply(base, ovs...); err != nil {
		return nil, fmt.Errorf("hparams: preset %s: %w", name, err)
	}
	return base, nil
}

func readPreset(name string) (*ir.Node, error) {
	file := "presets/" + name + ".yaml"
	d, err := fs.ReadFile(presetFS, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	if err != nil {
		return nil, err
	}
	return parse.Parse(d, parse.ParseSource(file))
}

// LoadDeepSeek resolves and validates the named DeepSeek preset. The
// base preset "deepseek" leaves the model sizes ??? for overrides to
// fill; "deepseek_v2" and "deepseek_v3" only need data.data_path.
func LoadDeepSeek(preset string, opts ...hconf.Option) (*DeepSeekConfig, *hconf.Document, error) {
	tree, err := Preset(preset)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]hconf.Option{hconf.WithSource("presets/" + preset + ".yaml")}, opts...)
	doc, err := hconf.LoadNode(tree, opts...)
	if err != nil {
		return nil, nil, err
	}
	cfg := &DeepSeekConfig{}
	if err := Decode(doc, DeepSeekSchema, cfg); err != nil {
		return nil, doc, err
	}
	return cfg, doc, nil
}
