package hparams

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/signadot/hconf"
	"github.com/signadot/hconf/gomap"
	"github.com/signadot/hconf/parse"
	"github.com/signadot/hconf/schema"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

const (
	SpeakerSchema  = "speaker"
	GPTSchema      = "gpt"
	DeepSeekSchema = "deepseek"
)

func init() {
	if err := registerSchemas(schemaFS); err != nil {
		panic(err)
	}
}

func registerSchemas(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "schemas/*.yaml")
	if err != nil {
		return err
	}
	for _, name := range names {
		d, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		s, err := schema.Parse(d, parse.ParseSource(name))
		if err != nil {
			return fmt.Errorf("hparams: %s: %w", name, err)
		}
		if s.Name == "" {
			s.Name = strings.TrimSuffix(path.Base(name), ".yaml")
		}
		if err := schema.Register(s); err != nil {
			return fmt.Errorf("hparams: %w", err)
		}
	}
	return nil
}

// Validator is implemented by the config types of this package.
type Validator interface {
	Validate() error
}

// Decode checks doc for ??? values and against the schema registered as
// schemaName, decodes it into cfg and validates the result. A cfg with a
// Normalize method is normalized before validation. Violations
// of both the schema and cfg.Validate are joined in the returned error.
func Decode(doc *hconf.Document, schemaName string, cfg Validator) error {
	if err := doc.Required(); err != nil {
		return err
	}
	var errs []error
	if s := schema.Lookup(schemaName); s != nil {
		for _, v := range s.Validate(doc.Root()) {
			errs = append(errs, v)
		}
	}
	if len(errs) != 0 {
		return errors.Join(errs...)
	}
	if err := doc.Decode(cfg, gomap.Strict(true)); err != nil {
		return err
	}
	if n, ok := cfg.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return cfg.Validate()
}

// LoadSpeaker loads, resolves and validates a speaker config file.
func LoadSpeaker(file string, opts ...hconf.Option) (*SpeakerConfig, *hconf.Document, error) {
	doc, err := hconf.LoadFile(file, opts...)
	if err != nil {
		return nil, nil, err
	}
	cfg := &SpeakerConfig{}
	if err := Decode(doc, SpeakerSchema, cfg); err != nil {
		return nil, doc, err
	}
	return cfg, doc, nil
}

// LoadGPT loads, resolves and validates a GPT config file.
func LoadGPT(file string, opts ...hconf.Option) (*GPTConfig, *hconf.Document, error) {
	doc, err := hconf.LoadFile(file, opts...)
	if err != nil {
		return nil, nil, err
	}
	cfg := &GPTConfig{}
	if err := Decode(doc, GPTSchema, cfg); err != nil {
		return nil, doc, err
	}
	return cfg, doc, nil
}
