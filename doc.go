// Package hconf loads hierarchical training configurations.
//
// A configuration is a YAML (or JSON) document which may refer to its own
// values with ${...} interpolations and mark values the user must supply
// with ???:
//
//	sample_rate: 16000
//	model:
//	  sample_rate: ${sample_rate}
//	  train_ds:
//	    manifest_filepath: ???
//	  optim:
//	    lr: 1e-6
//
// Load parses a document, applies overrides such as
// "model.train_ds.manifest_filepath=/data/train.json" and resolves every
// interpolation. The resulting Document is read only and may be shared
// between goroutines:
//
//	doc, err := hconf.LoadFile("speaker.yaml", hconf.WithOverrides(os.Args[1:]...))
//	if err != nil {
//		return err
//	}
//	if err := doc.Required(); err != nil {
//		return err
//	}
//	lr, err := doc.Float("model.optim.lr")
//
// Errors wrap the sentinels re-exported here, so errors.Is(err,
// hconf.ErrMissingRequired) and friends work whichever package produced
// them.
package hconf
