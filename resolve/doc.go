// Package resolve applies overrides to a configuration tree and replaces
// every interpolation with its value.
//
// # Overrides
//
// Overrides use the command line grammar of hierarchical training
// configs:
//
//	model.optim.lr=0.0005     replace an existing value
//	+trainer.profiler=simple  add a key which must not exist
//	++trainer.devices=8       add or replace
//	~model.dropout            delete
//	~model.dropout=0.1        delete if the current value is 0.1
//
// Values are YAML ([1, 2], {a: 1}, 'quoted', ???, ${ref}). Overrides are
// applied left to right; later ones win. LoadEnvOverrides reads more from
// $HCONF_OVERRIDES.
//
// # Resolution
//
// Interpolations are visited in the order of their sorted dot-paths, and
// each is resolved depth first through what it references. Meeting a path
// which is still in progress is a cycle and fails with a
// *CircularReferenceError naming it. Result.Order lists the interpolation
// paths in the order their values were fixed, a topological order of the
// reference graph which does not depend on key order in the source.
//
// A value made of exactly one ${...} takes the type of what it references,
// containers included. Any other template gives a string, and a container
// cannot be embedded in one. A reference to ??? gives ??? and so does a
// template embedding one.
package resolve
