// Package token splits configuration strings into literal text and
// interpolations.
//
// An interpolation is either a reference or a resolver call:
//
//	${model.optim.lr}          absolute reference
//	${.sample_rate}            reference relative to the current container
//	${..train_ds.batch_size}   reference relative to the parent container
//	${oc.env:HOME,/tmp}        resolver call with arguments
//	run_${name}_${seed}        text with embedded references
//	\${not_a_ref}              escaped, yields the literal text ${not_a_ref}
//
// [Tokenize] returns a [Template]; references and arguments may nest.
//
// The package also provides the quoting helpers used when printing
// strings and dot-paths.
package token
