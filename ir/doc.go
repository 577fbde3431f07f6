// Package ir provides the tree representation of configuration documents.
//
// # Overview
//
// Every document, whether parsed from YAML or JSON, built from overrides or
// produced by a resolver, is an ir.Node tree. The representation is a
// recursive tagged union: the Type field says which of the value fields is
// meaningful.
//
//   - NullType, BoolType, NumberType, StringType: scalars
//   - ArrayType: ordered elements in Values
//   - ObjectType: keys in Fields (string nodes), values in the parallel
//     Values slice; key order is insertion order and keys are unique
//   - InterpType: a string holding at least one ${...} interpolation, kept
//     verbatim in String until resolution
//   - MissingType: the required placeholder "???"
//
// # Numbers
//
// Number nodes keep their source literal in Number ("1e-6", "3_200",
// "0.0003") next to the parsed value in Int64 or Float64. Copies keep the
// literal, so a resolved document prints numbers exactly as written.
//
// # Parents
//
// Each node records its Parent together with ParentIndex and, for object
// members, ParentField. KPath returns the dot-path of a node computed from
// these links. Constructors (FromMap, FromKeyVals, FromSlice) and the
// mutation helpers (SetField, DeleteField, ReplaceWith) keep them
// consistent.
//
// # Paths
//
// Nodes are addressed with dot-paths (see package kpath):
//
//	model.optim.lr
//	model.layers[0].size
//	model.layers.0.size
//	trainer.*
//
// Lookup returns the node in place, GetKPath a clone, ListKPath every
// node matching a path with wildcards.
package ir
