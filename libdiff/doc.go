// Package libdiff compares resolved configuration documents.
//
// Diff reports changes per dot-path. Objects are compared key by key and
// arrays are aligned by the values of their elements, so that inserting a
// layer in the middle of a list reports one addition rather than a change
// of every following element. Numbers compare by value: 1e-3 and 0.001
// are the same.
package libdiff
