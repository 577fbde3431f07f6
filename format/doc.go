// Package format names the document syntaxes hconf reads and writes.
//
// # Usage
//
//	f, err := format.ParseFormat("json")
//	f = format.FromFilename("conf/train.yaml") // YAMLFormat
//
// # Related Packages
//
//   - github.com/signadot/hconf/parse - Parse text to IR
//   - github.com/signadot/hconf/encode - Encode IR to text
package format
