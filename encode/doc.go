// Package encode prints configuration trees as YAML or JSON.
//
// # Usage
//
//	node, _ := parse.Parse(data)
//	err := encode.Encode(node, os.Stdout)
//
//	// JSON, single line
//	err = encode.Encode(node, w, encode.EncodeFormat(format.JSONFormat), encode.EncodeWire(true))
//
//	// YAML with terminal colors
//	err = encode.Encode(node, w, encode.EncodeColors(encode.NewColors()))
//
// Key order is kept and numbers are printed with their source literal.
// Placeholders print as ??? and unresolved interpolations verbatim, so
// encoding an unresolved tree to YAML and parsing it again gives the same
// tree.
package encode
