// Package parse parses YAML and JSON configuration text into ir nodes.
//
// # Usage
//
//	node, err := parse.Parse(data, parse.ParseSource("conf/train.yaml"))
//	if err != nil {
//	    var se *parse.SyntaxError
//	    if errors.As(err, &se) {
//	        fmt.Println(se.Line, se.Col)
//	    }
//	    return err
//	}
//
// Plain strings equal to ??? become required placeholders and strings
// containing ${...} become interpolations, whose templates are checked
// here so that a malformed reference is a syntax error. Anchors, aliases
// and << merge keys are expanded. Duplicate keys, multiple documents and
// non scalar keys are rejected.
//
// # Related Packages
//
//   - github.com/signadot/hconf/ir - tree representation
//   - github.com/signadot/hconf/encode - encode trees to text
//   - github.com/signadot/hconf/token - interpolation templates
package parse
