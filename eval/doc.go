// Package eval holds the registry of resolvers which may be called from
// interpolations as ${name:arg1,arg2}.
//
// Built in resolvers:
//
//	oc.env:VAR[,default]      environment variable
//	oc.decode:text            text parsed as a YAML value
//	oc.select:path[,default]  value at path, or default when absent or ???
//	multiply:a,b,...          product of numbers
//	sum:a,b,...               sum of numbers
//	int_div:a,b               integer division
//	eval:expr[,args...]       expr-lang expression
//
// Arguments reach a resolver already interpolated and parsed as YAML
// values. Custom resolvers are added with Register.
package eval
