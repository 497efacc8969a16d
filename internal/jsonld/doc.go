// Package jsonld converts event statements from N-Quads to JSON-LD using
// json-gold's fromRDF algorithm.
package jsonld
