// Package rdf provides the RDF primitives the ShEx engine is defined over:
// nodes, triples, and the graph adapter contract evaluators consult for a
// node's neighbourhood.
//
// This package also ships MemGraph, a concrete in-memory Graph used by tests
// and the CLI demo. Production deployments may supply their own Graph
// implementation backed by a real triple store without any engine changes.
package rdf
