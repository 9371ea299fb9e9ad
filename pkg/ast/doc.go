// Package ast holds the tagged-variant ShExJ AST: shape expressions, triple
// expressions, node constraints, and value-set elements, plus a loader that
// decodes a ShExJ JSON document into this tree.
//
// The AST is a pure tree: a cyclic schema is represented with label-valued
// Ref variants (ShapeRef, TripleExprRef), never with owning pointer cycles.
// schemactx.Context is what turns a label back into the expression it names.
package ast
