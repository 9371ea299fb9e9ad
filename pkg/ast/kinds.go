package ast

// NodeKind restricts which RDF term kind a NodeConstraint will accept.
type NodeKind string

const (
	KindIRI       NodeKind = "iri"
	KindBNode     NodeKind = "bnode"
	KindLiteral   NodeKind = "literal"
	KindNonLiteral NodeKind = "nonliteral"
)

// Unbounded is the sentinel cardinality value meaning "no upper bound".
// ShExJ spells this the literal integer -1 or the string "*"; both decode to
// Unbounded.
const Unbounded = -1
