package shapemap

import "github.com/shexgo/shex/pkg/rdf"

// Label identifies the shape expression a Pair checks its node against. The
// zero Label is Start, selecting the schema's start shape.
type Label struct {
	value   string
	isBNode bool
}

// Start is the sentinel Label selecting the schema's start shape.
var Start = Label{}

// ShapeLabel builds a Label naming an ordinary IRI shape identifier.
func ShapeLabel(iri string) Label { return Label{value: iri} }

// BNodeLabel builds a Label naming a blank-node shape reference. The
// validator rejects these with BlankShapeRefUnsupported; the type exists so
// a caller's intent is representable rather than silently coerced to an IRI
// label.
func BNodeLabel(id string) Label { return Label{value: id, isBNode: true} }

// IsStart reports whether l selects the schema's start shape.
func (l Label) IsStart() bool { return !l.isBNode && l.value == "" }

// IsBNode reports whether l names a blank-node shape reference.
func (l Label) IsBNode() bool { return l.isBNode }

// String returns the label's identifier, or "START" for the start sentinel.
func (l Label) String() string {
	if l.IsStart() {
		return "START"
	}
	return l.value
}

// Pair is one node/shape-label entry in a shape map. TriplePattern is true
// when Node does not represent a single fully-resolved RDF term (the
// validator rejects these with TriplePatternsUnsupported); this module only
// ever constructs
// Pairs with TriplePattern false, but the field lets a caller's selector
// stay representable rather than being silently coerced into a Node.
type Pair struct {
	Node          rdf.Node
	TriplePattern bool
	Label         Label
}

// Map is the ordered sequence of Pairs one validation run checks; order is
// significant because IsValid fails fast on the first failing pair.
type Map []Pair

// ForStart builds a Pair checking n against the schema's start shape.
func ForStart(n rdf.Node) Pair { return Pair{Node: n, Label: Start} }

// ForShape builds a Pair checking n against the named shape.
func ForShape(n rdf.Node, label string) Pair { return Pair{Node: n, Label: ShapeLabel(label)} }
