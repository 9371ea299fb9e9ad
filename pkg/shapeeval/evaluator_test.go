package shapeeval

import (
	"testing"
	"time"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
	"github.com/shexgo/shex/pkg/schemactx"
)

func mustParse(t *testing.T, schemaJSON string) *ast.Schema {
	t.Helper()
	s, err := ast.ParseSchema([]byte(schemaJSON))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	return s
}

const personShapeSchema = `{
  "type": "Schema",
  "start": "http://schema.example/PersonShape",
  "shapes": [
    { "id": "http://schema.example/PersonShape",
      "type": "Shape",
      "closed": true,
      "extra": ["http://xmlns.com/foaf/0.1/note"],
      "expression": {
        "type": "EachOf",
        "expressions": [
          { "type": "TripleConstraint", "predicate": "http://xmlns.com/foaf/0.1/name",
            "valueExpr": { "type": "NodeConstraint", "nodeKind": "literal" } },
          { "type": "TripleConstraint", "predicate": "http://xmlns.com/foaf/0.1/age",
            "valueExpr": { "type": "NodeConstraint", "datatype": "http://www.w3.org/2001/XMLSchema#integer" } }
        ]
      }
    }
  ]
}`

func TestShapeSatisfiedWithExtraArcAllowed(t *testing.T) {
	schema := mustParse(t, personShapeSchema)
	graph := rdf.NewMemGraph([]rdf.Triple{
		{Subject: rdf.IRI("http://ex/alice"), Predicate: "http://xmlns.com/foaf/0.1/name", Object: rdf.Literal("Alice", "")},
		{Subject: rdf.IRI("http://ex/alice"), Predicate: "http://xmlns.com/foaf/0.1/age", Object: rdf.Literal("30", "http://www.w3.org/2001/XMLSchema#integer")},
		{Subject: rdf.IRI("http://ex/alice"), Predicate: "http://xmlns.com/foaf/0.1/note", Object: rdf.Literal("likes Go", "")},
	})
	ctx := schemactx.New(graph, schema)
	ev := New(ctx)
	shapeExpr, ok := ctx.StartShapeExpr()
	if !ok {
		t.Fatalf("expected a start shape")
	}

	satisfied, reason := ev.Satisfies(rdf.IRI("http://ex/alice"), shapeExpr)
	if !satisfied {
		t.Fatalf("expected alice to satisfy PersonShape, got reason %q", reason)
	}
}

func TestClosedShapeRejectsUnlistedArc(t *testing.T) {
	schema := mustParse(t, personShapeSchema)
	graph := rdf.NewMemGraph([]rdf.Triple{
		{Subject: rdf.IRI("http://ex/bob"), Predicate: "http://xmlns.com/foaf/0.1/name", Object: rdf.Literal("Bob", "")},
		{Subject: rdf.IRI("http://ex/bob"), Predicate: "http://xmlns.com/foaf/0.1/age", Object: rdf.Literal("40", "http://www.w3.org/2001/XMLSchema#integer")},
		{Subject: rdf.IRI("http://ex/bob"), Predicate: "http://xmlns.com/foaf/0.1/mbox", Object: rdf.IRI("mailto:bob@example.com")},
	})
	ctx := schemactx.New(graph, schema)
	ev := New(ctx)
	shapeExpr, _ := ctx.StartShapeExpr()

	satisfied, reason := ev.Satisfies(rdf.IRI("http://ex/bob"), shapeExpr)
	if satisfied {
		t.Fatalf("expected bob to fail: mbox is neither matched nor listed in extra")
	}
	if reason == "" {
		t.Fatalf("expected a non-empty failure reason")
	}
}

func TestShapeNotSatisfiedWhenOperandMatches(t *testing.T) {
	schema := mustParse(t, `{ "type": "Schema", "shapes": [
	  { "id": "http://ex/NotLiteral", "type": "ShapeNot",
	    "shapeExpr": { "type": "NodeConstraint", "nodeKind": "literal" } } ] }`)
	ctx := schemactx.New(rdf.NewMemGraph(nil), schema)
	ev := New(ctx)

	se, err := ctx.ShapeExprFor("http://ex/NotLiteral")
	if err != nil {
		t.Fatalf("ShapeExprFor: %v", err)
	}

	ok, _ := ev.Satisfies(rdf.IRI("http://ex/thing"), se)
	if !ok {
		t.Fatalf("expected an IRI to satisfy not(literal)")
	}
	ok, _ = ev.Satisfies(rdf.Literal("x", ""), se)
	if ok {
		t.Fatalf("expected a literal to fail not(literal)")
	}
}

func TestShapeOrSatisfiedByAnyOperand(t *testing.T) {
	schema := mustParse(t, `{ "type": "Schema", "shapes": [
	  { "id": "http://ex/IRIOrLiteral", "type": "ShapeOr", "shapeExprs": [
	      { "type": "NodeConstraint", "nodeKind": "iri" },
	      { "type": "NodeConstraint", "nodeKind": "literal" } ] } ] }`)
	ctx := schemactx.New(rdf.NewMemGraph(nil), schema)
	ev := New(ctx)
	se, _ := ctx.ShapeExprFor("http://ex/IRIOrLiteral")

	ok, _ := ev.Satisfies(rdf.Literal("x", ""), se)
	if !ok {
		t.Fatalf("expected literal to satisfy the literal branch")
	}
	ok, _ = ev.Satisfies(rdf.BNode("b1"), se)
	if ok {
		t.Fatalf("expected a blank node to satisfy neither branch")
	}
}

const cyclicChainSchema = `{
  "type": "Schema",
  "shapes": [
    { "id": "http://ex/ShapeA", "type": "Shape",
      "expression": { "type": "TripleConstraint", "predicate": "http://ex/next",
        "min": 0, "max": 1,
        "valueExpr": "http://ex/ShapeA" } } ] }`

func TestCyclicShapeRefTerminatesOnFiniteChain(t *testing.T) {
	schema := mustParse(t, cyclicChainSchema)
	graph := rdf.NewMemGraph([]rdf.Triple{
		{Subject: rdf.IRI("http://ex/n1"), Predicate: "http://ex/next", Object: rdf.IRI("http://ex/n2")},
		{Subject: rdf.IRI("http://ex/n2"), Predicate: "http://ex/next", Object: rdf.IRI("http://ex/n3")},
	})
	ctx := schemactx.New(graph, schema)
	ev := New(ctx)

	done := make(chan struct{})
	var ok bool
	go func() {
		ok, _ = ev.Satisfies(rdf.IRI("http://ex/n1"), ast.ShapeRef("http://ex/ShapeA"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Satisfies did not terminate on a finite chain")
	}
	if !ok {
		t.Fatalf("expected n1 to satisfy ShapeA")
	}
}

func TestCyclicShapeRefTerminatesOnActualCycle(t *testing.T) {
	schema := mustParse(t, cyclicChainSchema)
	graph := rdf.NewMemGraph([]rdf.Triple{
		{Subject: rdf.IRI("http://ex/n1"), Predicate: "http://ex/next", Object: rdf.IRI("http://ex/n2")},
		{Subject: rdf.IRI("http://ex/n2"), Predicate: "http://ex/next", Object: rdf.IRI("http://ex/n1")},
	})
	ctx := schemactx.New(graph, schema)
	ev := New(ctx)

	done := make(chan struct{})
	go func() {
		ev.Satisfies(rdf.IRI("http://ex/n1"), ast.ShapeRef("http://ex/ShapeA"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Satisfies did not terminate on a graph cycle")
	}
}

func TestUnknownShapeRefFails(t *testing.T) {
	schema := mustParse(t, `{ "type": "Schema", "shapes": [] }`)
	ctx := schemactx.New(rdf.NewMemGraph(nil), schema)
	ev := New(ctx)

	ok, reason := ev.Satisfies(rdf.IRI("http://ex/x"), ast.ShapeRef("http://ex/Missing"))
	if ok {
		t.Fatalf("expected failure for an unresolvable shape reference")
	}
	want := "Shape: http://ex/Missing not found in Schema"
	if reason != want {
		t.Fatalf("reason = %q, want %q", reason, want)
	}
}
