package tripleexpr

import (
	"testing"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
)

func alwaysOK(rdf.Node, ast.ShapeExpr) (bool, string) { return true, "" }

func noResolve(label string) (ast.TripleExpr, error) {
	return nil, errNotFound(label)
}

type notFoundErr string

func (e notFoundErr) Error() string { return string(e) + ": not found" }
func errNotFound(label string) error { return notFoundErr(label) }

func TestMatchTripleConstraintMinMax(t *testing.T) {
	tc := &ast.TripleConstraint{Predicate: "http://ex/p", Min: 1, Max: 2}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("o1")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("o2")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("o3")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/other", Object: rdf.IRI("o4")},
	}

	r := Match(tc, arcs, nil, noResolve, alwaysOK)
	if !r.OK {
		t.Fatalf("expected match, got reason %q", r.Reason)
	}
	if len(r.ConsumedOut) != 2 {
		t.Fatalf("expected max=2 arcs consumed, got %d", len(r.ConsumedOut))
	}
}

func TestMatchTripleConstraintBelowMin(t *testing.T) {
	tc := &ast.TripleConstraint{Predicate: "http://ex/p", Min: 2, Max: 5}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("o1")},
	}
	r := Match(tc, arcs, nil, noResolve, alwaysOK)
	if r.OK {
		t.Fatalf("expected failure: only one arc present, min=2")
	}
}

func TestMatchTripleConstraintValueExprFilters(t *testing.T) {
	tc := &ast.TripleConstraint{Predicate: "http://ex/p", Min: 1, Max: ast.Unbounded,
		ValueExpr: &ast.NodeConstraint{NodeKind: ast.KindIRI}}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.Literal("lit", "")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("ok")},
	}
	check := func(n rdf.Node, ve ast.ShapeExpr) (bool, string) {
		nc := ve.(*ast.NodeConstraint)
		return nc.NodeKind != ast.KindIRI || n.IsIRI(), ""
	}
	r := Match(tc, arcs, nil, noResolve, check)
	if !r.OK || len(r.ConsumedOut) != 1 {
		t.Fatalf("expected exactly the IRI arc to match, got %+v", r)
	}
}

func TestMatchEachOfDisjointPredicates(t *testing.T) {
	e := &ast.EachOf{Min: 1, Max: 1, Expressions: []ast.TripleExpr{
		&ast.TripleConstraint{Predicate: "http://ex/name", Min: 1, Max: 1},
		&ast.TripleConstraint{Predicate: "http://ex/age", Min: 1, Max: 1},
	}}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/name", Object: rdf.Literal("Ada", "")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/age", Object: rdf.Literal("30", "")},
	}
	r := Match(e, arcs, nil, noResolve, alwaysOK)
	if !r.OK || len(r.ConsumedOut) != 2 {
		t.Fatalf("expected both sub-expressions to match, got %+v", r)
	}
}

func TestMatchEachOfSharedPredicateRequiresPartitionSearch(t *testing.T) {
	iriOnly := &ast.NodeConstraint{NodeKind: ast.KindIRI}
	check := func(n rdf.Node, ve ast.ShapeExpr) (bool, string) {
		nc := ve.(*ast.NodeConstraint)
		return nc.NodeKind != ast.KindIRI || n.IsIRI(), ""
	}

	// Two TripleConstraints share the "p" predicate: the first accepts any
	// arc, the second requires an IRI object. The only literal arc appears
	// before the only IRI arc in the pool, so a left-to-right greedy match
	// with no backtracking would let the unconstrained first constraint
	// claim the literal arc and starve the second of its only valid IRI arc.
	e := &ast.EachOf{Min: 1, Max: 1, Expressions: []ast.TripleExpr{
		&ast.TripleConstraint{Predicate: "http://ex/p", Min: 1, Max: 1},
		&ast.TripleConstraint{Predicate: "http://ex/p", Min: 1, Max: 1, ValueExpr: iriOnly},
	}}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.Literal("lit", "")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("http://ex/o")},
	}

	r := Match(e, arcs, nil, noResolve, check)
	if !r.OK {
		t.Fatalf("expected a valid partition to be found, got reason %q", r.Reason)
	}
	if len(r.ConsumedOut) != 2 {
		t.Fatalf("expected both arcs consumed across the two constraints, got %+v", r.ConsumedOut)
	}
}

func TestMatchEachOfMissingSubExpressionFails(t *testing.T) {
	e := &ast.EachOf{Min: 1, Max: 1, Expressions: []ast.TripleExpr{
		&ast.TripleConstraint{Predicate: "http://ex/name", Min: 1, Max: 1},
		&ast.TripleConstraint{Predicate: "http://ex/age", Min: 1, Max: 1},
	}}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/name", Object: rdf.Literal("Ada", "")},
	}
	r := Match(e, arcs, nil, noResolve, alwaysOK)
	if r.OK {
		t.Fatalf("expected failure: age predicate missing")
	}
}

func TestMatchOneOfPicksFirstMatchingAlternative(t *testing.T) {
	o := &ast.OneOf{Min: 1, Max: 1, Expressions: []ast.TripleExpr{
		&ast.TripleConstraint{Predicate: "http://ex/email", Min: 1, Max: 1},
		&ast.TripleConstraint{Predicate: "http://ex/phone", Min: 1, Max: 1},
	}}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/phone", Object: rdf.Literal("555", "")},
	}
	r := Match(o, arcs, nil, noResolve, alwaysOK)
	if !r.OK || len(r.ConsumedOut) != 1 {
		t.Fatalf("expected the phone alternative to match, got %+v", r)
	}
}

func TestMatchOneOfRepeated(t *testing.T) {
	o := &ast.OneOf{Min: 2, Max: ast.Unbounded, Expressions: []ast.TripleExpr{
		&ast.TripleConstraint{Predicate: "http://ex/email", Min: 1, Max: 1},
		&ast.TripleConstraint{Predicate: "http://ex/phone", Min: 1, Max: 1},
	}}
	arcs := []rdf.Triple{
		{Subject: rdf.IRI("s"), Predicate: "http://ex/email", Object: rdf.Literal("a@b", "")},
		{Subject: rdf.IRI("s"), Predicate: "http://ex/phone", Object: rdf.Literal("555", "")},
	}
	r := Match(o, arcs, nil, noResolve, alwaysOK)
	if !r.OK || len(r.ConsumedOut) != 2 {
		t.Fatalf("expected both alternatives consumed across repetitions, got %+v", r)
	}
}

func TestMatchTripleExprRefResolves(t *testing.T) {
	target := &ast.TripleConstraint{Predicate: "http://ex/p", Min: 1, Max: 1}
	resolve := func(label string) (ast.TripleExpr, error) {
		if label == "#te1" {
			return target, nil
		}
		return nil, errNotFound(label)
	}
	arcs := []rdf.Triple{{Subject: rdf.IRI("s"), Predicate: "http://ex/p", Object: rdf.IRI("o")}}
	r := Match(ast.TripleExprRef("#te1"), arcs, nil, resolve, alwaysOK)
	if !r.OK {
		t.Fatalf("expected ref resolution to succeed, got reason %q", r.Reason)
	}
}

func TestMatchInverseConstraintUsesArcsIn(t *testing.T) {
	tc := &ast.TripleConstraint{Predicate: "http://ex/parent", Inverse: true, Min: 1, Max: 1}
	arcsIn := []rdf.Triple{{Subject: rdf.IRI("child"), Predicate: "http://ex/parent", Object: rdf.IRI("s")}}
	r := Match(tc, nil, arcsIn, noResolve, alwaysOK)
	if !r.OK || len(r.ConsumedIn) != 1 {
		t.Fatalf("expected inverse constraint to consume an incoming arc, got %+v", r)
	}
}
