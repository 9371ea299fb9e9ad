package nodeconstraint

import (
	"strings"
	"testing"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
)

func parseNC(t *testing.T, schemaJSON string) *ast.NodeConstraint {
	t.Helper()
	s, err := ast.ParseSchema([]byte(schemaJSON))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	shape := s.Shapes[0].(*ast.Shape)
	tc := shape.Expression.(*ast.TripleConstraint)
	return tc.ValueExpr.(*ast.NodeConstraint)
}

// TestS1TwoIRIValueSet matches spec scenario S1.
func TestS1TwoIRIValueSet(t *testing.T) {
	nc := parseNC(t, `{ "type": "Schema", "shapes": [
	  { "id": "http://schema.example/NoActionIssueShape",
	    "type": "Shape", "expression": {
	      "type": "TripleConstraint",
	      "predicate": "http://schema.example/state",
	      "valueExpr": {
	        "type": "NodeConstraint", "values": [
	          "http://schema.example/Resolved",
	          "http://schema.example/Rejected" ] } } } ] }`)

	ok, _ := NodeSatisfies(rdf.IRI("http://schema.example/Resolved"), nc)
	if !ok {
		t.Fatalf("expected Resolved to satisfy the value set")
	}

	ok, reason := NodeSatisfies(rdf.IRI("http://schema.example/Unresolved"), nc)
	if ok {
		t.Fatalf("expected Unresolved to fail the value set")
	}
	want := "Node: http://schema.example/Unresolved not in value set:"
	if !strings.HasPrefix(reason, want) {
		t.Fatalf("reason %q does not start with %q", reason, want)
	}
}

// TestS2StemsWithExclusions matches spec scenario S2.
func TestS2StemsWithExclusions(t *testing.T) {
	nc := parseNC(t, `{ "type": "Schema", "shapes": [
	  { "id": "http://schema.example/EmployeeShape",
	    "type": "Shape", "expression": {
	      "type": "TripleConstraint",
	      "predicate": "http://xmlns.com/foaf/0.1/mbox",
	      "valueExpr": {
	        "type": "NodeConstraint", "values": [
	          {"value": "N/A"},
	          { "type": "IriStemRange", "stem": "mailto:engineering-" },
	          { "type": "IriStemRange", "stem": "mailto:sales-", "exclusions": [
	              { "type": "IriStem", "stem": "mailto:sales-contacts" },
	              { "type": "IriStem", "stem": "mailto:sales-interns" }
	            ] }
	        ] } } } ] }`)

	cases := []struct {
		name string
		n    rdf.Node
		pass bool
	}{
		{"literal N/A", rdf.Literal("N/A", ""), true},
		{"engineering prefix", rdf.IRI("mailto:engineering-2112@a.example"), true},
		{"sales prefix not excluded", rdf.IRI("mailto:sales-835@a.example"), true},
		{"unrelated literal", rdf.Literal("missing", ""), false},
		{"sales-contacts excluded", rdf.IRI("mailto:sales-contacts-999@a.example"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, reason := NodeSatisfies(c.n, nc)
			if ok != c.pass {
				t.Fatalf("NodeSatisfies(%v) = %v, want %v (reason=%q)", c.n, ok, c.pass, reason)
			}
			if !c.pass && !strings.HasPrefix(reason, "Node: "+c.n.String()+" not in value set:") {
				t.Fatalf("unexpected reason %q", reason)
			}
		})
	}
}

// TestS3WildcardWithExclusions matches spec scenario S3.
func TestS3WildcardWithExclusions(t *testing.T) {
	nc := parseNC(t, `{ "type": "Schema", "shapes": [
	  { "id": "http://schema.example/EmployeeShape",
	    "type": "Shape", "expression": {
	      "type": "TripleConstraint",
	      "predicate": "http://xmlns.com/foaf/0.1/mbox",
	      "valueExpr": {
	        "type": "NodeConstraint", "values": [
	          { "type": "IriStemRange", "stem": {"type": "Wildcard"},
	            "exclusions": [
	              { "type": "IriStem", "stem": "mailto:engineering-" },
	              { "type": "IriStem", "stem": "mailto:sales-" }
	            ] }
	        ] } } } ] }`)

	cases := []struct {
		name string
		n    rdf.Node
		pass bool
	}{
		{"literal admitted by wildcard", rdf.Literal("123", "http://www.w3.org/2001/XMLSchema#integer"), true},
		{"exclusion matches prefix only", rdf.IRI("mailto:core-engineering-2112@a.example"), true},
		{"excluded engineering prefix", rdf.IRI("mailto:engineering-2112@a.example"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, _ := NodeSatisfies(c.n, nc)
			if ok != c.pass {
				t.Fatalf("NodeSatisfies(%v) = %v, want %v", c.n, ok, c.pass)
			}
		})
	}
}

func TestExclusionOrderIndependence(t *testing.T) {
	nc1 := &ast.NodeConstraint{Values: []ast.ValueSetValue{
		ast.IriStemRange{Stem: ast.Wildcard{}, Exclusions: []ast.ValueSetValue{
			ast.IriStem{Stem: "mailto:engineering-"},
			ast.IriStem{Stem: "mailto:sales-"},
		}},
	}}
	nc2 := &ast.NodeConstraint{Values: []ast.ValueSetValue{
		ast.IriStemRange{Stem: ast.Wildcard{}, Exclusions: []ast.ValueSetValue{
			ast.IriStem{Stem: "mailto:sales-"},
			ast.IriStem{Stem: "mailto:engineering-"},
		}},
	}}

	n := rdf.IRI("mailto:engineering-123@a.example")
	ok1, _ := NodeSatisfies(n, nc1)
	ok2, _ := NodeSatisfies(n, nc2)
	if ok1 != ok2 {
		t.Fatalf("exclusion order changed the outcome: %v vs %v", ok1, ok2)
	}
}

func TestNumericFacetsExactDecimal(t *testing.T) {
	nc := &ast.NodeConstraint{Facets: ast.Facets{MinInclusive: "0.1", MaxInclusive: "0.3"}}

	ok, _ := NodeSatisfies(rdf.Literal("0.1", "http://www.w3.org/2001/XMLSchema#decimal"), nc)
	if !ok {
		t.Fatalf("expected 0.1 to satisfy mininclusive 0.1")
	}
	ok, _ = NodeSatisfies(rdf.Literal("0.30000000000000004", "http://www.w3.org/2001/XMLSchema#decimal"), nc)
	if ok {
		t.Fatalf("expected 0.30000000000000004 to violate maxinclusive 0.3")
	}
}
