package shapeeval

import (
	"fmt"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/nodeconstraint"
	"github.com/shexgo/shex/pkg/rdf"
	"github.com/shexgo/shex/pkg/schemactx"
	"github.com/shexgo/shex/pkg/tripleexpr"
)

// assumptionKey identifies one (node, shapeLabel) pair currently being
// evaluated, so a cyclic ShapeRef chain can terminate.
type assumptionKey struct {
	node  rdf.Node
	label string
}

// Evaluator holds the borrowed Context a single IsValid call evaluates
// against. It is not safe for concurrent use by multiple goroutines — each
// validation call constructs its own.
type Evaluator struct {
	Ctx *schemactx.Context
}

// New builds an Evaluator over ctx.
func New(ctx *schemactx.Context) *Evaluator {
	return &Evaluator{Ctx: ctx}
}

// Satisfies decides whether n satisfies se, returning a human-readable
// reason on failure.
func (e *Evaluator) Satisfies(n rdf.Node, se ast.ShapeExpr) (bool, string) {
	return e.satisfies(n, se, make(map[assumptionKey]bool))
}

func (e *Evaluator) satisfies(n rdf.Node, se ast.ShapeExpr, assumptions map[assumptionKey]bool) (bool, string) {
	switch expr := se.(type) {
	case nil:
		return true, ""
	case *ast.NodeConstraint:
		return nodeconstraint.NodeSatisfies(n, expr)
	case *ast.ShapeAnd:
		for _, sub := range expr.ShapeExprs {
			if ok, reason := e.satisfies(n, sub, assumptions); !ok {
				return false, reason
			}
		}
		return true, ""
	case *ast.ShapeOr:
		var lastReason string
		for _, sub := range expr.ShapeExprs {
			ok, reason := e.satisfies(n, sub, assumptions)
			if ok {
				return true, ""
			}
			lastReason = reason
		}
		return false, fmt.Sprintf("Node: %s satisfies no operand of ShapeOr (last: %s)", n, lastReason)
	case *ast.ShapeNot:
		if ok, _ := e.satisfies(n, expr.ShapeExpr, assumptions); ok {
			return false, fmt.Sprintf("Node: %s satisfies the negated operand of ShapeNot", n)
		}
		return true, ""
	case *ast.Shape:
		return e.satisfiesShape(n, expr, assumptions)
	case ast.ShapeRef:
		return e.satisfiesRef(n, string(expr), assumptions)
	default:
		return false, "unrecognized shape expression"
	}
}

// satisfiesRef resolves label through the Context and recurses, using a
// positive-assumption policy to terminate cyclic schemas: re-entering the
// same (n, label) pair while it is already being evaluated assumes success.
// Once the outer call finishes, its own outcome replaces the assumption and
// is reused for any later check of the same pair within this Satisfies call.
// Outcomes of other pairs that were decided while the assumption stood are
// kept as they are and not evaluated again.
func (e *Evaluator) satisfiesRef(n rdf.Node, label string, assumptions map[assumptionKey]bool) (bool, string) {
	key := assumptionKey{node: n, label: label}
	if assumed, visiting := assumptions[key]; visiting {
		return assumed, ""
	}

	target, err := e.Ctx.ShapeExprFor(label)
	if err != nil {
		return false, fmt.Sprintf("Shape: %s not found in Schema", label)
	}

	assumptions[key] = true
	ok, reason := e.satisfies(n, target, assumptions)
	assumptions[key] = ok
	return ok, reason
}

func (e *Evaluator) satisfiesShape(n rdf.Node, shape *ast.Shape, assumptions map[assumptionKey]bool) (bool, string) {
	arcsOut := e.Ctx.Graph.ArcsOut(n)
	var arcsIn []rdf.Triple
	if usesInverse(shape.Expression) {
		arcsIn = e.Ctx.Graph.ArcsIn(n)
	}

	// valueReason keeps the first valueExpr failure seen while matching, so a
	// failed match reports the value-level cause first.
	var valueReason string
	check := func(term rdf.Node, ve ast.ShapeExpr) (bool, string) {
		ok, reason := e.satisfies(term, ve, assumptions)
		if !ok && valueReason == "" {
			valueReason = reason
		}
		return ok, reason
	}
	resolve := func(label string) (ast.TripleExpr, error) {
		return e.Ctx.TripleExprFor(label)
	}

	var matched tripleexpr.Result
	if shape.Expression != nil {
		matched = tripleexpr.Match(shape.Expression, arcsOut, arcsIn, resolve, check)
		if !matched.OK {
			if valueReason != "" {
				return false, fmt.Sprintf("%s\n\tNode: %s does not satisfy the shape's triple expression: %s", valueReason, n, matched.Reason)
			}
			return false, fmt.Sprintf("Node: %s does not satisfy the shape's triple expression: %s", n, matched.Reason)
		}
	} else {
		matched = tripleexpr.Result{OK: true}
	}

	if shape.Closed {
		if ok, reason := checkClosed(n, arcsOut, matched.ConsumedOut, shape.Extra); !ok {
			return false, reason
		}
	}

	return true, ""
}

// checkClosed enforces the closed-shape rule: every arc out of n that was
// not consumed by the triple expression must have a predicate listed in
// extra, or the shape fails. See DESIGN.md for why this applies the broader,
// standard-ShEx reading of "extra" rather than a narrower one.
func checkClosed(n rdf.Node, arcsOut, consumed []rdf.Triple, extra []string) (bool, string) {
	extraSet := make(map[string]bool, len(extra))
	for _, p := range extra {
		extraSet[p] = true
	}
	consumedSet := make(map[rdf.Triple]bool, len(consumed))
	for _, t := range consumed {
		consumedSet[t] = true
	}
	for _, a := range arcsOut {
		if consumedSet[a] {
			continue
		}
		if extraSet[a.Predicate] {
			continue
		}
		return false, fmt.Sprintf("Node: %s is closed but has an unmatched arc with predicate %s", n, a.Predicate)
	}
	return true, ""
}

func usesInverse(te ast.TripleExpr) bool {
	switch e := te.(type) {
	case *ast.TripleConstraint:
		return e.Inverse
	case *ast.EachOf:
		for _, sub := range e.Expressions {
			if usesInverse(sub) {
				return true
			}
		}
	case *ast.OneOf:
		for _, sub := range e.Expressions {
			if usesInverse(sub) {
				return true
			}
		}
	}
	return false
}
