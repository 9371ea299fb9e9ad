package schemactx

import (
	"golang.org/x/exp/slices"

	"github.com/shexgo/shex/pkg/ast"
)

// ShapeVisitorFunc is called once for every shapeExpr node a VisitShapes
// traversal reaches, before descending into its children.
type ShapeVisitorFunc func(argCtx any, expr ast.ShapeExpr, c *Context)

// TripleVisitorFunc is the tripleExpr equivalent of ShapeVisitorFunc.
type TripleVisitorFunc func(argCtx any, expr ast.TripleExpr, c *Context)

// visitorCenter tracks which labeled expressions are fully visited
// (seen) versus on the current recursion path (visiting), for both shapes
// and triple expressions, so a single traversal can cross between the two
// kinds (a Shape's expression visits triple expressions; a TripleConstraint's
// valueExpr visits shapes) while sharing one notion of "already handled".
type visitorCenter struct {
	shapeF ShapeVisitorFunc
	teF    TripleVisitorFunc
	argCtx any

	seenShapes     []string
	visitingShapes []string
	seenTEs        []string
	visitingTEs    []string
}

func newVisitorCenter(shapeF ShapeVisitorFunc, teF TripleVisitorFunc, argCtx any) *visitorCenter {
	return &visitorCenter{shapeF: shapeF, teF: teF, argCtx: argCtx}
}

func (v *visitorCenter) startVisitingShape(id string)  { v.visitingShapes = append(v.visitingShapes, id) }
func (v *visitorCenter) activelyVisitingShape(id string) bool {
	return slices.Contains(v.visitingShapes, id)
}
func (v *visitorCenter) doneVisitingShape(id string) {
	v.visitingShapes = remove(v.visitingShapes, id)
	v.seenShapes = append(v.seenShapes, id)
}
func (v *visitorCenter) alreadySeenShape(id string) bool { return slices.Contains(v.seenShapes, id) }

func (v *visitorCenter) startVisitingTE(id string) { v.visitingTEs = append(v.visitingTEs, id) }
func (v *visitorCenter) activelyVisitingTE(id string) bool {
	return slices.Contains(v.visitingTEs, id)
}
func (v *visitorCenter) doneVisitingTE(id string) {
	v.visitingTEs = remove(v.visitingTEs, id)
	v.seenTEs = append(v.seenTEs, id)
}
func (v *visitorCenter) alreadySeenTE(id string) bool { return slices.Contains(v.seenTEs, id) }

func remove(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// VisitShapes visits expr and every shapeExpr/tripleExpr reachable from it,
// calling shapeF for each shapeExpr and teF for each tripleExpr reached
// through a Shape.expression. Labeled expressions are visited at most once;
// a reference back to an expression currently being visited cuts the cycle.
func (c *Context) VisitShapes(expr ast.ShapeExpr, shapeF ShapeVisitorFunc, teF TripleVisitorFunc, argCtx any) {
	c.visitShapes(expr, newVisitorCenter(shapeF, teF, argCtx))
}

func (c *Context) visitShapes(expr ast.ShapeExpr, vc *visitorCenter) {
	if expr == nil {
		return
	}
	id := expr.ID()
	hasID := id != nil
	if hasID && vc.alreadySeenShape(*id) {
		return
	}

	if hasID {
		vc.startVisitingShape(*id)
	}
	if vc.shapeF != nil {
		vc.shapeF(vc.argCtx, expr, c)
	}

	switch e := expr.(type) {
	case *ast.ShapeOr:
		for _, sub := range e.ShapeExprs {
			c.visitShapes(sub, vc)
		}
	case *ast.ShapeAnd:
		for _, sub := range e.ShapeExprs {
			c.visitShapes(sub, vc)
		}
	case *ast.ShapeNot:
		// Recurse on the operand, not on e itself: a ShapeNot's operand is
		// what actually needs visiting for nested references.
		c.visitShapes(e.ShapeExpr, vc)
	case *ast.Shape:
		if e.Expression != nil {
			c.visitTripleExpressions(e.Expression, vc)
		}
	case ast.ShapeRef:
		label := string(e)
		if !vc.activelyVisitingShape(label) {
			vc.startVisitingShape(label)
			if target, err := c.ShapeExprFor(label); err == nil {
				c.visitShapes(target, vc)
			}
			vc.doneVisitingShape(label)
		}
	}

	if hasID {
		vc.doneVisitingShape(*id)
	}
}

// VisitTripleExpressions visits expr and every tripleExpr/shapeExpr reachable
// from it, calling teF for each tripleExpr and shapeF for each shapeExpr
// reached through a TripleConstraint.valueExpr.
func (c *Context) VisitTripleExpressions(expr ast.TripleExpr, teF TripleVisitorFunc, shapeF ShapeVisitorFunc, argCtx any) {
	c.visitTripleExpressions(expr, newVisitorCenter(shapeF, teF, argCtx))
}

func (c *Context) visitTripleExpressions(expr ast.TripleExpr, vc *visitorCenter) {
	if expr == nil {
		return
	}
	id := expr.ID()
	hasID := id != nil
	// Guard on not-already-seen, mirroring visitShapes, so a tripleExpr
	// reached twice through different paths is still only visited once.
	if hasID && vc.alreadySeenTE(*id) {
		return
	}

	if hasID {
		vc.startVisitingTE(*id)
	}
	if vc.teF != nil {
		vc.teF(vc.argCtx, expr, c)
	}

	switch e := expr.(type) {
	case *ast.EachOf:
		for _, sub := range e.Expressions {
			c.visitTripleExpressions(sub, vc)
		}
	case *ast.OneOf:
		for _, sub := range e.Expressions {
			c.visitTripleExpressions(sub, vc)
		}
	case *ast.TripleConstraint:
		if e.ValueExpr != nil {
			c.visitShapes(e.ValueExpr, vc)
		}
	case ast.TripleExprRef:
		label := string(e)
		if !vc.activelyVisitingTE(label) {
			vc.startVisitingTE(label)
			if target, err := c.TripleExprFor(label); err == nil {
				c.visitTripleExpressions(target, vc)
			}
			vc.doneVisitingTE(label)
		}
	}

	if hasID {
		vc.doneVisitingTE(*id)
	}
}
