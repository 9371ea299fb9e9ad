// Package shapeeval implements Satisfies(n, se), the shape-expression
// evaluator: ShapeAnd/ShapeOr/ShapeNot/NodeConstraint/Shape/ShapeRef
// dispatch, cyclic-reference termination via a positive-assumption set, and
// the closed/extra post-check for Shape. It owns the mutual recursion with
// pkg/tripleexpr: a Shape's triple expression is matched there, and every
// TripleConstraint.valueExpr it encounters recurses back into this
// package's own Satisfies through an injected callback.
package shapeeval
