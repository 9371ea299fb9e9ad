// Package tripleexpr matches a node's arc neighbourhood against a
// tripleExpr: EachOf, OneOf, TripleConstraint, or a TripleExprRef back-edge.
// It never recurses into the shape-expression evaluator directly —
// valueExpr satisfaction is delegated through an injected ValueExprChecker so
// this package stays free of the import cycle that a direct dependency on
// the shape evaluator would create (the shape evaluator calls into this
// package too, for every Shape it dispatches).
package tripleexpr
