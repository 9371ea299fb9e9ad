package schemactx

import (
	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
	"github.com/shexgo/shex/pkg/shexerr"
)

// Context is the environment for evaluating one ShEx schema against one
// graph: it borrows both, and owns the label -> expression cross-reference
// maps built eagerly at construction.
type Context struct {
	Graph  rdf.Graph
	Schema *ast.Schema

	shapeIDMap map[string]ast.ShapeExpr
	teIDMap    map[string]ast.TripleExpr
}

// New builds a Context from a borrowed graph and schema, generating the
// cross-reference maps by a single recursive descent from schema.Start and
// each element of schema.Shapes. Build is linear in AST size.
func New(g rdf.Graph, s *ast.Schema) *Context {
	c := &Context{
		Graph:      g,
		Schema:     s,
		shapeIDMap: make(map[string]ast.ShapeExpr),
		teIDMap:    make(map[string]ast.TripleExpr),
	}
	if s.Start != nil {
		c.genSchemaXref(s.Start)
	}
	for _, se := range s.Shapes {
		c.genSchemaXref(se)
	}
	return c
}

func (c *Context) genSchemaXref(expr ast.ShapeExpr) {
	if expr == nil {
		return
	}
	if id := expr.ID(); id != nil {
		c.shapeIDMap[*id] = expr
	}
	switch e := expr.(type) {
	case *ast.ShapeOr:
		for _, sub := range e.ShapeExprs {
			c.genSchemaXref(sub)
		}
	case *ast.ShapeAnd:
		for _, sub := range e.ShapeExprs {
			c.genSchemaXref(sub)
		}
	case *ast.ShapeNot:
		// Recurse on the operand, not on e itself: a ShapeNot's operand is
		// what actually needs visiting for nested references.
		c.genSchemaXref(e.ShapeExpr)
	case *ast.Shape:
		if e.Expression != nil {
			c.genTEXref(e.Expression)
		}
	}
}

func (c *Context) genTEXref(expr ast.TripleExpr) {
	if expr == nil {
		return
	}
	if id := expr.ID(); id != nil {
		c.teIDMap[*id] = expr
	}
	switch e := expr.(type) {
	case *ast.EachOf:
		for _, sub := range e.Expressions {
			c.genTEXref(sub)
		}
	case *ast.OneOf:
		for _, sub := range e.Expressions {
			c.genTEXref(sub)
		}
	case *ast.TripleConstraint:
		if e.ValueExpr != nil {
			c.genSchemaXref(e.ValueExpr)
		}
	}
}

// ShapeExprFor resolves a shapeExprLabel to the expression it names.
func (c *Context) ShapeExprFor(label string) (ast.ShapeExpr, error) {
	se, ok := c.shapeIDMap[label]
	if !ok {
		return nil, shexerr.WrapPathf(label, "%w", shexerr.ErrInvalidSchema)
	}
	return se, nil
}

// TripleExprFor resolves a tripleExprLabel to the expression it names.
func (c *Context) TripleExprFor(label string) (ast.TripleExpr, error) {
	te, ok := c.teIDMap[label]
	if !ok {
		return nil, shexerr.WrapPathf(label, "%w", shexerr.ErrInvalidSchema)
	}
	return te, nil
}

// StartShapeExpr resolves the schema's start shape, if any.
func (c *Context) StartShapeExpr() (ast.ShapeExpr, bool) {
	if c.Schema.Start == nil {
		return nil, false
	}
	return c.Schema.Start, true
}
