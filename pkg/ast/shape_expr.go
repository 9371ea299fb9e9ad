package ast

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/shexgo/shex/pkg/shexerr"
)

// ShapeExpr is the shapeExpr tagged union: ShapeOr, ShapeAnd, ShapeNot,
// Shape, NodeConstraint, or a ShapeRef back-edge.
type ShapeExpr interface {
	isShapeExpr()
	// ID returns the expression's optional label, or nil.
	ID() *string
}

// ShapeRef is a reference to a shapeExpr defined elsewhere in the schema,
// resolved through schemactx.Context. It is the only back-edge the AST ever
// contains; the tree itself stays acyclic.
type ShapeRef string

func (ShapeRef) isShapeExpr() {}

// ID always returns nil for a reference; the referenced expression carries
// its own id.
func (ShapeRef) ID() *string { return nil }

// ShapeOr is satisfied iff at least one operand is satisfied.
type ShapeOr struct {
	Id         *string
	ShapeExprs []ShapeExpr
}

func (*ShapeOr) isShapeExpr()   {}
func (s *ShapeOr) ID() *string { return s.Id }

// ShapeAnd is satisfied iff every operand is satisfied.
type ShapeAnd struct {
	Id         *string
	ShapeExprs []ShapeExpr
}

func (*ShapeAnd) isShapeExpr()   {}
func (s *ShapeAnd) ID() *string { return s.Id }

// ShapeNot is satisfied iff its operand is not.
type ShapeNot struct {
	Id        *string
	ShapeExpr ShapeExpr
}

func (*ShapeNot) isShapeExpr()   {}
func (s *ShapeNot) ID() *string { return s.Id }

// Shape constrains a node's outgoing (and, for inverse constraints, incoming)
// neighbourhood via a triple expression, plus closed/extra semantics.
type Shape struct {
	Id         *string
	Expression TripleExpr
	Closed     bool
	Extra      []string
}

func (*Shape) isShapeExpr()   {}
func (s *Shape) ID() *string { return s.Id }

// --- JSON decoding ---

type shapeOrAndWire struct {
	Id         *string           `json:"id,omitempty"`
	ShapeExprs []json.RawMessage `json:"shapeExprs"`
}

type shapeNotWire struct {
	Id        *string         `json:"id,omitempty"`
	ShapeExpr json.RawMessage `json:"shapeExpr"`
}

type shapeWire struct {
	Id         *string         `json:"id,omitempty"`
	Expression json.RawMessage `json:"expression,omitempty"`
	Closed     bool            `json:"closed,omitempty"`
	Extra      []string        `json:"extra,omitempty"`
}

// UnmarshalJSON decodes a ShapeOr object; dispatch to the concrete type
// happens in parseShapeExpr.
func (s *ShapeOr) UnmarshalJSON(data []byte) error {
	var w shapeOrAndWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("ShapeOr", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	s.Id = w.Id
	s.ShapeExprs = make([]ShapeExpr, 0, len(w.ShapeExprs))
	for _, raw := range w.ShapeExprs {
		se, err := parseShapeExpr(raw)
		if err != nil {
			return err
		}
		s.ShapeExprs = append(s.ShapeExprs, se)
	}
	return nil
}

// UnmarshalJSON decodes a ShapeAnd object.
func (s *ShapeAnd) UnmarshalJSON(data []byte) error {
	var w shapeOrAndWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("ShapeAnd", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	s.Id = w.Id
	s.ShapeExprs = make([]ShapeExpr, 0, len(w.ShapeExprs))
	for _, raw := range w.ShapeExprs {
		se, err := parseShapeExpr(raw)
		if err != nil {
			return err
		}
		s.ShapeExprs = append(s.ShapeExprs, se)
	}
	return nil
}

// UnmarshalJSON decodes a ShapeNot object.
func (s *ShapeNot) UnmarshalJSON(data []byte) error {
	var w shapeNotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("ShapeNot", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	s.Id = w.Id
	operand, err := parseShapeExpr(w.ShapeExpr)
	if err != nil {
		return err
	}
	s.ShapeExpr = operand
	return nil
}

// UnmarshalJSON decodes a Shape object.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var w shapeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("Shape", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	s.Id = w.Id
	s.Closed = w.Closed
	s.Extra = w.Extra
	if len(w.Expression) > 0 {
		te, err := parseTripleExpr(w.Expression)
		if err != nil {
			return err
		}
		s.Expression = te
	}
	return nil
}

// parseShapeExpr decodes one shapeExpr node, peeking the "type" discriminator
// (or recognizing a bare string as a ShapeRef) before committing to a
// concrete Go type.
func parseShapeExpr(data []byte) (ShapeExpr, error) {
	if isJSONString(data) {
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, shexerr.WrapPathf("shapeExpr", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		return ShapeRef(s), nil
	}

	typ, _ := jsonparser.GetString(data, "type")
	switch typ {
	case "ShapeOr":
		var s ShapeOr
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "ShapeAnd":
		var s ShapeAnd
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "ShapeNot":
		var s ShapeNot
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "Shape":
		var s Shape
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "NodeConstraint":
		var n NodeConstraint
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		return nil, shexerr.WrapPathf("shapeExpr", "%w: %q", shexerr.ErrUnknownVariant, typ)
	}
}
