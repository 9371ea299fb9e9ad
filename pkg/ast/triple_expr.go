package ast

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/shexgo/shex/pkg/shexerr"
)

// TripleExpr is the tripleExpr tagged union: EachOf, OneOf, TripleConstraint,
// or a TripleExprRef back-edge.
type TripleExpr interface {
	isTripleExpr()
	ID() *string
}

// TripleExprRef is a reference to a tripleExpr defined elsewhere in the
// schema, resolved through schemactx.Context.
type TripleExprRef string

func (TripleExprRef) isTripleExpr()  {}
func (TripleExprRef) ID() *string    { return nil }

// EachOf requires every sub-expression to be satisfied by a disjoint part of
// the arc set, as a whole repeated between Min and Max times.
type EachOf struct {
	Id          *string
	Expressions []TripleExpr
	Min, Max    int
}

func (*EachOf) isTripleExpr()  {}
func (e *EachOf) ID() *string { return e.Id }

// OneOf requires exactly one sub-expression to be satisfied per repetition,
// repeated between Min and Max times.
type OneOf struct {
	Id          *string
	Expressions []TripleExpr
	Min, Max    int
}

func (*OneOf) isTripleExpr()  {}
func (o *OneOf) ID() *string { return o.Id }

// TripleConstraint matches between Min and Max arcs with Predicate (or, if
// Inverse, incoming arcs with Predicate), each required to satisfy ValueExpr.
type TripleConstraint struct {
	Id        *string
	Predicate string
	ValueExpr ShapeExpr
	Min, Max  int
	Inverse   bool
}

func (*TripleConstraint) isTripleExpr()  {}
func (t *TripleConstraint) ID() *string { return t.Id }

// --- JSON decoding ---

type eachOrOneOfWire struct {
	Id          *string           `json:"id,omitempty"`
	Expressions []json.RawMessage `json:"expressions"`
	Min         *int              `json:"min,omitempty"`
	Max         json.RawMessage   `json:"max,omitempty"`
}

type tripleConstraintWire struct {
	Id        *string         `json:"id,omitempty"`
	Predicate string          `json:"predicate"`
	ValueExpr json.RawMessage `json:"valueExpr,omitempty"`
	Min       *int            `json:"min,omitempty"`
	Max       json.RawMessage `json:"max,omitempty"`
	Inverse   bool            `json:"inverse,omitempty"`
}

// parseCardinality decodes a ShExJ max value: absent means 1, the string
// "*" or the integer -1 both mean Unbounded.
func parseCardinality(raw json.RawMessage, def int) (int, error) {
	if len(raw) == 0 {
		return def, nil
	}
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return asInt, nil
	}
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		if asStr == "*" {
			return Unbounded, nil
		}
		return 0, shexerr.WrapPathf("max", "%w: %q", shexerr.ErrMalformedJSON, asStr)
	}
	return 0, shexerr.WrapPathf("max", "%v", shexerr.ErrMalformedJSON)
}

func minOrDefault(m *int, def int) int {
	if m == nil {
		return def
	}
	return *m
}

func (e *EachOf) UnmarshalJSON(data []byte) error {
	var w eachOrOneOfWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("EachOf", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	e.Id = w.Id
	e.Min = minOrDefault(w.Min, 1)
	max, err := parseCardinality(w.Max, 1)
	if err != nil {
		return err
	}
	e.Max = max
	e.Expressions = make([]TripleExpr, 0, len(w.Expressions))
	for _, raw := range w.Expressions {
		te, err := parseTripleExpr(raw)
		if err != nil {
			return err
		}
		e.Expressions = append(e.Expressions, te)
	}
	return nil
}

func (o *OneOf) UnmarshalJSON(data []byte) error {
	var w eachOrOneOfWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("OneOf", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	o.Id = w.Id
	o.Min = minOrDefault(w.Min, 1)
	max, err := parseCardinality(w.Max, 1)
	if err != nil {
		return err
	}
	o.Max = max
	o.Expressions = make([]TripleExpr, 0, len(w.Expressions))
	for _, raw := range w.Expressions {
		te, err := parseTripleExpr(raw)
		if err != nil {
			return err
		}
		o.Expressions = append(o.Expressions, te)
	}
	return nil
}

func (t *TripleConstraint) UnmarshalJSON(data []byte) error {
	var w tripleConstraintWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("TripleConstraint", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	t.Id = w.Id
	t.Predicate = w.Predicate
	t.Inverse = w.Inverse
	t.Min = minOrDefault(w.Min, 1)
	max, err := parseCardinality(w.Max, 1)
	if err != nil {
		return err
	}
	t.Max = max
	if len(w.ValueExpr) > 0 {
		ve, err := parseShapeExpr(w.ValueExpr)
		if err != nil {
			return err
		}
		t.ValueExpr = ve
	}
	return nil
}

// parseTripleExpr decodes one tripleExpr node, peeking the "type"
// discriminator (or recognizing a bare string as a TripleExprRef).
func parseTripleExpr(data []byte) (TripleExpr, error) {
	if isJSONString(data) {
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, shexerr.WrapPathf("tripleExpr", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		return TripleExprRef(s), nil
	}

	typ, _ := jsonparser.GetString(data, "type")
	switch typ {
	case "EachOf":
		var e EachOf
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case "OneOf":
		var o OneOf
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, err
		}
		return &o, nil
	case "TripleConstraint":
		var t TripleConstraint
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, shexerr.WrapPathf("tripleExpr", "%w: %q", shexerr.ErrUnknownVariant, typ)
	}
}
