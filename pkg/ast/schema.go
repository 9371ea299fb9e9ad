package ast

import (
	"encoding/json"

	"github.com/shexgo/shex/pkg/shexerr"
)

// Schema is a parsed ShExJ document: an optional start shape and the list of
// top-level shapes it (transitively) references.
type Schema struct {
	Start  ShapeExpr
	Shapes []ShapeExpr
}

type schemaWire struct {
	Type   string            `json:"type"`
	Start  json.RawMessage   `json:"start,omitempty"`
	Shapes []json.RawMessage `json:"shapes,omitempty"`
}

// ParseSchema decodes a ShExJ JSON document into a Schema. Malformed JSON or
// an unrecognized AST variant is reported through the shexerr system-error
// channel, never as a validation outcome.
func ParseSchema(data []byte) (*Schema, error) {
	var w schemaWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, shexerr.WrapPathf("Schema", "%v: %s", shexerr.ErrMalformedJSON, err)
	}
	if w.Type != "" && w.Type != "Schema" {
		return nil, shexerr.WrapPathf("Schema", "%w: type %q", shexerr.ErrInvalidSchema, w.Type)
	}

	s := &Schema{}
	if len(w.Start) > 0 {
		start, err := parseShapeExpr(w.Start)
		if err != nil {
			return nil, err
		}
		s.Start = start
	}
	s.Shapes = make([]ShapeExpr, 0, len(w.Shapes))
	for i, raw := range w.Shapes {
		se, err := parseShapeExpr(raw)
		if err != nil {
			return nil, shexerr.WrapPathf("shapes[]", "shape %d: %s", i, err)
		}
		s.Shapes = append(s.Shapes, se)
	}
	return s, nil
}
