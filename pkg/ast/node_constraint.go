package ast

import (
	"encoding/json"

	"github.com/shexgo/shex/pkg/shexerr"
)

// Facets holds the XSD-style constraints a NodeConstraint may carry.
// Numeric bound facets are kept as their original lexical form so the
// nodeconstraint package can compare them as exact decimals rather than
// float64.
type Facets struct {
	Length    *int
	MinLength *int
	MaxLength *int

	Pattern string
	Flags   string

	MinInclusive string
	MaxInclusive string
	MinExclusive string
	MaxExclusive string

	TotalDigits    *int
	FractionDigits *int
}

// Any reports whether at least one facet is set.
func (f Facets) Any() bool {
	return f.Length != nil || f.MinLength != nil || f.MaxLength != nil ||
		f.Pattern != "" ||
		f.MinInclusive != "" || f.MaxInclusive != "" || f.MinExclusive != "" || f.MaxExclusive != "" ||
		f.TotalDigits != nil || f.FractionDigits != nil
}

// NodeConstraint is a leaf shapeExpr constraining node kind, datatype,
// facets, and/or value-set membership.
type NodeConstraint struct {
	Id       *string
	NodeKind NodeKind
	Datatype string
	Facets   Facets
	Values   []ValueSetValue
}

func (*NodeConstraint) isShapeExpr() {}

// ID implements ShapeExpr.
func (n *NodeConstraint) ID() *string { return n.Id }

type nodeConstraintWire struct {
	Id       *string `json:"id,omitempty"`
	Type     string  `json:"type"`
	NodeKind string  `json:"nodeKind,omitempty"`
	Datatype string  `json:"datatype,omitempty"`

	Length    *int `json:"length,omitempty"`
	MinLength *int `json:"minlength,omitempty"`
	MaxLength *int `json:"maxlength,omitempty"`

	Pattern string `json:"pattern,omitempty"`
	Flags   string `json:"flags,omitempty"`

	MinInclusive json.Number `json:"mininclusive,omitempty"`
	MaxInclusive json.Number `json:"maxinclusive,omitempty"`
	MinExclusive json.Number `json:"minexclusive,omitempty"`
	MaxExclusive json.Number `json:"maxexclusive,omitempty"`

	TotalDigits    *int `json:"totaldigits,omitempty"`
	FractionDigits *int `json:"fractiondigits,omitempty"`

	Values []json.RawMessage `json:"values,omitempty"`
}

// UnmarshalJSON decodes a ShExJ NodeConstraint object.
func (n *NodeConstraint) UnmarshalJSON(data []byte) error {
	var w nodeConstraintWire
	if err := json.Unmarshal(data, &w); err != nil {
		return shexerr.WrapPathf("NodeConstraint", "%v: %s", shexerr.ErrMalformedJSON, err)
	}

	n.Id = w.Id
	n.NodeKind = NodeKind(w.NodeKind)
	n.Datatype = w.Datatype
	n.Facets = Facets{
		Length:         w.Length,
		MinLength:      w.MinLength,
		MaxLength:      w.MaxLength,
		Pattern:        w.Pattern,
		Flags:          w.Flags,
		MinInclusive:   w.MinInclusive.String(),
		MaxInclusive:   w.MaxInclusive.String(),
		MinExclusive:   w.MinExclusive.String(),
		MaxExclusive:   w.MaxExclusive.String(),
		TotalDigits:    w.TotalDigits,
		FractionDigits: w.FractionDigits,
	}

	if len(w.Values) > 0 {
		n.Values = make([]ValueSetValue, 0, len(w.Values))
		for _, raw := range w.Values {
			v, err := parseValueSetValue(raw)
			if err != nil {
				return err
			}
			n.Values = append(n.Values, v)
		}
	}
	return nil
}
