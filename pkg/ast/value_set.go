package ast

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/shexgo/shex/pkg/rdf"
	"github.com/shexgo/shex/pkg/shexerr"
)

// ValueSetValue is one element of a NodeConstraint's value set.
type ValueSetValue interface {
	isValueSetValue()
}

// ObjectValue matches a node by exact equality.
type ObjectValue struct {
	Node rdf.Node
}

func (ObjectValue) isValueSetValue() {}

// StemValue is either a literal prefix string or the Wildcard sentinel,
// used by the *StemRange family.
type StemValue interface {
	isStemValue()
}

// StringStem is a literal prefix.
type StringStem string

func (StringStem) isStemValue() {}

// Wildcard matches any lexical form (subject to exclusions).
type Wildcard struct{}

func (Wildcard) isStemValue() {}

// IriStem matches any IRI whose lexical form starts with Stem.
type IriStem struct {
	Stem string
}

func (IriStem) isValueSetValue() {}

// IriStemRange is IriStem generalized to a Wildcard stem, with exclusions.
type IriStemRange struct {
	Stem       StemValue
	Exclusions []ValueSetValue // IriStem or IriStemRange
}

func (IriStemRange) isValueSetValue() {}

// LiteralStem matches any literal whose lexical form starts with Stem.
type LiteralStem struct {
	Stem string
}

func (LiteralStem) isValueSetValue() {}

// LiteralStemRange is LiteralStem generalized to a Wildcard stem, with exclusions.
type LiteralStemRange struct {
	Stem       StemValue
	Exclusions []ValueSetValue // LiteralStem or LiteralStemRange
}

func (LiteralStemRange) isValueSetValue() {}

// LanguageStem matches any language-tagged literal whose language tag starts
// with Stem.
type LanguageStem struct {
	Stem string
}

func (LanguageStem) isValueSetValue() {}

// LanguageStemRange is LanguageStem generalized to a Wildcard stem, with
// exclusions.
type LanguageStemRange struct {
	Stem       StemValue
	Exclusions []ValueSetValue // LanguageStem or LanguageStemRange
}

func (LanguageStemRange) isValueSetValue() {}

// wire structs mirror the ShExJ JSON encoding exactly.

type objectValueWire struct {
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`     // datatype IRI
	Language string `json:"language,omitempty"` // language tag
}

type stemWire struct {
	Type string `json:"type,omitempty"` // "IriStem", "LiteralStem", "LanguageStem", or absent for plain string/IRI
	Stem json.RawMessage `json:"stem,omitempty"`
	Exclusions []json.RawMessage `json:"exclusions,omitempty"`
}

func parseStemValue(data []byte) (StemValue, error) {
	if isJSONString(data) {
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, shexerr.WrapPathf("stem", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		return StringStem(s), nil
	}
	typ, _ := jsonparser.GetString(data, "type")
	if typ == "Wildcard" {
		return Wildcard{}, nil
	}
	return nil, shexerr.WrapPathf("stem", "%w: unrecognized stem value", shexerr.ErrUnknownVariant)
}

// parseValueSetValue decodes one element of a NodeConstraint.values list,
// peeking the "type" discriminator with jsonparser before committing to a
// concrete Go type rather than unmarshaling twice.
func parseValueSetValue(data []byte) (ValueSetValue, error) {
	if isJSONString(data) {
		// Bare IRI string shorthand for an ObjectValue.
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, shexerr.WrapPathf("values[]", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		return ObjectValue{Node: rdf.IRI(s)}, nil
	}

	typ, _ := jsonparser.GetString(data, "type")
	if _, _, _, err := jsonparser.Get(data, "value"); err == nil {
		// An object literal: its "type" is the datatype IRI, not a variant tag.
		typ = ""
	}
	switch typ {
	case "", "ObjectValue":
		var w objectValueWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, shexerr.WrapPathf("values[]", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		if w.Language != "" {
			return ObjectValue{Node: rdf.LangLiteral(w.Value, w.Language)}, nil
		}
		return ObjectValue{Node: rdf.Literal(w.Value, w.Type)}, nil
	case "IriStem":
		var w stemWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, shexerr.WrapPathf("values[]", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		stem, err := parseStemValue(w.Stem)
		if err != nil {
			return nil, err
		}
		s, _ := stem.(StringStem)
		return IriStem{Stem: string(s)}, nil
	case "LiteralStem":
		var w stemWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, shexerr.WrapPathf("values[]", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		stem, err := parseStemValue(w.Stem)
		if err != nil {
			return nil, err
		}
		s, _ := stem.(StringStem)
		return LiteralStem{Stem: string(s)}, nil
	case "LanguageStem":
		var w stemWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, shexerr.WrapPathf("values[]", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		stem, err := parseStemValue(w.Stem)
		if err != nil {
			return nil, err
		}
		s, _ := stem.(StringStem)
		return LanguageStem{Stem: string(s)}, nil
	case "IriStemRange", "LiteralStemRange", "LanguageStemRange":
		var w stemWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, shexerr.WrapPathf("values[]", "%v: %s", shexerr.ErrMalformedJSON, err)
		}
		stem, err := parseStemValue(w.Stem)
		if err != nil {
			return nil, err
		}
		excl := make([]ValueSetValue, 0, len(w.Exclusions))
		for _, raw := range w.Exclusions {
			v, err := parseValueSetValue(raw)
			if err != nil {
				return nil, err
			}
			excl = append(excl, v)
		}
		switch typ {
		case "IriStemRange":
			return IriStemRange{Stem: stem, Exclusions: excl}, nil
		case "LiteralStemRange":
			return LiteralStemRange{Stem: stem, Exclusions: excl}, nil
		default:
			return LanguageStemRange{Stem: stem, Exclusions: excl}, nil
		}
	default:
		return nil, shexerr.WrapPathf("values[]", "%w: %q", shexerr.ErrUnknownVariant, typ)
	}
}

func isJSONString(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '"':
			return true
		default:
			return false
		}
	}
	return false
}
