package nodeconstraint

import (
	"strings"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
)

// matchesValueSet reports whether n matches any element of values.
func matchesValueSet(n rdf.Node, values []ast.ValueSetValue) bool {
	for _, v := range values {
		if matchesValue(n, v) {
			return true
		}
	}
	return false
}

func matchesValue(n rdf.Node, v ast.ValueSetValue) bool {
	switch vv := v.(type) {
	case ast.ObjectValue:
		return n.Equal(vv.Node)
	case ast.IriStem:
		return n.IsIRI() && strings.HasPrefix(n.Lexical, vv.Stem)
	case ast.IriStemRange:
		if !n.IsIRI() {
			// A Wildcard stem admits any node; exclusions only name IRIs.
			_, wild := vv.Stem.(ast.Wildcard)
			return wild
		}
		return matchesStemRange(n.Lexical, vv.Stem, vv.Exclusions, matchesIriExclusion)
	case ast.LiteralStem:
		return n.IsLiteral() && strings.HasPrefix(n.Lexical, vv.Stem)
	case ast.LiteralStemRange:
		if !n.IsLiteral() {
			return false
		}
		return matchesStemRange(n.Lexical, vv.Stem, vv.Exclusions, matchesLiteralExclusion)
	case ast.LanguageStem:
		return n.IsLiteral() && strings.HasPrefix(n.Lang, vv.Stem)
	case ast.LanguageStemRange:
		if !n.IsLiteral() {
			return false
		}
		return matchesStemRange(n.Lang, vv.Stem, vv.Exclusions, matchesLanguageExclusion)
	default:
		return false
	}
}

// matchesStemRange reports whether lexical matches stem (a literal prefix or
// Wildcard) and is not matched by any exclusion. Exclusions are tested in
// order but the answer is independent of order.
func matchesStemRange(lexical string, stem ast.StemValue, exclusions []ast.ValueSetValue, excludes func(string, ast.ValueSetValue) bool) bool {
	matchesStem := false
	switch s := stem.(type) {
	case ast.Wildcard:
		matchesStem = true
	case ast.StringStem:
		matchesStem = strings.HasPrefix(lexical, string(s))
	}
	if !matchesStem {
		return false
	}
	for _, excl := range exclusions {
		if excludes(lexical, excl) {
			return false
		}
	}
	return true
}

func matchesIriExclusion(lexical string, v ast.ValueSetValue) bool {
	switch e := v.(type) {
	case ast.IriStem:
		return strings.HasPrefix(lexical, e.Stem)
	case ast.IriStemRange:
		return matchesStemRange(lexical, e.Stem, e.Exclusions, matchesIriExclusion)
	default:
		return false
	}
}

func matchesLiteralExclusion(lexical string, v ast.ValueSetValue) bool {
	switch e := v.(type) {
	case ast.LiteralStem:
		return strings.HasPrefix(lexical, e.Stem)
	case ast.LiteralStemRange:
		return matchesStemRange(lexical, e.Stem, e.Exclusions, matchesLiteralExclusion)
	default:
		return false
	}
}

func matchesLanguageExclusion(lang string, v ast.ValueSetValue) bool {
	switch e := v.(type) {
	case ast.LanguageStem:
		return strings.HasPrefix(lang, e.Stem)
	case ast.LanguageStemRange:
		return matchesStemRange(lang, e.Stem, e.Exclusions, matchesLanguageExclusion)
	default:
		return false
	}
}
