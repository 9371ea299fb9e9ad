package nodeconstraint

import (
	"fmt"
	"strings"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
)

// reasonTruncateAt bounds how much of the value-set description is echoed
// back in a failure reason; schemas commonly carry value sets with dozens of
// entries and the reason is meant as a pointer for a human, not a full dump.
const reasonTruncateAt = 60

// NodeSatisfies decides whether n satisfies nc. On failure it returns
// a human-readable reason; reasons are never bit-exact beyond the "Node: ...
// not in value set:" prefix a value-set failure always begins with.
func NodeSatisfies(n rdf.Node, nc *ast.NodeConstraint) (bool, string) {
	if nc == nil {
		return true, ""
	}

	if nc.NodeKind != "" {
		if ok, reason := checkNodeKind(n, nc.NodeKind); !ok {
			return false, reason
		}
	}

	if nc.Datatype != "" {
		if !n.IsLiteral() || n.Datatype != nc.Datatype {
			return false, fmt.Sprintf("Node: %s does not have datatype %s", n, nc.Datatype)
		}
	}

	if nc.Facets.Any() {
		if ok, why := checkFacets(n.Lexical, nc.Facets); !ok {
			return false, fmt.Sprintf("Node: %s fails facet check: %s", n, why)
		}
	}

	if len(nc.Values) > 0 && !matchesValueSet(n, nc.Values) {
		return false, fmt.Sprintf("Node: %s not in value set:\n\t %s", n, truncate(describeValues(nc.Values), reasonTruncateAt))
	}

	return true, ""
}

func checkNodeKind(n rdf.Node, kind ast.NodeKind) (bool, string) {
	ok := false
	switch kind {
	case ast.KindIRI:
		ok = n.IsIRI()
	case ast.KindBNode:
		ok = n.IsBNode()
	case ast.KindLiteral:
		ok = n.IsLiteral()
	case ast.KindNonLiteral:
		ok = n.IsIRI() || n.IsBNode()
	default:
		ok = true
	}
	if !ok {
		return false, fmt.Sprintf("Node: %s does not have node kind %s", n, kind)
	}
	return true, ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// describeValues renders a value set as a compact JSON-ish string for
// diagnostics. It does not attempt to byte-match any particular schema's
// canonical serialization; callers should treat reason strings as a prefix
// to match against, not a byte-exact rendering.
func describeValues(values []ast.ValueSetValue) string {
	var b strings.Builder
	b.WriteString(`{"values": [`)
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(describeValue(v))
	}
	b.WriteString("]}")
	return b.String()
}

func describeValue(v ast.ValueSetValue) string {
	switch vv := v.(type) {
	case ast.ObjectValue:
		return fmt.Sprintf("%q", vv.Node.Lexical)
	case ast.IriStem:
		return fmt.Sprintf(`{"stem": %q}`, vv.Stem)
	case ast.LiteralStem:
		return fmt.Sprintf(`{"stem": %q}`, vv.Stem)
	case ast.LanguageStem:
		return fmt.Sprintf(`{"stem": %q}`, vv.Stem)
	case ast.IriStemRange:
		return fmt.Sprintf(`{"stem": %s, "exclusions": [%s]}`, describeStem(vv.Stem), describeExclusions(vv.Exclusions))
	case ast.LiteralStemRange:
		return fmt.Sprintf(`{"stem": %s, "exclusions": [%s]}`, describeStem(vv.Stem), describeExclusions(vv.Exclusions))
	case ast.LanguageStemRange:
		return fmt.Sprintf(`{"stem": %s, "exclusions": [%s]}`, describeStem(vv.Stem), describeExclusions(vv.Exclusions))
	default:
		return `{}`
	}
}

func describeStem(s ast.StemValue) string {
	switch st := s.(type) {
	case ast.Wildcard:
		return `{"type": "Wildcard"}`
	case ast.StringStem:
		return fmt.Sprintf("%q", string(st))
	default:
		return "null"
	}
}

func describeExclusions(exclusions []ast.ValueSetValue) string {
	var b strings.Builder
	for i, e := range exclusions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(describeValue(e))
	}
	return b.String()
}
