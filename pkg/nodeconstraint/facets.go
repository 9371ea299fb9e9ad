package nodeconstraint

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/shexgo/shex/pkg/ast"
)

// checkFacets evaluates every XSD facet present on f against the literal
// lexical form n. Numeric bound facets compare exact decimals (via
// shopspring/decimal) rather than float64, so a bound like "0.1" never
// admits binary floating-point rounding error.
func checkFacets(n string, f ast.Facets) (bool, string) {
	if f.Length != nil && len([]rune(n)) != *f.Length {
		return false, fmt.Sprintf("length %d != %d", len([]rune(n)), *f.Length)
	}
	if f.MinLength != nil && len([]rune(n)) < *f.MinLength {
		return false, fmt.Sprintf("length %d < minlength %d", len([]rune(n)), *f.MinLength)
	}
	if f.MaxLength != nil && len([]rune(n)) > *f.MaxLength {
		return false, fmt.Sprintf("length %d > maxlength %d", len([]rune(n)), *f.MaxLength)
	}

	if f.Pattern != "" {
		re, err := compilePattern(f.Pattern, f.Flags)
		if err != nil {
			return false, fmt.Sprintf("invalid pattern %q: %v", f.Pattern, err)
		}
		if !re.MatchString(n) {
			return false, fmt.Sprintf("%q does not match pattern %q", n, f.Pattern)
		}
	}

	if ok, reason := checkNumericFacets(n, f); !ok {
		return false, reason
	}

	return true, ""
}

func compilePattern(pattern, flags string) (*regexp.Regexp, error) {
	prefix := ""
	for _, fl := range flags {
		switch fl {
		case 'i':
			prefix += "i"
		case 's':
			prefix += "s"
		case 'm':
			prefix += "m"
		}
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	return regexp.Compile(pattern)
}

func checkNumericFacets(n string, f ast.Facets) (bool, string) {
	needsDecimal := f.MinInclusive != "" || f.MaxInclusive != "" || f.MinExclusive != "" || f.MaxExclusive != "" ||
		f.TotalDigits != nil || f.FractionDigits != nil
	if !needsDecimal {
		return true, ""
	}

	d, err := decimal.NewFromString(n)
	if err != nil {
		return false, fmt.Sprintf("%q is not a valid decimal", n)
	}

	if f.MinInclusive != "" {
		bound, err := decimal.NewFromString(f.MinInclusive)
		if err == nil && d.LessThan(bound) {
			return false, fmt.Sprintf("%s < mininclusive %s", d, bound)
		}
	}
	if f.MaxInclusive != "" {
		bound, err := decimal.NewFromString(f.MaxInclusive)
		if err == nil && d.GreaterThan(bound) {
			return false, fmt.Sprintf("%s > maxinclusive %s", d, bound)
		}
	}
	if f.MinExclusive != "" {
		bound, err := decimal.NewFromString(f.MinExclusive)
		if err == nil && !d.GreaterThan(bound) {
			return false, fmt.Sprintf("%s <= minexclusive %s", d, bound)
		}
	}
	if f.MaxExclusive != "" {
		bound, err := decimal.NewFromString(f.MaxExclusive)
		if err == nil && !d.LessThan(bound) {
			return false, fmt.Sprintf("%s >= maxexclusive %s", d, bound)
		}
	}
	if f.TotalDigits != nil {
		digits := countTotalDigits(d)
		if digits > *f.TotalDigits {
			return false, fmt.Sprintf("totaldigits %d > %d", digits, *f.TotalDigits)
		}
	}
	if f.FractionDigits != nil {
		if int(d.Exponent())*-1 > *f.FractionDigits {
			return false, fmt.Sprintf("fractiondigits exceeds %d", *f.FractionDigits)
		}
	}
	return true, ""
}

func countTotalDigits(d decimal.Decimal) int {
	coeff := d.Coefficient()
	s := coeff.String()
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
