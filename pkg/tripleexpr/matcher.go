package tripleexpr

import (
	"fmt"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/rdf"
)

// ValueExprChecker decides whether n satisfies ve. The shape-expression
// evaluator supplies this; it is typically its own Satisfies function,
// closed over the evaluation's Context and assumptions set.
type ValueExprChecker func(n rdf.Node, ve ast.ShapeExpr) (bool, string)

// Resolver resolves a TripleExprRef label to the expression it names.
type Resolver func(label string) (ast.TripleExpr, error)

// Result is the outcome of matching a tripleExpr against an arc pool.
// ConsumedOut/ConsumedIn are the arcs the match used, so the caller's
// closed-shape check can identify which arcs remain unaccounted for.
type Result struct {
	OK          bool
	Reason      string
	ConsumedOut []rdf.Triple
	ConsumedIn  []rdf.Triple
}

func fail(reason string) Result { return Result{OK: false, Reason: reason} }

// Match decides whether expr is satisfied by some partition of arcsOut
// (outgoing arcs of the node under test) and arcsIn (incoming arcs, only
// consulted when expr contains an inverse TripleConstraint).
func Match(expr ast.TripleExpr, arcsOut, arcsIn []rdf.Triple, resolve Resolver, check ValueExprChecker) Result {
	switch e := expr.(type) {
	case *ast.TripleConstraint:
		return matchConstraint(e, arcsOut, arcsIn, check)
	case *ast.EachOf:
		return matchEachOf(e, arcsOut, arcsIn, resolve, check)
	case *ast.OneOf:
		return matchOneOf(e, arcsOut, arcsIn, resolve, check)
	case ast.TripleExprRef:
		te, err := resolve(string(e))
		if err != nil {
			return fail(fmt.Sprintf("tripleExpr reference %q not found: %v", string(e), err))
		}
		return Match(te, arcsOut, arcsIn, resolve, check)
	default:
		return fail("unrecognized triple expression")
	}
}

func matchConstraint(tc *ast.TripleConstraint, arcsOut, arcsIn []rdf.Triple, check ValueExprChecker) Result {
	pool := arcsOut
	if tc.Inverse {
		pool = arcsIn
	}

	max := tc.Max
	if max == ast.Unbounded {
		max = len(pool)
	}

	consumed := make([]rdf.Triple, 0, max)
	for _, a := range pool {
		if len(consumed) >= max {
			break
		}
		if a.Predicate != tc.Predicate {
			continue
		}
		term := a.Object
		if tc.Inverse {
			term = a.Subject
		}
		if tc.ValueExpr != nil {
			if ok, _ := check(term, tc.ValueExpr); !ok {
				continue
			}
		}
		consumed = append(consumed, a)
	}

	if len(consumed) < tc.Min {
		return fail(fmt.Sprintf("predicate %s: matched %d arcs, need at least %d", tc.Predicate, len(consumed), tc.Min))
	}

	res := Result{OK: true}
	if tc.Inverse {
		res.ConsumedIn = consumed
	} else {
		res.ConsumedOut = consumed
	}
	return res
}

func matchEachOf(e *ast.EachOf, arcsOut, arcsIn []rdf.Triple, resolve Resolver, check ValueExprChecker) Result {
	remainingOut := arcsOut
	remainingIn := arcsIn

	var totalOut, totalIn []rdf.Triple
	reps := 0
	for {
		roundOut, roundIn, ok := matchEachOfOnce(e.Expressions, remainingOut, remainingIn, resolve, check)
		if !ok {
			break
		}
		remainingOut = subtract(remainingOut, roundOut)
		remainingIn = subtract(remainingIn, roundIn)
		totalOut = append(totalOut, roundOut...)
		totalIn = append(totalIn, roundIn...)
		reps++
		if len(roundOut) == 0 && len(roundIn) == 0 {
			// A round that consumes no arcs matches the same way every time,
			// so it stands for all remaining repetitions.
			if reps < e.Min {
				reps = e.Min
			}
			break
		}
		if e.Max != ast.Unbounded && reps >= e.Max {
			break
		}
	}

	if reps < e.Min {
		return fail(fmt.Sprintf("EachOf: matched %d repetitions, need at least %d", reps, e.Min))
	}
	return Result{OK: true, ConsumedOut: totalOut, ConsumedIn: totalIn}
}

// matchEachOfOnce matches every sub-expression exactly once, searching over
// which arcs each sibling consumes when two or more of them could claim the
// same predicate. Siblings whose predicates are statically disjoint take the
// cheap path straight away (each claims its own maximal eligible subset, with
// nothing left to contest); siblings that share a predicate fall back to
// trying every eligible subset size, backtracking into earlier choices when
// a later sibling can't be satisfied from what's left.
func matchEachOfOnce(subs []ast.TripleExpr, arcsOut, arcsIn []rdf.Triple, resolve Resolver, check ValueExprChecker) ([]rdf.Triple, []rdf.Triple, bool) {
	contested := make([]bool, len(subs))
	for i := range subs {
		contested[i] = contendsWithSibling(subs, i)
	}
	return searchPartition(subs, contested, arcsOut, arcsIn, resolve, check)
}

// searchPartition assigns arcs to subs[0] and recurses on the rest, trying
// each of subs[0]'s candidate assignments in turn and backtracking to the
// next candidate whenever the remaining siblings can't be matched from what
// it left behind.
func searchPartition(subs []ast.TripleExpr, contested []bool, arcsOut, arcsIn []rdf.Triple, resolve Resolver, check ValueExprChecker) ([]rdf.Triple, []rdf.Triple, bool) {
	if len(subs) == 0 {
		return nil, nil, true
	}

	for _, opt := range candidateMatches(subs[0], contested[0], arcsOut, arcsIn, resolve, check) {
		remOut := subtract(arcsOut, opt.consumedOut)
		remIn := subtract(arcsIn, opt.consumedIn)
		restOut, restIn, ok := searchPartition(subs[1:], contested[1:], remOut, remIn, resolve, check)
		if !ok {
			continue
		}
		out := append(append([]rdf.Triple{}, opt.consumedOut...), restOut...)
		in := append(append([]rdf.Triple{}, opt.consumedIn...), restIn...)
		return out, in, true
	}
	return nil, nil, false
}

// matchOption is one way a single sub-expression can consume arcs out of a
// pool shared with its siblings.
type matchOption struct {
	consumedOut []rdf.Triple
	consumedIn  []rdf.Triple
}

// candidateMatches enumerates the ways expr can match a single repetition
// against the pool, for use by searchPartition's backtracking. A
// TripleConstraint with no sibling contending for its predicate reports only
// its maximal eligible subset, same as matchConstraint; a contested one
// reports every eligible subset from Max down to Min in size, so a partition
// that gives the right arcs to the right sibling can still be found.
// A tripleExprRef is resolved first and reported as its target would be.
// Compound sub-expressions (EachOf, OneOf) report only their own greedy
// match — exact as long as they don't themselves compete with a sibling over
// a shared predicate.
func candidateMatches(expr ast.TripleExpr, contested bool, arcsOut, arcsIn []rdf.Triple, resolve Resolver, check ValueExprChecker) []matchOption {
	if ref, isRef := expr.(ast.TripleExprRef); isRef {
		te, err := resolve(string(ref))
		if err != nil {
			return nil
		}
		return candidateMatches(te, contested, arcsOut, arcsIn, resolve, check)
	}

	tc, isTC := expr.(*ast.TripleConstraint)
	if !isTC {
		r := Match(expr, arcsOut, arcsIn, resolve, check)
		if !r.OK {
			return nil
		}
		return []matchOption{{consumedOut: r.ConsumedOut, consumedIn: r.ConsumedIn}}
	}

	eligible := eligibleArcs(tc, arcsOut, arcsIn, check)
	maxN := tc.Max
	if maxN == ast.Unbounded || maxN > len(eligible) {
		maxN = len(eligible)
	}
	if maxN < tc.Min {
		return nil
	}

	if !contested {
		return []matchOption{wrapSubset(tc, eligible[:maxN])}
	}

	var options []matchOption
	for size := maxN; size >= tc.Min; size-- {
		combinations(eligible, size, func(subset []rdf.Triple) {
			options = append(options, wrapSubset(tc, subset))
		})
	}
	return options
}

func eligibleArcs(tc *ast.TripleConstraint, arcsOut, arcsIn []rdf.Triple, check ValueExprChecker) []rdf.Triple {
	pool := arcsOut
	if tc.Inverse {
		pool = arcsIn
	}
	var eligible []rdf.Triple
	for _, a := range pool {
		if a.Predicate != tc.Predicate {
			continue
		}
		term := a.Object
		if tc.Inverse {
			term = a.Subject
		}
		if tc.ValueExpr != nil {
			if ok, _ := check(term, tc.ValueExpr); !ok {
				continue
			}
		}
		eligible = append(eligible, a)
	}
	return eligible
}

func wrapSubset(tc *ast.TripleConstraint, subset []rdf.Triple) matchOption {
	if tc.Inverse {
		return matchOption{consumedIn: subset}
	}
	return matchOption{consumedOut: subset}
}

// combinations calls f once for every size-length subset of items, in the
// order items appear.
func combinations(items []rdf.Triple, size int, f func([]rdf.Triple)) {
	if size == 0 {
		f(nil)
		return
	}
	if size > len(items) {
		return
	}
	var pick func(start int, chosen []rdf.Triple)
	pick = func(start int, chosen []rdf.Triple) {
		if len(chosen) == size {
			out := make([]rdf.Triple, len(chosen))
			copy(out, chosen)
			f(out)
			return
		}
		for i := start; i < len(items); i++ {
			pick(i+1, append(chosen, items[i]))
		}
	}
	pick(0, nil)
}

// contendsWithSibling reports whether subs[idx] might compete with another
// sub-expression in subs for the same predicate. A compound sub-expression
// whose predicates aren't statically known (a tripleExprRef, transitively)
// is treated as contested with everything, to stay on the safe, searched
// path rather than risk a greedy shortcut stealing a sibling's arc.
func contendsWithSibling(subs []ast.TripleExpr, idx int) bool {
	preds, ok := staticPredicates(subs[idx])
	if !ok {
		return true
	}
	for i, other := range subs {
		if i == idx {
			continue
		}
		otherPreds, ok := staticPredicates(other)
		if !ok {
			return true
		}
		for _, p := range preds {
			for _, q := range otherPreds {
				if p == q {
					return true
				}
			}
		}
	}
	return false
}

// staticPredicates collects the predicates a tripleExpr constrains without
// consulting the graph. ok is false when the predicate set can't be
// determined statically (a tripleExprRef needs a Resolver to look through).
func staticPredicates(te ast.TripleExpr) (preds []string, ok bool) {
	switch e := te.(type) {
	case *ast.TripleConstraint:
		return []string{e.Predicate}, true
	case *ast.EachOf:
		return collectPredicates(e.Expressions)
	case *ast.OneOf:
		return collectPredicates(e.Expressions)
	default:
		return nil, false
	}
}

func collectPredicates(subs []ast.TripleExpr) ([]string, bool) {
	var all []string
	for _, s := range subs {
		p, ok := staticPredicates(s)
		if !ok {
			return nil, false
		}
		all = append(all, p...)
	}
	return all, true
}

func matchOneOf(o *ast.OneOf, arcsOut, arcsIn []rdf.Triple, resolve Resolver, check ValueExprChecker) Result {
	remainingOut := arcsOut
	remainingIn := arcsIn

	var totalOut, totalIn []rdf.Triple
	reps := 0
	for {
		matchedThisRound := false
		emptyRound := false
		for _, sub := range o.Expressions {
			r := Match(sub, remainingOut, remainingIn, resolve, check)
			if r.OK && (len(r.ConsumedOut) > 0 || len(r.ConsumedIn) > 0 || len(o.Expressions) == 1) {
				remainingOut = subtract(remainingOut, r.ConsumedOut)
				remainingIn = subtract(remainingIn, r.ConsumedIn)
				totalOut = append(totalOut, r.ConsumedOut...)
				totalIn = append(totalIn, r.ConsumedIn...)
				matchedThisRound = true
				emptyRound = len(r.ConsumedOut) == 0 && len(r.ConsumedIn) == 0
				break
			}
		}
		if !matchedThisRound {
			break
		}
		reps++
		if emptyRound {
			// An empty match repeats identically; it stands for all
			// remaining repetitions.
			if reps < o.Min {
				reps = o.Min
			}
			break
		}
		if o.Max != ast.Unbounded && reps >= o.Max {
			break
		}
	}

	if reps < o.Min {
		return fail(fmt.Sprintf("OneOf: matched %d repetitions, need at least %d", reps, o.Min))
	}
	return Result{OK: true, ConsumedOut: totalOut, ConsumedIn: totalIn}
}

// subtract removes, in order, the elements of used from pool. Triple is a
// plain value type so equality is structural.
func subtract(pool, used []rdf.Triple) []rdf.Triple {
	if len(used) == 0 {
		return pool
	}
	removed := make(map[rdf.Triple]int, len(used))
	for _, u := range used {
		removed[u]++
	}
	out := make([]rdf.Triple, 0, len(pool))
	for _, t := range pool {
		if removed[t] > 0 {
			removed[t]--
			continue
		}
		out = append(out, t)
	}
	return out
}
