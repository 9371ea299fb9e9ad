package validator

import (
	"context"
	"fmt"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/schemactx"
	"github.com/shexgo/shex/pkg/shapeeval"
	"github.com/shexgo/shex/pkg/shapemap"
)

// IsValid checks every pair in sm against sctx, in order, returning the
// overall result and a list of human-readable failure reasons (empty on
// success). It fails fast: the first pair that does not hold aborts the
// remaining pairs. A graph-adapter panic is recovered here and reported as a
// reason prefixed "internal error: ", never as a Go error — IsValid's
// two-value contract carries no error return.
func IsValid(ctx context.Context, sctx *schemactx.Context, sm shapemap.Map) (ok bool, reasons []string) {
	defer func() {
		if r := recover(); r != nil {
			ok, reasons = false, []string{fmt.Sprintf("internal error: %v", r)}
		}
	}()

	ev := shapeeval.New(sctx)

	for _, pair := range sm {
		if err := ctx.Err(); err != nil {
			return false, []string{"cancelled"}
		}

		if pair.TriplePattern {
			return false, []string{fmt.Sprintf("%s: Triple patterns are not implemented", pair.Node)}
		}
		if pair.Label.IsBNode() {
			return false, []string{fmt.Sprintf("%s: BNode shape references are not implemented", pair.Label)}
		}

		se, reason := resolveLabel(sctx, pair.Label)
		if reason != "" {
			return false, []string{reason}
		}

		if satisfied, why := ev.Satisfies(pair.Node, se); !satisfied {
			return false, []string{why}
		}
	}
	return true, nil
}

// resolveLabel resolves a shapemap.Label to the shape expression it names,
// mirroring the distinct failure messages for an absent start shape versus
// an absent named shape.
func resolveLabel(sctx *schemactx.Context, label shapemap.Label) (ast.ShapeExpr, string) {
	if label.IsStart() {
		se, ok := sctx.StartShapeExpr()
		if !ok {
			return nil, "START node is not specified or is invalid"
		}
		return se, ""
	}
	se, err := sctx.ShapeExprFor(label.String())
	if err != nil {
		return nil, fmt.Sprintf("Shape: %s not found in Schema", label.String())
	}
	return se, ""
}
