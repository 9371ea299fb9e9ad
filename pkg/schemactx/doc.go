// Package schemactx holds the evaluation-time environment for a single ShEx
// schema: the label cross-reference maps built once at construction, and a
// cycle-aware visitor used for static analysis over the resulting tree.
//
// A Context borrows its graph and schema; it never mutates either. Its
// cross-reference maps are safe to share read-only across concurrent
// validations; per-call state (the assumption set of one Satisfies call)
// belongs to the shape evaluator, not the Context — see pkg/shapeeval.
package schemactx
