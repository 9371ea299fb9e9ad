// Package shexerr carries the engine's system-error channel: malformed
// schemas, malformed JSON, and graph-adapter failures. It is never used for
// validation outcomes (a node failing to satisfy a shape) — those are
// reported as human-readable reason strings by the validator package.
// System errors and validation outcomes are reported through separate
// channels: one signals that the engine could not run at all, the other
// that it ran and found the data non-conformant.
package shexerr

import (
	"errors"
	"fmt"
)

// PathError wraps an error with a location (typically an AST label or a JSON
// pointer-like path) for diagnostics.
type PathError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("at %s: %v", e.Path, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PathError) Unwrap() error {
	return e.Err
}

// WrapPath wraps an error with path context. Returns nil if err is nil.
func WrapPath(path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Path: path, Err: err}
}

// WrapPathf wraps an error with path context and a formatted message.
func WrapPathf(path string, format string, args ...any) error {
	return &PathError{Path: path, Err: fmt.Errorf(format, args...)}
}

// Sentinel errors for system-level failure modes.
var (
	// ErrMalformedJSON indicates the input bytes are not valid ShExJ JSON.
	ErrMalformedJSON = errors.New("malformed ShExJ JSON")
	// ErrInvalidSchema indicates a schema violates one of the AST invariants
	// (e.g. a label referenced by a Ref that the schema never defines).
	ErrInvalidSchema = errors.New("invalid ShEx schema")
	// ErrUnknownVariant indicates an unrecognized "type" discriminator.
	ErrUnknownVariant = errors.New("unknown AST variant")
	// ErrGraphAdapterPanic indicates a caller-supplied rdf.Graph panicked.
	ErrGraphAdapterPanic = errors.New("graph adapter panic")
	// ErrInvalidShapeMap indicates a shape map entry is malformed.
	ErrInvalidShapeMap = errors.New("invalid shape map")
)

// IsPathError reports whether err is or wraps a PathError.
func IsPathError(err error) bool {
	var pathErr *PathError
	return errors.As(err, &pathErr)
}

// GetPath extracts the path from a PathError, or returns the empty string.
func GetPath(err error) string {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return ""
}
