// Package shapemap holds the fixed shape map: the ordered list of
// node/shape-label pairs a validation run checks.
package shapemap
