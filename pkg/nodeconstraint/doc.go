// Package nodeconstraint decides whether a single RDF node satisfies a leaf
// NodeConstraint: node kind, datatype, XSD facets, and value-set membership.
package nodeconstraint
