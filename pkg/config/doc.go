// Package config loads the CLI's optional run configuration from YAML: a
// single struct of knobs with a defaults constructor, so a run can be
// described declaratively in a file instead of threading a growing list of
// flags through the command layer.
package config
