package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ShapeMapEntry is one node/shape-label pair as written in a run config's
// YAML shape map.
type ShapeMapEntry struct {
	Node  string `yaml:"node"`
	Shape string `yaml:"shape,omitempty"` // empty means START
}

// RunConfig configures one CLI validation run: which schema and graph to
// load, which pairs to check, and a few behavioral knobs.
//
//nolint:revive // keeping the RunConfig name consistent with the YAML schema
type RunConfig struct {
	// SchemaPath is the ShExJ schema file to load.
	SchemaPath string `yaml:"schemaPath"`
	// GraphPath is the N-Triples-like graph file to load; see pkg/rdf.
	GraphPath string `yaml:"graphPath"`
	// ShapeMap lists the node/shape pairs to validate.
	ShapeMap []ShapeMapEntry `yaml:"shapeMap"`
	// MaxReasons caps how many failure reason strings the CLI prints.
	MaxReasons int `yaml:"maxReasons"`
}

// DefaultRunConfig returns sensible defaults for fields a config file omits.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MaxReasons: 10,
	}
}

// Load reads and parses a RunConfig from a YAML file at path, applying
// DefaultRunConfig for any field the file does not set.
func Load(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
