package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shexgo/shex/pkg/ast"
	"github.com/shexgo/shex/pkg/config"
	"github.com/shexgo/shex/pkg/rdf"
	"github.com/shexgo/shex/pkg/schemactx"
	"github.com/shexgo/shex/pkg/shapemap"
	"github.com/shexgo/shex/pkg/validator"
)

var version = "dev"

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute() error {
	rootCmd := newRootCmd()
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shexvalidate",
		Short: "shexvalidate - a Shape Expressions (ShEx) validator",
		Long: `shexvalidate checks RDF graphs against Shape Expressions (ShEx) schemas.

It provides:
  - A ShExJ schema loader
  - A minimal N-Triples graph loader
  - The ShEx validation algorithm: node-constraint, triple-expression, and
    shape-expression satisfaction, with cyclic-schema termination
  - A YAML-driven run configuration for repeatable validation runs`,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newValidateCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("shexvalidate version %s\n", version)
		},
	}
}

func newValidateCmd() *cobra.Command {
	var schemaPath, graphPath, shapeLabel, nodeIRI, configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a graph against a ShEx schema",
		Long: `Validate checks an RDF graph against a ShExJ schema, either for a single
node/shape pair given as flags or for every pair listed in a --config file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if configPath != "" {
				return runFromConfig(configPath)
			}
			if schemaPath == "" || graphPath == "" || nodeIRI == "" {
				return fmt.Errorf("either --config, or --schema, --graph, and --node, are required")
			}
			return runSinglePair(schemaPath, graphPath, nodeIRI, shapeLabel)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML run configuration")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a ShExJ schema file")
	cmd.Flags().StringVar(&graphPath, "graph", "", "path to an N-Triples graph file")
	cmd.Flags().StringVar(&nodeIRI, "node", "", "IRI of the node to validate")
	cmd.Flags().StringVar(&shapeLabel, "shape", "", "IRI of the shape to validate against (default: schema start)")

	return cmd
}

func runSinglePair(schemaPath, graphPath, nodeIRI, shapeLabel string) error {
	sctx, err := loadContext(schemaPath, graphPath)
	if err != nil {
		return err
	}

	pair := shapemap.ForStart(rdf.IRI(nodeIRI))
	if shapeLabel != "" {
		pair = shapemap.ForShape(rdf.IRI(nodeIRI), shapeLabel)
	}

	return report(validator.IsValid(context.Background(), sctx, shapemap.Map{pair}))
}

func runFromConfig(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", configPath, err)
	}

	sctx, err := loadContext(cfg.SchemaPath, cfg.GraphPath)
	if err != nil {
		return err
	}

	sm := make(shapemap.Map, 0, len(cfg.ShapeMap))
	for _, entry := range cfg.ShapeMap {
		if entry.Shape == "" {
			sm = append(sm, shapemap.ForStart(rdf.IRI(entry.Node)))
		} else {
			sm = append(sm, shapemap.ForShape(rdf.IRI(entry.Node), entry.Shape))
		}
	}

	ok, reasons := validator.IsValid(context.Background(), sctx, sm)
	if len(reasons) > cfg.MaxReasons && cfg.MaxReasons > 0 {
		reasons = reasons[:cfg.MaxReasons]
	}
	return report(ok, reasons)
}

func loadContext(schemaPath, graphPath string) (*schemactx.Context, error) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", schemaPath, err)
	}
	schema, err := ast.ParseSchema(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", schemaPath, err)
	}

	graphFile, err := os.Open(graphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph %s: %w", graphPath, err)
	}
	defer graphFile.Close()

	triples, err := rdf.ParseNTriples(graphFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph %s: %w", graphPath, err)
	}

	return schemactx.New(rdf.NewMemGraph(triples), schema), nil
}

func report(ok bool, reasons []string) error {
	if ok {
		fmt.Println("valid")
		return nil
	}
	fmt.Println("invalid")
	for _, r := range reasons {
		fmt.Println("  " + r)
	}
	os.Exit(1)
	return nil
}
