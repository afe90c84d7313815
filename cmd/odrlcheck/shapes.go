package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/odrl/rules"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
)

var shapesFlags struct {
	module string
}

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Print the compiled validation shapes",
	Long: `Print the shapes each rule module compiles, rendered as SHACL in Turtle.

The rendering documents what is checked; constraints without a SHACL core
equivalent appear as SPARQL-based targets or odrlcheck: extension terms.

Examples:
  odrlcheck shapes
  odrlcheck shapes --module Compatibility`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printShapes(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(shapesCmd)

	shapesCmd.Flags().StringVar(&shapesFlags.module, "module", "", fmt.Sprintf("only this module %v", rules.Names()))
}

func printShapes(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	modules := rules.Modules(reg)
	if shapesFlags.module != "" {
		m, err := rules.Lookup(reg, shapesFlags.module)
		if err != nil {
			return err
		}
		modules = []rules.Module{m}
	}

	var shapes []*shape.Shape
	for _, m := range modules {
		shapes = append(shapes, m.Compile()...)
	}
	_, err = io.WriteString(out, shape.Document(shapes...))
	return err
}
