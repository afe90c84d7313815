package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/server/handlers"
)

var operandsFlags struct {
	format string
}

var operandsCmd = &cobra.Command{
	Use:   "operands",
	Short: "List the known left operands",
	Long: `List the left operands the validator accepts, with the operators each
one is compatible with and the expected right-operand type.

Operands from registry.extensions_file are included.

Examples:
  odrlcheck operands
  odrlcheck operands --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listOperands(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(operandsCmd)

	operandsCmd.Flags().StringVar(&operandsFlags.format, "format", "text", "output format: text, json")
}

type operandList struct {
	handlers.OperandsResponse
}

func (l operandList) Text() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERAND\tOPERATORS\tVALUE TYPE")
	for _, op := range l.Operands {
		valueType := op.ValueType
		if i := strings.LastIndexAny(valueType, "#/"); i >= 0 {
			valueType = "xsd:" + valueType[i+1:]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Name, strings.Join(op.Operators, ", "), valueType)
	}
	tw.Flush()
	fmt.Fprintf(&sb, "\n%d operands\n", l.Count)
	return sb.String()
}

func listOperands(out io.Writer) error {
	format, err := cli.ParseFormat(operandsFlags.format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	list := operandList{handlers.NewOperandsResponse(reg)}
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(out, list.OperandsResponse)
	}
	return cli.NewFormatter(format).FormatTo(out, list)
}
