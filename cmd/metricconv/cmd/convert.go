package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"metricconverter"
)

var convertCmd = &cobra.Command{
	Use:   "convert <category> <value>",
	Short: "Convert a base-unit value into every unit of a category",
	Long: `Convert a value given in the category's base unit into every target unit.

Negative values must follow "--" so they are not read as flags:
  metricconv convert Temperature -- -10`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	table, err := activeTable()
	if err != nil {
		return err
	}
	engine := metricconverter.NewEngine(table)
	printResults(cmd, engine.ConvertAll(args[0], args[1]))
	return nil
}

func printResults(cmd *cobra.Command, results []metricconverter.Result) {
	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintln(out, r.String())
	}
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with their base unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := activeTable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range table.Categories() {
			fmt.Fprintf(out, "%s (%s)\n", name, table.BaseUnit(name))
		}
		return nil
	},
}
