package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"metricconverter"
	"metricconverter/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect or export the active conversion table",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <db>",
	Short: "Save the active table into a SQLite catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := activeTable()
		if err != nil {
			return err
		}
		db, err := metricconverter.OpenCatalog(args[0])
		if err != nil {
			return err
		}
		defer db.Close()
		if err := metricconverter.SaveTable(db, table); err != nil {
			return err
		}
		logging.Logger.Info("catalog exported",
			zap.String("path", args[0]),
			zap.Int("categories", len(table.Categories())))
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every category and rule of the active table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := activeTable()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range table.Categories() {
			c, _ := table.Category(name)
			fmt.Fprintf(w, "%s\t%s\t\n", c.Name, c.BaseUnit)
			for _, r := range c.Rules {
				fmt.Fprintf(w, "\t%s\t%s\n", r.Unit, describeRule(r))
			}
		}
		return w.Flush()
	},
}

func describeRule(r metricconverter.Rule) string {
	switch r.Kind {
	case metricconverter.RuleScale:
		return "x " + metricconverter.FormatFloat(r.Rate)
	case metricconverter.RuleFunction:
		if r.Fn == nil {
			return "missing function " + r.FuncName
		}
		return r.FuncName
	}
	return "malformed"
}

func init() {
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}
