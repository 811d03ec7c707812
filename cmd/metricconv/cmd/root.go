// Package cmd provides the metricconv commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"metricconverter"
	"metricconverter/internal/config"
	"metricconverter/internal/logging"
	convmsgpack "metricconverter/msgpack"
	convpb "metricconverter/pb"
	metricrpc "metricconverter/rpc"
)

var (
	cfgFile   string
	tablePath string
	verbose   bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "metricconv",
	Short: "Convert a value into every unit of its measurement category",
	Long: `metricconv converts a value given in a category's base unit into every
other unit of that category.

Examples:
  metricconv categories
  metricconv convert Length 1
  metricconv convert Temperature -- -10
  metricconv serve --config metricconv.yaml
  metricconv query Mass 2.5`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "HCL table file or SQLite catalog replacing the built-in table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(catalogCmd)
}

func initConfig() {
	cfg = config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if tablePath != "" {
		cfg.Table = tablePath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

func activeTable() (*metricconverter.Table, error) {
	if cfg.Table == "" {
		return metricconverter.DefaultTable(), nil
	}
	t, err := metricconverter.LoadTableFile(cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", cfg.Table, err)
	}
	logging.Logger.Debug("loaded table",
		zap.String("path", cfg.Table),
		zap.Strings("categories", t.Categories()))
	return t, nil
}

func codecFor(name string) (metricrpc.Codec, error) {
	switch name {
	case "msgpack":
		return convmsgpack.Codec{}, nil
	case "protobuf":
		return convpb.Codec{}, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}
