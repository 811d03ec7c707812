// Package main is the entry point for the metricconv CLI.
package main

import (
	"os"

	"metricconverter/cmd/metricconv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
