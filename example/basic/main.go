package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"metricconverter"
)

func main() {
	// Built-in table
	for _, r := range metricconverter.ConvertAll(metricconverter.CategoryTemperature, "300") {
		fmt.Println(r)
	}

	// Custom table with one extra category
	table, err := metricconverter.NewTableBuilder().
		AddCategory("Area", "SquareMeter").
		AddScale("Area", "Hectare", 0.0001).
		AddScale("Area", "SquareCentimeter", 10000).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	// Store it in a SQLite catalog and read it back
	dir, err := os.MkdirTemp("", "metricconverter")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	db, err := metricconverter.OpenCatalog(filepath.Join(dir, "catalog.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := metricconverter.SaveTable(db, table); err != nil {
		log.Fatal(err)
	}
	loaded, err := metricconverter.LoadTable(db)
	if err != nil {
		log.Fatal(err)
	}

	engine := metricconverter.NewEngine(loaded)
	for _, r := range engine.ConvertAll("Area", "25") {
		fmt.Println(r)
	}
}
