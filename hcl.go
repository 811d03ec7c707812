package metricconverter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type hclTable struct {
	Categories []hclCategory `hcl:"category,block"`
}

type hclCategory struct {
	Name  string    `hcl:"name,label"`
	Base  string    `hcl:"base"`
	Units []hclUnit `hcl:"unit,block"`
}

type hclUnit struct {
	Name     string   `hcl:"name,label"`
	Rate     *float64 `hcl:"rate,optional"`
	Function *string  `hcl:"function,optional"`
}

func LoadTableHCL(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hcl table: read %s: %w", path, err)
	}
	return ParseTableHCL(src, path)
}

// ParseTableHCL reads category blocks, each with a base unit and unit
// blocks carrying either a rate or the name of a registered function.
func ParseTableHCL(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagsError(diags)
	}

	var raw hclTable
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diagsError(diags)
	}

	b := NewTableBuilder()
	for _, c := range raw.Categories {
		b.AddCategory(c.Name, c.Base)
		for _, u := range c.Units {
			switch {
			case u.Rate != nil && u.Function != nil:
				return nil, fmt.Errorf("hcl table: %s: unit %q in %q sets both rate and function", filename, u.Name, c.Name)
			case u.Rate != nil:
				b.AddScale(c.Name, u.Name, *u.Rate)
			case u.Function != nil:
				b.AddRule(c.Name, ResolveFunction(u.Name, *u.Function))
			default:
				return nil, fmt.Errorf("hcl table: %s: unit %q in %q needs a rate or a function", filename, u.Name, c.Name)
			}
		}
	}

	t, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("hcl table: %s: %w", filename, err)
	}
	return t, nil
}

func diagsError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		if diag.Subject != nil {
			return fmt.Errorf("hcl table: %s:%d: %s: %s",
				diag.Subject.Filename, diag.Subject.Start.Line, diag.Summary, diag.Detail)
		}
		return fmt.Errorf("hcl table: %s: %s", diag.Summary, diag.Detail)
	}
	return fmt.Errorf("hcl table: %s", diags.Error())
}

// LoadTableFile picks the loader by extension: .hcl files are HCL tables,
// anything else is opened as a SQLite catalog.
func LoadTableFile(path string) (*Table, error) {
	if filepath.Ext(path) == ".hcl" {
		return LoadTableHCL(path)
	}
	db, err := OpenCatalog(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return LoadTable(db)
}
