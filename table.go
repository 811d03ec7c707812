package metricconverter

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrDuplicateUnit     = errors.New("duplicate target unit")
	ErrEmptyBaseUnit     = errors.New("category has no base unit")
	ErrNoRules           = errors.New("category has no target units")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Category is one measurement dimension: the base unit raw input is
// expressed in, and the rules to every target unit in declared order.
type Category struct {
	Name     string
	BaseUnit string
	Rules    []Rule
}

func (c Category) TargetUnits() []string {
	units := make([]string, 0, len(c.Rules))
	for _, r := range c.Rules {
		units = append(units, r.Unit)
	}
	return units
}

// Table is immutable once built. All accessors return copies.
type Table struct {
	categories []Category
	index      map[string]int
}

func (t *Table) Categories() []string {
	names := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		names = append(names, c.Name)
	}
	return names
}

func (t *Table) Category(name string) (Category, bool) {
	i, ok := t.index[name]
	if !ok {
		return Category{}, false
	}
	c := t.categories[i]
	c.Rules = append([]Rule(nil), c.Rules...)
	return c, true
}

func (t *Table) BaseUnit(category string) string {
	if i, ok := t.index[category]; ok {
		return t.categories[i].BaseUnit
	}
	return ""
}

// rules returns the target rules for base under category without copying.
func (t *Table) rules(category, base string) ([]Rule, bool) {
	i, ok := t.index[category]
	if !ok || t.categories[i].BaseUnit != base {
		return nil, false
	}
	return t.categories[i].Rules, true
}

type TableBuilder struct {
	categories []Category
	index      map[string]int
	errs       []error
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{
		index: make(map[string]int),
	}
}

func (b *TableBuilder) AddCategory(name, baseUnit string) *TableBuilder {
	if _, ok := b.index[name]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateCategory, name))
		return b
	}
	b.index[name] = len(b.categories)
	b.categories = append(b.categories, Category{Name: name, BaseUnit: baseUnit})
	return b
}

func (b *TableBuilder) AddScale(category, unit string, rate float64) *TableBuilder {
	return b.AddRule(category, ScaleRule(unit, rate))
}

func (b *TableBuilder) AddFunction(category, unit, name string, fn func(float64) float64) *TableBuilder {
	return b.AddRule(category, FunctionRule(unit, name, fn))
}

// AddRule appends rule to category. Malformed rules are kept; conversion
// skips them.
func (b *TableBuilder) AddRule(category string, rule Rule) *TableBuilder {
	i, ok := b.index[category]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrUnknownCategory, category))
		return b
	}
	c := &b.categories[i]
	for _, r := range c.Rules {
		if r.Unit == rule.Unit {
			b.errs = append(b.errs, fmt.Errorf("%w: %q in %q", ErrDuplicateUnit, rule.Unit, category))
			return b
		}
	}
	c.Rules = append(c.Rules, rule)
	return b
}

func (b *TableBuilder) Build() (*Table, error) {
	errs := append([]error(nil), b.errs...)
	for _, c := range b.categories {
		if c.BaseUnit == "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrEmptyBaseUnit, c.Name))
		}
		if len(c.Rules) == 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNoRules, c.Name))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	t := &Table{
		categories: make([]Category, len(b.categories)),
		index:      make(map[string]int, len(b.categories)),
	}
	for i, c := range b.categories {
		c.Rules = append([]Rule(nil), c.Rules...)
		t.categories[i] = c
		t.index[c.Name] = i
	}
	return t, nil
}
