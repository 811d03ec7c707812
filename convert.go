package metricconverter

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	InvalidInput           = "Invalid input"
	ConversionNotAvailable = "Conversion not available"
)

type Result struct {
	Unit  string
	Value string
}

func (r Result) String() string {
	return "Result " + r.Unit + ": " + r.Value
}

type Engine struct {
	table *Table
}

func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

var defaultEngine = NewEngine(DefaultTable())

// ConvertAll converts rawInput with the built-in table.
func ConvertAll(category, rawInput string) []Result {
	return defaultEngine.ConvertAll(category, rawInput)
}

func (e *Engine) Table() *Table {
	return e.table
}

func (e *Engine) Categories() []string {
	return e.table.Categories()
}

// ConvertAll converts rawInput, expressed in the base unit of category, to
// every target unit in declared order. Bad input and unsupported categories
// are reported as a single sentinel result, never as an error.
func (e *Engine) ConvertAll(category, rawInput string) []Result {
	value, ok := ParseValue(rawInput)
	if !ok {
		return []Result{{Unit: InvalidInput}}
	}
	base := e.table.BaseUnit(category)
	if category == "" || base == "" {
		return []Result{{Unit: ConversionNotAvailable}}
	}
	rules, ok := e.table.rules(category, base)
	if !ok {
		return []Result{{Unit: ConversionNotAvailable}}
	}

	results := make([]Result, 0, len(rules))
	for _, r := range rules {
		converted, ok := r.Apply(value)
		if !ok {
			continue
		}
		results = append(results, Result{Unit: r.Unit, Value: FormatFloat(converted)})
	}
	return results
}

// numberSyntax is the accepted number grammar: optional sign, then NaN,
// Infinity, a decimal with optional exponent, or a hex float with a binary
// exponent. Decimal and hex forms may end in a single f/F/d/D suffix.
var numberSyntax = regexp.MustCompile(`^[+-]?(?:NaN|Infinity|` +
	`(?:(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?` +
	`|0[xX](?:[0-9a-fA-F]+\.?[0-9a-fA-F]*|\.[0-9a-fA-F]+)[pP][+-]?[0-9]+)[fFdD]?)$`)

// ParseValue parses a number, ignoring surrounding whitespace and control
// characters. Magnitudes outside float64 range become ±Inf or ±0.
func ParseValue(raw string) (float64, bool) {
	s := strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	if !numberSyntax.MatchString(s) {
		return 0, false
	}

	body := strings.TrimLeft(s, "+-")
	neg := strings.HasPrefix(s, "-")
	switch body {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		if neg {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	switch s[len(s)-1] {
	case 'f', 'F', 'd', 'D':
		// only a suffix can end in a letter here
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}
