package metricconverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAllLength(t *testing.T) {
	got := ConvertAll(CategoryLength, "1")
	assert.Equal(t, []Result{
		{"Kilometer", "0.001"},
		{"Hectometer", "0.01"},
		{"Decameter", "0.1"},
		{"Decimeter", "10.0"},
		{"Centimeter", "100.0"},
		{"Millimeter", "1000.0"},
	}, got)
}

func TestConvertAllMass(t *testing.T) {
	got := ConvertAll(CategoryMass, "1")
	assert.Equal(t, []Result{
		{"Ton", "0.001"},
		{"Hectogram", "10.0"},
		{"Decagram", "100.0"},
		{"Gram", "1000.0"},
		{"Decigram", "10000.0"},
		{"Centigram", "100000.0"},
		{"Milligram", "1000000.0"},
	}, got)

	got = ConvertAll(CategoryMass, "1e5")
	require.Len(t, got, 7)
	assert.Equal(t, Result{"Milligram", "1.0E11"}, got[6])
}

func TestConvertAllTemperature(t *testing.T) {
	assert.Equal(t, []Result{
		{"Celsius", "-273.15"},
		{"Fahrenheit", "-459.66999999999996"},
	}, ConvertAll(CategoryTemperature, "0"))

	assert.Equal(t, []Result{
		{"Celsius", "26.850000000000023"},
		{"Fahrenheit", "80.33000000000004"},
	}, ConvertAll(CategoryTemperature, "300"))
}

func TestConvertAllTime(t *testing.T) {
	assert.Equal(t, []Result{
		{"Minute", "1.0"},
		{"Hour", "0.016666666666666666"},
		{"Day", "6.944444444444444E-4"},
	}, ConvertAll(CategoryTime, "60"))

	assert.Equal(t, []Result{
		{"Minute", "0.016666666666666666"},
		{"Hour", "2.777777777777778E-4"},
		{"Day", "1.1574074074074073E-5"},
	}, ConvertAll(CategoryTime, "1"))
}

func TestConvertAllCurrentAndAmount(t *testing.T) {
	assert.Equal(t, []Result{
		{"Milliampere", "1500.0"},
		{"Microampere", "1500000.0"},
	}, ConvertAll(CategoryCurrent, "1.5"))

	assert.Equal(t, []Result{
		{"Millimole", "-2000.0"},
		{"Micromole", "-2000000.0"},
	}, ConvertAll(CategoryAmountOfSubstance, "-2"))
}

func TestConvertAllInvalidInput(t *testing.T) {
	want := []Result{{Unit: InvalidInput}}
	for _, in := range []string{
		"", "abc", "1.2.3", "--1", "1,5", "   ",
		"nan", "inf", "+Inf", "INF", "infinity", "NaNd", "1_0", "0x10", "1e", "1dd", ".", "e5",
	} {
		assert.Equal(t, want, ConvertAll(CategoryLength, in), "input %q", in)
	}
	// Input is checked before the category.
	assert.Equal(t, want, ConvertAll("", "abc"))
	assert.Equal(t, want, ConvertAll("Volume", ""))
}

func TestConvertAllUnavailable(t *testing.T) {
	want := []Result{{Unit: ConversionNotAvailable}}
	assert.Equal(t, want, ConvertAll("", "1"))
	assert.Equal(t, want, ConvertAll("Volume", "1"))
	assert.Equal(t, want, ConvertAll("length", "1"))
}

func TestConvertAllAcceptsSignsAndWhitespace(t *testing.T) {
	got := ConvertAll(CategoryLength, " +2.5\n")
	require.Len(t, got, 6)
	assert.Equal(t, Result{"Decimeter", "25.0"}, got[3])

	got = ConvertAll(CategoryLength, "-.4")
	require.Len(t, got, 6)
	assert.Equal(t, Result{"Decimeter", "-4.0"}, got[3])
}

func TestConvertAllAcceptsNumberSuffixesAndSpecials(t *testing.T) {
	for in, want := range map[string]string{
		"1d":        "0.001",
		"2.5f":      "0.0025",
		"1e3D":      "1.0",
		"0x1p10":    "1.024",
		"0x.8p1F":   "0.001",
		"5.":        "0.005",
		"Infinity":  "Infinity",
		"-Infinity": "-Infinity",
		"-NaN":      "NaN",
	} {
		got := ConvertAll(CategoryLength, in)
		require.Len(t, got, 6, "input %q", in)
		assert.Equal(t, Result{"Kilometer", want}, got[0], "input %q", in)
	}
}

func TestConvertAllOutOfRange(t *testing.T) {
	got := ConvertAll(CategoryLength, "1e400")
	require.Len(t, got, 6)
	assert.Equal(t, "Infinity", got[0].Value)
}

func TestConvertAllDeterministic(t *testing.T) {
	first := ConvertAll(CategoryTemperature, "12.5")
	_ = ConvertAll(CategoryMass, "12.5")
	assert.Equal(t, first, ConvertAll(CategoryTemperature, "12.5"))
}

func TestConvertAllEveryCategoryMatchesRules(t *testing.T) {
	table := DefaultTable()
	for _, name := range table.Categories() {
		c, ok := table.Category(name)
		require.True(t, ok)

		got := ConvertAll(name, "3.7")
		require.Len(t, got, len(c.Rules), name)
		for i, r := range c.Rules {
			want, ok := r.Apply(3.7)
			require.True(t, ok)
			assert.Equal(t, r.Unit, got[i].Unit)
			assert.Equal(t, FormatFloat(want), got[i].Value)
		}
	}
}

func TestConvertAllSkipsMalformedRules(t *testing.T) {
	table, err := NewTableBuilder().
		AddCategory("Length", "Meter").
		AddScale("Length", "Kilometer", 0.001).
		AddRule("Length", Rule{Unit: "Furlong"}).
		AddFunction("Length", "Broken", "missing", nil).
		AddScale("Length", "Centimeter", 100).
		Build()
	require.NoError(t, err)

	got := NewEngine(table).ConvertAll("Length", "2")
	assert.Equal(t, []Result{
		{"Kilometer", "0.002"},
		{"Centimeter", "200.0"},
	}, got)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "Result Kilometer: 0.001", Result{"Kilometer", "0.001"}.String())
	assert.Equal(t, "Result Invalid input: ", Result{Unit: InvalidInput}.String())
}

func TestEngineCategories(t *testing.T) {
	assert.Equal(t, []string{
		CategoryLength,
		CategoryMass,
		CategoryTemperature,
		CategoryTime,
		CategoryCurrent,
		CategoryAmountOfSubstance,
	}, NewEngine(DefaultTable()).Categories())
}
