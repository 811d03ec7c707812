package metricconverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableShape(t *testing.T) {
	table := DefaultTable()

	cases := map[string]struct {
		base    string
		targets []string
	}{
		CategoryLength:            {"Meter", []string{"Kilometer", "Hectometer", "Decameter", "Decimeter", "Centimeter", "Millimeter"}},
		CategoryMass:              {"Kilogram", []string{"Ton", "Hectogram", "Decagram", "Gram", "Decigram", "Centigram", "Milligram"}},
		CategoryTemperature:       {"Kelvin", []string{"Celsius", "Fahrenheit"}},
		CategoryTime:              {"Second", []string{"Minute", "Hour", "Day"}},
		CategoryCurrent:           {"Ampere", []string{"Milliampere", "Microampere"}},
		CategoryAmountOfSubstance: {"Mole", []string{"Millimole", "Micromole"}},
	}
	for name, want := range cases {
		c, ok := table.Category(name)
		require.True(t, ok, name)
		assert.Equal(t, want.base, c.BaseUnit, name)
		assert.Equal(t, want.base, table.BaseUnit(name), name)
		assert.Equal(t, want.targets, c.TargetUnits(), name)
	}

	_, ok := table.Category("Volume")
	assert.False(t, ok)
	assert.Empty(t, table.BaseUnit("Volume"))
}

func TestCategoryReturnsCopy(t *testing.T) {
	c, ok := DefaultTable().Category(CategoryLength)
	require.True(t, ok)
	c.Rules[0] = ScaleRule("Furlong", 1)

	again, _ := DefaultTable().Category(CategoryLength)
	assert.Equal(t, "Kilometer", again.Rules[0].Unit)
}

func TestTableBuilderErrors(t *testing.T) {
	_, err := NewTableBuilder().
		AddCategory("Length", "Meter").
		AddCategory("Length", "Meter").
		AddScale("Length", "Kilometer", 0.001).
		Build()
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = NewTableBuilder().
		AddCategory("Length", "Meter").
		AddScale("Length", "Kilometer", 0.001).
		AddScale("Length", "Kilometer", 0.002).
		Build()
	assert.ErrorIs(t, err, ErrDuplicateUnit)

	_, err = NewTableBuilder().
		AddCategory("Length", "").
		AddScale("Length", "Kilometer", 0.001).
		Build()
	assert.ErrorIs(t, err, ErrEmptyBaseUnit)

	_, err = NewTableBuilder().
		AddCategory("Length", "Meter").
		Build()
	assert.ErrorIs(t, err, ErrNoRules)

	_, err = NewTableBuilder().
		AddCategory("Length", "Meter").
		AddScale("Mass", "Gram", 1000).
		AddScale("Length", "Kilometer", 0.001).
		Build()
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBuilderDoesNotShareState(t *testing.T) {
	b := NewTableBuilder().
		AddCategory("Length", "Meter").
		AddScale("Length", "Kilometer", 0.001)
	table, err := b.Build()
	require.NoError(t, err)

	b.AddScale("Length", "Centimeter", 100)
	c, _ := table.Category("Length")
	assert.Equal(t, []string{"Kilometer"}, c.TargetUnits())
}

func TestRuleKinds(t *testing.T) {
	for _, k := range []RuleKind{RuleScale, RuleFunction, RuleUnknown} {
		assert.Equal(t, k, ParseRuleKind(k.String()))
	}
	assert.Equal(t, RuleUnknown, ParseRuleKind("lookup"))

	_, ok := ResolveFunction("Rankine", "kelvin_to_rankine").Apply(1)
	assert.False(t, ok)

	v, ok := ResolveFunction("Celsius", "kelvin_to_celsius").Apply(273.15)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}
