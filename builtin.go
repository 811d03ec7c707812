package metricconverter

const (
	CategoryLength            = "Length"
	CategoryMass              = "Mass"
	CategoryTemperature       = "Temperature"
	CategoryTime              = "Time"
	CategoryCurrent           = "Current"
	CategoryAmountOfSubstance = "AmountOfSubstance"
)

var defaultTable = mustBuildDefault()

// DefaultTable returns the built-in conversion table. The same table is
// shared by every caller.
func DefaultTable() *Table {
	return defaultTable
}

func mustBuildDefault() *Table {
	b := NewTableBuilder()

	b.AddCategory(CategoryLength, "Meter").
		AddScale(CategoryLength, "Kilometer", 0.001).
		AddScale(CategoryLength, "Hectometer", 0.01).
		AddScale(CategoryLength, "Decameter", 0.1).
		AddScale(CategoryLength, "Decimeter", 10.0).
		AddScale(CategoryLength, "Centimeter", 100.0).
		AddScale(CategoryLength, "Millimeter", 1000.0)

	b.AddCategory(CategoryMass, "Kilogram").
		AddScale(CategoryMass, "Ton", 0.001).
		AddScale(CategoryMass, "Hectogram", 10.0).
		AddScale(CategoryMass, "Decagram", 100.0).
		AddScale(CategoryMass, "Gram", 1000.0).
		AddScale(CategoryMass, "Decigram", 10000.0).
		AddScale(CategoryMass, "Centigram", 100000.0).
		AddScale(CategoryMass, "Milligram", 1000000.0)

	b.AddCategory(CategoryTemperature, "Kelvin").
		AddFunction(CategoryTemperature, "Celsius", "kelvin_to_celsius", KelvinToCelsius).
		AddFunction(CategoryTemperature, "Fahrenheit", "kelvin_to_fahrenheit", KelvinToFahrenheit)

	b.AddCategory(CategoryTime, "Second").
		AddScale(CategoryTime, "Minute", 1.0/60).
		AddScale(CategoryTime, "Hour", 1.0/3600).
		AddScale(CategoryTime, "Day", 1.0/86400)

	b.AddCategory(CategoryCurrent, "Ampere").
		AddScale(CategoryCurrent, "Milliampere", 1000.0).
		AddScale(CategoryCurrent, "Microampere", 1000000.0)

	b.AddCategory(CategoryAmountOfSubstance, "Mole").
		AddScale(CategoryAmountOfSubstance, "Millimole", 1000.0).
		AddScale(CategoryAmountOfSubstance, "Micromole", 1000000.0)

	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
