package metricconverter

type RuleKind int

const (
	RuleUnknown RuleKind = iota
	RuleScale
	RuleFunction
)

func (k RuleKind) String() string {
	switch k {
	case RuleScale:
		return "scale"
	case RuleFunction:
		return "function"
	}
	return "unknown"
}

func ParseRuleKind(s string) RuleKind {
	switch s {
	case "scale":
		return RuleScale
	case "function":
		return RuleFunction
	}
	return RuleUnknown
}

// Rule converts a value in the base unit into Unit.
// Scale rules use Rate (output = input * Rate), function rules use Fn.
type Rule struct {
	Unit     string
	Kind     RuleKind
	Rate     float64
	FuncName string
	Fn       func(float64) float64
}

func ScaleRule(unit string, rate float64) Rule {
	return Rule{Unit: unit, Kind: RuleScale, Rate: rate}
}

func FunctionRule(unit, name string, fn func(float64) float64) Rule {
	return Rule{Unit: unit, Kind: RuleFunction, FuncName: name, Fn: fn}
}

// Apply returns false when the rule cannot be evaluated.
func (r Rule) Apply(v float64) (float64, bool) {
	switch r.Kind {
	case RuleScale:
		return v * r.Rate, true
	case RuleFunction:
		if r.Fn == nil {
			return 0, false
		}
		return r.Fn(v), true
	}
	return 0, false
}

func KelvinToCelsius(x float64) float64 {
	return x - 273.15
}

func KelvinToFahrenheit(x float64) float64 {
	return (x-273.15)*9/5 + 32
}

// Functions holds the named function rules a stored table may refer to.
var Functions = map[string]func(float64) float64{
	"kelvin_to_celsius":    KelvinToCelsius,
	"kelvin_to_fahrenheit": KelvinToFahrenheit,
}

// ResolveFunction looks name up in Functions. Unknown names give a rule
// with no function, which conversion skips.
func ResolveFunction(unit, name string) Rule {
	return FunctionRule(unit, name, Functions[name])
}
