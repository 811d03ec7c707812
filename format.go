package metricconverter

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders f with the shortest digits that round-trip, laid out
// as plain decimal for 1e-3 <= |f| < 1e7 and as d.dddEn otherwise. Both
// forms always carry a fractional digit: 1000.0, 1.0E7.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	if mant, _, _ := strings.Cut(s, "e"); len(strings.TrimLeft(mant, "-")) == 1 {
		// One significant digit: prefer the closest two-digit rendering when
		// it still round-trips (4.9E-324, not 5.0E-324).
		if two := strconv.FormatFloat(f, 'e', 1, 64); roundTrips(two, f) {
			s = two
		}
	}
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)
	digits := strings.TrimRight(strings.Replace(mant, ".", "", 1), "0")

	abs := math.Abs(f)
	if abs < 1e-3 || abs >= 1e7 {
		frac := digits[1:]
		if frac == "" {
			frac = "0"
		}
		return sign + digits[:1] + "." + frac + "E" + strconv.Itoa(exp)
	}

	var b strings.Builder
	b.WriteString(sign)
	if exp < 0 {
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.WriteString(digits)
		return b.String()
	}
	intLen := exp + 1
	if len(digits) <= intLen {
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", intLen-len(digits)))
		b.WriteString(".0")
		return b.String()
	}
	b.WriteString(digits[:intLen])
	b.WriteByte('.')
	b.WriteString(digits[intLen:])
	return b.String()
}

func roundTrips(s string, f float64) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v == f
}
