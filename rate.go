package metricconverter

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Rate is a scale factor kept as exact decimal text, so a stored 0.001
// reads back as the same float64 it was written from. The zero Rate is
// NULL and not valid.
type Rate struct {
	d     decimal.Decimal
	valid bool
}

func NewRate(f float64) (Rate, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rate{}, fmt.Errorf("rate %v is not finite", f)
	}
	return Rate{d: decimal.NewFromFloat(f), valid: true}, nil
}

func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("parse rate %q: %w", s, err)
	}
	return Rate{d: d, valid: true}, nil
}

func (r Rate) Valid() bool {
	return r.valid
}

func (r Rate) Float64() float64 {
	f, _ := r.d.Float64()
	return f
}

func (r Rate) String() string {
	return r.d.String()
}

func (r *Rate) Scan(src any) error {
	switch v := src.(type) {
	case string:
		rate, err := ParseRate(v)
		if err != nil {
			return err
		}
		*r = rate
	case []byte:
		rate, err := ParseRate(string(v))
		if err != nil {
			return err
		}
		*r = rate
	case float64:
		rate, err := NewRate(v)
		if err != nil {
			return err
		}
		*r = rate
	case int64:
		*r = Rate{d: decimal.NewFromInt(v), valid: true}
	case nil:
		*r = Rate{}
	default:
		return errors.New("src must be text or number")
	}
	return nil
}

func (r Rate) Value() (driver.Value, error) {
	if !r.valid {
		return nil, nil
	}
	return r.d.String(), nil
}
