package value

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal places used by String.
const DefaultPrecision = 10

// Scalar is a real number.
type Scalar float64

func (s Scalar) String() string {
	return FormatScalar(s, DefaultPrecision)
}

// FormatScalar renders s rounded to precision decimal places, without
// trailing zeros.
func FormatScalar(s Scalar, precision int) string {
	x := float64(s)
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	d := decimal.NewFromFloat(x).Round(int32(precision))
	if d.IsZero() {
		return "0"
	}
	return d.String()
}

// Format renders any value using the given scalar precision.
func Format(v Value, precision int) string {
	switch v := v.(type) {
	case nil:
		return ""
	case Scalar:
		return FormatScalar(v, precision)
	case *Matrix:
		return v.format(precision)
	case String:
		return string(v)
	}
	return v.String()
}

// IsInteger reports whether s has no fractional part.
func (s Scalar) IsInteger() bool {
	x := float64(s)
	return !math.IsInf(x, 0) && x == math.Trunc(x)
}
