// Package money implements fixed-point monetary arithmetic on int64 minor
// units. Percentages are expressed in basis points (10000 = 100%) so pricing
// multipliers and discount fractions never touch binary floating point.
package money

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

const (
	// BpsScale is the basis-point denominator: 10000 bps == 100%.
	BpsScale int64 = 10000

	// DefaultExponent is the minor-unit exponent for the default currency.
	DefaultExponent = 2
)

var ErrInvalidDecimal = errors.New("invalid_decimal")

// ApplyBps multiplies amount by bps/10000, rounding half to even on the
// minor unit.
func ApplyBps(amount, bps int64) int64 {
	return mulDivHalfEven(amount, bps, BpsScale)
}

// ApplyDiscount returns amount net of a discount fraction given in basis
// points, rounded half to even.
func ApplyDiscount(amount, discountBps int64) int64 {
	return mulDivHalfEven(amount, BpsScale-discountBps, BpsScale)
}

// mulDivHalfEven computes amount*num/den with banker's rounding. den must be
// positive. The intermediate product is carried in 128 bits so large amounts
// never wrap; a quotient outside the int64 range saturates at the bound.
func mulDivHalfEven(amount, num, den int64) int64 {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}
	if num < 0 {
		negative = !negative
		num = -num
	}

	hi, lo := bits.Mul64(uint64(amount), uint64(num))
	if hi >= uint64(den) {
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	quotient, remainder := bits.Div64(hi, lo, uint64(den))

	double := remainder * 2
	switch {
	case double > uint64(den):
		quotient++
	case double == uint64(den):
		if quotient%2 == 1 {
			quotient++
		}
	}

	if negative {
		if quotient > -math.MinInt64 {
			return math.MinInt64
		}
		return -int64(quotient)
	}
	if quotient > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(quotient)
}

// FormatDecimal renders minor units as an exact decimal string, e.g.
// FormatDecimal(85000, 2) == "850.00". This is the only representation
// amounts cross the API boundary in.
func FormatDecimal(amount int64, exponent int) string {
	if exponent <= 0 {
		return fmt.Sprintf("%d", amount)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	scale := pow10(exponent)
	whole := amount / scale
	frac := amount % scale
	return fmt.Sprintf("%s%d.%0*d", sign, whole, exponent, frac)
}

// ParseDecimal converts an exact decimal string into minor units. It rejects
// values with more fractional digits than the exponent allows.
func ParseDecimal(value string, exponent int) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidDecimal
	}

	negative := false
	switch value[0] {
	case '-':
		negative = true
		value = value[1:]
	case '+':
		value = value[1:]
	}

	wholePart := value
	fracPart := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		wholePart = value[:idx]
		fracPart = value[idx+1:]
	}
	if wholePart == "" && fracPart == "" {
		return 0, ErrInvalidDecimal
	}
	if len(fracPart) > exponent {
		return 0, ErrInvalidDecimal
	}

	var amount int64
	for _, r := range wholePart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidDecimal
		}
		d := int64(r - '0')
		if amount > (math.MaxInt64-d)/10 {
			return 0, ErrInvalidDecimal
		}
		amount = amount*10 + d
	}
	for i := len(fracPart); i < exponent; i++ {
		if amount > math.MaxInt64/10 {
			return 0, ErrInvalidDecimal
		}
		amount *= 10
	}

	if negative {
		return -amount, nil
	}
	return amount, nil
}

func pow10(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}
