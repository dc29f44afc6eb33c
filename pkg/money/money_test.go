package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDiscount(t *testing.T) {
	// 1000.00 with 15% off -> 850.00
	assert.Equal(t, int64(85000), ApplyDiscount(100000, 1500))
	// no discount
	assert.Equal(t, int64(100000), ApplyDiscount(100000, 0))
	// full discount
	assert.Equal(t, int64(0), ApplyDiscount(100000, 10000))
}

func TestApplyBpsRoundsHalfToEven(t *testing.T) {
	// 25 * 50% = 12.5 -> rounds to even 12
	assert.Equal(t, int64(12), ApplyBps(25, 5000))
	// 35 * 50% = 17.5 -> rounds to even 18
	assert.Equal(t, int64(18), ApplyBps(35, 5000))
	// exact multiples are untouched
	assert.Equal(t, int64(50), ApplyBps(100, 5000))
	// negative amounts mirror positive rounding
	assert.Equal(t, int64(-12), ApplyBps(-25, 5000))
}

func TestApplyDiscountHandlesLargeAmounts(t *testing.T) {
	// the intermediate product here exceeds int64
	assert.Equal(t, int64(1_700_000_000_000_000), ApplyDiscount(2_000_000_000_000_000, 1500))
	assert.Equal(t, int64(math.MaxInt64), ApplyBps(math.MaxInt64, 10000))
	// MaxInt64 is odd, so its half lands on .5 and rounds to even
	assert.Equal(t, int64(math.MaxInt64)/2+1, ApplyBps(math.MaxInt64, 5000))
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "850.00", FormatDecimal(85000, 2))
	assert.Equal(t, "0.05", FormatDecimal(5, 2))
	assert.Equal(t, "-3.50", FormatDecimal(-350, 2))
	assert.Equal(t, "1200", FormatDecimal(1200, 0))
}

func TestParseDecimal(t *testing.T) {
	value, err := ParseDecimal("850.00", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(85000), value)

	value, err = ParseDecimal("850", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(85000), value)

	value, err = ParseDecimal("-12.5", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(-1250), value)

	_, err = ParseDecimal("12.345", 2)
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	_, err = ParseDecimal("abc", 2)
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	_, err = ParseDecimal("", 2)
	assert.ErrorIs(t, err, ErrInvalidDecimal)
}

func TestParseDecimalRejectsOverflow(t *testing.T) {
	// largest representable amount in cents
	value, err := ParseDecimal("92233720368547758.07", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), value)

	_, err = ParseDecimal("92233720368547758.08", 2)
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	_, err = ParseDecimal("999999999999999999999.00", 2)
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	// scaling a bare whole number can overflow too
	_, err = ParseDecimal("92233720368547758070", 2)
	assert.ErrorIs(t, err, ErrInvalidDecimal)
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.00", "850.00", "1000.50", "-3.25"} {
		value, err := ParseDecimal(raw, 2)
		require.NoError(t, err)
		assert.Equal(t, raw, FormatDecimal(value, 2))
	}
}
