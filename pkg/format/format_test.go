package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency_Tiers(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1_500_000, "$1.5M"},
		{500, "$500"},
		{-2_000, "-$2.0K"},
		{2_300_000_000, "$2.3B"},
		{12.34, "$12.3"},
		{0, "$0"},
		{999, "$999"},
		{1_000, "$1.0K"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatCurrency(c.in), "FormatCurrency(%v)", c.in)
	}
}

func TestFormatCurrency_Options(t *testing.T) {
	assert.Equal(t, "€4.25M", FormatCurrency(4_250_000, WithPrefix("€"), WithDecimals(2)))
	assert.Equal(t, "$12M ARR", FormatCurrency(12_000_000, WithDecimals(0), WithSuffix(" ARR")))
	assert.Equal(t, "-£3K", FormatCurrency(-3_100, WithPrefix("£"), WithDecimals(0)))
}

func TestFormatCurrency_NegativeZeroHasNoSign(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(-0.01))
}

func TestFormatCurrency_NonFinite(t *testing.T) {
	assert.Equal(t, NotAvailable, FormatCurrency(math.NaN()))
	assert.Equal(t, NotAvailable, FormatCurrency(math.Inf(1)))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "45.7%", FormatPercentage(45.678))
	assert.Equal(t, "100%", FormatPercentage(100, 0))
	assert.Equal(t, "-3.25%", FormatPercentage(-3.25, 2))
	assert.Equal(t, NotAvailable, FormatPercentage(math.NaN()))
}

func TestFormatSignedPercentage(t *testing.T) {
	assert.Equal(t, "+12.5%", FormatSignedPercentage(12.5, 1))
	assert.Equal(t, "-4.0%", FormatSignedPercentage(-4, 1))
}

func TestFormatNumber_Groups(t *testing.T) {
	assert.Equal(t, "1,234,567.8", FormatNumber(1234567.8, 1))
	assert.Equal(t, "1,234", FormatNumber(1234, 0))
	assert.Equal(t, NotAvailable, FormatNumber(math.Inf(-1), 0))
}
