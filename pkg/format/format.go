// Package format renders numbers the way the deck displays them.
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is printed for NaN and infinite inputs.
const NotAvailable = "N/A"

type currencyConfig struct {
	decimals int
	prefix   string
	suffix   string
}

// CurrencyOption configures FormatCurrency.
type CurrencyOption func(*currencyConfig)

// WithDecimals sets the number of fraction digits (default 1).
func WithDecimals(n int) CurrencyOption {
	return func(c *currencyConfig) {
		if n >= 0 {
			c.decimals = n
		}
	}
}

// WithPrefix replaces the "$" prefix.
func WithPrefix(p string) CurrencyOption {
	return func(c *currencyConfig) { c.prefix = p }
}

// WithSuffix appends s after the tier letter.
func WithSuffix(s string) CurrencyOption {
	return func(c *currencyConfig) { c.suffix = s }
}

var tiers = []struct {
	threshold float64
	letter    string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCurrency prints value with a B/M/K magnitude tier, e.g. 1_500_000 -> "$1.5M".
// Values under a thousand are rounded to the configured decimals with trailing
// zeros dropped, so 500 prints as "$500".
func FormatCurrency(value float64, opts ...CurrencyOption) string {
	cfg := &currencyConfig{decimals: 1, prefix: "$"}
	for _, opt := range opts {
		opt(cfg)
	}
	if !finite(value) {
		return NotAvailable
	}

	abs := math.Abs(value)
	var body string
	for _, t := range tiers {
		if abs >= t.threshold {
			body = strconv.FormatFloat(abs/t.threshold, 'f', cfg.decimals, 64) + t.letter
			break
		}
	}
	if body == "" {
		body = trimZeros(strconv.FormatFloat(abs, 'f', cfg.decimals, 64))
	}

	sign := ""
	if value < 0 && !isZeroString(body) {
		sign = "-"
	}
	return sign + cfg.prefix + body + cfg.suffix
}

// FormatPercentage prints value with fixed decimals (default 1) and a "%" sign.
func FormatPercentage(value float64, decimals ...int) string {
	if !finite(value) {
		return NotAvailable
	}
	d := 1
	if len(decimals) > 0 && decimals[0] >= 0 {
		d = decimals[0]
	}
	return strconv.FormatFloat(value, 'f', d, 64) + "%"
}

var printer = message.NewPrinter(language.English)

// FormatNumber prints value with thousands grouping, e.g. 1234567.8 -> "1,234,567.8".
func FormatNumber(value float64, decimals int) string {
	if !finite(value) {
		return NotAvailable
	}
	if decimals < 0 {
		decimals = 0
	}
	return printer.Sprint(number.Decimal(value, number.Scale(decimals)))
}

// FormatSignedPercentage is FormatPercentage with an explicit "+" for gains.
func FormatSignedPercentage(value float64, decimals int) string {
	s := FormatPercentage(value, decimals)
	if finite(value) && value > 0 {
		return "+" + s
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func isZeroString(s string) bool {
	return strings.Trim(s, "0.") == "" || strings.Trim(strings.TrimRight(s, "BMK"), "0.") == ""
}
