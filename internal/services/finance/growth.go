package finance

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// CAGR returns the compound annual growth rate between start and end over
// years, as a percentage: ((end/start)^(1/years) - 1) * 100.
func CAGR(start, end, years float64) (float64, error) {
	if start <= 0 || years <= 0 || end < 0 {
		return 0, fmt.Errorf("cagr start=%v end=%v years=%v: %w", start, end, years, ErrInvalidInput)
	}
	return (math.Pow(end/start, 1/years) - 1) * 100, nil
}

// PercentageChange returns (to-from)/|from| * 100.
func PercentageChange(from, to float64) (float64, error) {
	if from == 0 {
		return 0, fmt.Errorf("percentage change from zero: %w", ErrInvalidInput)
	}
	return (to - from) / math.Abs(from) * 100, nil
}

// RiskSeverity scores a risk from its probability and impact, both on a 0-100 scale.
func RiskSeverity(probability, impact float64) float64 {
	return probability * impact / 100
}

// CohortRetention is the share of an initial cohort still active, in percent.
func CohortRetention(initial, active int) float64 {
	if initial <= 0 {
		return 0
	}
	return float64(active) / float64(initial) * 100
}

// NPV discounts cashFlows at rate per period; the first flow is undiscounted (t=0).
func NPV(rate float64, cashFlows []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	factor := decimal.NewFromInt(1)
	step := decimal.NewFromFloat(1 + rate)
	for _, cf := range cashFlows {
		total = total.Add(cf.Div(factor))
		factor = factor.Mul(step)
	}
	return total
}
