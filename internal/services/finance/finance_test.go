package finance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCAGR(t *testing.T) {
	got, err := CAGR(100, 200, 1)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)

	got, err = CAGR(1_000_000, 8_000_000, 3)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)

	_, err = CAGR(0, 10, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = CAGR(10, 20, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPercentageChange(t *testing.T) {
	got, err := PercentageChange(80, 100)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)

	got, err = PercentageChange(-50, -25)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)

	_, err = PercentageChange(0, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAverageAndVolatility(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	avg, err := Average(xs)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)

	vol, err := Volatility(xs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, vol, 1e-12)

	_, err = Average(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = Volatility([]float64{})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestPercentile_NearestRank(t *testing.T) {
	xs := []float64{15, 20, 35, 40, 50}

	cases := map[float64]float64{0: 15, 5: 15, 30: 20, 40: 20, 50: 35, 100: 50}
	for p, want := range cases {
		got, err := Percentile(xs, p)
		require.NoError(t, err)
		assert.Equal(t, want, got, "p=%v", p)
	}

	// input order is preserved
	unsorted := []float64{3, 1, 2}
	_, err := Percentile(unsorted, 50)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, unsorted)

	_, err = Percentile(xs, 101)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Percentile(nil, 50)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestPercentileBands(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(100 - i)
	}
	b, err := PercentileBands(xs)
	require.NoError(t, err)
	assert.Equal(t, Bands{P10: 10, P25: 25, P50: 50, P75: 75, P90: 90}, b)
}

func TestNormalDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	xs := NormalDistribution(rng, 20001, 10, 2)
	require.Len(t, xs, 20001)

	avg, _ := Average(xs)
	vol, _ := Volatility(xs)
	assert.InDelta(t, 10, avg, 0.1)
	assert.InDelta(t, 2, vol, 0.1)

	assert.Nil(t, NormalDistribution(rng, 0, 0, 1))
}

func TestSparkline(t *testing.T) {
	pts := Sparkline([]float64{0, 5, 10}, 100, 20)
	require.Len(t, pts, 3)
	assert.Equal(t, Point{X: 0, Y: 20}, pts[0])
	assert.Equal(t, Point{X: 50, Y: 10}, pts[1])
	assert.Equal(t, Point{X: 100, Y: 0}, pts[2])

	flat := Sparkline([]float64{3, 3}, 10, 8)
	assert.Equal(t, []Point{{X: 0, Y: 4}, {X: 10, Y: 4}}, flat)

	assert.Nil(t, Sparkline(nil, 10, 10))
}

func TestRiskSeverityAndRetention(t *testing.T) {
	assert.Equal(t, 24.0, RiskSeverity(40, 60))
	assert.Equal(t, 62.5, CohortRetention(400, 250))
	assert.Equal(t, 0.0, CohortRetention(0, 10))
}

func TestNPV(t *testing.T) {
	flows := []decimal.Decimal{
		decimal.NewFromInt(-1000),
		decimal.NewFromInt(1100),
	}
	got := NPV(0.10, flows)
	assert.True(t, got.Round(6).IsZero(), "npv=%s", got)

	got = NPV(0, []decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(7)})
	assert.True(t, got.Equal(decimal.NewFromInt(12)))

	f, _ := NPV(0.05, nil).Float64()
	assert.False(t, math.IsNaN(f))
}
