package finance

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Average returns the arithmetic mean of xs.
func Average(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySeries
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// Volatility returns the population standard deviation of xs.
func Volatility(xs []float64) (float64, error) {
	mean, err := Average(xs)
	if err != nil {
		return 0, err
	}
	sum2 := 0.0
	for _, x := range xs {
		d := x - mean
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(len(xs))), nil
}

// Percentile returns the nearest-rank p-th percentile (0..100) of xs.
// xs is not modified.
func Percentile(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySeries
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %v: %w", p, ErrInvalidInput)
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return nearestRank(sorted, p), nil
}

func nearestRank(sorted []float64, p float64) float64 {
	rank := int(math.Ceil(p * float64(len(sorted)) / 100))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// Bands holds the percentiles drawn by fan charts.
type Bands struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// PercentileBands computes P10..P90 with a single sort.
func PercentileBands(xs []float64) (Bands, error) {
	if len(xs) == 0 {
		return Bands{}, ErrEmptySeries
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return Bands{
		P10: nearestRank(sorted, 10),
		P25: nearestRank(sorted, 25),
		P50: nearestRank(sorted, 50),
		P75: nearestRank(sorted, 75),
		P90: nearestRank(sorted, 90),
	}, nil
}

// NormalDistribution draws n samples from N(mean, stddev) with the Box-Muller transform.
func NormalDistribution(rng *rand.Rand, n int, mean, stddev float64) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, 0, n)
	for len(out) < n {
		u1 := rng.Float64()
		for u1 == 0 {
			u1 = rng.Float64()
		}
		u2 := rng.Float64()
		r := math.Sqrt(-2 * math.Log(u1))
		out = append(out, mean+stddev*r*math.Cos(2*math.Pi*u2))
		if len(out) < n {
			out = append(out, mean+stddev*r*math.Sin(2*math.Pi*u2))
		}
	}
	return out
}

// Point is one vertex of a sparkline polyline.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sparkline scales values into a width x height box with y growing downwards.
func Sparkline(values []float64, width, height float64) []Point {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	step := 0.0
	if len(values) > 1 {
		step = width / float64(len(values)-1)
	}
	pts := make([]Point, len(values))
	for i, v := range values {
		y := height / 2
		if hi > lo {
			y = height - (v-lo)/(hi-lo)*height
		}
		pts[i] = Point{X: float64(i) * step, Y: y}
	}
	return pts
}
