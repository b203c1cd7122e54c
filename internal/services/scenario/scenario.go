package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/services/finance"
)

var ErrInvalidScenario = errors.New("scenario: invalid scenario set")

const probabilityTolerance = 1e-6

// Result summarises the endpoint distribution of a simulation.
type Result struct {
	Draws         int            `json:"draws"`
	Mean          float64        `json:"mean"`
	StdDev        float64        `json:"stddev"`
	P10           float64        `json:"p10"`
	P50           float64        `json:"p50"`
	P90           float64        `json:"p90"`
	ExpectedValue float64        `json:"expectedValue"`
	Hits          map[string]int `json:"hits"`
}

// Endpoint is a scenario's final value; empty series end at zero.
func Endpoint(s models.ScenarioOption) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// ExpectedValue is the probability-weighted average of scenario endpoints.
func ExpectedValue(scenarios []models.ScenarioOption) float64 {
	ev := 0.0
	for _, s := range scenarios {
		ev += s.Probability * Endpoint(s)
	}
	return ev
}

func validate(scenarios []models.ScenarioOption, draws int) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios: %w", ErrInvalidScenario)
	}
	if draws <= 0 {
		return fmt.Errorf("draws=%d: %w", draws, ErrInvalidScenario)
	}
	sum := 0.0
	for _, s := range scenarios {
		if s.Probability < 0 || math.IsNaN(s.Probability) {
			return fmt.Errorf("%s probability %v: %w", s.Name, s.Probability, ErrInvalidScenario)
		}
		sum += s.Probability
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("probabilities sum to %v: %w", sum, ErrInvalidScenario)
	}
	return nil
}

// Simulate draws a scenario per iteration according to its probability and
// records the chosen endpoint.
func Simulate(rng *rand.Rand, scenarios []models.ScenarioOption, draws int) (Result, error) {
	if err := validate(scenarios, draws); err != nil {
		return Result{}, err
	}

	cumulative := make([]float64, len(scenarios))
	acc := 0.0
	for i, s := range scenarios {
		acc += s.Probability
		cumulative[i] = acc
	}

	res := Result{
		Draws:         draws,
		ExpectedValue: ExpectedValue(scenarios),
		Hits:          make(map[string]int, len(scenarios)),
	}
	samples := make([]float64, draws)
	for d := 0; d < draws; d++ {
		u := rng.Float64() * acc
		idx := len(scenarios) - 1
		for i, c := range cumulative {
			if u < c {
				idx = i
				break
			}
		}
		samples[d] = Endpoint(scenarios[idx])
		res.Hits[scenarios[idx].Name]++
	}

	res.Mean, _ = finance.Average(samples)
	res.StdDev, _ = finance.Volatility(samples)
	bands, _ := finance.PercentileBands(samples)
	res.P10, res.P50, res.P90 = bands.P10, bands.P50, bands.P90
	return res, nil
}
