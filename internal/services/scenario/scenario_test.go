package scenario

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PitchDeck/internal/domain/models"
)

func threeWay() []models.ScenarioOption {
	return []models.ScenarioOption{
		{Name: "conservative", Probability: 0.2, Values: []float64{10, 20, 30}},
		{Name: "base", Probability: 0.6, Values: []float64{10, 40, 60}},
		{Name: "optimistic", Probability: 0.2, Values: []float64{10, 60, 120}},
	}
}

func TestSimulate_ConvergesToExpectedValue(t *testing.T) {
	sc := threeWay()
	res, err := Simulate(rand.New(rand.NewSource(7)), sc, 10_000)
	require.NoError(t, err)

	// 0.2*30 + 0.6*60 + 0.2*120
	assert.InDelta(t, 66.0, res.ExpectedValue, 1e-9)
	// stddev of the endpoint mixture is ~28.5, so the standard error is ~0.3
	assert.InDelta(t, res.ExpectedValue, res.Mean, 1.5)

	assert.Equal(t, 10_000, res.Hits["conservative"]+res.Hits["base"]+res.Hits["optimistic"])
	assert.InDelta(t, 6000, res.Hits["base"], 250)
	assert.Equal(t, 30.0, res.P10)
	assert.Equal(t, 60.0, res.P50)
	assert.Equal(t, 120.0, res.P90)
}

func TestSimulate_Deterministic(t *testing.T) {
	a, err := Simulate(rand.New(rand.NewSource(99)), threeWay(), 500)
	require.NoError(t, err)
	b, err := Simulate(rand.New(rand.NewSource(99)), threeWay(), 500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulate_RejectsBadProbabilities(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	sc := threeWay()
	sc[0].Probability = 0.3
	_, err := Simulate(rng, sc, 10)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	sc = threeWay()
	sc[0].Probability, sc[1].Probability = -0.2, 1.0
	_, err = Simulate(rng, sc, 10)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	_, err = Simulate(rng, nil, 10)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	_, err = Simulate(rng, threeWay(), 0)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestEndpoint_EmptySeries(t *testing.T) {
	assert.Equal(t, 0.0, Endpoint(models.ScenarioOption{Name: "empty"}))
}
