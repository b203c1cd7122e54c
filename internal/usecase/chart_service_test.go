package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/services/scenario"
	"PitchDeck/pkg/cache"
	"PitchDeck/pkg/logger"
	"PitchDeck/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderCounter struct {
	metrics.Nop
	rendered int
	cached   int
}

func (r *renderCounter) RecordChartRender(_ string, _ float64, cached bool) {
	if cached {
		r.cached++
	} else {
		r.rendered++
	}
}

func chartDeck() *models.Deck {
	d := testDeck()
	d.Slides[0].Charts = []models.ChartSpec{
		{ID: "revenue", Type: models.ChartBar, Title: "Revenue", Unit: "currency", Labels: []string{"2025", "2026"},
			Series: []models.FinancialSeries{{Name: "Revenue", Values: []float64{4.2e6, 9.8e6}}}},
		{ID: "market", Type: models.ChartSunburst, Title: "Market",
			Market: &models.MarketSegment{Name: "TAM", Value: 100, Children: []models.MarketSegment{{Name: "SAM", Value: 40}}}},
	}
	d.Slides[2].Charts = []models.ChartSpec{
		{ID: "scenarios", Type: models.ChartScenario, Scenarios: []models.ScenarioOption{
			{Name: "conservative", Probability: 0.2, Values: []float64{50}},
			{Name: "base", Probability: 0.6, Values: []float64{100}},
			{Name: "optimistic", Probability: 0.2, Values: []float64{150}},
		}},
	}
	return d
}

func newChartService(t *testing.T) (*ChartService, *renderCounter) {
	t.Helper()
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	deck := NewDeckService(staticDeck{chartDeck()}, nil, nil, metrics.Nop{}, logger.Nop())
	require.NoError(t, deck.Reload(context.Background()))

	m := &renderCounter{}
	return NewChartService(deck, charts.NewRenderer(), mem, m, logger.Nop()), m
}

func TestChartService_Data(t *testing.T) {
	svc, _ := newChartService(t)

	data, err := svc.Data(context.Background(), "market")
	require.NoError(t, err)
	assert.False(t, data.SVG)
	require.Len(t, data.Points, 2)
	assert.Equal(t, "SAM", data.Points[1].Label)
	assert.IsType(t, []charts.SunburstNode{}, data.Detail)

	_, err = svc.Data(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrChartNotFound)
}

func TestChartService_SVGIsCached(t *testing.T) {
	svc, m := newChartService(t)
	ctx := context.Background()
	opts := charts.NewOptions()

	first, err := svc.SVG(ctx, "revenue", opts)
	require.NoError(t, err)
	assert.Contains(t, string(first), "<svg")

	second, err := svc.SVG(ctx, "revenue", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.rendered)
	assert.Equal(t, 1, m.cached)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.SVG(ctx, "revenue", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, m.rendered)

	_, err = svc.SVG(ctx, "market", opts)
	assert.ErrorIs(t, err, charts.ErrUnsupportedChart)
}

func TestChartService_SVGSizesShareCacheEntries(t *testing.T) {
	svc, m := newChartService(t)
	ctx := context.Background()

	for _, w := range []int{790, 801, 811, 824} {
		_, err := svc.SVG(ctx, "revenue", charts.NewOptions(charts.WithSize(w, 400)))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, m.rendered)
	assert.Equal(t, 3, m.cached)

	assert.Equal(t, 850, snapSize(826))
	assert.Equal(t, 100, snapSize(7))
	assert.Equal(t, 4000, snapSize(99999))
	assert.Equal(t, 0, snapSize(0))
}

func TestChartService_RenderSVG(t *testing.T) {
	svc, _ := newChartService(t)
	spec, err := svc.spec("revenue")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderSVG(context.Background(), spec, &buf))
	assert.Contains(t, buf.String(), "</svg>")
}

func TestChartService_Point(t *testing.T) {
	svc, _ := newChartService(t)

	p, err := svc.Point(context.Background(), "revenue", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026", p.Label)
	assert.Equal(t, 9.8e6, p.Value)

	_, err = svc.Point(context.Background(), "revenue", 5)
	assert.ErrorIs(t, err, charts.ErrPointOutOfRange)
}

func TestChartService_Scenario(t *testing.T) {
	svc, _ := newChartService(t)

	res, err := svc.Scenario(context.Background(), "scenarios", 10000, 7)
	require.NoError(t, err)
	assert.InDelta(t, 100, res.ExpectedValue, 1e-9)
	assert.InDelta(t, res.ExpectedValue, res.Mean, 2)

	again, err := svc.Scenario(context.Background(), "scenarios", 10000, 7)
	require.NoError(t, err)
	assert.Equal(t, res, again)

	_, err = svc.Scenario(context.Background(), "revenue", 10, 1)
	assert.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func TestChartService_ContextCancelled(t *testing.T) {
	svc, _ := newChartService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := svc.Data(ctx, "revenue")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
