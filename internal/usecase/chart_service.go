package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/services/scenario"
	"PitchDeck/pkg/cache"
	"PitchDeck/pkg/logger"
	"PitchDeck/pkg/util"
)

const (
	chartCachePrefix = "chart"

	// Requested sizes snap to this grid so the cache keyspace stays small.
	chartSizeStep = 50
	minChartSize  = 100
	maxChartSize  = 4000
)

// ChartData is the JSON dataset of one chart: the canonical points plus the
// family-specific detail a browser renderer needs.
type ChartData struct {
	ID     string           `json:"id"`
	Type   models.ChartType `json:"type"`
	Title  string           `json:"title"`
	Unit   string           `json:"unit,omitempty"`
	Labels []string         `json:"labels,omitempty"`
	SVG    bool             `json:"svg"`
	Points []charts.Point   `json:"points"`
	Detail interface{}      `json:"detail,omitempty"`
}

type ChartOption func(*ChartService)

func WithChartCacheTTL(ttl time.Duration) ChartOption {
	return func(s *ChartService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithDefaultChartSize is the size used when rendering for export.
func WithDefaultChartSize(width, height int) ChartOption {
	return func(s *ChartService) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

func WithChartClock(now func() time.Time) ChartOption {
	return func(s *ChartService) {
		if now != nil {
			s.now = now
		}
	}
}

// ChartService serves chart datasets, rendered SVG (cached) and scenario simulations.
type ChartService struct {
	deck     *DeckService
	renderer *charts.Renderer
	cache    cache.Service
	metrics  drepo.Metrics
	log      *logger.Logger
	ttl      time.Duration
	width    int
	height   int
	now      func() time.Time
}

func NewChartService(deck *DeckService, renderer *charts.Renderer, c cache.Service, metrics drepo.Metrics, l *logger.Logger, opts ...ChartOption) *ChartService {
	s := &ChartService{
		deck:     deck,
		renderer: renderer,
		cache:    c,
		metrics:  metrics,
		log:      l,
		ttl:      10 * time.Minute,
		width:    800,
		height:   400,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

func (s *ChartService) spec(id string) (*models.ChartSpec, error) {
	d, err := s.deck.Deck()
	if err != nil {
		return nil, err
	}
	c, ok := d.Chart(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	return c, nil
}

// Data returns the chart's dataset.
func (s *ChartService) Data(ctx context.Context, id string) (*ChartData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, err := s.spec(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	pts, err := charts.Points(spec, now)
	if err != nil {
		return nil, err
	}
	return &ChartData{
		ID:     spec.ID,
		Type:   spec.Type,
		Title:  spec.Title,
		Unit:   spec.Unit,
		Labels: spec.Labels,
		SVG:    charts.Supports(spec.Type),
		Points: pts,
		Detail: detail(spec, now),
	}, nil
}

func detail(spec *models.ChartSpec, now time.Time) interface{} {
	switch spec.Type {
	case models.ChartWaterfall:
		return charts.Waterfall(spec.Steps)
	case models.ChartRisk:
		return charts.RiskMatrix(spec.Risks)
	case models.ChartSunburst:
		return charts.MarketSunburst(spec.Market)
	case models.ChartHeatmap:
		return charts.CohortHeatmap(spec.Cohorts)
	case models.ChartGantt:
		return charts.Gantt(spec.Milestones, now)
	case models.ChartPie, models.ChartDonut:
		return charts.ProductMix(spec.Mix)
	case models.ChartRadar:
		return charts.Radar(spec.Axes)
	case models.ChartMetric:
		return charts.MetricTrend(spec.Metrics)
	case models.ChartSurface:
		return charts.Surface(spec.Surface)
	case models.ChartScenario:
		return map[string]interface{}{
			"scenarios":     spec.Scenarios,
			"expectedValue": scenario.ExpectedValue(spec.Scenarios),
		}
	}
	return spec.Series
}

// Point returns the datum behind a click on element index.
func (s *ChartService) Point(ctx context.Context, id string, index int) (charts.Point, error) {
	if err := ctx.Err(); err != nil {
		return charts.Point{}, err
	}
	spec, err := s.spec(id)
	if err != nil {
		return charts.Point{}, err
	}
	return charts.PointAt(spec, index, s.now())
}

// SVG renders a chart, serving repeats from the cache.
func (s *ChartService) SVG(ctx context.Context, id string, opts charts.ChartOptions) ([]byte, error) {
	spec, err := s.spec(id)
	if err != nil {
		return nil, err
	}
	if !charts.Supports(spec.Type) {
		return nil, fmt.Errorf("%s %q: %w", id, spec.Type, charts.ErrUnsupportedChart)
	}

	opts.Width, opts.Height = snapSize(opts.Width), snapSize(opts.Height)
	start := time.Now()
	key := cache.GenerateKey(chartCachePrefix, id, opts.Width, opts.Height, opts.Theme, opts.ShowLegend, opts.ShowGrid)
	if s.cache != nil {
		var cached []byte
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordChartRender(string(spec.Type), time.Since(start).Seconds(), true)
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("chart cache read failed", logger.String("chart", id), logger.Error(err))
		}
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(ctx, spec, opts, &buf); err != nil {
		s.metrics.RecordError("chart_render")
		return nil, err
	}
	out := buf.Bytes()
	s.metrics.RecordChartRender(string(spec.Type), time.Since(start).Seconds(), false)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			s.log.Warn("chart cache write failed", logger.String("chart", id), logger.Error(err))
		}
	}
	return out, nil
}

// snapSize rounds px to the nearest step inside the allowed range; zero keeps
// the renderer default.
func snapSize(px int) int {
	if px <= 0 {
		return px
	}
	return util.Clamp((px+chartSizeStep/2)/chartSizeStep*chartSizeStep, minChartSize, maxChartSize)
}

// RenderSVG implements service.ChartRenderer with the default size and light theme.
func (s *ChartService) RenderSVG(ctx context.Context, spec *models.ChartSpec, w io.Writer) error {
	b, err := s.SVG(ctx, spec.ID, charts.NewOptions(charts.WithSize(s.width, s.height)))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Scenario runs a seeded Monte Carlo comparison of the chart's scenarios.
func (s *ChartService) Scenario(ctx context.Context, id string, draws int, seed int64) (scenario.Result, error) {
	if err := ctx.Err(); err != nil {
		return scenario.Result{}, err
	}
	spec, err := s.spec(id)
	if err != nil {
		return scenario.Result{}, err
	}
	if len(spec.Scenarios) == 0 {
		return scenario.Result{}, fmt.Errorf("chart %s has no scenarios: %w", id, scenario.ErrInvalidScenario)
	}

	start := time.Now()
	res, err := scenario.Simulate(rand.New(rand.NewSource(seed)), spec.Scenarios, draws)
	if err != nil {
		return scenario.Result{}, err
	}
	s.metrics.RecordLatency("scenario_simulate", time.Since(start).Seconds())
	return res, nil
}

// Invalidate drops every cached SVG, e.g. after a deck reload.
func (s *ChartService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, cache.BuildPattern(chartCachePrefix))
}
