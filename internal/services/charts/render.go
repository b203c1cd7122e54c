package charts

import (
	"context"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/services/roadmap"
)

// Renderer draws the cartesian, pie and waterfall families as SVG. The other
// families are data-only and returned to the client as points.
type Renderer struct {
	increase string
	decrease string
	total    string
}

func NewRenderer() *Renderer {
	return &Renderer{increase: "#10B981", decrease: "#EF4444", total: "#3B82F6"}
}

// Supports reports whether t has an SVG rendition.
func Supports(t models.ChartType) bool {
	switch t {
	case models.ChartBar, models.ChartLine, models.ChartArea, models.ChartPie,
		models.ChartDonut, models.ChartWaterfall, models.ChartStacked:
		return true
	}
	return false
}

func (r *Renderer) Render(ctx context.Context, spec *models.ChartSpec, opts ChartOptions, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	var err error
	switch spec.Type {
	case models.ChartBar:
		err = r.bar(spec, opts).Render(chart.SVG, w)
	case models.ChartLine:
		err = r.continuous(spec, opts, false).Render(chart.SVG, w)
	case models.ChartArea:
		err = r.continuous(spec, opts, true).Render(chart.SVG, w)
	case models.ChartPie:
		pie := chart.PieChart{Title: spec.Title, Width: opts.Width, Height: opts.Height, Background: background(opts), Values: r.slices(spec)}
		err = pie.Render(chart.SVG, w)
	case models.ChartDonut:
		donut := chart.DonutChart{Title: spec.Title, Width: opts.Width, Height: opts.Height, Background: background(opts), Values: r.slices(spec)}
		err = donut.Render(chart.SVG, w)
	case models.ChartStacked:
		err = r.stacked(spec, opts).Render(chart.SVG, w)
	case models.ChartWaterfall:
		err = r.waterfall(spec, opts).Render(chart.SVG, w)
	default:
		return fmt.Errorf("%q: %w", spec.Type, ErrUnsupportedChart)
	}
	if err != nil {
		return fmt.Errorf("render %s chart %s: %w", spec.Type, spec.ID, err)
	}
	return nil
}

func background(opts ChartOptions) chart.Style {
	p := opts.palette()
	return chart.Style{FillColor: parseColor(p.background), FontColor: parseColor(p.text), Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}}
}

func canvas(opts ChartOptions) chart.Style {
	return chart.Style{FillColor: parseColor(opts.palette().background)}
}

func axisStyle(opts ChartOptions) chart.Style {
	p := opts.palette()
	return chart.Style{FontColor: parseColor(p.text), StrokeColor: parseColor(p.grid)}
}

func gridStyle(opts ChartOptions) chart.Style {
	if !opts.ShowGrid {
		return chart.Style{Hidden: true}
	}
	return chart.Style{StrokeColor: parseColor(opts.palette().grid), StrokeWidth: 1}
}

func valueFormatter(unit string) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return Display(f, unit)
		}
		return ""
	}
}

func seriesColor(s models.FinancialSeries, i int) drawing.Color {
	if s.Color != "" {
		return parseColor(s.Color)
	}
	return parseColor(roadmap.GenerateColors(i + 1)[i])
}

func (r *Renderer) bar(spec *models.ChartSpec, opts ChartOptions) chart.BarChart {
	n := seriesLen(spec)
	bars := make([]chart.Value, n)
	for i := 0; i < n; i++ {
		c := seriesColor(spec.Series[0], 0)
		bars[i] = chart.Value{Label: spec.Labels[i], Value: spec.Series[0].Values[i], Style: chart.Style{FillColor: c, StrokeColor: c}}
	}

	slot := 1
	if n > 0 {
		slot = (opts.Width - 120) / n
	}
	return chart.BarChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: parseColor(opts.palette().text)},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(opts),
		Canvas:     canvas(opts),
		XAxis:      axisStyle(opts),
		YAxis:      chart.YAxis{Style: axisStyle(opts), ValueFormatter: valueFormatter(spec.Unit)},
		BarWidth:   int(math.Max(1, float64(slot)*0.6)),
		BarSpacing: int(math.Max(1, float64(slot)*0.4)),
		Bars:       bars,
	}
}

func (r *Renderer) ticks(spec *models.ChartSpec, n int) []chart.Tick {
	ticks := make([]chart.Tick, n)
	for i := 0; i < n; i++ {
		ticks[i] = chart.Tick{Value: float64(i), Label: spec.Labels[i]}
	}
	return ticks
}

func (r *Renderer) continuous(spec *models.ChartSpec, opts ChartOptions, fill bool) *chart.Chart {
	n := seriesLen(spec)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	series := make([]chart.Series, 0, len(spec.Series))
	for i, s := range spec.Series {
		c := seriesColor(s, i)
		style := chart.Style{StrokeColor: c, StrokeWidth: 2}
		if fill {
			style.FillColor = c.WithAlpha(64)
		}
		x, y := xs, s.Values[:n]
		// go-chart needs two x values to build a range
		if n == 1 {
			x, y = []float64{0, 1}, []float64{y[0], y[0]}
		}
		series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: x, YValues: y, Style: style})
	}

	c := &chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: parseColor(opts.palette().text)},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(opts),
		Canvas:     canvas(opts),
		XAxis: chart.XAxis{
			Style:          axisStyle(opts),
			Ticks:          r.ticks(spec, n),
			GridMajorStyle: gridStyle(opts),
		},
		YAxis: chart.YAxis{
			Style:          axisStyle(opts),
			ValueFormatter: valueFormatter(spec.Unit),
			GridMajorStyle: gridStyle(opts),
		},
		Series: series,
	}
	if opts.ShowLegend && len(series) > 1 {
		c.Elements = []chart.Renderable{chart.Legend(c)}
	}
	return c
}

func (r *Renderer) slices(spec *models.ChartSpec) []chart.Value {
	if len(spec.Mix) > 0 {
		mix := ProductMix(spec.Mix)
		values := make([]chart.Value, len(mix))
		for i, m := range mix {
			values[i] = chart.Value{Label: m.Product, Value: math.Max(m.Revenue, 0), Style: chart.Style{FillColor: parseColor(m.Color)}}
		}
		return values
	}

	pts := seriesPoints(spec)
	colors := roadmap.GenerateColors(len(pts))
	values := make([]chart.Value, len(pts))
	for i, p := range pts {
		values[i] = chart.Value{Label: p.Label, Value: math.Max(p.Value, 0), Style: chart.Style{FillColor: parseColor(colors[i])}}
	}
	return values
}

// stacked renders one bar per label with a segment per series. go-chart
// normalises each bar to full height, so segments read as shares.
func (r *Renderer) stacked(spec *models.ChartSpec, opts ChartOptions) chart.StackedBarChart {
	n := seriesLen(spec)
	bars := make([]chart.StackedBar, n)
	for i := 0; i < n; i++ {
		values := make([]chart.Value, len(spec.Series))
		for j, s := range spec.Series {
			values[j] = chart.Value{Label: s.Name, Value: math.Max(s.Values[i], 0), Style: chart.Style{FillColor: seriesColor(s, j)}}
		}
		bars[i] = chart.StackedBar{Name: spec.Labels[i], Values: values}
	}
	return chart.StackedBarChart{
		Title:      spec.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(opts),
		Canvas:     canvas(opts),
		XAxis:      axisStyle(opts),
		YAxis:      axisStyle(opts),
		Bars:       bars,
	}
}

// waterfall draws floating bars on top of a connector series that anchors
// the axis ranges.
func (r *Renderer) waterfall(spec *models.ChartSpec, opts ChartOptions) *chart.Chart {
	bars := Waterfall(spec.Steps)
	n := len(bars)

	lo, hi := 0.0, 0.0
	xs := make([]float64, n)
	ends := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, b := range bars {
		lo = math.Min(lo, math.Min(b.Start, b.End))
		hi = math.Max(hi, math.Max(b.Start, b.End))
		xs[i] = float64(i)
		ends[i] = b.End
		ticks[i] = chart.Tick{Value: float64(i), Label: b.Label}
	}
	if hi == lo {
		hi = lo + 1
	}
	if n == 1 {
		xs, ends = []float64{0, 0}, []float64{ends[0], ends[0]}
	}

	p := opts.palette()
	yr := &chart.ContinuousRange{Min: lo, Max: hi}
	xr := &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5}

	floating := func(cr chart.Renderer, box chart.Box, _ chart.Style) {
		if n == 0 {
			return
		}
		slot := float64(box.Width()) / float64(n)
		toY := func(v float64) int {
			return box.Bottom - int(math.Round((v-lo)/(hi-lo)*float64(box.Height())))
		}
		for i, b := range bars {
			color := r.increase
			switch b.Kind {
			case KindDecrease:
				color = r.decrease
			case KindTotal:
				color = r.total
			}
			left := box.Left + int(slot*float64(i)+slot*0.2)
			right := box.Left + int(slot*float64(i)+slot*0.8)
			top, bottom := toY(math.Max(b.Start, b.End)), toY(math.Min(b.Start, b.End))
			if bottom-top < 1 {
				bottom = top + 1
			}
			fill := parseColor(color)
			chart.Draw.Box(cr, chart.Box{Top: top, Left: left, Right: right, Bottom: bottom}, chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1})
		}
	}

	return &chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: parseColor(p.text)},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(opts),
		Canvas:     canvas(opts),
		XAxis:      chart.XAxis{Style: axisStyle(opts), Ticks: ticks, Range: xr},
		YAxis: chart.YAxis{
			Style:          axisStyle(opts),
			Range:          yr,
			ValueFormatter: valueFormatter(spec.Unit),
			GridMajorStyle: gridStyle(opts),
		},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    "running total",
			XValues: xs,
			YValues: ends,
			Style:   chart.Style{StrokeColor: parseColor(p.grid), StrokeWidth: 1, StrokeDashArray: []float64{4, 4}},
		}},
		Elements: []chart.Renderable{floating},
	}
}
