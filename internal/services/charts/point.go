// Package charts adapts per-chart record shapes to a common point and
// renders the simple chart families to SVG.
package charts

import (
	"errors"
	"fmt"
	"time"

	"PitchDeck/internal/domain/models"
)

var (
	ErrUnsupportedChart = errors.New("charts: unsupported chart type")
	ErrPointOutOfRange  = errors.New("charts: point index out of range")
)

// Point is the canonical datum every chart family adapts to.
type Point struct {
	Label    string                 `json:"label"`
	Value    float64                `json:"value"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Points flattens a chart into the data a click on element i refers to.
func Points(spec *models.ChartSpec, now time.Time) ([]Point, error) {
	switch spec.Type {
	case models.ChartBar, models.ChartLine, models.ChartArea, models.ChartStacked:
		return seriesPoints(spec), nil
	case models.ChartPie, models.ChartDonut:
		if len(spec.Mix) > 0 {
			return mixPoints(ProductMix(spec.Mix)), nil
		}
		return seriesPoints(spec), nil
	case models.ChartWaterfall:
		bars := Waterfall(spec.Steps)
		pts := make([]Point, len(bars))
		for i, b := range bars {
			pts[i] = Point{Label: b.Label, Value: b.Value, Metadata: map[string]interface{}{
				"start": b.Start, "end": b.End, "kind": b.Kind,
			}}
		}
		return pts, nil
	case models.ChartRisk:
		cells := RiskMatrix(spec.Risks)
		pts := make([]Point, len(cells))
		for i, c := range cells {
			pts[i] = Point{Label: c.Risk, Value: c.Severity, Metadata: map[string]interface{}{
				"id": c.ID, "category": c.Category, "probability": c.Probability,
				"impact": c.Impact, "level": c.Level, "mitigation": c.Mitigation,
			}}
		}
		return pts, nil
	case models.ChartSunburst:
		nodes := MarketSunburst(spec.Market)
		pts := make([]Point, len(nodes))
		for i, n := range nodes {
			pts[i] = Point{Label: n.Name, Value: n.Value, Metadata: map[string]interface{}{
				"parent": n.Parent, "depth": n.Depth, "share": n.Share,
			}}
		}
		return pts, nil
	case models.ChartHeatmap:
		cells := CohortHeatmap(spec.Cohorts)
		pts := make([]Point, len(cells))
		for i, c := range cells {
			pts[i] = Point{Label: fmt.Sprintf("%s M%d", c.Row, c.Col), Value: c.Value, Metadata: map[string]interface{}{
				"cohort": c.Row, "month": c.Col,
			}}
		}
		return pts, nil
	case models.ChartGantt:
		tasks := Gantt(spec.Milestones, now)
		pts := make([]Point, len(tasks))
		for i, t := range tasks {
			pts[i] = Point{Label: t.Name, Value: t.Progress, Metadata: map[string]interface{}{
				"id": t.ID, "start": t.StartMs, "end": t.EndMs, "status": t.Status, "owner": t.Owner,
			}}
		}
		return pts, nil
	case models.ChartRadar:
		axes := Radar(spec.Axes)
		pts := make([]Point, len(axes))
		for i, a := range axes {
			pts[i] = Point{Label: a.Axis, Value: a.Normalized, Metadata: map[string]interface{}{
				"raw": a.Value, "max": a.Max,
			}}
		}
		return pts, nil
	case models.ChartMetric:
		trends := MetricTrend(spec.Metrics)
		pts := make([]Point, len(trends))
		for i, m := range trends {
			pts[i] = Point{Label: m.Name, Value: m.Value, Metadata: map[string]interface{}{
				"target": m.Target, "change": m.Change, "trend": m.Trend, "display": m.Display,
			}}
		}
		return pts, nil
	case models.ChartSurface:
		s := Surface(spec.Surface)
		pts := make([]Point, 0, len(s.Z))
		for i, z := range s.Z {
			x, y := s.X[i%s.Cols], s.Y[i/s.Cols]
			pts = append(pts, Point{Label: fmt.Sprintf("%g,%g", x, y), Value: z, Metadata: map[string]interface{}{
				"x": x, "y": y,
			}})
		}
		return pts, nil
	case models.ChartScenario:
		pts := make([]Point, len(spec.Scenarios))
		for i, s := range spec.Scenarios {
			end := 0.0
			if len(s.Values) > 0 {
				end = s.Values[len(s.Values)-1]
			}
			pts[i] = Point{Label: s.Name, Value: end, Metadata: map[string]interface{}{
				"probability": s.Probability,
			}}
		}
		return pts, nil
	}
	return nil, fmt.Errorf("%q: %w", spec.Type, ErrUnsupportedChart)
}

// PointAt returns the i-th datum of a chart.
func PointAt(spec *models.ChartSpec, i int, now time.Time) (Point, error) {
	pts, err := Points(spec, now)
	if err != nil {
		return Point{}, err
	}
	if i < 0 || i >= len(pts) {
		return Point{}, fmt.Errorf("chart %s index %d of %d: %w", spec.ID, i, len(pts), ErrPointOutOfRange)
	}
	return pts[i], nil
}

// seriesLen is the number of labels every series can fill.
func seriesLen(spec *models.ChartSpec) int {
	n := len(spec.Labels)
	for _, s := range spec.Series {
		if len(s.Values) < n {
			n = len(s.Values)
		}
	}
	if len(spec.Series) == 0 {
		return 0
	}
	return n
}

func seriesPoints(spec *models.ChartSpec) []Point {
	n := seriesLen(spec)
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		meta := make(map[string]interface{}, len(spec.Series))
		for _, s := range spec.Series {
			meta[s.Name] = s.Values[i]
		}
		pts[i] = Point{Label: spec.Labels[i], Value: spec.Series[0].Values[i], Metadata: meta}
	}
	return pts
}

func mixPoints(slices []MixSlice) []Point {
	pts := make([]Point, len(slices))
	for i, s := range slices {
		pts[i] = Point{Label: s.Product, Value: s.Revenue, Metadata: map[string]interface{}{
			"share": s.Share, "color": s.Color,
		}}
	}
	return pts
}
