package charts

import (
	"math"
	"sort"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/services/finance"
	"PitchDeck/internal/services/roadmap"
	"PitchDeck/pkg/format"
	"PitchDeck/pkg/util"
)

const (
	KindIncrease = "increase"
	KindDecrease = "decrease"
	KindTotal    = "total"
)

type WaterfallBar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Kind  string  `json:"kind"`
}

// Waterfall turns deltas into floating bars. A total step with a zero value
// shows the running sum; a non-zero total replaces it.
func Waterfall(steps []models.ScenarioStep) []WaterfallBar {
	bars := make([]WaterfallBar, 0, len(steps))
	running := 0.0
	for _, s := range steps {
		if s.Total {
			end := running
			if s.Value != 0 {
				end = s.Value
			}
			bars = append(bars, WaterfallBar{Label: s.Label, Value: end, Start: 0, End: end, Kind: KindTotal})
			running = end
			continue
		}
		kind := KindIncrease
		if s.Value < 0 {
			kind = KindDecrease
		}
		bars = append(bars, WaterfallBar{Label: s.Label, Value: s.Value, Start: running, End: running + s.Value, Kind: kind})
		running += s.Value
	}
	return bars
}

type RiskCell struct {
	models.RiskDataPoint
	Severity float64 `json:"severity"`
	Level    string  `json:"level"`
}

func RiskLevel(severity float64) string {
	switch {
	case severity < 10:
		return "low"
	case severity < 25:
		return "medium"
	case severity < 50:
		return "high"
	default:
		return "critical"
	}
}

// RiskMatrix scores risks and orders them by severity, highest first.
func RiskMatrix(points []models.RiskDataPoint) []RiskCell {
	cells := make([]RiskCell, len(points))
	for i, p := range points {
		sev := finance.RiskSeverity(p.Probability, p.Impact)
		cells[i] = RiskCell{RiskDataPoint: p, Severity: sev, Level: RiskLevel(sev)}
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Severity > cells[j].Severity })
	return cells
}

type SunburstNode struct {
	Name   string  `json:"name"`
	Parent string  `json:"parent,omitempty"`
	Depth  int     `json:"depth"`
	Value  float64 `json:"value"`
	Share  float64 `json:"share"` // percent of parent
}

// MarketSunburst flattens a TAM/SAM/SOM tree in pre-order.
func MarketSunburst(root *models.MarketSegment) []SunburstNode {
	if root == nil {
		return nil
	}
	var out []SunburstNode
	var walk func(seg *models.MarketSegment, parent *models.MarketSegment, depth int)
	walk = func(seg *models.MarketSegment, parent *models.MarketSegment, depth int) {
		node := SunburstNode{Name: seg.Name, Depth: depth, Value: seg.Value, Share: 100}
		if parent != nil {
			node.Parent = parent.Name
			node.Share = 0
			if parent.Value > 0 {
				node.Share = seg.Value / parent.Value * 100
			}
		}
		out = append(out, node)
		for i := range seg.Children {
			walk(&seg.Children[i], seg, depth+1)
		}
	}
	walk(root, nil, 0)
	return out
}

// CohortHeatmap emits one retention cell per cohort and month offset.
func CohortHeatmap(cohorts []models.Cohort) []models.HeatmapCell {
	var cells []models.HeatmapCell
	for _, c := range cohorts {
		for month, active := range c.Active {
			cells = append(cells, models.HeatmapCell{
				Row:   c.Name,
				Col:   month,
				Value: finance.CohortRetention(c.Initial, active),
			})
		}
	}
	return cells
}

const (
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
	StatusUpcoming   = "upcoming"
	StatusOverdue    = "overdue"
)

type GanttTask struct {
	models.GanttMilestone
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
	Status  string `json:"status"`
}

// Gantt derives each milestone's status from its progress and dates relative to now.
// Unparseable dates become zero.
func Gantt(milestones []models.GanttMilestone, now time.Time) []GanttTask {
	tasks := make([]GanttTask, len(milestones))
	for i, m := range milestones {
		start, hasStart := util.ParseTime(m.Start)
		end, hasEnd := util.ParseTime(m.End)

		t := GanttTask{GanttMilestone: m}
		if hasStart {
			t.StartMs = start.UnixMilli()
		}
		if hasEnd {
			t.EndMs = end.UnixMilli()
		}

		switch {
		case m.Progress >= 100:
			t.Status = StatusCompleted
		case hasEnd && end.Before(now):
			t.Status = StatusOverdue
		case !hasStart || start.After(now):
			t.Status = StatusUpcoming
		default:
			t.Status = StatusInProgress
		}
		tasks[i] = t
	}
	return tasks
}

type MixSlice struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"`
	Color   string  `json:"color"`
}

// ProductMix computes each product's share of total revenue.
func ProductMix(entries []models.ProductMixEntry) []MixSlice {
	total := 0.0
	for _, e := range entries {
		total += math.Max(e.Revenue, 0)
	}
	palette := roadmap.GenerateColors(len(entries))
	out := make([]MixSlice, len(entries))
	for i, e := range entries {
		s := MixSlice{Product: e.Product, Revenue: e.Revenue, Color: e.Color}
		if s.Color == "" {
			s.Color = palette[i]
		}
		if total > 0 && e.Revenue > 0 {
			s.Share = e.Revenue / total * 100
		}
		out[i] = s
	}
	return out
}

type RadarPoint struct {
	Axis       string  `json:"axis"`
	Value      float64 `json:"value"`
	Max        float64 `json:"max"`
	Normalized float64 `json:"normalized"`
}

// Radar scales each axis to 0-100 against its own maximum.
func Radar(axes []models.RadarAxis) []RadarPoint {
	out := make([]RadarPoint, len(axes))
	for i, a := range axes {
		p := RadarPoint{Axis: a.Axis, Value: a.Value, Max: a.Max}
		if a.Max > 0 {
			p.Normalized = math.Max(0, math.Min(100, a.Value/a.Max*100))
		}
		out[i] = p
	}
	return out
}

const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

type MetricTrendPoint struct {
	models.MetricDataPoint
	Change    float64         `json:"change"` // percent vs target
	Trend     string          `json:"trend"`
	Display   string          `json:"display"`
	Sparkline []finance.Point `json:"sparkline,omitempty"`
}

// MetricTrend compares each metric with its target and its previous history value.
func MetricTrend(points []models.MetricDataPoint) []MetricTrendPoint {
	out := make([]MetricTrendPoint, len(points))
	for i, p := range points {
		m := MetricTrendPoint{MetricDataPoint: p, Trend: TrendFlat, Display: Display(p.Value, p.Unit)}
		if change, err := finance.PercentageChange(p.Target, p.Value); err == nil {
			m.Change = change
		}
		if n := len(p.History); n > 0 {
			prev := p.History[n-1]
			if n > 1 && prev == p.Value {
				prev = p.History[n-2]
			}
			switch {
			case p.Value > prev:
				m.Trend = TrendUp
			case p.Value < prev:
				m.Trend = TrendDown
			}
			m.Sparkline = finance.Sparkline(p.History, 100, 30)
		}
		out[i] = m
	}
	return out
}

// Display formats a value for its unit.
func Display(v float64, unit string) string {
	switch unit {
	case "currency":
		return format.FormatCurrency(v)
	case "percent":
		return format.FormatPercentage(v)
	default:
		return format.FormatNumber(v, 0)
	}
}

type SurfaceData struct {
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Z    []float64 `json:"z"` // row-major, Rows x Cols
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Min  float64   `json:"min"`
	Max  float64   `json:"max"`
}

// Surface truncates a grid to the largest rectangle every axis covers.
func Surface(g *models.SurfaceGrid) SurfaceData {
	if g == nil {
		return SurfaceData{}
	}
	rows := len(g.Y)
	if len(g.Z) < rows {
		rows = len(g.Z)
	}
	cols := len(g.X)
	for r := 0; r < rows; r++ {
		if len(g.Z[r]) < cols {
			cols = len(g.Z[r])
		}
	}
	if rows == 0 || cols == 0 {
		return SurfaceData{}
	}

	s := SurfaceData{
		X:    g.X[:cols],
		Y:    g.Y[:rows],
		Z:    make([]float64, 0, rows*cols),
		Rows: rows,
		Cols: cols,
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			z := g.Z[r][c]
			s.Z = append(s.Z, z)
			s.Min = math.Min(s.Min, z)
			s.Max = math.Max(s.Max, z)
		}
	}
	return s
}
