package models

// Chart record shapes. Each chart family keeps its own shape; the charts
// service adapts them to a common point at the boundary.

type FinancialSeries struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
	Color  string    `json:"color,omitempty" yaml:"color,omitempty"`
}

// ScenarioStep is one bar of a waterfall. Total steps reset the running sum.
type ScenarioStep struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Total bool    `json:"total,omitempty" yaml:"total,omitempty"`
}

type ProductMixEntry struct {
	Product string  `json:"product" yaml:"product"`
	Revenue float64 `json:"revenue" yaml:"revenue"`
	Color   string  `json:"color,omitempty" yaml:"color,omitempty"`
}

type RiskDataPoint struct {
	ID          string  `json:"id" yaml:"id"`
	Risk        string  `json:"risk" yaml:"risk"`
	Category    string  `json:"category" yaml:"category"`
	Probability float64 `json:"probability" yaml:"probability"` // 0-100
	Impact      float64 `json:"impact" yaml:"impact"`           // 0-100
	Mitigation  string  `json:"mitigation,omitempty" yaml:"mitigation,omitempty"`
}

type MetricDataPoint struct {
	Name    string    `json:"name" yaml:"name"`
	Value   float64   `json:"value" yaml:"value"`
	Target  float64   `json:"target" yaml:"target"`
	Unit    string    `json:"unit" yaml:"unit"` // currency, percent, number
	History []float64 `json:"history,omitempty" yaml:"history,omitempty"`
}

type GanttMilestone struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Start    string  `json:"start" yaml:"start"`
	End      string  `json:"end" yaml:"end"`
	Progress float64 `json:"progress" yaml:"progress"` // 0-100
	Owner    string  `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// MarketSegment is a TAM/SAM/SOM node.
type MarketSegment struct {
	Name     string          `json:"name" yaml:"name"`
	Value    float64         `json:"value" yaml:"value"`
	Children []MarketSegment `json:"children,omitempty" yaml:"children,omitempty"`
}

type Cohort struct {
	Name    string `json:"name" yaml:"name"`
	Initial int    `json:"initial" yaml:"initial"`
	Active  []int  `json:"active" yaml:"active"` // active users per month offset
}

type RadarAxis struct {
	Axis  string  `json:"axis" yaml:"axis"`
	Value float64 `json:"value" yaml:"value"`
	Max   float64 `json:"max" yaml:"max"`
}

type HeatmapCell struct {
	Row   string  `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"`
}

// SurfaceGrid is a z = f(x, y) sample grid; Z is indexed [y][x].
type SurfaceGrid struct {
	X []float64   `json:"x" yaml:"x"`
	Y []float64   `json:"y" yaml:"y"`
	Z [][]float64 `json:"z" yaml:"z"`
}

// ScenarioOption is one branch of a scenario comparison.
type ScenarioOption struct {
	Name        string    `json:"name" yaml:"name"`
	Probability float64   `json:"probability" yaml:"probability"`
	Values      []float64 `json:"values" yaml:"values"`
}

type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartArea      ChartType = "area"
	ChartPie       ChartType = "pie"
	ChartDonut     ChartType = "donut"
	ChartWaterfall ChartType = "waterfall"
	ChartStacked   ChartType = "stacked"
	ChartSunburst  ChartType = "sunburst"
	ChartRadar     ChartType = "radar"
	ChartHeatmap   ChartType = "heatmap"
	ChartGantt     ChartType = "gantt"
	ChartRisk      ChartType = "risk"
	ChartMetric    ChartType = "metric"
	ChartSurface   ChartType = "surface"
	ChartScenario  ChartType = "scenario"
)

// ChartSpec is a chart as authored in the deck. Only the fields matching
// Type are read.
type ChartSpec struct {
	ID         string            `json:"id" yaml:"id"`
	Type       ChartType         `json:"type" yaml:"type"`
	Title      string            `json:"title" yaml:"title"`
	Unit       string            `json:"unit,omitempty" yaml:"unit,omitempty"`
	Labels     []string          `json:"labels,omitempty" yaml:"labels,omitempty"`
	Series     []FinancialSeries `json:"series,omitempty" yaml:"series,omitempty"`
	Steps      []ScenarioStep    `json:"steps,omitempty" yaml:"steps,omitempty"`
	Mix        []ProductMixEntry `json:"mix,omitempty" yaml:"mix,omitempty"`
	Risks      []RiskDataPoint   `json:"risks,omitempty" yaml:"risks,omitempty"`
	Metrics    []MetricDataPoint `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Milestones []GanttMilestone  `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Market     *MarketSegment    `json:"market,omitempty" yaml:"market,omitempty"`
	Cohorts    []Cohort          `json:"cohorts,omitempty" yaml:"cohorts,omitempty"`
	Axes       []RadarAxis       `json:"axes,omitempty" yaml:"axes,omitempty"`
	Surface    *SurfaceGrid      `json:"surface,omitempty" yaml:"surface,omitempty"`
	Scenarios  []ScenarioOption  `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}
