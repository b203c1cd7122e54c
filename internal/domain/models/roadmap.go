package models

// Milestone is a dated marker inside a roadmap phase.
type Milestone struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Date  string `json:"date" yaml:"date" validate:"required"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Phase is one bar of the execution roadmap. Dates are ISO (YYYY-MM-DD) or RFC3339.
type Phase struct {
	Name       string      `json:"name" yaml:"name" validate:"required"`
	Start      string      `json:"start" yaml:"start" validate:"required"`
	End        string      `json:"end" yaml:"end" validate:"required"`
	Milestones []Milestone `json:"milestones" yaml:"milestones" validate:"dive"`
}

// RoadmapRequest is the prepareData payload.
type RoadmapRequest struct {
	Phases []Phase  `json:"phases" yaml:"phases" validate:"required,min=1,dive"`
	Years  []int    `json:"years" yaml:"years"`
	Colors []string `json:"colors,omitempty" yaml:"colors,omitempty"`
}

type Goal struct {
	Name        string `json:"name"`
	Value       int64  `json:"value"`
	StrokeColor string `json:"strokeColor"`
}

// RangeBar spans [start, end] in unix milliseconds.
type RangeBar struct {
	X         string   `json:"x"`
	Y         [2]int64 `json:"y"`
	FillColor string   `json:"fillColor"`
	Goals     []Goal   `json:"goals"`
}

type RoadmapSeries struct {
	Name string     `json:"name"`
	Data []RangeBar `json:"data"`
}

type AnnotationPoint struct {
	X         int64  `json:"x"`
	Y         string `json:"y"`
	FillColor string `json:"fillColor"`
	Label     string `json:"label"`
}

type YearMarker struct {
	X     int64  `json:"x"`
	Label string `json:"label"`
}

type Annotations struct {
	Points      []AnnotationPoint `json:"points"`
	YearMarkers []YearMarker      `json:"yearMarkers"`
}

type RoadmapTableRow struct {
	Phase      string `json:"phase"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Duration   string `json:"duration"`
	Months     int    `json:"months"`
	Milestones int    `json:"milestones"`
}

// RoadmapChartData is everything a range-bar chart and its summary table need.
type RoadmapChartData struct {
	Series      []RoadmapSeries   `json:"series"`
	Annotations Annotations       `json:"annotations"`
	MinDate     int64             `json:"minDate"`
	MaxDate     int64             `json:"maxDate"`
	TableData   []RoadmapTableRow `json:"tableData"`
	Phases      []Phase           `json:"phases"`
	Colors      []string          `json:"colors"`
}
