package models

import "time"

type MetricCard struct {
	Label  string  `json:"label" yaml:"label"`
	Value  float64 `json:"value" yaml:"value"`
	Unit   string  `json:"unit" yaml:"unit"` // currency, percent, number
	Change float64 `json:"change,omitempty" yaml:"change,omitempty"`
	Note   string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// Tab groups a subset of a slide's charts.
type Tab struct {
	ID     string   `json:"id" yaml:"id"`
	Label  string   `json:"label" yaml:"label"`
	Charts []string `json:"charts" yaml:"charts"`
	Notes  string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type Slide struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Subtitle  string       `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Summary   string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Metrics   []MetricCard `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tabs      []Tab        `json:"tabs,omitempty" yaml:"tabs,omitempty"`
	Scenarios []string     `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	Charts    []ChartSpec  `json:"charts,omitempty" yaml:"charts,omitempty"`
}

// Chart looks up a chart by id.
func (s *Slide) Chart(id string) (*ChartSpec, bool) {
	for i := range s.Charts {
		if s.Charts[i].ID == id {
			return &s.Charts[i], true
		}
	}
	return nil, false
}

func (s *Slide) HasTab(id string) bool {
	for _, t := range s.Tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Slide) HasScenario(name string) bool {
	for _, sc := range s.Scenarios {
		if sc == name {
			return true
		}
	}
	return false
}

type FinancialRow struct {
	Year      int     `json:"year" yaml:"year"`
	Revenue   float64 `json:"revenue" yaml:"revenue"`
	EBITDA    float64 `json:"ebitda" yaml:"ebitda"`
	Customers int     `json:"customers" yaml:"customers"`
}

type Deck struct {
	Title      string         `json:"title" yaml:"title"`
	Company    string         `json:"company" yaml:"company"`
	Tagline    string         `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Financials []FinancialRow `json:"financials" yaml:"financials"`
	Roadmap    RoadmapRequest `json:"roadmap" yaml:"roadmap"`
	Slides     []Slide        `json:"slides" yaml:"slides"`
}

// Slide returns the slide with the given id and its index.
func (d *Deck) Slide(id string) (*Slide, int, bool) {
	for i := range d.Slides {
		if d.Slides[i].ID == id {
			return &d.Slides[i], i, true
		}
	}
	return nil, -1, false
}

// Chart searches every slide for a chart id.
func (d *Deck) Chart(id string) (*ChartSpec, bool) {
	for i := range d.Slides {
		if c, ok := d.Slides[i].Chart(id); ok {
			return c, true
		}
	}
	return nil, false
}

// Session is one viewer's position in the deck.
type Session struct {
	ID        string            `json:"id"`
	Index     int               `json:"index"`
	Total     int               `json:"total"`
	Tabs      map[string]string `json:"tabs"`      // slide id -> tab id
	Scenarios map[string]string `json:"scenarios"` // slide id -> scenario
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Progress is the deck shell's position indicator.
type Progress struct {
	Index   int     `json:"index"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// SessionView is what clients receive after every navigation change.
type SessionView struct {
	Session  Session  `json:"session"`
	Slide    Slide    `json:"slide"`
	Progress Progress `json:"progress"`
	Tab      string   `json:"tab,omitempty"`
	Scenario string   `json:"scenario,omitempty"`
}
