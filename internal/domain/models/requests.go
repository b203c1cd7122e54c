package models

// Requests for HTTP endpoints, bound by echo and checked with validator tags.

type CreateSessionRequest struct {
	Start int `json:"start" query:"start" default:"0" validate:"gte=0"`
}

type NavigateRequest struct {
	ID        string  `param:"id" json:"-" validate:"required,uuid"`
	Action    string  `json:"action" validate:"required,oneof=next prev goto swipe key"`
	Index     int     `json:"index"`
	DeltaX    float64 `json:"deltaX"`
	Threshold float64 `json:"threshold" validate:"gte=0"`
	Key       string  `json:"key"`
}

type SelectRequest struct {
	ID    string `param:"id" json:"-" validate:"required,uuid"`
	Slide string `json:"slide" validate:"required,slug"`
	Value string `json:"value" validate:"required"`
}

type ChartRenderRequest struct {
	ID     string `param:"id" validate:"required,slug"`
	Width  int    `query:"width" default:"800" validate:"gte=100,lte=4000"`
	Height int    `query:"height" default:"400" validate:"gte=100,lte=4000"`
	Theme  string `query:"theme" default:"light" validate:"oneof=light dark"`
	Legend string `query:"legend" default:"true" validate:"oneof=true false"`
	Grid   string `query:"grid" default:"true" validate:"oneof=true false"`
}

type ChartPointRequest struct {
	ID    string `param:"id" validate:"required,slug"`
	Index int    `param:"index" validate:"gte=0"`
}

type ScenarioRequest struct {
	ID    string `param:"id" validate:"required,slug"`
	Draws int    `query:"draws" default:"10000" validate:"gte=1,lte=200000"`
	Seed  int64  `query:"seed" default:"1"`
}

type ExportRequest struct {
	Session string `query:"session" validate:"omitempty,uuid"`
}
