package service

import (
	"context"
	"io"

	"PitchDeck/internal/domain/models"
)

// RoadmapPreparer reshapes roadmap phases into range-bar chart data.
type RoadmapPreparer interface {
	Prepare(ctx context.Context, req models.RoadmapRequest) (*models.RoadmapChartData, error)
}

// ChartRenderer draws a chart as SVG.
type ChartRenderer interface {
	RenderSVG(ctx context.Context, spec *models.ChartSpec, w io.Writer) error
}

// EventSink accepts engagement events without blocking navigation.
type EventSink interface {
	Record(e *models.DeckEvent) bool
}
