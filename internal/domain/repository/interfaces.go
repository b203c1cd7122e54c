package repository

import (
	"context"
	"errors"
	"time"

	"PitchDeck/internal/domain/models"
)

var ErrSessionNotFound = errors.New("session not found")

// DeckSource loads deck content. Slides and datasets are configuration, not code.
type DeckSource interface {
	Load(ctx context.Context) (*models.Deck, error)
}

type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(ctx context.Context, e *models.DeckEvent) error
	PublishBatch(ctx context.Context, events []*models.DeckEvent) error
	Close() error
}

type Storage interface {
	Store(ctx context.Context, e *models.DeckEvent) error
	StoreBatch(ctx context.Context, events []*models.DeckEvent) error
	// Query treats a zero from or to as an open bound.
	Query(ctx context.Context, sessionID string, from, to time.Time, limit int) ([]*models.DeckEvent, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordEventSent(backend, kind string)
	RecordEventDropped(reason string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordSlideView(slideID string)
	RecordWorkerJob(action, outcome string)
	RecordQueueDepth(depth int)
	RecordBufferDepth(depth int)
	RecordChartRender(chartType string, seconds float64, cached bool)
	RecordActiveFollowers(n int)
}
