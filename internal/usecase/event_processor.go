package usecase

import (
	"context"
	"fmt"
	"time"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
)

const (
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
	BackendNone       = "none"
)

// EventProcessor routes deck events to the configured backend.
// The "none" backend writes to the in-process storage.
type EventProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

func NewEventProcessor(pub drepo.Publisher, store drepo.Storage, metrics drepo.Metrics, backend string) *EventProcessor {
	return &EventProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process processes a single event and routes it to the configured backend.
func (p *EventProcessor) Process(ctx context.Context, e *models.DeckEvent) error {
	if e == nil {
		return fmt.Errorf("event is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case BackendKafka:
		if p.pub == nil {
			return fmt.Errorf("kafka backend without publisher")
		}
		err = p.pub.Publish(ctx, e)
	case BackendClickHouse, BackendNone:
		if p.store == nil {
			return fmt.Errorf("%s backend without storage", p.backend)
		}
		err = p.store.Store(ctx, e)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process event: %w", err)
	}

	p.metrics.RecordEventSent(p.backend, string(e.Kind))
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch processes multiple events in a batch.
func (p *EventProcessor) ProcessBatch(ctx context.Context, events []*models.DeckEvent) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case BackendKafka:
		if p.pub == nil {
			return fmt.Errorf("kafka backend without publisher")
		}
		err = p.pub.PublishBatch(ctx, events)
	case BackendClickHouse, BackendNone:
		if p.store == nil {
			return fmt.Errorf("%s backend without storage", p.backend)
		}
		err = p.store.StoreBatch(ctx, events)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, e := range events {
		p.metrics.RecordEventSent(p.backend, string(e.Kind))
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Backend names the active backend.
func (p *EventProcessor) Backend() string { return p.backend }

// Close closes underlying resources if available.
func (p *EventProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
