package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/domain/repository"
	pkgkafka "PitchDeck/pkg/kafka"
)

const eventColumns = "session_id, kind, slide_index, slide_id, detail, timestamp"

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseStorage creates ClickHouse storage.
func NewClickHouseStorage(db *sql.DB, table string) repository.Storage {
	return &ClickHouseStorage{db: db, table: table}
}

func (s *ClickHouseStorage) Store(ctx context.Context, e *models.DeckEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)", s.table, eventColumns)
	_, err := s.db.ExecContext(ctx, q, eventArgs(e)...)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, events []*models.DeckEvent) error {
	if len(events) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, e := range events[start:end] {
			if e == nil || e.SessionID == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args, eventArgs(e)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, eventColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func eventArgs(e *models.DeckEvent) []interface{} {
	return []interface{}{e.SessionID, string(e.Kind), uint16(e.SlideIndex), e.SlideID, e.Detail, e.Timestamp.UTC()}
}

func (s *ClickHouseStorage) Query(ctx context.Context, sessionID string, from, to time.Time, limit int) ([]*models.DeckEvent, error) {
	q, args := s.rangeQuery(sessionID, from, to, limit)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.DeckEvent
	for rows.Next() {
		var (
			e     models.DeckEvent
			kind  string
			index uint16
		)
		if err := rows.Scan(&e.SessionID, &kind, &index, &e.SlideID, &e.Detail, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Kind = models.EventKind(kind)
		e.SlideIndex = int(index)
		events = append(events, &e)
	}
	return events, rows.Err()
}

// rangeQuery leaves a side of the range open when its bound is zero.
func (s *ClickHouseStorage) rangeQuery(sessionID string, from, to time.Time, limit int) (string, []interface{}) {
	where := []string{"session_id = ?"}
	args := []interface{}{sessionID}
	if !from.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, to.UTC())
	}
	args = append(args, limit)
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY timestamp DESC LIMIT ?", eventColumns, s.table, strings.Join(where, " AND "))
	return q, args
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // managed by pkg/clickhouse
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends one event keyed by session so a session's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e *models.DeckEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.SessionID), e)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, events []*models.DeckEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(e.SessionID), Value: e})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// MemoryStorage keeps the most recent events per session in process.
// It backs the "none" backend so the events endpoint still answers.
type MemoryStorage struct {
	mu         sync.RWMutex
	perSession int
	events     map[string][]*models.DeckEvent
}

// NewMemoryStorage keeps at most perSession events for each session.
func NewMemoryStorage(perSession int) *MemoryStorage {
	if perSession <= 0 {
		perSession = 500
	}
	return &MemoryStorage{perSession: perSession, events: make(map[string][]*models.DeckEvent)}
}

func (s *MemoryStorage) Store(_ context.Context, e *models.DeckEvent) error {
	if e == nil {
		return nil
	}
	cp := *e

	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.events[e.SessionID], &cp)
	if len(list) > s.perSession {
		list = list[len(list)-s.perSession:]
	}
	s.events[e.SessionID] = list
	return nil
}

func (s *MemoryStorage) StoreBatch(ctx context.Context, events []*models.DeckEvent) error {
	for _, e := range events {
		if err := s.Store(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Query returns events newest first, like the ClickHouse query. Zero from or to
// leaves that side of the range open.
func (s *MemoryStorage) Query(_ context.Context, sessionID string, from, to time.Time, limit int) ([]*models.DeckEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DeckEvent
	for _, e := range s.events[sessionID] {
		if (!from.IsZero() && e.Timestamp.Before(from)) || (!to.IsZero() && e.Timestamp.After(to)) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) Health(context.Context) error { return nil }

func (s *MemoryStorage) Close() error { return nil }
