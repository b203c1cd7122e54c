package repository

import (
	"context"
	"errors"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/domain/repository"
	"PitchDeck/pkg/cache"
)

const sessionPrefix = "session"

// CacheSessionStore keeps sessions in a cache.Service: memory in a single
// instance, Redis when several instances share viewers.
type CacheSessionStore struct {
	c   cache.Service
	ttl time.Duration
}

func NewCacheSessionStore(c cache.Service, ttl time.Duration) repository.SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &CacheSessionStore{c: c, ttl: ttl}
}

func (s *CacheSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.c.Get(ctx, cache.GenerateKey(sessionPrefix, id), &sess); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Save writes the session and refreshes its TTL.
func (s *CacheSessionStore) Save(ctx context.Context, sess *models.Session) error {
	return s.c.Set(ctx, cache.GenerateKey(sessionPrefix, sess.ID), sess, s.ttl)
}

func (s *CacheSessionStore) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, cache.GenerateKey(sessionPrefix, id))
}
