package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PitchDeck/internal/domain/models"
	domrepo "PitchDeck/internal/domain/repository"
	"PitchDeck/pkg/cache"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLDeckSource_EmbeddedDeck(t *testing.T) {
	d, err := NewYAMLDeckSource("").Load(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(d.Slides))
	for _, s := range d.Slides {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"executive-summary", "market-analysis", "products", "roadmap", "financials", "risk"}, ids)
	assert.Len(t, d.Financials, 5)
	assert.Len(t, d.Roadmap.Phases, 4)

	fin, _, ok := d.Slide("financials")
	require.True(t, ok)
	assert.True(t, fin.HasScenario("base"))

	c, ok := d.Chart("revenue-scenarios")
	require.True(t, ok)
	assert.Equal(t, models.ChartScenario, c.Type)
	assert.Len(t, c.Scenarios, 3)
}

func TestYAMLDeckSource_PathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: T\nslides:\n  - id: only\n    title: Only\n"), 0o644))

	d, err := NewYAMLDeckSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Slides, 1)
	assert.Equal(t, "only", d.Slides[0].ID)

	_, err = NewYAMLDeckSource(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	require.Error(t, err)
}

func TestParseDeck_Rejects(t *testing.T) {
	v := validator.New()

	_, err := ParseDeck([]byte("title: empty\n"), v)
	assert.ErrorIs(t, err, ErrEmptyDeck)

	_, err = ParseDeck([]byte("slides:\n  - id: a\n  - id: a\n"), v)
	assert.ErrorContains(t, err, "duplicate slide id")

	_, err = ParseDeck([]byte("slides:\n  - id: a\n    tabs:\n      - { id: t, charts: [ghost] }\n"), v)
	assert.ErrorContains(t, err, "unknown chart")

	_, err = ParseDeck([]byte("slides:\n  - id: a\nroadmap:\n  phases:\n    - { name: P, start: \"2025-01-01\" }\n"), v)
	assert.ErrorContains(t, err, "roadmap")
}

func TestCacheSessionStore(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	store := NewCacheSessionStore(mem, time.Minute)
	ctx := context.Background()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, domrepo.ErrSessionNotFound)

	s := &models.Session{ID: "abc", Index: 2, Total: 6, Tabs: map[string]string{"financials": "cohorts"}}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, "cohorts", got.Tabs["financials"])

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domrepo.ErrSessionNotFound)
}

func TestMemoryStorage_QueryNewestFirstWithinRange(t *testing.T) {
	s := NewMemoryStorage(3)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Store(ctx, &models.DeckEvent{
			SessionID:  "s1",
			Kind:       models.EventSlideViewed,
			SlideIndex: i,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.Query(ctx, "s1", base, base.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 4, got[0].SlideIndex)
	assert.Equal(t, 2, got[2].SlideIndex)

	got, err = s.Query(ctx, "s1", base.Add(3*time.Minute), base.Add(3*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].SlideIndex)

	got, err = s.Query(ctx, "other", base, base.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStorage_QueryOpenBounds(t *testing.T) {
	s := NewMemoryStorage(10)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Store(ctx, &models.DeckEvent{SessionID: "s1", SlideIndex: i, Timestamp: base.Add(time.Duration(i) * time.Hour)}))
	}

	got, err := s.Query(ctx, "s1", time.Time{}, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.Query(ctx, "s1", base.Add(time.Hour), time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].SlideIndex)

	got, err = s.Query(ctx, "s1", time.Time{}, base.Add(30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].SlideIndex)
}

func TestClickHouseStorage_RangeQuery(t *testing.T) {
	s := &ClickHouseStorage{table: "deck_events"}
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	q, args := s.rangeQuery("s1", time.Time{}, time.Time{}, 50)
	assert.Contains(t, q, "WHERE session_id = ? ORDER BY")
	assert.Equal(t, []interface{}{"s1", 50}, args)

	q, args = s.rangeQuery("s1", from, time.Time{}, 50)
	assert.Contains(t, q, "session_id = ? AND timestamp >= ? ORDER BY")
	assert.Equal(t, []interface{}{"s1", from, 50}, args)

	q, args = s.rangeQuery("s1", from, to, 5)
	assert.Contains(t, q, "timestamp >= ? AND timestamp <= ?")
	assert.Equal(t, []interface{}{"s1", from, to, 5}, args)
}
