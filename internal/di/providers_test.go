package di

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PitchDeck/internal/domain/models"
	internalrepo "PitchDeck/internal/repository"
	"PitchDeck/pkg/config"
	"PitchDeck/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Charts.MemoryEntries = 4
	cfg.Deck.MaxSessions = 100
	cfg.Deck.SessionTTL = time.Hour
	return cfg
}

func TestSessionsSurviveChartChurn(t *testing.T) {
	cfg := memoryConfig()
	ctx := context.Background()

	rc, closeRedis, err := ProvideRedisCache(cfg, logger.Nop())
	require.NoError(t, err)
	defer closeRedis()
	assert.Nil(t, rc)

	chartCache, closeCharts := ProvideCache(rc, cfg)
	defer closeCharts()
	store, closeStore := ProvideSessionStore(rc, cfg)
	defer closeStore()

	require.NoError(t, store.Save(ctx, &models.Session{ID: "live", Index: 2, Total: 5}))

	for i := 0; i < 50; i++ {
		require.NoError(t, chartCache.Set(ctx, fmt.Sprintf("chart:revenue:%d:400", 100+i), []byte("<svg/>"), time.Minute))
	}

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Index)
}

func TestHealthzReportsStorage(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.Port = 0
	srv := ProvideHTTPServer(logger.Nop(), nil, internalrepo.NewMemoryStorage(1), nil, cfg)

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
