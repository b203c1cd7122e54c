package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/repository"
	"PitchDeck/internal/service/ratelimit"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/usecase"
	"PitchDeck/pkg/cache"
	"PitchDeck/pkg/logger"
	"PitchDeck/pkg/metrics"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// storeSink writes events straight into storage so history queries see them.
type storeSink struct{ st *repository.MemoryStorage }

func (s storeSink) Record(e *models.DeckEvent) bool {
	return s.st.Store(context.Background(), e) == nil
}

func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()
	sessions := cache.NewMemoryCache()
	svgs := cache.NewMemoryCache(cache.WithMemoryMaxSize(16))
	t.Cleanup(func() {
		_ = sessions.Close()
		_ = svgs.Close()
	})

	worker := usecase.NewRoadmapWorker(logger.Nop(), metrics.Nop{})
	require.NoError(t, worker.Start(context.Background()))
	t.Cleanup(worker.Stop)

	history := repository.NewMemoryStorage(100)
	deck := usecase.NewDeckService(
		repository.NewYAMLDeckSource(""),
		repository.NewCacheSessionStore(sessions, time.Hour),
		storeSink{history},
		metrics.Nop{},
		logger.Nop(),
		usecase.WithRoadmapPreparer(worker),
		usecase.WithEventStorage(history),
	)
	require.NoError(t, deck.Reload(context.Background()))

	chartSvc := usecase.NewChartService(deck, charts.NewRenderer(), svgs, metrics.Nop{}, logger.Nop())
	exportSvc := usecase.NewExportService(deck, chartSvc, metrics.Nop{}, logger.Nop())

	e := echo.New()
	NewDeckHandler(logger.Nop(), deck, chartSvc).RegisterRoutes(e)
	NewSessionHandler(logger.Nop(), deck).RegisterRoutes(e)
	NewChartHandler(logger.Nop(), chartSvc).RegisterRoutes(e)
	NewRoadmapHandler(logger.Nop(), worker).RegisterRoutes(e)
	NewExportHandler(logger.Nop(), exportSvc, ratelimit.New(1, 0.001)).RegisterRoutes(e)
	return e
}

func call(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func createSession(t *testing.T, e *echo.Echo) models.SessionView {
	t.Helper()
	rec := call(t, e, http.MethodPost, "/api/sessions", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var v models.SessionView
	decode(t, rec, &v)
	return v
}

func TestDeck_Get(t *testing.T) {
	e := newTestAPI(t)

	rec := call(t, e, http.MethodGet, "/api/deck", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d models.Deck
	decode(t, rec, &d)
	assert.Equal(t, "Northwind Robotics", d.Company)
	assert.Len(t, d.Slides, 6)

	rec = call(t, e, http.MethodGet, "/api/deck/roadmap", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rm models.RoadmapChartData
	decode(t, rec, &rm)
	assert.NotEmpty(t, rm.TableData)
}

func TestSessions_NavigateFlow(t *testing.T) {
	e := newTestAPI(t)
	v := createSession(t, e)
	id := v.Session.ID
	assert.Equal(t, "1 / 6", v.Progress.Label)
	assert.Equal(t, "overview", v.Tab)

	var nav struct {
		Progress models.Progress `json:"progress"`
		Changed  bool            `json:"changed"`
	}
	rec := call(t, e, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"action":"prev"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &nav)
	assert.False(t, nav.Changed)

	rec = call(t, e, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"action":"key","key":"End"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &nav)
	assert.True(t, nav.Changed)
	assert.Equal(t, "6 / 6", nav.Progress.Label)

	rec = call(t, e, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"action":"swipe","deltaX":80}`)
	decode(t, rec, &nav)
	assert.Equal(t, "5 / 6", nav.Progress.Label)

	rec = call(t, e, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"action":"jump"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/sessions/not-a-uuid/navigate", `{"action":"next"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions_TabScenarioAndEnd(t *testing.T) {
	e := newTestAPI(t)
	id := createSession(t, e).Session.ID

	var v models.SessionView
	rec := call(t, e, http.MethodPost, "/api/sessions/"+id+"/tab", `{"slide":"executive-summary","value":"bridge"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &v)
	assert.Equal(t, "bridge", v.Session.Tabs["executive-summary"])

	rec = call(t, e, http.MethodPost, "/api/sessions/"+id+"/tab", `{"slide":"executive-summary","value":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/sessions/"+id+"/scenario", `{"slide":"financials","value":"optimistic"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/sessions/"+id+"/events?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rows  []models.DeckEvent `json:"rows"`
		Total int64              `json:"total"`
	}
	decode(t, rec, &list)
	kinds := make([]models.EventKind, 0, len(list.Rows))
	for _, r := range list.Rows {
		kinds = append(kinds, r.Kind)
	}
	assert.Contains(t, kinds, models.EventSessionStarted)
	assert.Contains(t, kinds, models.EventScenarioSelected)

	rec = call(t, e, http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCharts_Endpoints(t *testing.T) {
	e := newTestAPI(t)

	rec := call(t, e, http.MethodGet, "/api/charts/pnl/svg?theme=dark&width=640", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = call(t, e, http.MethodGet, "/api/charts/pnl/svg?theme=neon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/charts/market-size/svg", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/charts/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/charts/market-size", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data usecase.ChartData
	decode(t, rec, &data)
	assert.False(t, data.SVG)
	assert.NotEmpty(t, data.Points)

	rec = call(t, e, http.MethodGet, "/api/charts/pnl/points/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, e, http.MethodGet, "/api/charts/pnl/points/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/charts/revenue-scenarios/scenario?draws=2000&seed=7", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRoadmap_Prepare(t *testing.T) {
	e := newTestAPI(t)

	body := `{"action":"prepareData","id":"r1","phases":[{"name":"Build","start":"2025-01-01","end":"2025-06-30","milestones":[{"name":"Alpha","date":"2025-03-01"}]}],"years":[2025]}`
	rec := call(t, e, http.MethodPost, "/api/roadmap/prepare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reply usecase.WorkerMessage
	decode(t, rec, &reply)
	assert.Equal(t, usecase.ActionDataReady, reply.Action)
	assert.Equal(t, "r1", reply.ID)
	require.NotNil(t, reply.ChartData)

	rec = call(t, e, http.MethodPost, "/api/roadmap/prepare", `{"phases":[{"name":"Bad","start":"soon","end":"later"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	decode(t, rec, &reply)
	assert.Equal(t, usecase.ActionError, reply.Action)
	assert.NotEmpty(t, reply.Error)
}

func TestExport_PrintRateLimitAndStatus(t *testing.T) {
	e := newTestAPI(t)

	rec := call(t, e, http.MethodGet, "/api/export/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/export/print", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "window.print()")
	assert.Contains(t, rec.Body.String(), "Northwind Robotics")

	rec = call(t, e, http.MethodGet, "/api/export/print", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = call(t, e, http.MethodGet, "/api/export/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st usecase.ExportResult
	decode(t, rec, &st)
	assert.Equal(t, usecase.StatusExportReady, st.Status)

	rec = call(t, e, http.MethodGet, "/api/export/print?session=nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWS_FollowSession(t *testing.T) {
	e := newTestAPI(t)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	id := createSession(t, e).Session.ID
	conn := dial(t, srv, "/ws/sessions/"+id)

	var v models.SessionView
	require.NoError(t, conn.ReadJSON(&v))
	assert.Equal(t, 0, v.Session.Index)

	rec := call(t, e, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"action":"next"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, conn.ReadJSON(&v))
	assert.Equal(t, 1, v.Session.Index)
	assert.Equal(t, "market-analysis", v.Slide.ID)
}

func TestWS_RoadmapOneReplyPerMessage(t *testing.T) {
	e := newTestAPI(t)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	conn := dial(t, srv, "/ws/roadmap")

	require.NoError(t, conn.WriteJSON(usecase.WorkerMessage{
		Action: usecase.ActionPrepareData,
		ID:     "a",
		Phases: []models.Phase{{Name: "Build", Start: "2025-01-01", End: "2025-03-31"}},
	}))
	var reply usecase.WorkerMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, usecase.ActionDataReady, reply.Action)
	assert.Equal(t, "a", reply.ID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{oops")))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, usecase.ActionError, reply.Action)

	require.NoError(t, conn.WriteJSON(usecase.WorkerMessage{Action: "explode", ID: "b"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, usecase.ActionError, reply.Action)
	assert.Equal(t, "b", reply.ID)
}

func TestMapError(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, mapError(usecase.ErrQueueFull).Status)
	assert.Equal(t, http.StatusNotFound, mapError(charts.ErrPointOutOfRange).Status)
	assert.Equal(t, http.StatusInternalServerError, mapError(assert.AnError).Status)
}
