package api

import (
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/usecase"
	xhttp "PitchDeck/pkg/http"
	xlogger "PitchDeck/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const defaultEventsLimit = 100

// SessionHandler drives viewing sessions over HTTP and streams them to followers.
type SessionHandler struct {
	logger   *xlogger.Logger
	deck     *usecase.DeckService
	upgrader websocket.Upgrader
}

func NewSessionHandler(logger *xlogger.Logger, deck *usecase.DeckService) *SessionHandler {
	return &SessionHandler{logger: logger, deck: deck, upgrader: newUpgrader()}
}

func (h *SessionHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.End)
	g.POST("/:id/navigate", h.Navigate)
	g.POST("/:id/tab", h.SelectTab)
	g.POST("/:id/scenario", h.SelectScenario)
	g.GET("/:id/events", h.Events)

	e.GET("/ws/sessions/:id", h.Follow)
}

type navigateResponse struct {
	*models.SessionView
	Changed bool `json:"changed"`
}

func (h *SessionHandler) Create(c echo.Context) error {
	req := &models.CreateSessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	v, err := h.deck.CreateSession(c.Request().Context(), req.Start)
	if err != nil {
		h.logger.Error("create session failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.CreatedResponse(c, v)
}

func (h *SessionHandler) Get(c echo.Context) error {
	v, err := h.deck.Session(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, v)
}

func (h *SessionHandler) End(c echo.Context) error {
	if err := h.deck.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.NoContentResponse(c)
}

func (h *SessionHandler) Navigate(c echo.Context) error {
	req := &models.NavigateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	v, changed, err := h.deck.Navigate(c.Request().Context(), *req)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, navigateResponse{SessionView: v, Changed: changed})
}

func (h *SessionHandler) SelectTab(c echo.Context) error {
	req := &models.SelectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	v, err := h.deck.SelectTab(c.Request().Context(), req.ID, req.Slide, req.Value)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, v)
}

func (h *SessionHandler) SelectScenario(c echo.Context) error {
	req := &models.SelectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	v, err := h.deck.SelectScenario(c.Request().Context(), req.ID, req.Slide, req.Value)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, v)
}

// Events lists recorded engagement events, newest first. from/to are optional.
func (h *SessionHandler) Events(c echo.Context) error {
	tr := xhttp.ParseTimeRange(c.QueryParam("from"), c.QueryParam("to"))
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), defaultEventsLimit)
	if limit <= 0 || limit > 1000 {
		limit = defaultEventsLimit
	}

	from, to := tr.Bounds()
	rows, err := h.deck.Events(c.Request().Context(), c.Param("id"), from, to, limit)
	if err != nil {
		h.logger.Warn("session events query failed", xlogger.String("session", c.Param("id")), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Follow streams every navigation change of a session until the session ends
// or the client goes away. The current view is sent first.
func (h *SessionHandler) Follow(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	current, err := h.deck.Session(ctx, id)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	updates, cancel, err := h.deck.Follow(ctx, id)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("session follow upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	h.logger.Debug("follower connected", xlogger.String("session", id), xlogger.String("remote", c.RealIP()))
	done := readUntilClosed(conn)

	if err := writeJSON(conn, current); err != nil {
		return nil
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				writeClose(conn, websocket.CloseNormalClosure, "session ended")
				return nil
			}
			if err := writeJSON(conn, v); err != nil {
				h.logger.Debug("follower write failed", xlogger.String("session", id), xlogger.Error(err))
				return nil
			}
		case <-ping.C:
			if err := writePing(conn); err != nil {
				return nil
			}
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
