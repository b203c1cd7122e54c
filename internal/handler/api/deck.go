package api

import (
	"PitchDeck/internal/usecase"
	xhttp "PitchDeck/pkg/http"
	xlogger "PitchDeck/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeckHandler serves the deck content.
type DeckHandler struct {
	logger *xlogger.Logger
	deck   *usecase.DeckService
	charts *usecase.ChartService
}

func NewDeckHandler(logger *xlogger.Logger, deck *usecase.DeckService, charts *usecase.ChartService) *DeckHandler {
	return &DeckHandler{logger: logger, deck: deck, charts: charts}
}

func (h *DeckHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/deck")
	g.GET("", h.Get)
	g.POST("/reload", h.Reload)
	g.GET("/roadmap", h.Roadmap)
}

func (h *DeckHandler) Get(c echo.Context) error {
	d, err := h.deck.Deck()
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, d)
}

// Reload re-reads the deck source and drops rendered charts.
func (h *DeckHandler) Reload(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.deck.Reload(ctx); err != nil {
		h.logger.Error("deck reload failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	if err := h.charts.Invalidate(ctx); err != nil {
		h.logger.Warn("chart cache invalidate failed", xlogger.Error(err))
	}
	d, _ := h.deck.Deck()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"title":  d.Title,
		"slides": len(d.Slides),
	})
}

func (h *DeckHandler) Roadmap(c echo.Context) error {
	data, err := h.deck.Roadmap(c.Request().Context())
	if err != nil {
		h.logger.Error("roadmap prepare failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, data)
}
