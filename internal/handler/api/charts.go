package api

import (
	"net/http"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/usecase"
	xhttp "PitchDeck/pkg/http"
	xlogger "PitchDeck/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ChartHandler struct {
	logger *xlogger.Logger
	charts *usecase.ChartService
}

func NewChartHandler(logger *xlogger.Logger, charts *usecase.ChartService) *ChartHandler {
	return &ChartHandler{logger: logger, charts: charts}
}

func (h *ChartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/charts")
	g.GET("/:id", h.Data)
	g.GET("/:id/svg", h.SVG)
	g.GET("/:id/points/:index", h.Point)
	g.GET("/:id/scenario", h.Scenario)
}

func (h *ChartHandler) Data(c echo.Context) error {
	data, err := h.charts.Data(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, data)
}

func (h *ChartHandler) SVG(c echo.Context) error {
	req := &models.ChartRenderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	opts := charts.NewOptions(
		charts.WithSize(req.Width, req.Height),
		charts.WithTheme(req.Theme),
		charts.WithLegend(req.Legend == "true"),
		charts.WithGrid(req.Grid == "true"),
	)

	svg, err := h.charts.SVG(c.Request().Context(), req.ID, opts)
	if err != nil {
		appErr := mapError(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("chart render failed", xlogger.String("chart", req.ID), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.SVGResponse(c, svg, "private, max-age=60")
}

// Point returns the datum behind a click at index.
func (h *ChartHandler) Point(c echo.Context) error {
	req := &models.ChartPointRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p, err := h.charts.Point(c.Request().Context(), req.ID, req.Index)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *ChartHandler) Scenario(c echo.Context) error {
	req := &models.ScenarioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.charts.Scenario(c.Request().Context(), req.ID, req.Draws, req.Seed)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
