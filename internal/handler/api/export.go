package api

import (
	"errors"
	"math"
	"strconv"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
	"PitchDeck/internal/service/ratelimit"
	"PitchDeck/internal/usecase"
	xhttp "PitchDeck/pkg/http"
	xlogger "PitchDeck/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ExportHandler struct {
	logger  *xlogger.Logger
	export  *usecase.ExportService
	limiter *ratelimit.Limiter
}

func NewExportHandler(logger *xlogger.Logger, export *usecase.ExportService, limiter *ratelimit.Limiter) *ExportHandler {
	return &ExportHandler{logger: logger, export: export, limiter: limiter}
}

func (h *ExportHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/export")
	g.GET("/print", h.Print)
	g.GET("/status", h.Status)
}

// Print returns the self-contained printable document. The page opens the
// browser print dialog on load.
func (h *ExportHandler) Print(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	client := c.RealIP()
	if h.limiter != nil && !h.limiter.Allow(client) {
		wait := h.limiter.RetryAfter(client)
		retry := int(math.Ceil(wait.Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
		h.logger.Warn("export rate limited", xlogger.String("remote", client))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many export requests").WithParam("retryAfter", retry))
	}

	res, err := h.export.Export(c.Request().Context(), req.Session)
	if errors.Is(err, drepo.ErrSessionNotFound) {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError(res.Status).WithError(err))
	}
	return xhttp.DocumentResponse(c, res.Document)
}

func (h *ExportHandler) Status(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, ok := h.export.Status(req.Session)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no export recorded"))
	}
	return xhttp.SuccessResponse(c, res)
}
