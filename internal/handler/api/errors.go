package api

import (
	"context"
	"errors"

	drepo "PitchDeck/internal/domain/repository"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/services/finance"
	"PitchDeck/internal/services/roadmap"
	"PitchDeck/internal/services/scenario"
	"PitchDeck/internal/usecase"
	xhttp "PitchDeck/pkg/http"
)

// mapError turns domain errors into AppErrors with a status; unknown errors
// become 500.
func mapError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, drepo.ErrSessionNotFound):
		return xhttp.NotFoundError("session not found").WithError(err)
	case errors.Is(err, usecase.ErrSlideNotFound),
		errors.Is(err, usecase.ErrChartNotFound),
		errors.Is(err, usecase.ErrTabNotFound),
		errors.Is(err, usecase.ErrScenarioNotFound),
		errors.Is(err, charts.ErrPointOutOfRange):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrInvalidCommand),
		errors.Is(err, finance.ErrInvalidInput),
		errors.Is(err, finance.ErrEmptySeries),
		errors.Is(err, scenario.ErrInvalidScenario),
		errors.Is(err, roadmap.ErrNoPhases),
		errors.Is(err, roadmap.ErrInvalidDate),
		errors.Is(err, roadmap.ErrInvalidRange):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, charts.ErrUnsupportedChart):
		return xhttp.UnprocessableError("ERR_UNSUPPORTED_CHART", "type", err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrQueueFull),
		errors.Is(err, usecase.ErrWorkerStopped),
		errors.Is(err, usecase.ErrDeckNotLoaded):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("request timed out").WithError(err)
	}
	return xhttp.InternalError("Something went wrong").WithError(err)
}
