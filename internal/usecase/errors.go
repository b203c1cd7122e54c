package usecase

import "errors"

var (
	ErrSlideNotFound    = errors.New("slide not found")
	ErrTabNotFound      = errors.New("tab not found on slide")
	ErrScenarioNotFound = errors.New("scenario not offered on slide")
	ErrChartNotFound    = errors.New("chart not found")
	ErrInvalidCommand   = errors.New("invalid navigation command")
	ErrDeckNotLoaded    = errors.New("deck not loaded")
)
