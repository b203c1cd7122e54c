package finance

import "errors"

var (
	// ErrEmptySeries is returned when a statistic needs at least one value.
	ErrEmptySeries = errors.New("finance: empty series")
	// ErrInvalidInput is returned for arguments outside a function's domain.
	ErrInvalidInput = errors.New("finance: invalid input")
)
