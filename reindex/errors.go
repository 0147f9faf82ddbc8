package reindex

import "errors"

var (
	// ErrReindexInFlight is returned when a reindex is requested for a
	// document that already has one running.
	ErrReindexInFlight = errors.New("reindex already in flight for document")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
