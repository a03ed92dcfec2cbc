package domain

import "errors"

var (
	// ErrValidation signals a missing or malformed request field.
	ErrValidation = errors.New("validation failed")
	// ErrNoContent signals that there is nothing to analyze.
	ErrNoContent = errors.New("no content to analyze")
	// ErrUpstreamBlocked signals that the review source could not be fetched or yielded nothing usable.
	ErrUpstreamBlocked = errors.New("could not fetch reviews")
	// ErrModelUnavailable signals that the spam classifier artifacts are not loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrScorerUnavailable signals a sentiment scorer backend failure.
	ErrScorerUnavailable = errors.New("sentiment scorer unavailable")
)
