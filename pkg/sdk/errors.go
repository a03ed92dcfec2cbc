package vibecheck

import (
	"fmt"

	"github.com/kailas-cloud/vibecheck/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation        = domain.ErrValidation
	ErrNoContent         = domain.ErrNoContent
	ErrUpstreamBlocked   = domain.ErrUpstreamBlocked
	ErrModelUnavailable  = domain.ErrModelUnavailable
	ErrScorerUnavailable = domain.ErrScorerUnavailable
)

var codeSentinels = map[string]error{
	"bad_request":        ErrValidation,
	"validation_failed":  ErrValidation,
	"payload_too_large":  ErrValidation,
	"no_content":         ErrNoContent,
	"upstream_blocked":   ErrUpstreamBlocked,
	"model_unavailable":  ErrModelUnavailable,
	"scorer_unavailable": ErrScorerUnavailable,
}

// APIError is a non-2xx API response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("vibecheck: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("vibecheck: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the error code to a package sentinel.
func (e *APIError) Unwrap() error {
	return codeSentinels[e.Code]
}
