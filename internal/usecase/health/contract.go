package health

import "context"

// ScorerChecker checks sentiment scorer availability.
type ScorerChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelChecker reports whether the spam model is loaded.
type ModelChecker interface {
	Ready() bool
}
