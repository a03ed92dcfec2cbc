package spam

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/verdict"
	"github.com/kailas-cloud/vibecheck/internal/metrics"
)

// Service classifies texts with a preloaded model.
type Service struct {
	model Classifier
}

// New creates a spam service. model is nil when the artifacts failed to load.
func New(model Classifier) *Service {
	return &Service{model: model}
}

// Ready reports whether a model is loaded.
func (s *Service) Ready() bool { return s.model != nil }

// Classify labels text. Without a model every call is domain.ErrModelUnavailable.
func (s *Service) Classify(_ context.Context, text string) (verdict.Verdict, error) {
	if s.model == nil {
		return verdict.Verdict{}, fmt.Errorf("spam classifier: %w", domain.ErrModelUnavailable)
	}
	if strings.TrimSpace(text) == "" {
		return verdict.Verdict{}, fmt.Errorf("text is required: %w", domain.ErrValidation)
	}

	v := s.model.Predict(text)
	metrics.SpamVerdictsTotal.WithLabelValues(string(v.Label())).Inc()
	return v, nil
}
