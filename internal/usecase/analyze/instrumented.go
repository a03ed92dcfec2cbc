package analyze

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/metrics"
)

// InstrumentedScorer wraps a scorer backend with metrics and logging.
type InstrumentedScorer struct {
	inner   Scorer
	backend string
	logger  *zap.Logger
}

var _ domain.Scorer = (*InstrumentedScorer)(nil)

// NewInstrumentedScorer wraps inner; backend labels the metrics (lexicon, openai).
func NewInstrumentedScorer(inner Scorer, backend string, logger *zap.Logger) *InstrumentedScorer {
	return &InstrumentedScorer{
		inner:   inner,
		backend: backend,
		logger:  logger,
	}
}

// Score delegates to the backend and records the outcome.
func (p *InstrumentedScorer) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	start := time.Now()

	sent, err := p.inner.Score(ctx, text)

	duration := time.Since(start)
	metrics.ScorerDuration.WithLabelValues(p.backend).Observe(duration.Seconds())

	if err != nil {
		metrics.ScorerRequestsTotal.WithLabelValues(p.backend, "error").Inc()
		p.logger.Error("Scorer request failed",
			zap.String("backend", p.backend),
			zap.Duration("duration", duration),
			zap.Int("text_len", len(text)),
			zap.Error(err),
		)
		return domain.Sentiment{}, fmt.Errorf("%s scorer: %w", p.backend, err)
	}

	metrics.ScorerRequestsTotal.WithLabelValues(p.backend, "success").Inc()
	return sent, nil
}

// HealthCheck delegates to the backend when it supports health checks.
func (p *InstrumentedScorer) HealthCheck(ctx context.Context) error {
	hc, ok := p.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s scorer health: %w", p.backend, err)
	}
	return nil
}
