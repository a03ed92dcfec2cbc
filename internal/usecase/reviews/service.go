package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/summary"
	"github.com/kailas-cloud/vibecheck/internal/logger"
)

// Service runs the review pipeline: fetch a listing, then score and rank its reviews.
type Service struct {
	fetcher Fetcher
	ranker  Ranker
}

// New creates a review pipeline service.
func New(fetcher Fetcher, ranker Ranker) *Service {
	return &Service{fetcher: fetcher, ranker: ranker}
}

// Analyze fetches the reviews behind url and summarizes them.
// Invalid URLs wrap domain.ErrValidation. Any fetch failure, including a page
// without usable reviews, wraps domain.ErrUpstreamBlocked.
func (s *Service) Analyze(ctx context.Context, url string) (summary.Summary, error) {
	log := logger.FromContext(ctx)

	start := time.Now()
	texts, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return summary.Summary{}, fmt.Errorf("review url: %w", err)
		}

		outcome := "unknown"
		var oc outcomer
		if errors.As(err, &oc) {
			outcome = oc.Outcome()
		}
		log.Warn("Review fetch failed",
			zap.String("url", url),
			zap.String("outcome", outcome),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)

		if !errors.Is(err, domain.ErrUpstreamBlocked) {
			return summary.Summary{}, fmt.Errorf("fetch reviews: %w: %w", domain.ErrUpstreamBlocked, err)
		}
		return summary.Summary{}, fmt.Errorf("fetch reviews: %w", err)
	}

	log.Debug("Reviews fetched",
		zap.String("url", url),
		zap.Int("fragments", len(texts)),
		zap.Duration("duration", time.Since(start)),
	)

	sum, err := s.ranker.ScoreAndRank(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			return summary.Summary{}, fmt.Errorf("rank reviews: %w: %w", domain.ErrUpstreamBlocked, err)
		}
		return summary.Summary{}, fmt.Errorf("rank reviews: %w", err)
	}
	return sum, nil
}
