package analyze

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/fragment"
	"github.com/kailas-cloud/vibecheck/internal/domain/summary"
	"github.com/kailas-cloud/vibecheck/internal/metrics"
)

// DefaultMaxTextChars caps the length of a single scored text.
const DefaultMaxTextChars = 20000

// Service scores single texts and ranks batches of review fragments.
type Service struct {
	scorer       Scorer
	maxTextChars int
	topN         int
	workers      int
}

// New creates an analysis service with sequential batch scoring.
func New(scorer Scorer) *Service {
	return &Service{
		scorer:       scorer,
		maxTextChars: DefaultMaxTextChars,
		topN:         summary.DefaultTopN,
		workers:      1,
	}
}

// WithLimits configures the single-text length cap and the ranked list size.
func (s *Service) WithLimits(maxTextChars, topN int) *Service {
	if maxTextChars > 0 {
		s.maxTextChars = maxTextChars
	}
	if topN > 0 {
		s.topN = topN
	}
	return s
}

// WithWorkers scores batch fragments on up to n goroutines. Output does not depend on n.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// ScoreOne scores and classifies a single text.
func (s *Service) ScoreOne(ctx context.Context, text string) (fragment.Fragment, error) {
	if strings.TrimSpace(text) == "" {
		return fragment.Fragment{}, fmt.Errorf("text is required: %w", domain.ErrValidation)
	}
	if n := utf8.RuneCountInString(text); n > s.maxTextChars {
		return fragment.Fragment{}, fmt.Errorf(
			"text has %d characters, limit is %d: %w", n, s.maxTextChars, domain.ErrValidation,
		)
	}

	sent, err := s.scorer.Score(ctx, text)
	if err != nil {
		return fragment.Fragment{}, fmt.Errorf("score text: %w", err)
	}

	f := fragment.New(text, sent)
	metrics.VibesTotal.WithLabelValues("text", string(f.Vibe())).Inc()
	return f, nil
}

// ScoreAndRank scores every fragment and builds the ranked summary.
// An empty batch is domain.ErrNoContent.
func (s *Service) ScoreAndRank(ctx context.Context, texts []string) (summary.Summary, error) {
	if len(texts) == 0 {
		return summary.Summary{}, domain.ErrNoContent
	}

	frags := make([]fragment.Fragment, len(texts))
	if err := s.scoreAll(ctx, texts, frags); err != nil {
		return summary.Summary{}, err
	}

	for i := range frags {
		metrics.VibesTotal.WithLabelValues("review", string(frags[i].Vibe())).Inc()
	}
	return summary.Build(frags, s.topN), nil
}

// scoreAll fills frags[i] from texts[i]. Each goroutine writes only its own index.
func (s *Service) scoreAll(ctx context.Context, texts []string, frags []fragment.Fragment) error {
	if s.workers <= 1 {
		for i, text := range texts {
			sent, err := s.scorer.Score(ctx, text)
			if err != nil {
				return fmt.Errorf("score fragment %d: %w", i, err)
			}
			frags[i] = fragment.New(text, sent)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, text := range texts {
		g.Go(func() error {
			sent, err := s.scorer.Score(gctx, text)
			if err != nil {
				return fmt.Errorf("score fragment %d: %w", i, err)
			}
			frags[i] = fragment.New(text, sent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck // already wrapped per fragment
	}
	return nil
}
