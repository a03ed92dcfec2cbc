package reviews

import (
	"context"

	"github.com/kailas-cloud/vibecheck/internal/domain/summary"
)

// Fetcher downloads a review listing and returns its review texts.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]string, error)
}

// Ranker scores review texts and ranks them.
type Ranker interface {
	ScoreAndRank(ctx context.Context, texts []string) (summary.Summary, error)
}

// outcomer is implemented by fetch errors that carry a failure kind.
type outcomer interface {
	Outcome() string
}
