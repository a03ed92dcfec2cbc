package analyze

import "github.com/kailas-cloud/vibecheck/internal/domain"

// Scorer computes the sentiment of one text. It is the shared domain contract.
type Scorer = domain.Scorer
