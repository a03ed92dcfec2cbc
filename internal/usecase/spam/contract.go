package spam

import "github.com/kailas-cloud/vibecheck/internal/domain/verdict"

// Classifier labels a text as spam or ham. Implementations are read-only and safe for concurrent use.
type Classifier interface {
	Predict(text string) verdict.Verdict
}
