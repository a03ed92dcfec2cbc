package domain

import (
	"context"
	"fmt"
	"math"
)

// Sentiment is the raw output of a scorer.
// Polarity is conventionally in [-1, 1], Subjectivity in [0, 1].
type Sentiment struct {
	Polarity     float64
	Subjectivity float64
}

// Scorer is the shared sentiment scoring contract between layers.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, text string) (Sentiment, error)
}

// HealthChecker verifies scorer backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Confidence display bounds.
const (
	MinConfidence = 50.1
	MaxConfidence = 99.9
)

// Confidence maps subjectivity to a display percentage:
// 100 - |subjectivity-0.5|*100, clamped to [MinConfidence, MaxConfidence].
func (s Sentiment) Confidence() float64 {
	c := 100 - math.Abs(s.Subjectivity-0.5)*100
	return math.Max(MinConfidence, math.Min(MaxConfidence, c))
}

// ConfidenceString renders Confidence as "NN.N%".
func (s Sentiment) ConfidenceString() string {
	return FormatPercent(s.Confidence())
}

// RoundedPolarity returns the polarity rounded to 3 decimal places.
func (s Sentiment) RoundedPolarity() float64 {
	return Round3(s.Polarity)
}

// Round3 rounds to 3 decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FormatPercent renders a percentage with one decimal, e.g. "87.5%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
