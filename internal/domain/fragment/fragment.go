package fragment

import (
	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/vibe"
)

// Ellipsis is appended to display text that was cut.
const Ellipsis = "..."

// DefaultDisplayChars is the default display text budget in characters.
const DefaultDisplayChars = 250

// Fragment is one scored unit of text.
type Fragment struct {
	text      string
	sentiment domain.Sentiment
	vibe      vibe.Vibe
}

// New creates a scored fragment. The vibe is derived from the unrounded polarity.
func New(text string, s domain.Sentiment) Fragment {
	return Fragment{
		text:      text,
		sentiment: s,
		vibe:      vibe.Classify(s.Polarity),
	}
}

// Text returns the full fragment text.
func (f *Fragment) Text() string { return f.text }

// Sentiment returns the raw scorer output.
func (f *Fragment) Sentiment() domain.Sentiment { return f.sentiment }

// Score returns the unrounded polarity.
func (f *Fragment) Score() float64 { return f.sentiment.Polarity }

// DisplayScore returns the polarity rounded to 3 decimals.
func (f *Fragment) DisplayScore() float64 { return f.sentiment.RoundedPolarity() }

// Vibe returns the category.
func (f *Fragment) Vibe() vibe.Vibe { return f.vibe }

// Confidence returns the display confidence, e.g. "75.0%".
func (f *Fragment) Confidence() string { return f.sentiment.ConfidenceString() }

// DisplayText returns the text capped at maxChars characters.
func (f *Fragment) DisplayText(maxChars int) string { return Truncate(f.text, maxChars) }

// Truncate caps s at maxChars characters (runes), appending Ellipsis only when cut.
// maxChars <= 0 disables truncation.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + Ellipsis
}
