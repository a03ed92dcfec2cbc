package vibe

// Vibe is the sentiment category derived from a polarity score.
type Vibe string

// Vibe constants.
const (
	Positive Vibe = "Positive"
	Negative Vibe = "Negative"
	Neutral  Vibe = "Neutral"
)

// Threshold is the fixed polarity boundary. Scores strictly beyond ±Threshold are polarized.
const Threshold = 0.1

// Classify maps a polarity score to a Vibe.
// Exactly ±Threshold is Neutral.
func Classify(score float64) Vibe {
	switch {
	case score > Threshold:
		return Positive
	case score < -Threshold:
		return Negative
	default:
		return Neutral
	}
}

// IsValid checks if the vibe is one of the supported values.
func (v Vibe) IsValid() bool {
	return v == Positive || v == Negative || v == Neutral
}
