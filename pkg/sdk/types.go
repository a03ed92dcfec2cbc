package vibecheck

// Sentiment is the result of Analyze.
type Sentiment struct {
	Score      float64 `json:"score"`      // polarity in [-1, 1], 3 decimals
	Vibe       string  `json:"vibe"`       // Positive, Negative, Neutral
	Confidence string  `json:"confidence"` // e.g. "75.0%"
}

// Review is one ranked review in a ReviewSummary.
type Review struct {
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	Vibe       string  `json:"vibe"`
	Confidence string  `json:"confidence"`
}

// Tally counts reviews per vibe.
type Tally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Total    int `json:"total"`
}

// ReviewSummary is the result of AnalyzeReviews.
type ReviewSummary struct {
	URL          string   `json:"url"`
	TotalReviews int      `json:"total_reviews"`
	Tally        Tally    `json:"tally"`
	TopPositive  []Review `json:"top_positive"`
	TopNegative  []Review `json:"top_negative"` // most negative first
}

// SpamVerdict is the result of ClassifySpam.
type SpamVerdict struct {
	Label      string `json:"label"` // Spam or Ham
	Confidence string `json:"confidence"`
}

// IsSpam reports whether the label is Spam.
func (v SpamVerdict) IsSpam() bool { return v.Label == "Spam" }

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
