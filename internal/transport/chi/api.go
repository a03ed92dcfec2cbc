package chi

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeNoContent         ErrorCode = "no_content"
	CodeUpstreamBlocked   ErrorCode = "upstream_blocked"
	CodeModelUnavailable  ErrorCode = "model_unavailable"
	CodeScorerUnavailable ErrorCode = "scorer_unavailable"
	CodePayloadTooLarge   ErrorCode = "payload_too_large"
	CodeNotFound          ErrorCode = "not_found"
	CodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HomeResponse is the body of GET /.
type HomeResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Message string `json:"message"`
}

// AnalyzeResponse is the body of POST /analyze.
type AnalyzeResponse struct {
	Score      float64 `json:"score"`
	Vibe       string  `json:"vibe"`
	Confidence string  `json:"confidence"`
}

// ReviewItem is one ranked review.
type ReviewItem struct {
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

// ReviewsResponse is the body of POST /analyze-amazon.
type ReviewsResponse struct {
	URL          string       `json:"url"`
	TotalReviews int          `json:"total_reviews"`
	Tally        Tally        `json:"tally"`
	TopPositive  []ReviewItem `json:"top_positive"`
	TopNegative  []ReviewItem `json:"top_negative"`
}

// SpamResponse is the body of POST /spam.
type SpamResponse struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
