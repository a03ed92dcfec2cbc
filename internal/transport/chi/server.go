package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/fragment"
	"github.com/kailas-cloud/vibecheck/internal/logger"
	"github.com/kailas-cloud/vibecheck/internal/version"
	analyzeuc "github.com/kailas-cloud/vibecheck/internal/usecase/analyze"
	healthuc "github.com/kailas-cloud/vibecheck/internal/usecase/health"
	reviewsuc "github.com/kailas-cloud/vibecheck/internal/usecase/reviews"
	spamuc "github.com/kailas-cloud/vibecheck/internal/usecase/spam"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the sentiment, review and spam endpoints.
type Server struct {
	analyze         *analyzeuc.Service
	reviews         *reviewsuc.Service
	spam            *spamuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	maxDisplayChars int
	maxBodyBytes    int64
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	analyze *analyzeuc.Service,
	reviews *reviewsuc.Service,
	spam *spamuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		analyze:         analyze,
		reviews:         reviews,
		spam:            spam,
		health:          health,
		logger:          logger,
		maxDisplayChars: fragment.DefaultDisplayChars,
		maxBodyBytes:    DefaultMaxBodyBytes,
	}
	// Order matters: a review page without reviews carries both ErrUpstreamBlocked and ErrNoContent.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUpstreamBlocked, http.StatusServiceUnavailable, CodeUpstreamBlocked),
		sentinelHandler(domain.ErrNoContent, http.StatusBadRequest, CodeNoContent),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusInternalServerError, CodeModelUnavailable),
		sentinelHandler(domain.ErrScorerUnavailable, http.StatusBadGateway, CodeScorerUnavailable),
	}
	return s
}

// WithDisplayChars sets the review text budget of /analyze-amazon items.
func (s *Server) WithDisplayChars(n int) *Server {
	if n > 0 {
		s.maxDisplayChars = n
	}
	return s
}

// WithMaxBodyBytes sets the request body limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HomeResponse{
		Status:  "online",
		Service: "vibecheck",
		Version: version.Version,
		Message: "POST /analyze, /analyze-amazon or /spam",
	})
}

// Analyze handles POST /analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readField(w, r, "text")
	if !ok {
		return
	}

	f, err := s.analyze.ScoreOne(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Score:      f.DisplayScore(),
		Vibe:       string(f.Vibe()),
		Confidence: f.Confidence(),
	})
}

// AnalyzeReviews handles POST /analyze-amazon.
func (s *Server) AnalyzeReviews(w http.ResponseWriter, r *http.Request) {
	url, ok := s.readField(w, r, "url")
	if !ok {
		return
	}

	sum, err := s.reviews.Analyze(r.Context(), url)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	tally := sum.Tally()
	writeJSON(w, http.StatusOK, ReviewsResponse{
		URL:          url,
		TotalReviews: tally.Total,
		Tally: Tally{
			Positive: tally.Positive,
			Negative: tally.Negative,
			Neutral:  tally.Neutral,
			Total:    tally.Total,
		},
		TopPositive: s.reviewItems(sum.TopPositive()),
		TopNegative: s.reviewItems(sum.TopNegative()),
	})
}

// Spam handles POST /spam.
func (s *Server) Spam(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readField(w, r, "text")
	if !ok {
		return
	}

	v, err := s.spam.Classify(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SpamResponse{
		Label:      string(v.Label()),
		Confidence: v.Confidence(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) reviewItems(frags []fragment.Fragment) []ReviewItem {
	items := make([]ReviewItem, len(frags))
	for i := range frags {
		items[i] = ReviewItem{
			Text:       frags[i].DisplayText(s.maxDisplayChars),
			Score:      frags[i].DisplayScore(),
			Vibe:       string(frags[i].Vibe()),
			Confidence: frags[i].Confidence(),
		}
	}
	return items
}

// readField decodes a JSON object body and returns its string field.
// On failure it writes the 4xx response and returns false.
func (s *Server) readField(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Request body must be a JSON object")
		return "", false
	}
	if body == nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Request body must be a JSON object")
		return "", false
	}

	raw, ok := body[field]
	if !ok || string(raw) == "null" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Field '"+field+"' is required")
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Field '"+field+"' must be a string")
		return "", false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrUpstreamBlocked,
		domain.ErrNoContent,
		domain.ErrModelUnavailable,
		domain.ErrScorerUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
