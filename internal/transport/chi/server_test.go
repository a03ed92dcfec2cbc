package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/domain"
	"github.com/kailas-cloud/vibecheck/internal/domain/verdict"
	"github.com/kailas-cloud/vibecheck/internal/metrics"
	"github.com/kailas-cloud/vibecheck/internal/sentiment"
	"github.com/kailas-cloud/vibecheck/internal/transport/amazon"
	analyzeuc "github.com/kailas-cloud/vibecheck/internal/usecase/analyze"
	healthuc "github.com/kailas-cloud/vibecheck/internal/usecase/health"
	reviewsuc "github.com/kailas-cloud/vibecheck/internal/usecase/reviews"
	spamuc "github.com/kailas-cloud/vibecheck/internal/usecase/spam"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockScorer struct {
	polarity float64
	err      error
}

func (m *mockScorer) Score(_ context.Context, _ string) (domain.Sentiment, error) {
	if m.err != nil {
		return domain.Sentiment{}, m.err
	}
	return domain.Sentiment{Polarity: m.polarity, Subjectivity: 0.5}, nil
}

func (m *mockScorer) HealthCheck(_ context.Context) error { return m.err }

type mockFetcher struct {
	texts []string
	err   error
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) ([]string, error) {
	return m.texts, m.err
}

type mockClassifier struct{ v verdict.Verdict }

func (m *mockClassifier) Predict(string) verdict.Verdict { return m.v }

type deps struct {
	scorer  analyzeuc.Scorer
	fetcher reviewsuc.Fetcher
	model   spamuc.Classifier
	cors    RouterConfig
}

func newTestRouter(t *testing.T, d deps) (http.Handler, *Server) {
	t.Helper()
	if d.scorer == nil {
		lex, err := sentiment.DefaultLexicon()
		if err != nil {
			t.Fatalf("DefaultLexicon: %v", err)
		}
		d.scorer = sentiment.NewAnalyzer(lex)
	}
	if d.fetcher == nil {
		d.fetcher = &mockFetcher{}
	}

	analyzeSvc := analyzeuc.New(d.scorer)
	spamSvc := spamuc.New(d.model)
	var checker healthuc.ScorerChecker
	if hc, ok := d.scorer.(healthuc.ScorerChecker); ok {
		checker = hc
	}
	srv := NewServer(
		analyzeSvc,
		reviewsuc.New(d.fetcher, analyzeSvc),
		spamSvc,
		healthuc.New(checker, spamSvc),
		zap.NewNop(),
	)
	return NewRouter(srv, d.cors, zap.NewNop()), srv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

// --- Tests ---

func TestHome(t *testing.T) {
	h, _ := newTestRouter(t, deps{})
	rec := do(t, h, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HomeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "online" || resp.Service != "vibecheck" {
		t.Errorf("unexpected home response: %+v", resp)
	}
}

func TestAnalyze(t *testing.T) {
	h, _ := newTestRouter(t, deps{})

	tests := []struct {
		text string
		want AnalyzeResponse
	}{
		{"good", AnalyzeResponse{Score: 0.7, Vibe: "Positive", Confidence: "90.0%"}},
		{"awful", AnalyzeResponse{Score: -1, Vibe: "Negative", Confidence: "50.1%"}},
		{"The box arrived on Tuesday", AnalyzeResponse{Score: 0, Vibe: "Neutral", Confidence: "50.1%"}},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"text": tc.text})
			rec := do(t, h, http.MethodPost, "/analyze", string(body))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var got AnalyzeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	h, _ := newTestRouter(t, deps{})
	body := `{"text":"Really sturdy and comfortable, but the strap broke after a week. Not great!"}`

	first := do(t, h, http.MethodPost, "/analyze", body)
	second := do(t, h, http.MethodPost, "/analyze", body)

	if first.Code != http.StatusOK {
		t.Fatalf("status = %d", first.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Errorf("responses differ:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, deps{})

	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"not json", "text=hello", CodeBadRequest},
		{"empty body", "", CodeBadRequest},
		{"json array", `["hello"]`, CodeBadRequest},
		{"json null", `null`, CodeBadRequest},
		{"missing text", `{"message":"hello"}`, CodeValidationFailed},
		{"null text", `{"text":null}`, CodeValidationFailed},
		{"number text", `{"text":42}`, CodeValidationFailed},
		{"blank text", `{"text":"   "}`, CodeValidationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/analyze", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeErr(t, rec); got.Code != tc.code {
				t.Errorf("code = %q, want %q", got.Code, tc.code)
			}
		})
	}
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	h, srv := newTestRouter(t, deps{})
	srv.WithMaxBodyBytes(16)

	rec := do(t, h, http.MethodPost, "/analyze", `{"text":"`+strings.Repeat("a", 64)+`"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if got := decodeErr(t, rec); got.Code != CodePayloadTooLarge {
		t.Errorf("code = %q", got.Code)
	}
}

func TestAnalyze_ScorerFailure(t *testing.T) {
	scorer := &mockScorer{err: fmt.Errorf("upstream 500: %w", domain.ErrScorerUnavailable)}
	h, _ := newTestRouter(t, deps{scorer: scorer})

	rec := do(t, h, http.MethodPost, "/analyze", `{"text":"hello"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	got := decodeErr(t, rec)
	if got.Code != CodeScorerUnavailable {
		t.Errorf("code = %q", got.Code)
	}
	if strings.Contains(got.Message, "upstream 500") {
		t.Errorf("message leaks internals: %q", got.Message)
	}
}

func TestAnalyze_UnknownErrorIsInternal(t *testing.T) {
	h, _ := newTestRouter(t, deps{scorer: &mockScorer{err: errors.New("boom")}})

	rec := do(t, h, http.MethodPost, "/analyze", `{"text":"hello"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeErr(t, rec); got.Code != CodeInternalError || got.Message != "internal error" {
		t.Errorf("unexpected error body: %+v", got)
	}
}

func TestAnalyzeReviews(t *testing.T) {
	long := strings.Repeat("great ", 60)
	fetcher := &mockFetcher{texts: []string{
		"good value",
		"awful smell",
		long,
		"arrived on a Tuesday",
	}}
	scorer := scorerFunc(func(text string) float64 {
		switch {
		case strings.HasPrefix(text, "great"):
			return 0.9
		case strings.HasPrefix(text, "good"):
			return 0.5
		case strings.HasPrefix(text, "awful"):
			return -0.8
		default:
			return 0
		}
	})
	h, srv := newTestRouter(t, deps{scorer: scorer, fetcher: fetcher})
	srv.WithDisplayChars(10)

	rec := do(t, h, http.MethodPost, "/analyze-amazon", `{"url":"https://www.amazon.co.uk/dp/B000TEST"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got ReviewsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	want := ReviewsResponse{
		URL:          "https://www.amazon.co.uk/dp/B000TEST",
		TotalReviews: 4,
		Tally:        Tally{Positive: 2, Negative: 1, Neutral: 1, Total: 4},
		TopPositive: []ReviewItem{
			{Text: "great grea...", Score: 0.9, Vibe: "Positive", Confidence: "99.9%"},
			{Text: "good value", Score: 0.5, Vibe: "Positive", Confidence: "99.9%"},
			{Text: "arrived on...", Score: 0, Vibe: "Neutral", Confidence: "99.9%"},
			{Text: "awful smel...", Score: -0.8, Vibe: "Negative", Confidence: "99.9%"},
		},
		TopNegative: []ReviewItem{
			{Text: "awful smel...", Score: -0.8, Vibe: "Negative", Confidence: "99.9%"},
			{Text: "arrived on...", Score: 0, Vibe: "Neutral", Confidence: "99.9%"},
			{Text: "good value", Score: 0.5, Vibe: "Positive", Confidence: "99.9%"},
			{Text: "great grea...", Score: 0.9, Vibe: "Positive", Confidence: "99.9%"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeReviews_Failures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher reviewsuc.Fetcher
		body    string
		status  int
		code    ErrorCode
	}{
		{
			name:    "missing url",
			fetcher: &mockFetcher{},
			body:    `{"link":"x"}`,
			status:  http.StatusBadRequest,
			code:    CodeValidationFailed,
		},
		{
			name:    "invalid url",
			fetcher: &mockFetcher{err: fmt.Errorf("parse: %w", domain.ErrValidation)},
			body:    `{"url":"not a url"}`,
			status:  http.StatusBadRequest,
			code:    CodeValidationFailed,
		},
		{
			name:    "fetch failed",
			fetcher: &mockFetcher{err: errors.New("connection reset")},
			body:    `{"url":"https://www.amazon.com/dp/B0"}`,
			status:  http.StatusServiceUnavailable,
			code:    CodeUpstreamBlocked,
		},
		{
			name:    "nothing fetched",
			fetcher: &mockFetcher{texts: nil},
			body:    `{"url":"https://www.amazon.com/dp/B0"}`,
			status:  http.StatusServiceUnavailable,
			code:    CodeUpstreamBlocked,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestRouter(t, deps{fetcher: tc.fetcher})
			rec := do(t, h, http.MethodPost, "/analyze-amazon", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.status, rec.Body.String())
			}
			if got := decodeErr(t, rec); got.Code != tc.code {
				t.Errorf("code = %q, want %q", got.Code, tc.code)
			}
		})
	}
}

func TestAnalyzeReviews_CaptchaPage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><form action="/errors/validateCaptcha">
			Enter the characters you see below</form></body></html>`))
	}))
	defer upstream.Close()

	fetcher, err := amazon.NewFetcher(&amazon.Config{DomainMarker: "127.0.0.1"})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	h, _ := newTestRouter(t, deps{fetcher: fetcher})

	body, _ := json.Marshal(map[string]string{"url": upstream.URL + "/dp/B000TEST"})
	rec := do(t, h, http.MethodPost, "/analyze-amazon", string(body))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503, body %s", rec.Code, rec.Body.String())
	}
	got := decodeErr(t, rec)
	if got.Code != CodeUpstreamBlocked {
		t.Errorf("code = %q", got.Code)
	}
	if got.Message != domain.ErrUpstreamBlocked.Error() {
		t.Errorf("message = %q", got.Message)
	}
}

func TestSpam(t *testing.T) {
	model := &mockClassifier{v: verdict.New(verdict.Spam, 0.9731)}
	h, _ := newTestRouter(t, deps{model: model})

	rec := do(t, h, http.MethodPost, "/spam", `{"text":"WIN a free prize now"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got SpamResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(SpamResponse{Label: "Spam", Confidence: "97.3%"}, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestSpam_NoModel(t *testing.T) {
	h, _ := newTestRouter(t, deps{})

	for _, body := range []string{`{"text":"hello"}`, `{"text":""}`} {
		rec := do(t, h, http.MethodPost, "/spam", body)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("body %s: status = %d, want 500", body, rec.Code)
		}
		if got := decodeErr(t, rec); got.Code != CodeModelUnavailable {
			t.Errorf("code = %q", got.Code)
		}
	}
}

func TestSpam_BlankText(t *testing.T) {
	h, _ := newTestRouter(t, deps{model: &mockClassifier{}})

	rec := do(t, h, http.MethodPost, "/spam", `{"text":" "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		d      deps
		status int
		want   HealthResponse
	}{
		{
			name:   "all ok",
			d:      deps{scorer: &mockScorer{}, model: &mockClassifier{}},
			status: http.StatusOK,
			want:   HealthResponse{Status: "ok", Checks: map[string]string{"scorer": "ok", "spam_model": "ok"}},
		},
		{
			name:   "no model",
			d:      deps{scorer: &mockScorer{}},
			status: http.StatusServiceUnavailable,
			want: HealthResponse{
				Status: "degraded",
				Checks: map[string]string{"scorer": "ok", "spam_model": "error"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestRouter(t, tc.d)
			rec := do(t, h, http.MethodGet, "/health", "")
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var got HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, deps{})
	_ = do(t, h, http.MethodPost, "/analyze", `{"text":"good"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vibecheck_http_requests_total") {
		t.Error("metrics output missing vibecheck_http_requests_total")
	}
}

// scorerFunc scores with a polarity function at subjectivity 0.5.
type scorerFunc func(text string) float64

func (f scorerFunc) Score(_ context.Context, text string) (domain.Sentiment, error) {
	return domain.Sentiment{Polarity: f(text), Subjectivity: 0.5}, nil
}
