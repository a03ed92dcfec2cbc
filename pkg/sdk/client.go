package vibecheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const reviewsPath = "/analyze-amazon"

// Client is the vibecheck API client. Safe for concurrent use.
type Client struct {
	http *resty.Client
	obs  *observer
}

// New creates a Client for the API at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("vibecheck: invalid base URL %q", baseURL)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var rc *resty.Client
	if cfg.httpClient != nil {
		rc = resty.NewWithClient(cfg.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimSuffix(u.String(), "/"))
	rc.SetHeader("Accept", "application/json")
	if cfg.userAgent != "" {
		rc.SetHeader("User-Agent", cfg.userAgent)
	}
	if cfg.timeout > 0 {
		rc.SetTimeout(cfg.timeout)
	}
	if cfg.retries > 0 {
		rc.SetRetryCount(cfg.retries)
		rc.AddRetryCondition(retryable)
	}

	return &Client{http: rc, obs: obs}, nil
}

// retryable reports whether a call may be repeated. Review analysis scrapes a
// remote page on every call, so it is never repeated.
func retryable(r *resty.Response, err error) bool {
	if r != nil && r.Request != nil && strings.HasSuffix(r.Request.URL, reviewsPath) {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	// GET /health answers 503 when degraded, which is a result rather than a failure.
	if r == nil || r.Request == nil || r.Request.Method != http.MethodPost {
		return false
	}
	return r.StatusCode() == http.StatusBadGateway || r.StatusCode() == http.StatusServiceUnavailable
}

// Analyze scores the sentiment of one text.
func (c *Client) Analyze(ctx context.Context, text string) (s Sentiment, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	err = c.post(ctx, "/analyze", map[string]string{"text": text}, &s)
	return s, err
}

// AnalyzeReviews fetches and ranks the reviews of a product page.
func (c *Client) AnalyzeReviews(ctx context.Context, productURL string) (sum ReviewSummary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze_reviews", start, err) }()

	err = c.post(ctx, reviewsPath, map[string]string{"url": productURL}, &sum)
	return sum, err
}

// ClassifySpam labels a text as Spam or Ham.
func (c *Client) ClassifySpam(ctx context.Context, text string) (v SpamVerdict, err error) {
	start := time.Now()
	defer func() { c.obs.observe("classify_spam", start, err) }()

	err = c.post(ctx, "/spam", map[string]string{"text": text}, &v)
	return v, err
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("vibecheck: POST %s: %w", path, err)
	}
	if res.IsError() {
		return apiError(res.StatusCode(), res.Body())
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("vibecheck: decode %s response: %w", path, err)
	}
	return nil
}

// apiError builds an *APIError from a non-2xx body. Non-JSON bodies keep only the status.
func apiError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		e.Code = eb.Code
		e.Message = eb.Message
	}
	return e
}
