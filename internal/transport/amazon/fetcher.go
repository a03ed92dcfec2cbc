// Package amazon fetches product review listings and extracts review texts.
package amazon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/vibecheck/internal/logger"
	"github.com/kailas-cloud/vibecheck/internal/metrics"
)

// Defaults for Config zero values.
const (
	DefaultTimeout          = 10 * time.Second
	DefaultMinFragmentChars = 20
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultAcceptLanguage   = "en-GB,en;q=0.9"
	defaultAccept           = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	maxRedirects            = 5
)

// Config holds the fetcher settings.
type Config struct {
	DomainMarker     string
	Timeout          time.Duration
	UserAgent        string
	AcceptLanguage   string
	MinFragmentChars int
	// Warmup issues a GET to the site root before the listing to pick up session cookies.
	Warmup bool
	// CloudflareBypass wraps the transport with browser-like TLS settings.
	CloudflareBypass bool
	// RateLimit is the process-wide outbound request rate; <= 0 disables limiting.
	RateLimit float64
	RateBurst int
	Logger    *zap.Logger
}

// Fetcher downloads one review listing per call. Safe for concurrent use.
// Calls share only the rate limiter; cookies live for a single Fetch.
type Fetcher struct {
	http         *resty.Client
	timeout      time.Duration
	domainMarker string
	minChars     int
	warmup       bool
	logger       *zap.Logger
}

// NewFetcher builds the HTTP client: fixed browser headers, timeout and rate limiter.
func NewFetcher(cfg *Config) (*Fetcher, error) {
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return nil, fmt.Errorf("rate limit %v/s burst %d: must not be negative", cfg.RateLimit, cfg.RateBurst)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	acceptLanguage := cfg.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = DefaultAcceptLanguage
	}
	minChars := cfg.MinFragmentChars
	if minChars <= 0 {
		minChars = DefaultMinFragmentChars
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := resty.New()
	// No client-wide jar: session cookies must not leak between fetches.
	httpClient.SetCookieJar(nil)
	if cfg.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeaders(map[string]string{
		"User-Agent":      userAgent,
		"Accept":          defaultAccept,
		"Accept-Language": acceptLanguage,
	})
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	httpClient.SetTimeout(timeout)
	httpClient.SetRetryCount(0)

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := max(cfg.RateBurst, 1)
	rateLimiter := rate.NewLimiter(limit, burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if err := rateLimiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		return nil
	})

	return &Fetcher{
		http:         httpClient,
		timeout:      timeout,
		domainMarker: cfg.DomainMarker,
		minChars:     minChars,
		warmup:       cfg.Warmup,
		logger:       log,
	}, nil
}

// Fetch normalizes rawURL, downloads the review listing and returns its review texts in page order.
// The whole call, rate limiter waits and warm-up included, is bounded by the configured timeout.
// Invalid URLs wrap domain.ErrValidation; every other failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]string, error) {
	target, err := NormalizeURL(rawURL, f.domainMarker)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	frags, err := f.fetch(ctx, target)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := string(KindTransport)
		var fe *FetchError
		if errors.As(err, &fe) {
			outcome = string(fe.Kind)
		}
		metrics.FetchTotal.WithLabelValues(outcome).Inc()
		return nil, err
	}

	metrics.FetchTotal.WithLabelValues("ok").Inc()
	metrics.FetchFragments.Observe(float64(len(frags)))
	return frags, nil
}

func (f *Fetcher) fetch(ctx context.Context, target string) ([]string, error) {
	root := siteRoot(target)
	var cookies []*http.Cookie
	if f.warmup {
		cookies = f.warm(ctx, root)
	}

	res, err := f.http.R().
		SetContext(ctx).
		SetHeader("Referer", root).
		SetCookies(cookies).
		Get(target)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: target, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &FetchError{Kind: KindStatus, URL: target, Status: res.StatusCode()}
	}

	body := res.Body()
	if marker, blocked := findBlockMarker(body); blocked {
		return nil, &FetchError{Kind: KindBlocked, URL: target, Marker: marker}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Kind: KindParse, URL: target, Err: err}
	}

	frags := extractFragments(doc, f.minChars)
	if len(frags) == 0 {
		return nil, &FetchError{Kind: KindEmpty, URL: target}
	}
	return frags, nil
}

// warm loads the site root and returns the session cookies it sets. Failures are ignored.
func (f *Fetcher) warm(ctx context.Context, root string) []*http.Cookie {
	res, err := f.http.R().SetContext(ctx).Get(root)
	log := logger.FromContextOr(ctx, f.logger)
	switch {
	case err != nil:
		log.Debug("warm-up request failed", zap.String("url", root), zap.Error(err))
		return nil
	case !res.IsSuccess():
		log.Debug("warm-up request rejected", zap.String("url", root), zap.Int("status", res.StatusCode()))
	}
	return res.Cookies()
}
