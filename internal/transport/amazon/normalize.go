package amazon

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/kailas-cloud/vibecheck/internal/domain"
)

// DefaultDomainMarker is the host substring a review URL must carry.
const DefaultDomainMarker = "amazon."

// allReviewsQuery replaces whatever query the caller sent.
const allReviewsQuery = "reviewerType=all_reviews"

// productPath matches a product detail segment and captures the product identifier (ASIN).
var productPath = regexp.MustCompile(`/(?:dp|gp/product)/([A-Za-z0-9]+)`)

// NormalizeURL validates a product URL and rewrites it to the review listing of the same product.
// The identifier is kept as-is, the query is replaced with reviewerType=all_reviews
// and any fragment is dropped. Invalid input wraps domain.ErrValidation.
func NormalizeURL(raw, domainMarker string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is required: %w", domain.ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("url is malformed: %w", domain.ErrValidation)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url must be http or https: %w", domain.ErrValidation)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url has no host: %w", domain.ErrValidation)
	}
	if domainMarker == "" {
		domainMarker = DefaultDomainMarker
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), strings.ToLower(domainMarker)) {
		return "", fmt.Errorf("url host %q is not supported: %w", u.Hostname(), domain.ErrValidation)
	}

	if m := productPath.FindStringSubmatch(u.Path); m != nil {
		u.Path = "/product-reviews/" + m[1]
		u.RawPath = ""
	}
	u.RawQuery = allReviewsQuery
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil

	return u.String(), nil
}

// siteRoot returns scheme://host/ of an already normalized URL.
func siteRoot(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
}
