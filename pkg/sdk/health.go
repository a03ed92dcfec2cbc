package vibecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HealthStatus represents the aggregated service health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

// Healthy reports whether every component check passed.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }

// Health fetches the service health. A degraded service (HTTP 503) is not an error.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	res, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return HealthStatus{}, fmt.Errorf("vibecheck: health: %w", err)
	}
	if res.StatusCode() != http.StatusOK && res.StatusCode() != http.StatusServiceUnavailable {
		return HealthStatus{}, apiError(res.StatusCode(), res.Body())
	}
	if err := json.Unmarshal(res.Body(), &hs); err != nil {
		return HealthStatus{}, fmt.Errorf("vibecheck: decode health: %w", err)
	}
	return hs, nil
}
