// Package usage fetches quota utilization from the OAuth usage
// endpoint. One request per render, no retries: a missing quota segment
// beats a slow status line.
package usage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the OAuth usage endpoint.
	DefaultEndpoint = "https://api.anthropic.com/api/oauth/usage"
	// DefaultTimeout bounds the whole fetch attempt.
	DefaultTimeout = 5 * time.Second

	betaHeader = "oauth-2025-04-20"
)

// Window is one rolling quota window. Utilization is meaningless when
// Available is false.
type Window struct {
	Utilization float64
	Available   bool
}

// Windows carries the two windows the API reports.
type Windows struct {
	FiveHour Window
	SevenDay Window
}

// Client fetches quota utilization.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient builds a Client. Empty endpoint and non-positive timeout
// fall back to the defaults; a nil logger means no diagnostics.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// response mirrors the endpoint body. Pointers distinguish a missing
// window from a present zero one.
type response struct {
	FiveHour *bucket `json:"five_hour"`
	SevenDay *bucket `json:"seven_day"`
}

type bucket struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at"`
}

// Fetch returns both quota windows. Without a token no request is
// issued and both windows come back unavailable; transport, status, and
// parse failures likewise degrade to unavailable instead of erroring.
func (c *Client) Fetch(ctx context.Context, token string) Windows {
	if token == "" {
		return Windows{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.logger.Debug("usage request build failed", zap.Error(err))
		return Windows{}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-beta", betaHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("usage fetch failed", zap.Error(err))
		return Windows{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("usage fetch rejected", zap.Int("status", resp.StatusCode))
		return Windows{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("usage body read failed", zap.Error(err))
		return Windows{}
	}
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		c.logger.Debug("usage body unparsable", zap.Error(err))
		return Windows{}
	}

	var w Windows
	if r.FiveHour != nil {
		w.FiveHour = Window{Utilization: clamp(r.FiveHour.Utilization), Available: true}
	}
	if r.SevenDay != nil {
		w.SevenDay = Window{Utilization: clamp(r.SevenDay.Utilization), Available: true}
	}
	return w
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
