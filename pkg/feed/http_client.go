package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

const maxErrorBodyBytes = 4 << 10

// HTTPConfig configures the HTTP feed client.
type HTTPConfig struct {
	BaseURL       string
	DashboardPath string
	BoundsPath    string
	APIKey        string
	HTTPClient    *http.Client

	// RequestsPerSecond throttles outbound calls; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// HTTPClient talks to a remote aggregation feed over REST endpoints.
type HTTPClient struct {
	baseURL       string
	dashboardPath string
	boundsPath    string
	apiKey        string
	client        *http.Client
	limiter       *rate.Limiter
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client capable of hitting a live aggregation feed.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("feed: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &HTTPClient{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		dashboardPath: cfg.DashboardPath,
		boundsPath:    cfg.BoundsPath,
		apiKey:        cfg.APIKey,
		client:        httpClient,
	}
	if c.dashboardPath == "" {
		c.dashboardPath = "/api/dashboard"
	}
	if c.boundsPath == "" {
		c.boundsPath = "/api/bounds"
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// FetchPayload implements PayloadClient against the aggregated endpoint.
func (c *HTTPClient) FetchPayload(ctx context.Context, query dashboard.FeedQuery) (dashboard.DashboardPayload, error) {
	params := url.Values{}
	if query.DateFrom != "" {
		params.Set("date_from", query.DateFrom)
	}
	if query.DateTo != "" {
		params.Set("date_to", query.DateTo)
	}
	if query.Code != "" {
		params.Set("code", query.Code)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	var payload dashboard.DashboardPayload
	if err := c.get(ctx, c.dashboardPath, params, &payload); err != nil {
		return dashboard.DashboardPayload{}, err
	}
	return payload, nil
}

// FetchBounds implements BoundsClient against the bounds endpoint.
func (c *HTTPClient) FetchBounds(ctx context.Context) (dashboard.DateBounds, error) {
	var bounds dashboard.DateBounds
	if err := c.get(ctx, c.boundsPath, nil, &bounds); err != nil {
		return dashboard.DateBounds{}, err
	}
	return bounds, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, target any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("feed: rate limit wait: %w", err)
		}
	}
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("feed: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &FetchError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("feed: decode response: %w", err)
	}
	return nil
}
