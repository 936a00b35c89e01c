package feed

import (
	"context"
	"sync"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// MockData seeds deterministic feed responses for tests or local demos.
type MockData struct {
	Payload dashboard.DashboardPayload
	Bounds  dashboard.DateBounds
	Err     error
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds a mock feed client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// SetPayload swaps the served payload, for tests that simulate fresh data.
func (c *MockClient) SetPayload(payload dashboard.DashboardPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Payload = payload
}

// FetchPayload returns the configured payload ignoring query filters.
func (c *MockClient) FetchPayload(context.Context, dashboard.FeedQuery) (dashboard.DashboardPayload, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return dashboard.DashboardPayload{}, c.data.Err
	}
	return clonePayload(c.data.Payload), nil
}

// FetchBounds returns the configured date bounds.
func (c *MockClient) FetchBounds(context.Context) (dashboard.DateBounds, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return dashboard.DateBounds{}, c.data.Err
	}
	return c.data.Bounds, nil
}

func clonePayload(payload dashboard.DashboardPayload) dashboard.DashboardPayload {
	out := payload
	out.Charts.Trend.Dates = append([]string(nil), payload.Charts.Trend.Dates...)
	out.Charts.Trend.Amounts = append([]float64(nil), payload.Charts.Trend.Amounts...)
	out.Charts.Top.Labels = append([]string(nil), payload.Charts.Top.Labels...)
	out.Charts.Top.Values = append([]float64(nil), payload.Charts.Top.Values...)
	out.Table = append([]dashboard.DisclosureRow(nil), payload.Table...)
	return out
}
