package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

type countingClient struct {
	payloadCalls int
	boundsCalls  int
	err          error
}

func (c *countingClient) FetchPayload(context.Context, dashboard.FeedQuery) (dashboard.DashboardPayload, error) {
	c.payloadCalls++
	if c.err != nil {
		return dashboard.DashboardPayload{}, c.err
	}
	return dashboard.DashboardPayload{Summary: dashboard.Summary{TotalAmount: 42}}, nil
}

func (c *countingClient) FetchBounds(context.Context) (dashboard.DateBounds, error) {
	c.boundsCalls++
	if c.err != nil {
		return dashboard.DateBounds{}, c.err
	}
	return dashboard.DateBounds{Min: "2024-01-02", Max: "2024-01-31"}, nil
}

func TestCachedClientServesRepeatQueryFromCache(t *testing.T) {
	inner := &countingClient{}
	client := NewCachedClient(inner, time.Minute)

	query := dashboard.FeedQuery{DateFrom: "2024-01-01", Code: "600519"}
	for i := 0; i < 3; i++ {
		payload, err := client.FetchPayload(context.Background(), query)
		if err != nil {
			t.Fatalf("fetch payload: %v", err)
		}
		if payload.Summary.TotalAmount != 42 {
			t.Fatalf("unexpected payload %+v", payload.Summary)
		}
	}
	if inner.payloadCalls != 1 {
		t.Fatalf("expected a single upstream call, got %d", inner.payloadCalls)
	}
}

func TestCachedClientKeysByQuery(t *testing.T) {
	inner := &countingClient{}
	client := NewCachedClient(inner, time.Minute)

	_, _ = client.FetchPayload(context.Background(), dashboard.FeedQuery{DateFrom: "2024-01-01"})
	_, _ = client.FetchPayload(context.Background(), dashboard.FeedQuery{DateFrom: "2024-02-01"})

	if inner.payloadCalls != 2 {
		t.Fatalf("distinct queries must both hit upstream, got %d calls", inner.payloadCalls)
	}
}

func TestCachedClientCachesBounds(t *testing.T) {
	inner := &countingClient{}
	client := NewCachedClient(inner, time.Minute)

	for i := 0; i < 2; i++ {
		bounds, err := client.FetchBounds(context.Background())
		if err != nil {
			t.Fatalf("fetch bounds: %v", err)
		}
		if bounds.Min != "2024-01-02" {
			t.Fatalf("unexpected bounds %+v", bounds)
		}
	}
	if inner.boundsCalls != 1 {
		t.Fatalf("expected a single upstream call, got %d", inner.boundsCalls)
	}
}

func TestCachedClientNeverCachesErrors(t *testing.T) {
	inner := &countingClient{err: errors.New("feed down")}
	client := NewCachedClient(inner, time.Minute)

	query := dashboard.FeedQuery{DateFrom: "2024-01-01"}
	if _, err := client.FetchPayload(context.Background(), query); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := client.FetchPayload(context.Background(), query); err == nil {
		t.Fatalf("expected error")
	}
	if inner.payloadCalls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", inner.payloadCalls)
	}
}

func TestCachedClientInvalidate(t *testing.T) {
	inner := &countingClient{}
	client := NewCachedClient(inner, time.Minute)

	query := dashboard.FeedQuery{DateFrom: "2024-01-01"}
	_, _ = client.FetchPayload(context.Background(), query)
	client.Invalidate()
	_, _ = client.FetchPayload(context.Background(), query)

	if inner.payloadCalls != 2 {
		t.Fatalf("invalidate must drop cached entries, got %d calls", inner.payloadCalls)
	}
}
