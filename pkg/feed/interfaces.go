package feed

import (
	"context"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// PayloadClient fetches aggregated buyback payloads from the feed service.
type PayloadClient interface {
	FetchPayload(ctx context.Context, query dashboard.FeedQuery) (dashboard.DashboardPayload, error)
}

// BoundsClient fetches the feed's available disclosure date range.
type BoundsClient interface {
	FetchBounds(ctx context.Context) (dashboard.DateBounds, error)
}

// Client is a convenience union for sources that implement both feed calls.
type Client interface {
	PayloadClient
	BoundsClient
}
