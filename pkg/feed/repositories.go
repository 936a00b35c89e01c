package feed

import (
	"context"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// NewPayloadRepository adapts a feed client into the engine's payload
// repository.
func NewPayloadRepository(client PayloadClient) dashboard.PayloadRepository {
	return &payloadRepository{client: client}
}

type payloadRepository struct {
	client PayloadClient
}

func (r *payloadRepository) FetchDashboard(ctx context.Context, query dashboard.FeedQuery) (dashboard.DashboardPayload, error) {
	return r.client.FetchPayload(ctx, query)
}

// NewBoundsRepository adapts a feed client for the host page's date inputs.
func NewBoundsRepository(client BoundsClient) dashboard.DateBoundsRepository {
	return &boundsRepository{client: client}
}

type boundsRepository struct {
	client BoundsClient
}

func (r *boundsRepository) FetchDateBounds(ctx context.Context) (dashboard.DateBounds, error) {
	return r.client.FetchBounds(ctx)
}
