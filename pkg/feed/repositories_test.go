package feed

import (
	"context"
	"testing"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

func TestRepositoriesDelegateToClient(t *testing.T) {
	mock := NewMockClient(MockData{
		Payload: dashboard.DashboardPayload{
			Summary: dashboard.Summary{DateFrom: "2024-01-01", TotalAmount: 5e7},
			Table:   []dashboard.DisclosureRow{{Code: "600519", Date: "2024-01-05", Amount: 5e7}},
		},
		Bounds: dashboard.DateBounds{Min: "2023-06-01", Max: "2024-01-05"},
	})

	payloadRepo := NewPayloadRepository(mock)
	payload, err := payloadRepo.FetchDashboard(context.Background(), dashboard.FeedQuery{DateFrom: "2024-01-01"})
	if err != nil || len(payload.Table) != 1 {
		t.Fatalf("payload repo returned %v, %v", payload, err)
	}

	boundsRepo := NewBoundsRepository(mock)
	bounds, err := boundsRepo.FetchDateBounds(context.Background())
	if err != nil || bounds.Max != "2024-01-05" {
		t.Fatalf("bounds repo returned %v, %v", bounds, err)
	}
}
