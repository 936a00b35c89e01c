package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// SnapshotRequest parameterizes a snapshot read. Refresh forces a new fetch
// cycle; otherwise a cycle only runs when no snapshot exists yet.
type SnapshotRequest struct {
	Refresh bool `json:"refresh"`
}

type snapshotSource interface {
	Snapshot() dashboard.Snapshot
	Refresh(ctx context.Context) error
}

// SnapshotQuery reads the orchestrator's current state. Fetch failures do
// not fail the query: the orchestrator stores them in the snapshot's Err
// field and callers surface that.
type SnapshotQuery struct {
	orchestrator snapshotSource
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(orchestrator snapshotSource) *SnapshotQuery {
	return &SnapshotQuery{orchestrator: orchestrator}
}

var _ gocommand.Querier[SnapshotRequest, dashboard.Snapshot] = (*SnapshotQuery)(nil)

// Query returns the dashboard state, fetching first when forced or empty.
func (q *SnapshotQuery) Query(ctx context.Context, req SnapshotRequest) (dashboard.Snapshot, error) {
	if req.Refresh || q.orchestrator.Snapshot().FetchedAt.IsZero() {
		_ = q.orchestrator.Refresh(ctx)
	}
	return q.orchestrator.Snapshot(), nil
}
