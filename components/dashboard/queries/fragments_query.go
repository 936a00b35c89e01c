package queries

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// FragmentsRequest parameterizes a fragment read.
type FragmentsRequest struct {
	Refresh bool `json:"refresh"`
}

// Fragments carries the rendered HTML pieces a host page swaps in without a
// full reload, plus the headline values that accompany them.
type Fragments struct {
	TrendHTML string             `json:"trend_html"`
	TopHTML   string             `json:"top_html"`
	TableHTML string             `json:"table_html"`
	Headline  dashboard.Headline `json:"headline"`
	FetchedAt time.Time          `json:"fetched_at"`
	Err       string             `json:"error,omitempty"`
}

type fragmentRenderer interface {
	TrendHTML() string
	TopHTML() string
}

type tableRenderer interface {
	HTML() string
}

// FragmentsQuery assembles the rendered chart and table markup for partial
// page updates.
type FragmentsQuery struct {
	orchestrator snapshotSource
	charts       fragmentRenderer
	table        tableRenderer
}

// NewFragmentsQuery builds the query from the rendering controllers.
func NewFragmentsQuery(orchestrator snapshotSource, charts fragmentRenderer, table tableRenderer) *FragmentsQuery {
	return &FragmentsQuery{
		orchestrator: orchestrator,
		charts:       charts,
		table:        table,
	}
}

var _ gocommand.Querier[FragmentsRequest, Fragments] = (*FragmentsQuery)(nil)

// Query returns the current fragments, fetching first when forced or when no
// render has happened yet. Like SnapshotQuery, fetch failures surface through
// the Err field rather than failing the query.
func (q *FragmentsQuery) Query(ctx context.Context, req FragmentsRequest) (Fragments, error) {
	if req.Refresh || q.orchestrator.Snapshot().FetchedAt.IsZero() {
		_ = q.orchestrator.Refresh(ctx)
	}

	snap := q.orchestrator.Snapshot()
	out := Fragments{
		Headline:  snap.Headline,
		FetchedAt: snap.FetchedAt,
		Err:       snap.Err,
	}
	if q.charts != nil {
		out.TrendHTML = q.charts.TrendHTML()
		out.TopHTML = q.charts.TopHTML()
	}
	if q.table != nil {
		out.TableHTML = q.table.HTML()
	}
	return out, nil
}
