package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

type stubSource struct {
	snapshot     dashboard.Snapshot
	refreshCalls int
	refreshErr   error
}

func (s *stubSource) Snapshot() dashboard.Snapshot { return s.snapshot }

func (s *stubSource) Refresh(ctx context.Context) error {
	s.refreshCalls++
	s.snapshot.FetchedAt = time.Now()
	if s.refreshErr != nil {
		s.snapshot.Err = s.refreshErr.Error()
		return s.refreshErr
	}
	return nil
}

type stubCharts struct {
	trend string
	top   string
}

func (s *stubCharts) TrendHTML() string { return s.trend }
func (s *stubCharts) TopHTML() string   { return s.top }

type stubTable struct {
	html string
}

func (s *stubTable) HTML() string { return s.html }

func TestSnapshotQueryServesCurrentState(t *testing.T) {
	source := &stubSource{snapshot: dashboard.Snapshot{
		Headline:  dashboard.Headline{SummaryText: "2024-01-01 至 2024-01-31 · 12 条记录"},
		FetchedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}}

	query := NewSnapshotQuery(source)
	snap, err := query.Query(context.Background(), SnapshotRequest{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if source.refreshCalls != 0 {
		t.Errorf("expected no refresh, got %d calls", source.refreshCalls)
	}
	if snap.Headline.SummaryText != source.snapshot.Headline.SummaryText {
		t.Errorf("unexpected summary %q", snap.Headline.SummaryText)
	}
}

func TestSnapshotQueryFetchesWhenEmpty(t *testing.T) {
	source := &stubSource{}

	query := NewSnapshotQuery(source)
	snap, err := query.Query(context.Background(), SnapshotRequest{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if source.refreshCalls != 1 {
		t.Errorf("expected 1 refresh call, got %d", source.refreshCalls)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("expected snapshot to carry a fetch time after refresh")
	}
}

func TestSnapshotQueryForcesRefresh(t *testing.T) {
	source := &stubSource{snapshot: dashboard.Snapshot{
		FetchedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}}

	query := NewSnapshotQuery(source)
	if _, err := query.Query(context.Background(), SnapshotRequest{Refresh: true}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if source.refreshCalls != 1 {
		t.Errorf("expected 1 refresh call, got %d", source.refreshCalls)
	}
}

func TestSnapshotQueryServesErrorState(t *testing.T) {
	source := &stubSource{refreshErr: errors.New("feed unavailable")}

	query := NewSnapshotQuery(source)
	snap, err := query.Query(context.Background(), SnapshotRequest{Refresh: true})
	if err != nil {
		t.Fatalf("Query should absorb fetch failures, got: %v", err)
	}

	if snap.Err != "feed unavailable" {
		t.Errorf("expected error state in snapshot, got %q", snap.Err)
	}
}

func TestFragmentsQueryAssemblesMarkup(t *testing.T) {
	source := &stubSource{snapshot: dashboard.Snapshot{
		Headline:  dashboard.Headline{TotalAmount: "1.20 亿"},
		FetchedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}}
	charts := &stubCharts{trend: "<div id=\"chart-trend\"></div>", top: "<div id=\"chart-top\"></div>"}
	table := &stubTable{html: "<table></table>"}

	query := NewFragmentsQuery(source, charts, table)
	fragments, err := query.Query(context.Background(), FragmentsRequest{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if source.refreshCalls != 0 {
		t.Errorf("expected no refresh, got %d calls", source.refreshCalls)
	}
	if fragments.TrendHTML != charts.trend {
		t.Errorf("unexpected trend markup %q", fragments.TrendHTML)
	}
	if fragments.TopHTML != charts.top {
		t.Errorf("unexpected ranking markup %q", fragments.TopHTML)
	}
	if fragments.TableHTML != table.html {
		t.Errorf("unexpected table markup %q", fragments.TableHTML)
	}
	if fragments.Headline.TotalAmount != "1.20 亿" {
		t.Errorf("unexpected headline %q", fragments.Headline.TotalAmount)
	}
}

func TestFragmentsQueryForcesRefresh(t *testing.T) {
	source := &stubSource{snapshot: dashboard.Snapshot{
		FetchedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}}

	query := NewFragmentsQuery(source, &stubCharts{}, &stubTable{})
	fragments, err := query.Query(context.Background(), FragmentsRequest{Refresh: true})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if source.refreshCalls != 1 {
		t.Errorf("expected 1 refresh call, got %d", source.refreshCalls)
	}
	if fragments.FetchedAt.IsZero() {
		t.Error("expected fragments to carry a fetch time")
	}
}
