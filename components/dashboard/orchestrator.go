package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRowLimit caps the table batch when the caller does not pick a limit.
const DefaultRowLimit = 500

// Filters are the user-editable query controls. ActiveRange carries the day
// count of the quick-range button currently marked active; zero when the
// bounds were edited by hand.
type Filters struct {
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	Code        string `json:"code"`
	Limit       int    `json:"limit"`
	ActiveRange int    `json:"active_range,omitempty"`
}

// Headline is the formatted stat strip: every field is display-ready text so
// hosts bind it without reformatting.
type Headline struct {
	TotalAmount    string `json:"total_amount"`
	TotalVolume    string `json:"total_volume"`
	UniqueCodes    string `json:"unique_codes"`
	UniquePlans    string `json:"unique_plans"`
	AvgDailyAmount string `json:"avg_daily_amount"`
	LatestDate     string `json:"latest_date"`
	SummaryText    string `json:"summary_text"`
}

// Snapshot is the single explicit state value of the dashboard: the last
// fetched payload, its derived headline, the filters that produced it, and
// the failure message when the cycle did not complete. Each fetch replaces
// the whole value.
type Snapshot struct {
	Payload   DashboardPayload `json:"payload"`
	Headline  Headline         `json:"headline"`
	Filters   Filters          `json:"filters"`
	FetchedAt time.Time        `json:"fetched_at"`
	Err       string           `json:"error,omitempty"`
}

// OrchestratorOptions configures an Orchestrator. Repository is required;
// controllers are optional so headless callers can fetch snapshots without
// render surfaces.
type OrchestratorOptions struct {
	Repository   PayloadRepository
	Charts       *ChartController
	Table        *TableController
	Hook         RenderHook
	Telemetry    Telemetry
	DefaultFrom  string
	MinDate      string
	MaxDate      string
	DefaultLimit int
	Now          func() time.Time
}

// Orchestrator drives the fetch-then-render cycle. One mutex serializes
// cycles, which stands in for the source environment's single event loop:
// within a cycle the headline and table update before charts are attempted.
// Overlapping Refresh calls queue up and the last writer wins; there is no
// request-generation guard, so a stale response finishing last overwrites a
// newer one.
type Orchestrator struct {
	repo      PayloadRepository
	charts    *ChartController
	table     *TableController
	hook      RenderHook
	telemetry Telemetry

	defaultFrom  string
	minDate      string
	maxDate      string
	defaultLimit int
	now          func() time.Time

	mu       sync.Mutex
	filters  Filters
	snapshot Snapshot
}

// NewOrchestrator builds an orchestrator over the given repository.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Repository == nil {
		return nil, errMissingRepository
	}
	o := &Orchestrator{
		repo:         opts.Repository,
		charts:       opts.Charts,
		table:        opts.Table,
		hook:         opts.Hook,
		telemetry:    normalizeTelemetry(opts.Telemetry),
		defaultFrom:  opts.DefaultFrom,
		minDate:      opts.MinDate,
		maxDate:      opts.MaxDate,
		defaultLimit: opts.DefaultLimit,
		now:          opts.Now,
	}
	if o.hook == nil {
		o.hook = noopRenderHook{}
	}
	if o.defaultLimit <= 0 {
		o.defaultLimit = DefaultRowLimit
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o, nil
}

// SetFilters replaces the user-editable query controls. A manual edit clears
// the active quick-range marker.
func (o *Orchestrator) SetFilters(f Filters) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.filters = Filters{
		DateFrom: strings.TrimSpace(f.DateFrom),
		DateTo:   strings.TrimSpace(f.DateTo),
		Code:     strings.TrimSpace(f.Code),
		Limit:    f.Limit,
	}
}

// Filters returns the current query controls.
func (o *Orchestrator) Filters() Filters {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.filters
}

// Snapshot returns the current dashboard state. The payload inside is shared
// and must be treated as read-only.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// Refresh runs one full cycle: build the query from current filters, fetch,
// replace the snapshot, then render table and charts in that order. Failures
// anywhere surface as the headline summary text and the table placeholder,
// are logged, and are also returned so programmatic callers can react.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refreshLocked(ctx)
}

// QuickRange sets the date bounds to the trailing window of the given day
// count and refreshes. The window ends at the later of the current date_to
// and the declared maximum (today when neither parses) and starts days-1
// calendar days earlier, clamped to the declared minimum. Both bound inputs
// are written and the invoking control is marked active.
func (o *Orchestrator) QuickRange(ctx context.Context, days int) error {
	if days <= 0 {
		return fmt.Errorf("dashboard: quick range needs a positive day count, got %d", days)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	base := o.quickRangeBaseLocked()
	from := DateOf(base.Time().AddDate(0, 0, -(days - 1)))
	if min, ok := ParseDate(o.minDate); ok && from.Time().Before(min.Time()) {
		from = min
	}

	o.filters.DateFrom = FormatDate(from)
	o.filters.DateTo = FormatDate(base)
	o.filters.ActiveRange = days
	return o.refreshLocked(ctx)
}

// RefreshCharts re-renders both charts from the cached payload. Theme
// switchers call this; the chart controller re-reads tokens on every render,
// so no reconstruction is needed.
func (o *Orchestrator) RefreshCharts(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.charts == nil {
		return nil
	}
	return o.charts.Render(ctx, o.snapshot.Payload.Charts)
}

// RedrawTable re-renders the current table rows, reapplying highlights.
func (o *Orchestrator) RedrawTable() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.table == nil {
		return nil
	}
	return o.table.Redraw()
}

// Resize redraws already-created surfaces at their current size without
// rebuilding configuration.
func (o *Orchestrator) Resize() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.charts != nil {
		if err := o.charts.Resize(); err != nil {
			return err
		}
	}
	if o.table == nil {
		return nil
	}
	return o.table.Redraw()
}

func (o *Orchestrator) refreshLocked(ctx context.Context) error {
	query := o.buildQueryLocked()

	payload, err := o.repo.FetchDashboard(ctx, query)
	if err != nil {
		return o.failLocked(ctx, err)
	}

	o.snapshot = Snapshot{
		Payload:   payload,
		Headline:  buildHeadline(payload),
		Filters:   o.filters,
		FetchedAt: o.now(),
	}

	if o.table != nil {
		if err := o.table.Render(ctx, payload.Table, payload.Summary); err != nil {
			return o.failLocked(ctx, err)
		}
	}
	if o.charts != nil {
		if err := o.charts.Render(ctx, payload.Charts); err != nil {
			return o.failLocked(ctx, err)
		}
	}

	o.telemetry.Record(ctx, "dashboard.refresh", map[string]any{
		"rows":      len(payload.Table),
		"date_from": query.DateFrom,
		"date_to":   query.DateTo,
		"code":      query.Code,
	})
	o.emitLocked(ctx, "refresh", map[string]any{
		"rows":      len(payload.Table),
		"date_from": query.DateFrom,
		"date_to":   query.DateTo,
	})
	return nil
}

func (o *Orchestrator) failLocked(ctx context.Context, cause error) error {
	msg := cause.Error()
	o.snapshot = Snapshot{
		Headline:  failedHeadline(msg),
		Filters:   o.filters,
		FetchedAt: o.now(),
		Err:       msg,
	}
	if o.table != nil {
		if perr := o.table.SetPlaceholder(msg); perr != nil {
			o.telemetry.Record(ctx, "dashboard.table.error", map[string]any{"error": perr.Error()})
		}
	}
	o.telemetry.Record(ctx, "dashboard.fetch.error", map[string]any{"error": msg})
	o.emitLocked(ctx, "error", map[string]any{"error": msg})
	return cause
}

func (o *Orchestrator) buildQueryLocked() FeedQuery {
	q := FeedQuery{
		DateFrom: o.filters.DateFrom,
		DateTo:   o.filters.DateTo,
		Code:     o.filters.Code,
		Limit:    o.filters.Limit,
	}
	if q.DateFrom == "" {
		q.DateFrom = o.defaultFrom
	}
	if q.Limit <= 0 {
		q.Limit = o.defaultLimit
	}
	return q
}

func (o *Orchestrator) quickRangeBaseLocked() Date {
	base, ok := ParseDate(o.filters.DateTo)
	if declared, dok := ParseDate(o.maxDate); dok {
		if !ok || declared.Time().After(base.Time()) {
			base, ok = declared, true
		}
	}
	if !ok {
		base = DateOf(o.now().UTC())
	}
	return base
}

func (o *Orchestrator) emitLocked(ctx context.Context, kind string, payload map[string]any) {
	event := RenderEvent{
		ID:      uuid.NewString(),
		Kind:    kind,
		At:      o.now(),
		Payload: payload,
	}
	if err := o.hook.RenderCompleted(ctx, event); err != nil {
		o.telemetry.Record(ctx, "dashboard.hook.error", map[string]any{"error": err.Error()})
	}
}

func buildHeadline(payload DashboardPayload) Headline {
	s := payload.Summary
	h := Headline{
		TotalAmount:    FormatAmount(s.TotalAmount, 2),
		TotalVolume:    FormatAmount(s.TotalVolume, 2),
		UniqueCodes:    strconv.Itoa(s.UniqueCodes),
		UniquePlans:    strconv.Itoa(s.UniquePlans),
		AvgDailyAmount: FormatAmount(s.AvgDailyAmount, 2),
		LatestDate:     s.LatestDate,
	}
	if h.LatestDate == "" {
		h.LatestDate = Placeholder
	}
	if len(payload.Table) == 0 {
		h.SummaryText = phraseNoData
		return h
	}
	from, to := s.DateFrom, s.DateTo
	if from == "" {
		from = Placeholder
	}
	if to == "" {
		to = Placeholder
	}
	h.SummaryText = fmt.Sprintf("%s 至 %s · %d 条记录", from, to, len(payload.Table))
	return h
}

func failedHeadline(msg string) Headline {
	return Headline{
		TotalAmount:    Placeholder,
		TotalVolume:    Placeholder,
		UniqueCodes:    Placeholder,
		UniquePlans:    Placeholder,
		AvgDailyAmount: Placeholder,
		LatestDate:     Placeholder,
		SummaryText:    msg,
	}
}
