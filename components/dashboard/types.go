package dashboard

import (
	"context"
	"time"
)

// DisclosureRow is one buyback disclosure record as served by the
// aggregation feed. Cumulative fields and progress_pct are computed by the
// feed per (code, plan) group; the engine treats them as given.
type DisclosureRow struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	PlanKey          string   `json:"plan_key"`
	PlanLabel        string   `json:"plan_label,omitempty"`
	PlanProgressText string   `json:"plan_progress_text,omitempty"`
	PlanAnnounceDate string   `json:"plan_announce_date,omitempty"`
	PlanStartDate    string   `json:"plan_start_date,omitempty"`
	PlanPriceLower   float64  `json:"plan_price_lower,omitempty"`
	PlanPriceUpper   float64  `json:"plan_price_upper,omitempty"`
	PlanAmountUpper  float64  `json:"plan_amount_upper,omitempty"`
	PlanVolumeUpper  float64  `json:"plan_volume_upper,omitempty"`
	PlanLatestPrice  float64  `json:"plan_latest_price,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	Date             string   `json:"date"`
	Amount           float64  `json:"amount"`
	CumulativeAmount float64  `json:"cumulative_amount"`
	Volume           float64  `json:"volume"`
	CumulativeVolume float64  `json:"cumulative_volume"`
	AvgPrice         *float64 `json:"avg_price"`
	ProgressPct      float64  `json:"progress_pct"`
	ProgressText     string   `json:"progress_text,omitempty"`
}

// Summary aggregates the filtered range.
type Summary struct {
	DateFrom       string  `json:"date_from"`
	DateTo         string  `json:"date_to,omitempty"`
	TotalAmount    float64 `json:"total_amount"`
	TotalVolume    float64 `json:"total_volume"`
	UniqueCodes    int     `json:"unique_codes"`
	UniquePlans    int     `json:"unique_plans"`
	AvgDailyAmount float64 `json:"avg_daily_amount"`
	LatestDate     string  `json:"latest_date,omitempty"`
}

// TrendSeries carries per-day aggregate amounts across the filtered range.
type TrendSeries struct {
	Dates   []string  `json:"dates"`
	Amounts []float64 `json:"amounts"`
}

// TopRanking carries per-entity amounts for a single disclosure day.
type TopRanking struct {
	Date   string    `json:"date,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChartsPayload groups both chart series.
type ChartsPayload struct {
	Trend TrendSeries `json:"trend"`
	Top   TopRanking  `json:"top"`
}

// DashboardPayload is the full aggregated response consumed by one render cycle.
type DashboardPayload struct {
	Summary Summary         `json:"summary"`
	Charts  ChartsPayload   `json:"charts"`
	Table   []DisclosureRow `json:"table"`
}

// FeedQuery parameterizes one aggregated-feed request. A blank DateTo means
// "through the latest disclosure".
type FeedQuery struct {
	DateFrom string
	DateTo   string
	Code     string
	Limit    int
}

// DateBounds is the feed's available disclosure date range.
type DateBounds struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// PayloadRepository fetches aggregated dashboard payloads. Implementations
// live outside this package (HTTP feed clients, demo generators, caches).
type PayloadRepository interface {
	FetchDashboard(ctx context.Context, query FeedQuery) (DashboardPayload, error)
}

// DateBoundsRepository optionally exposes the feed's disclosure date range
// so the host page can bound its date inputs.
type DateBoundsRepository interface {
	FetchDateBounds(ctx context.Context) (DateBounds, error)
}

// ChartSurface is one chart bound to a page container. Options are always
// rebuilt from scratch; Redraw re-renders from the last options without
// reconfiguring (the resize path).
type ChartSurface interface {
	UpdateOptions(opt *ChartOption) error
	Redraw() error
	HTML() string
}

// ChartBackend creates chart surfaces. Registered in the EngineRegistry and
// selected once at startup.
type ChartBackend interface {
	Name() string
	CreateChart(containerID string) (ChartSurface, error)
}

// TableSurface is the table widget bound to its page container.
type TableSurface interface {
	SetData(rows []TableRow) error
	UpdateOptions(opt *TableOption) error
	Redraw() error
	HTML() string
}

// TableBackend creates table surfaces.
type TableBackend interface {
	Name() string
	CreateTable(containerID string, opt *TableOption) (TableSurface, error)
}

// RenderEvent describes a completed render cycle (or its failure) for
// transports that mirror dashboard state to clients.
type RenderEvent struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// RenderHook notifies transports after render cycles.
type RenderHook interface {
	RenderCompleted(ctx context.Context, event RenderEvent) error
}

type noopRenderHook struct{}

func (noopRenderHook) RenderCompleted(context.Context, RenderEvent) error { return nil }

// RenderHooks fans one event out to several hooks. Every hook sees every
// event; the first failure is reported after all hooks ran.
func RenderHooks(hooks ...RenderHook) RenderHook {
	return multiRenderHook(hooks)
}

type multiRenderHook []RenderHook

func (m multiRenderHook) RenderCompleted(ctx context.Context, event RenderEvent) error {
	var first error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.RenderCompleted(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
