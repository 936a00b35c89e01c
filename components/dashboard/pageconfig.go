package dashboard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

const (
	pageConfigVersionV1 = "1"
	// PageConfigVersion exposes the current page config format version for tooling.
	PageConfigVersion = pageConfigVersionV1
)

// Headline stat keys a page config may bind.
const (
	StatTotalAmount    = "total_amount"
	StatTotalVolume    = "total_volume"
	StatUniqueCodes    = "unique_codes"
	StatUniquePlans    = "unique_plans"
	StatAvgDailyAmount = "avg_daily_amount"
	StatLatestDate     = "latest_date"
	StatSummaryText    = "summary_text"
)

// PageConfigDocument models a YAML page config: which elements the engine
// binds, which headline stats the page shows, the quick-range buttons, query
// defaults, asset budgets, and theme tokens.
type PageConfigDocument struct {
	Version     string           `json:"version" yaml:"version"`
	Page        PageSection      `json:"page,omitempty" yaml:"page,omitempty"`
	Elements    ElementBindings  `json:"elements,omitempty" yaml:"elements,omitempty"`
	Stats       []StatBinding    `json:"stats,omitempty" yaml:"stats,omitempty"`
	QuickRanges []QuickRangeSpec `json:"quick_ranges,omitempty" yaml:"quick_ranges,omitempty"`
	Defaults    QueryDefaults    `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Assets      AssetBudgets     `json:"assets,omitempty" yaml:"assets,omitempty"`
	Theme       ThemeSection     `json:"theme,omitempty" yaml:"theme,omitempty"`
	Source      string           `json:"-" yaml:"-"`
}

// PageSection carries host page chrome.
type PageSection struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Lang  string `json:"lang,omitempty" yaml:"lang,omitempty"`
}

// ElementBindings names the page element ids the engine binds to.
type ElementBindings struct {
	TrendChart string `json:"trend_chart,omitempty" yaml:"trend_chart,omitempty"`
	TopChart   string `json:"top_chart,omitempty" yaml:"top_chart,omitempty"`
	Table      string `json:"table,omitempty" yaml:"table,omitempty"`
	Summary    string `json:"summary,omitempty" yaml:"summary,omitempty"`
	DateFrom   string `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo     string `json:"date_to,omitempty" yaml:"date_to,omitempty"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Load       string `json:"load,omitempty" yaml:"load,omitempty"`
	Reset      string `json:"reset,omitempty" yaml:"reset,omitempty"`
}

// StatBinding maps one headline stat to a page element.
type StatBinding struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Element string `json:"element,omitempty" yaml:"element,omitempty"`
}

// QuickRangeSpec describes one quick-range button.
type QuickRangeSpec struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Days  int    `json:"days" yaml:"days"`
}

// QueryDefaults are the initial query controls.
type QueryDefaults struct {
	RangeDays int `json:"range_days,omitempty" yaml:"range_days,omitempty"`
	Limit     int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// AssetBudgets tune the capability loader, in milliseconds.
type AssetBudgets struct {
	PollMS         int `json:"poll_ms,omitempty" yaml:"poll_ms,omitempty"`
	ChartsBudgetMS int `json:"charts_budget_ms,omitempty" yaml:"charts_budget_ms,omitempty"`
	TableBudgetMS  int `json:"table_budget_ms,omitempty" yaml:"table_budget_ms,omitempty"`
}

// ThemeSection overrides theme tokens.
type ThemeSection struct {
	Name   string            `json:"name,omitempty" yaml:"name,omitempty"`
	Tokens map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// ReadPageConfig loads a page config file from disk.
func ReadPageConfig(path string) (*PageConfigDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open page config %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodePageConfig(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode page config %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodePageConfig reads a page config from any reader. Unknown fields are
// rejected so typos fail loudly.
func DecodePageConfig(r io.Reader) (*PageConfigDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc PageConfigDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: page config is empty")
		}
		return nil, fmt.Errorf("dashboard: parse page config: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DefaultPageConfig returns the built-in config used when no file is given.
func DefaultPageConfig() *PageConfigDocument {
	doc := &PageConfigDocument{}
	doc.applyDefaults()
	return doc
}

// Validate ensures the page config satisfies required fields and bounds.
func (doc *PageConfigDocument) Validate() error {
	if doc.Version != pageConfigVersionV1 {
		return fmt.Errorf("dashboard: unsupported page config version %q", doc.Version)
	}
	seenStats := make(map[string]struct{}, len(doc.Stats))
	for idx, stat := range doc.Stats {
		if stat.Key == "" {
			return fmt.Errorf("dashboard: page config stat at index %d is missing key", idx)
		}
		if !knownStatKey(stat.Key) {
			return fmt.Errorf("dashboard: page config stat %s is not a headline field", stat.Key)
		}
		if _, exists := seenStats[stat.Key]; exists {
			return fmt.Errorf("dashboard: page config duplicates stat key %s", stat.Key)
		}
		seenStats[stat.Key] = struct{}{}
	}
	seenDays := make(map[int]struct{}, len(doc.QuickRanges))
	for idx, qr := range doc.QuickRanges {
		if qr.Days <= 0 {
			return fmt.Errorf("dashboard: page config quick range at index %d needs a positive day count", idx)
		}
		if _, exists := seenDays[qr.Days]; exists {
			return fmt.Errorf("dashboard: page config duplicates quick range of %d days", qr.Days)
		}
		seenDays[qr.Days] = struct{}{}
	}
	if doc.Defaults.RangeDays <= 0 {
		return fmt.Errorf("dashboard: page config default range_days must be positive")
	}
	if doc.Defaults.Limit < 1 || doc.Defaults.Limit > 5000 {
		return fmt.Errorf("dashboard: page config default limit %d outside 1..5000", doc.Defaults.Limit)
	}
	if doc.Assets.PollMS < 0 || doc.Assets.ChartsBudgetMS < 0 || doc.Assets.TableBudgetMS < 0 {
		return fmt.Errorf("dashboard: page config asset budgets must not be negative")
	}
	return nil
}

func (doc *PageConfigDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = pageConfigVersionV1
	}
	if doc.Page.Title == "" {
		doc.Page.Title = "A股回购动态"
	}
	if doc.Page.Lang == "" {
		doc.Page.Lang = "zh-CN"
	}
	doc.Elements.applyDefaults()
	if len(doc.Stats) == 0 {
		doc.Stats = defaultStats()
	}
	for idx := range doc.Stats {
		doc.Stats[idx].applyDefaults()
	}
	if len(doc.QuickRanges) == 0 {
		doc.QuickRanges = []QuickRangeSpec{{Days: 7}, {Days: 30}, {Days: 90}}
	}
	for idx := range doc.QuickRanges {
		if doc.QuickRanges[idx].Label == "" && doc.QuickRanges[idx].Days > 0 {
			doc.QuickRanges[idx].Label = fmt.Sprintf("近%d天", doc.QuickRanges[idx].Days)
		}
	}
	if doc.Defaults.RangeDays == 0 {
		doc.Defaults.RangeDays = 30
	}
	if doc.Defaults.Limit == 0 {
		doc.Defaults.Limit = DefaultRowLimit
	}
	if doc.Assets.PollMS == 0 {
		doc.Assets.PollMS = int(defaultPollInterval / time.Millisecond)
	}
	if doc.Assets.ChartsBudgetMS == 0 {
		doc.Assets.ChartsBudgetMS = int(defaultChartsBudget / time.Millisecond)
	}
	if doc.Assets.TableBudgetMS == 0 {
		doc.Assets.TableBudgetMS = int(defaultTableBudget / time.Millisecond)
	}
}

func (e *ElementBindings) applyDefaults() {
	if e.TrendChart == "" {
		e.TrendChart = DefaultTrendElementID
	}
	if e.TopChart == "" {
		e.TopChart = DefaultTopElementID
	}
	if e.Table == "" {
		e.Table = DefaultTableElementID
	}
	if e.Summary == "" {
		e.Summary = "summary-text"
	}
	if e.DateFrom == "" {
		e.DateFrom = "filter-date-from"
	}
	if e.DateTo == "" {
		e.DateTo = "filter-date-to"
	}
	if e.Code == "" {
		e.Code = "filter-code"
	}
	if e.Load == "" {
		e.Load = "btn-load"
	}
	if e.Reset == "" {
		e.Reset = "btn-reset"
	}
}

func (s *StatBinding) applyDefaults() {
	if s.Element == "" && s.Key != "" {
		s.Element = "stat-" + strcase.ToKebab(s.Key)
	}
	if s.Label == "" {
		s.Label = defaultStatLabel(s.Key)
	}
}

// LoaderBudgets translates the config into loader options.
func (a AssetBudgets) LoaderBudgets() (poll time.Duration, budgets map[string]time.Duration) {
	poll = time.Duration(a.PollMS) * time.Millisecond
	budgets = map[string]time.Duration{
		CapabilityCharts: time.Duration(a.ChartsBudgetMS) * time.Millisecond,
		CapabilityTable:  time.Duration(a.TableBudgetMS) * time.Millisecond,
	}
	return poll, budgets
}

// BuildTheme merges the config's token overrides over the default theme.
// Keys may be written with or without the CSS custom-property prefix.
func (t ThemeSection) BuildTheme() Theme {
	theme := DefaultTheme()
	if t.Name != "" {
		theme.Name = t.Name
	}
	for name, value := range t.Tokens {
		theme.Tokens[strings.TrimPrefix(name, "--")] = value
	}
	return theme
}

// HeadlineValue resolves a stat key against a headline.
func HeadlineValue(h Headline, key string) string {
	switch key {
	case StatTotalAmount:
		return h.TotalAmount
	case StatTotalVolume:
		return h.TotalVolume
	case StatUniqueCodes:
		return h.UniqueCodes
	case StatUniquePlans:
		return h.UniquePlans
	case StatAvgDailyAmount:
		return h.AvgDailyAmount
	case StatLatestDate:
		return h.LatestDate
	case StatSummaryText:
		return h.SummaryText
	default:
		return ""
	}
}

func knownStatKey(key string) bool {
	switch key {
	case StatTotalAmount, StatTotalVolume, StatUniqueCodes, StatUniquePlans,
		StatAvgDailyAmount, StatLatestDate, StatSummaryText:
		return true
	}
	return false
}

func defaultStats() []StatBinding {
	return []StatBinding{
		{Key: StatTotalAmount},
		{Key: StatTotalVolume},
		{Key: StatUniqueCodes},
		{Key: StatUniquePlans},
		{Key: StatAvgDailyAmount},
		{Key: StatLatestDate},
	}
}

func defaultStatLabel(key string) string {
	switch key {
	case StatTotalAmount:
		return "区间回购总额"
	case StatTotalVolume:
		return "区间回购股数"
	case StatUniqueCodes:
		return "涉及公司"
	case StatUniquePlans:
		return "回购计划数"
	case StatAvgDailyAmount:
		return "日均回购金额"
	case StatLatestDate:
		return "最新披露日"
	case StatSummaryText:
		return "数据范围"
	default:
		return key
	}
}
