package dashboard

import (
	"strings"
	"testing"
	"time"
)

func TestDecodePageConfig(t *testing.T) {
	doc, err := DecodePageConfig(strings.NewReader(`
version: "1"
page:
  title: 回购看板
stats:
  - key: total_amount
    label: 总额
  - key: avg_daily_amount
quick_ranges:
  - days: 7
  - days: 60
    label: 近两月
defaults:
  range_days: 60
  limit: 1000
theme:
  tokens:
    chart-accent: "#2563eb"
`))
	if err != nil {
		t.Fatalf("DecodePageConfig returned error: %v", err)
	}

	if doc.Page.Title != "回购看板" {
		t.Fatalf("Title = %q", doc.Page.Title)
	}
	if doc.Page.Lang != "zh-CN" {
		t.Fatalf("expected default lang, got %q", doc.Page.Lang)
	}
	if doc.Elements.TrendChart != DefaultTrendElementID || doc.Elements.Table != DefaultTableElementID {
		t.Fatalf("expected default element ids, got %+v", doc.Elements)
	}
	if doc.Stats[0].Label != "总额" {
		t.Fatalf("expected explicit label kept, got %q", doc.Stats[0].Label)
	}
	if doc.Stats[0].Element != "stat-total-amount" {
		t.Fatalf("expected kebab element id, got %q", doc.Stats[0].Element)
	}
	if doc.Stats[1].Label != "日均回购金额" || doc.Stats[1].Element != "stat-avg-daily-amount" {
		t.Fatalf("expected defaulted stat, got %+v", doc.Stats[1])
	}
	if doc.QuickRanges[0].Label != "近7天" {
		t.Fatalf("expected generated label, got %q", doc.QuickRanges[0].Label)
	}
	if doc.QuickRanges[1].Label != "近两月" {
		t.Fatalf("expected explicit label kept, got %q", doc.QuickRanges[1].Label)
	}
	if doc.Defaults.RangeDays != 60 || doc.Defaults.Limit != 1000 {
		t.Fatalf("unexpected defaults %+v", doc.Defaults)
	}
	if doc.Theme.Tokens["chart-accent"] != "#2563eb" {
		t.Fatalf("unexpected theme tokens %v", doc.Theme.Tokens)
	}
}

func TestDefaultPageConfig(t *testing.T) {
	doc := DefaultPageConfig()
	if doc.Version != PageConfigVersion {
		t.Fatalf("Version = %q", doc.Version)
	}
	if doc.Page.Title != "A股回购动态" {
		t.Fatalf("Title = %q", doc.Page.Title)
	}
	if len(doc.Stats) != 6 {
		t.Fatalf("expected six default stats, got %d", len(doc.Stats))
	}
	if doc.Stats[0].Key != StatTotalAmount || doc.Stats[0].Label != "区间回购总额" {
		t.Fatalf("unexpected first stat %+v", doc.Stats[0])
	}
	if len(doc.QuickRanges) != 3 || doc.QuickRanges[2].Days != 90 {
		t.Fatalf("unexpected quick ranges %+v", doc.QuickRanges)
	}
	if doc.Defaults.RangeDays != 30 || doc.Defaults.Limit != DefaultRowLimit {
		t.Fatalf("unexpected defaults %+v", doc.Defaults)
	}
	if doc.Assets.PollMS != 200 || doc.Assets.ChartsBudgetMS != 10000 || doc.Assets.TableBudgetMS != 12000 {
		t.Fatalf("unexpected asset budgets %+v", doc.Assets)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestDecodePageConfigRejectsUnknownField(t *testing.T) {
	_, err := DecodePageConfig(strings.NewReader("version: \"1\"\nwidgets: []\n"))
	if err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}

func TestDecodePageConfigRejectsEmptyInput(t *testing.T) {
	_, err := DecodePageConfig(strings.NewReader(""))
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestPageConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unsupported version",
			yaml: "version: \"2\"\n",
			want: "unsupported page config version",
		},
		{
			name: "unknown stat key",
			yaml: "stats:\n  - key: churn_rate\n",
			want: "not a headline field",
		},
		{
			name: "duplicate stat key",
			yaml: "stats:\n  - key: total_amount\n  - key: total_amount\n",
			want: "duplicates stat key",
		},
		{
			name: "duplicate quick range",
			yaml: "quick_ranges:\n  - days: 30\n  - days: 30\n",
			want: "duplicates quick range",
		},
		{
			name: "non-positive quick range",
			yaml: "quick_ranges:\n  - days: 0\n",
			want: "positive day count",
		},
		{
			name: "limit out of bounds",
			yaml: "defaults:\n  limit: 9000\n",
			want: "outside 1..5000",
		},
		{
			name: "negative range days",
			yaml: "defaults:\n  range_days: -1\n",
			want: "must be positive",
		},
	}
	for _, tc := range cases {
		_, err := DecodePageConfig(strings.NewReader(tc.yaml))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoaderBudgets(t *testing.T) {
	budgets := AssetBudgets{PollMS: 100, ChartsBudgetMS: 5000, TableBudgetMS: 8000}
	poll, perCapability := budgets.LoaderBudgets()
	if poll != 100*time.Millisecond {
		t.Fatalf("poll = %v", poll)
	}
	if perCapability[CapabilityCharts] != 5*time.Second {
		t.Fatalf("charts budget = %v", perCapability[CapabilityCharts])
	}
	if perCapability[CapabilityTable] != 8*time.Second {
		t.Fatalf("table budget = %v", perCapability[CapabilityTable])
	}
}

func TestThemeSectionBuildTheme(t *testing.T) {
	theme := ThemeSection{
		Name:   "dark",
		Tokens: map[string]string{"--chart-accent": "#123456", "chart-bg": "#000000"},
	}.BuildTheme()

	if theme.Name != "dark" {
		t.Fatalf("Name = %q", theme.Name)
	}
	if theme.Tokens["chart-accent"] != "#123456" {
		t.Fatalf("expected prefix-stripped override, got %v", theme.Tokens)
	}
	if theme.Tokens["chart-bg"] != "#000000" {
		t.Fatalf("expected plain override, got %v", theme.Tokens)
	}
	if theme.Tokens["chart-text"] != "#333333" {
		t.Fatalf("expected untouched default, got %q", theme.Tokens["chart-text"])
	}
}

func TestHeadlineValue(t *testing.T) {
	h := Headline{
		TotalAmount:    "1.20 亿",
		TotalVolume:    "340.00 万",
		UniqueCodes:    "12",
		UniquePlans:    "15",
		AvgDailyAmount: "560.00 万",
		LatestDate:     "2024-01-05",
		SummaryText:    "2024-01-01 至 2024-01-05 · 2 条记录",
	}
	cases := map[string]string{
		StatTotalAmount:    "1.20 亿",
		StatTotalVolume:    "340.00 万",
		StatUniqueCodes:    "12",
		StatUniquePlans:    "15",
		StatAvgDailyAmount: "560.00 万",
		StatLatestDate:     "2024-01-05",
		StatSummaryText:    "2024-01-01 至 2024-01-05 · 2 条记录",
		"bogus":            "",
	}
	for key, want := range cases {
		if got := HeadlineValue(h, key); got != want {
			t.Fatalf("HeadlineValue(%q) = %q, want %q", key, got, want)
		}
	}
}
