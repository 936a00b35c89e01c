package feed

import (
	"math"
	"sort"
	"strings"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

const (
	// DefaultLimit caps table rows when the query does not say otherwise.
	DefaultLimit = 500
	// MaxLimit is the hard ceiling on table rows per payload.
	MaxLimit = 5000

	topRankSize = 20
)

// Record is one raw disclosure entry joined with its plan metadata, the
// shape aggregation starts from. Dates are YYYY-MM-DD strings.
type Record struct {
	Code             string
	Name             string
	PlanKey          string
	PlanLabel        string
	PlanProgressText string
	PlanAnnounceDate string
	PlanStartDate    string
	PlanPriceLower   float64
	PlanPriceUpper   float64
	PlanAmountUpper  float64
	PlanVolumeUpper  float64
	PlanLatestPrice  float64
	StartDate        string
	EndDate          string
	Date             string
	Amount           float64
	Volume           float64
	AvgPrice         *float64
	ProgressText     string
}

// NormalizeCode canonicalizes a security code: all-digit codes are
// zero-padded to six places, anything else is uppercased. Blank stays blank.
func NormalizeCode(value string) string {
	code := strings.TrimSpace(value)
	if code == "" {
		return ""
	}
	if isDigits(code) {
		for len(code) < 6 {
			code = "0" + code
		}
		return code
	}
	return strings.ToUpper(code)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Aggregate runs the full feed pipeline over raw records: filter, per-plan
// cumulative sums and progress, range summary, daily trend, single-day top
// ranking, and the sorted table slice.
func Aggregate(records []Record, query dashboard.FeedQuery) dashboard.DashboardPayload {
	rows := selectRows(records, query)
	if len(rows) == 0 {
		return emptyPayload(query)
	}

	accumulate(rows)

	summary := dashboard.Summary{
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
	}
	codes := map[string]struct{}{}
	plans := map[string]struct{}{}
	dates := map[string]float64{}
	for _, row := range rows {
		summary.TotalAmount += row.Amount
		summary.TotalVolume += row.Volume
		codes[row.Code] = struct{}{}
		plans[row.Code+"\x00"+row.PlanKey] = struct{}{}
		dates[row.Date] += row.Amount
		if row.Date > summary.LatestDate {
			summary.LatestDate = row.Date
		}
	}
	summary.UniqueCodes = len(codes)
	summary.UniquePlans = len(plans)
	if len(dates) > 0 {
		summary.AvgDailyAmount = summary.TotalAmount / float64(len(dates))
	}

	return dashboard.DashboardPayload{
		Summary: summary,
		Charts: dashboard.ChartsPayload{
			Trend: buildTrend(dates),
			Top:   buildTop(rows, summary.LatestDate),
		},
		Table: buildTable(rows, query.Limit),
	}
}

func emptyPayload(query dashboard.FeedQuery) dashboard.DashboardPayload {
	return dashboard.DashboardPayload{
		Summary: dashboard.Summary{DateFrom: query.DateFrom, DateTo: query.DateTo},
		Charts: dashboard.ChartsPayload{
			Trend: dashboard.TrendSeries{Dates: []string{}, Amounts: []float64{}},
			Top:   dashboard.TopRanking{Labels: []string{}, Values: []float64{}},
		},
		Table: []dashboard.DisclosureRow{},
	}
}

// selectRows filters and normalizes records into working rows. Rows without
// a usable code or date are dropped; blank plan keys get the legacy prefix.
func selectRows(records []Record, query dashboard.FeedQuery) []dashboard.DisclosureRow {
	needle := strings.ToUpper(strings.TrimSpace(query.Code))
	trimmed := strings.TrimLeft(needle, "0")
	if trimmed == needle {
		trimmed = ""
	}

	rows := make([]dashboard.DisclosureRow, 0, len(records))
	for _, rec := range records {
		code := NormalizeCode(rec.Code)
		if code == "" {
			continue
		}
		if _, ok := dashboard.ParseDate(rec.Date); !ok {
			continue
		}
		if query.DateFrom != "" && rec.Date < query.DateFrom {
			continue
		}
		if query.DateTo != "" && rec.Date > query.DateTo {
			continue
		}
		if needle != "" {
			if !strings.Contains(code, needle) && (trimmed == "" || !strings.Contains(code, trimmed)) {
				continue
			}
		}

		planKey := strings.TrimSpace(rec.PlanKey)
		if planKey == "" {
			planKey = dashboard.LegacyPlanPrefix + code
		}
		label := strings.TrimSpace(rec.PlanLabel)
		if label == "" {
			label = planLabel(planKey)
		}

		var avgPrice *float64
		if rec.AvgPrice != nil && !math.IsNaN(*rec.AvgPrice) {
			v := round2(*rec.AvgPrice)
			avgPrice = &v
		}

		rows = append(rows, dashboard.DisclosureRow{
			Code:             code,
			Name:             strings.TrimSpace(rec.Name),
			PlanKey:          planKey,
			PlanLabel:        label,
			PlanProgressText: rec.PlanProgressText,
			PlanAnnounceDate: rec.PlanAnnounceDate,
			PlanStartDate:    rec.PlanStartDate,
			PlanPriceLower:   rec.PlanPriceLower,
			PlanPriceUpper:   rec.PlanPriceUpper,
			PlanAmountUpper:  rec.PlanAmountUpper,
			PlanVolumeUpper:  rec.PlanVolumeUpper,
			PlanLatestPrice:  rec.PlanLatestPrice,
			StartDate:        rec.StartDate,
			EndDate:          rec.EndDate,
			Date:             rec.Date,
			Amount:           sanitize(rec.Amount),
			Volume:           sanitize(rec.Volume),
			AvgPrice:         avgPrice,
			ProgressText:     rec.ProgressText,
		})
	}
	return rows
}

func planLabel(planKey string) string {
	if strings.HasPrefix(planKey, dashboard.LegacyPlanPrefix) {
		return "默认计划"
	}
	return planKey
}

// accumulate fills cumulative amounts, volumes, and progress percentages per
// (code, plan) group in date order.
func accumulate(rows []dashboard.DisclosureRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Code != rows[j].Code {
			return rows[i].Code < rows[j].Code
		}
		if rows[i].PlanKey != rows[j].PlanKey {
			return rows[i].PlanKey < rows[j].PlanKey
		}
		return rows[i].Date < rows[j].Date
	})

	start := 0
	for i := 1; i <= len(rows); i++ {
		if i < len(rows) && rows[i].Code == rows[start].Code && rows[i].PlanKey == rows[start].PlanKey {
			continue
		}
		var cumAmount, cumVolume, maxCum float64
		for j := start; j < i; j++ {
			cumAmount += rows[j].Amount
			cumVolume += rows[j].Volume
			rows[j].CumulativeAmount = cumAmount
			rows[j].CumulativeVolume = cumVolume
			if cumAmount > maxCum {
				maxCum = cumAmount
			}
		}
		for j := start; j < i; j++ {
			if maxCum > 0 {
				rows[j].ProgressPct = round2(rows[j].CumulativeAmount / maxCum * 100)
			}
		}
		start = i
	}
}

func buildTrend(dates map[string]float64) dashboard.TrendSeries {
	keys := make([]string, 0, len(dates))
	for date := range dates {
		keys = append(keys, date)
	}
	sort.Strings(keys)
	trend := dashboard.TrendSeries{
		Dates:   keys,
		Amounts: make([]float64, len(keys)),
	}
	for i, date := range keys {
		trend.Amounts[i] = dates[date]
	}
	return trend
}

// buildTop ranks per-code amounts on the latest disclosure day.
func buildTop(rows []dashboard.DisclosureRow, latest string) dashboard.TopRanking {
	top := dashboard.TopRanking{Date: latest, Labels: []string{}, Values: []float64{}}
	if latest == "" {
		return top
	}
	totals := map[string]float64{}
	for _, row := range rows {
		if row.Date == latest {
			totals[row.Code] += row.Amount
		}
	}
	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if totals[codes[i]] != totals[codes[j]] {
			return totals[codes[i]] > totals[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if len(codes) > topRankSize {
		codes = codes[:topRankSize]
	}
	for _, code := range codes {
		top.Labels = append(top.Labels, code)
		top.Values = append(top.Values, totals[code])
	}
	return top
}

// buildTable orders rows by date desc, code asc, plan asc, amount desc and
// truncates to the clamped limit.
func buildTable(rows []dashboard.DisclosureRow, limit int) []dashboard.DisclosureRow {
	table := append([]dashboard.DisclosureRow(nil), rows...)
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Date != table[j].Date {
			return table[i].Date > table[j].Date
		}
		if table[i].Code != table[j].Code {
			return table[i].Code < table[j].Code
		}
		if table[i].PlanKey != table[j].PlanKey {
			return table[i].PlanKey < table[j].PlanKey
		}
		return table[i].Amount > table[j].Amount
	})
	if n := clampLimit(limit); len(table) > n {
		table = table[:n]
	}
	return table
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
