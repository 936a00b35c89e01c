package dashboard

import (
	"fmt"
	"strings"
)

// PlanDisplay is the display model for one row's buyback plan. PlanMeta
// fragments keep a fixed order; absent or invalid source fields are simply
// omitted, never rendered as placeholders.
type PlanDisplay struct {
	PlanText       string
	PlanKeyDisplay string
	PlanMeta       []string
	IsLegacyPlan   bool
}

// ResolvePlan derives the plan display model from one disclosure row. Pure
// function: the row is read, never mutated.
//
// Text priority: explicit label, then a non-legacy key uppercased, then the
// fixed 默认计划 phrase for legacy-prefixed keys. Legacy key display strips
// through the first delimiter; non-legacy keys display uppercased as-is.
func ResolvePlan(row DisclosureRow) PlanDisplay {
	key := strings.TrimSpace(row.PlanKey)
	label := strings.TrimSpace(row.PlanLabel)
	legacy := strings.HasPrefix(key, LegacyPlanPrefix)

	display := PlanDisplay{
		IsLegacyPlan:   legacy,
		PlanKeyDisplay: planKeyDisplay(key, legacy),
	}

	switch {
	case label != "":
		display.PlanText = label
	case key != "" && !legacy:
		display.PlanText = strings.ToUpper(key)
	case legacy:
		display.PlanText = phraseDefaultPlan
	}

	display.PlanMeta = planMeta(row)
	return display
}

func planKeyDisplay(key string, legacy bool) string {
	if key == "" {
		return ""
	}
	if legacy {
		if idx := strings.Index(key, ":"); idx >= 0 {
			return key[idx+1:]
		}
		return key
	}
	return strings.ToUpper(key)
}

// planMeta assembles the secondary metadata line. Order is fixed: progress
// text, announce date, plan start date, price band, amount ceiling, volume
// ceiling, latest price, record-window start, record-window end.
func planMeta(row DisclosureRow) []string {
	var meta []string
	if text := strings.TrimSpace(row.PlanProgressText); text != "" {
		meta = append(meta, text)
	}
	if d, ok := ParseDate(row.PlanAnnounceDate); ok {
		meta = append(meta, "公告 "+FormatDate(d))
	}
	if d, ok := ParseDate(row.PlanStartDate); ok {
		meta = append(meta, "启动 "+FormatDate(d))
	}
	if band := priceBand(row.PlanPriceLower, row.PlanPriceUpper); band != "" {
		meta = append(meta, band)
	}
	if row.PlanAmountUpper > 0 {
		meta = append(meta, "金额上限 "+FormatAmount(row.PlanAmountUpper, 2))
	}
	if row.PlanVolumeUpper > 0 {
		meta = append(meta, "数量上限 "+FormatAmount(row.PlanVolumeUpper, 2)+"股")
	}
	if row.PlanLatestPrice > 0 {
		meta = append(meta, "最新价 "+FormatNumber(row.PlanLatestPrice, 2))
	}
	if d, ok := ParseDate(row.StartDate); ok {
		meta = append(meta, "自 "+FormatDate(d))
	}
	if d, ok := ParseDate(row.EndDate); ok {
		meta = append(meta, "至 "+FormatDate(d))
	}
	return meta
}

// priceBand renders the plan's price constraint: equal bounds collapse to a
// single ceiling, a lone bound keeps its direction, and distinct bounds
// render as a range.
func priceBand(lower, upper float64) string {
	hasLower := isFinite(lower) && lower > 0
	hasUpper := isFinite(upper) && upper > 0
	switch {
	case hasLower && hasUpper && lower == upper:
		return fmt.Sprintf("价格 ≤ %s", FormatNumber(upper, 2))
	case hasLower && hasUpper:
		return fmt.Sprintf("价格 %s-%s", FormatNumber(lower, 2), FormatNumber(upper, 2))
	case hasUpper:
		return fmt.Sprintf("价格 ≤ %s", FormatNumber(upper, 2))
	case hasLower:
		return fmt.Sprintf("价格 ≥ %s", FormatNumber(lower, 2))
	default:
		return ""
	}
}
