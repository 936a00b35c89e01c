package dashboard

import "strings"

// PercentOf sizes a proportional fill bar: value as a share of max, clamped
// to at most 100. Non-finite or non-positive operands collapse to 0, which
// uniformly guards degenerate batches (max = 0) and invalid inputs.
func PercentOf(value, max float64) float64 {
	if !isFinite(value) || !isFinite(max) || value <= 0 || max <= 0 {
		return 0
	}
	pct := value / max * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// BatchMetrics holds per-batch maxima used to scale proportional bars.
// Recomputed from the exact row set being rendered; never carried across
// fetches.
type BatchMetrics struct {
	AmountMax    float64
	CumAmountMax float64
	VolumeMax    float64
	CumVolumeMax float64
	LatestDate   string
}

// ComputeBatchMetrics derives scaling maxima and the latest disclosure date
// from the current row batch.
func ComputeBatchMetrics(rows []DisclosureRow) BatchMetrics {
	var m BatchMetrics
	for _, row := range rows {
		m.AmountMax = maxFinite(m.AmountMax, row.Amount)
		m.CumAmountMax = maxFinite(m.CumAmountMax, row.CumulativeAmount)
		m.VolumeMax = maxFinite(m.VolumeMax, row.Volume)
		m.CumVolumeMax = maxFinite(m.CumVolumeMax, row.CumulativeVolume)
		if row.Date > m.LatestDate {
			m.LatestDate = row.Date
		}
	}
	return m
}

func maxFinite(current, candidate float64) float64 {
	if !isFinite(candidate) {
		return current
	}
	if candidate > current {
		return candidate
	}
	return current
}

// CellKind discriminates table cell view models.
type CellKind string

const (
	CellText     CellKind = "text"
	CellBadge    CellKind = "badge"
	CellPlan     CellKind = "plan"
	CellDate     CellKind = "date"
	CellMetric   CellKind = "metric"
	CellPrice    CellKind = "price"
	CellProgress CellKind = "progress"
)

// Cell is a structured table cell. Free-text fields hold raw values; the
// table backend applies EscapeText when materializing markup, so cells never
// carry pre-escaped or concatenated HTML.
type Cell struct {
	Kind        CellKind `json:"kind"`
	Text        string   `json:"text,omitempty"`
	Secondary   string   `json:"secondary,omitempty"`
	Badges      []string `json:"badges,omitempty"`
	Meta        []string `json:"meta,omitempty"`
	FillPercent float64  `json:"fill_percent,omitempty"`
	Note        string   `json:"note,omitempty"`
	Marked      bool     `json:"marked,omitempty"`
}

// NewMetricCell builds a magnitude cell: scaled value, a fill bar sized by
// PercentOf, and a secondary label joining the percentage (when positive)
// with the caller's suffix. Both absent, the secondary degrades to the
// placeholder.
func NewMetricCell(value, max float64, decimals int, suffix string) Cell {
	pct := PercentOf(value, max)
	var parts []string
	if pct > 0 {
		parts = append(parts, FormatPercent(pct))
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	secondary := strings.Join(parts, " · ")
	if secondary == "" {
		secondary = Placeholder
	}
	return Cell{
		Kind:        CellMetric,
		Text:        FormatAmount(value, decimals),
		Secondary:   secondary,
		FillPercent: pct,
	}
}

// NewPriceCell renders an average price with the fixed 元/股 unit and no bar.
func NewPriceCell(price *float64) Cell {
	cell := Cell{Kind: CellPrice, Text: Placeholder}
	if price != nil && isFinite(*price) {
		cell.Text = FormatNumber(*price, 2) + " " + unitPricePerShare
	}
	return cell
}

// NewProgressCell renders a clamped-percent fill bar with an optional
// trailing description.
func NewProgressCell(pct float64, note string) Cell {
	clamped := ClampPercent(pct)
	return Cell{
		Kind:        CellProgress,
		Text:        FormatPercent(clamped),
		FillPercent: clamped,
		Note:        strings.TrimSpace(note),
	}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText neutralizes arbitrary disclosure text before it is placed into
// markup. Exactly five entities are escaped: ampersand, angle brackets, and
// both quote characters.
func EscapeText(s string) string {
	return htmlEscaper.Replace(s)
}
