package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder rendered whenever a numeric or date value cannot be displayed.
const Placeholder = "--"

// FormatAmount scales a CNY amount into 亿/万 units at the requested
// precision. Values below 1e4 keep their raw magnitude. Non-finite input
// degrades to the placeholder.
func FormatAmount(v float64, decimals int) string {
	if !isFinite(v) {
		return Placeholder
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e8:
		return strconv.FormatFloat(v/1e8, 'f', decimals, 64) + " " + unitYi
	case abs >= 1e4:
		return strconv.FormatFloat(v/1e4, 'f', decimals, 64) + " " + unitWan
	default:
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
}

// FormatNumber renders a fixed-precision decimal, placeholder on non-finite input.
func FormatNumber(v float64, decimals int) string {
	if !isFinite(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatPercent renders a one-decimal percentage, placeholder on non-finite input.
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatAxisAmount is the compact variant used on chart axes: at most one
// decimal, no space before the unit, whole values shown without a fraction.
func FormatAxisAmount(v float64) string {
	if !isFinite(v) {
		return Placeholder
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e8:
		return compactDecimal(v/1e8) + unitYi
	case abs >= 1e4:
		return compactDecimal(v/1e4) + unitWan
	default:
		return compactDecimal(v)
	}
}

func compactDecimal(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ClampPercent bounds a percentage to [0,100]; non-finite input collapses to 0.
func ClampPercent(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Date is a parsed calendar date. Month is stored zero-based (0 = January)
// to match the engine's internal convention; Day is bounded to [1,31]
// without checking the actual month length, so 2024-02-30 parses.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses a strict Y-M-D string. The month component is validated
// against [1,12] on input and stored zero-based. Malformed or out-of-range
// input reports ok=false.
func ParseDate(s string) (Date, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return Date{}, false
	}
	year, ok := parseDateComponent(parts[0], 4)
	if !ok {
		return Date{}, false
	}
	month, ok := parseDateComponent(parts[1], 2)
	if !ok || month < 1 || month > 12 {
		return Date{}, false
	}
	day, ok := parseDateComponent(parts[2], 2)
	if !ok || day < 1 || day > 31 {
		return Date{}, false
	}
	return Date{Year: year, Month: month - 1, Day: day}, true
}

func parseDateComponent(s string, maxDigits int) (int, bool) {
	if s == "" || len(s) > maxDigits {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatDate serializes a Date as zero-padded Y-M-D.
func FormatDate(d Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}

// Time converts the date to a UTC time.Time for calendar arithmetic. Lax
// days (e.g. February 30) normalize per time.Date rules.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()) - 1, Day: t.Day()}
}
