package dashboard

import (
	"math"
	"testing"
	"time"
)

func TestFormatAmountScalesUnits(t *testing.T) {
	cases := []struct {
		value    float64
		decimals int
		want     string
	}{
		{1.2e8, 2, "1.20 亿"},
		{-2.3e8, 2, "-2.30 亿"},
		{5.6e4, 2, "5.60 万"},
		{999, 2, "999.00"},
		{1.23e8, 1, "1.2 亿"},
		{0, 2, "0.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.value, tc.decimals); got != tc.want {
			t.Fatalf("FormatAmount(%v, %d) = %q, want %q", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestFormatAmountNonFinite(t *testing.T) {
	if got := FormatAmount(math.NaN(), 2); got != Placeholder {
		t.Fatalf("expected placeholder for NaN, got %q", got)
	}
	if got := FormatAmount(math.Inf(1), 2); got != Placeholder {
		t.Fatalf("expected placeholder for Inf, got %q", got)
	}
}

func TestFormatAxisAmountCompact(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{2e8, "2亿"},
		{1.2e8, "1.2亿"},
		{5e4, "5万"},
		{5.6e4, "5.6万"},
		{999, "999"},
		{999.5, "999.5"},
	}
	for _, tc := range cases {
		if got := FormatAxisAmount(tc.value); got != tc.want {
			t.Fatalf("FormatAxisAmount(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
	if got := FormatAxisAmount(math.NaN()); got != Placeholder {
		t.Fatalf("expected placeholder for NaN, got %q", got)
	}
}

func TestFormatNumberAndPercent(t *testing.T) {
	if got := FormatNumber(3.14159, 2); got != "3.14" {
		t.Fatalf("FormatNumber = %q", got)
	}
	if got := FormatNumber(math.Inf(-1), 2); got != Placeholder {
		t.Fatalf("expected placeholder for -Inf, got %q", got)
	}
	if got := FormatPercent(50); got != "50.0%" {
		t.Fatalf("FormatPercent = %q", got)
	}
	if got := FormatPercent(math.NaN()); got != Placeholder {
		t.Fatalf("expected placeholder for NaN, got %q", got)
	}
}

func TestClampPercent(t *testing.T) {
	if got := ClampPercent(-5); got != 0 {
		t.Fatalf("expected negative input clamped to 0, got %v", got)
	}
	if got := ClampPercent(120); got != 100 {
		t.Fatalf("expected overshoot clamped to 100, got %v", got)
	}
	if got := ClampPercent(55); got != 55 {
		t.Fatalf("expected in-range value kept, got %v", got)
	}
	if got := ClampPercent(math.NaN()); got != 0 {
		t.Fatalf("expected NaN collapsed to 0, got %v", got)
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-01-05")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if d.Year != 2024 || d.Month != 0 || d.Day != 5 {
		t.Fatalf("unexpected date %+v", d)
	}
	if got := FormatDate(d); got != "2024-01-05" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestParseDateAcceptsSingleDigitComponents(t *testing.T) {
	d, ok := ParseDate("2024-1-5")
	if !ok {
		t.Fatalf("expected single-digit components to parse")
	}
	if got := FormatDate(d); got != "2024-01-05" {
		t.Fatalf("expected zero-padded output, got %q", got)
	}
}

func TestParseDateLaxDayOfMonth(t *testing.T) {
	d, ok := ParseDate("2024-02-30")
	if !ok {
		t.Fatalf("expected lax day to parse")
	}
	normalized := d.Time()
	if normalized.Month() != time.March || normalized.Day() != 1 {
		t.Fatalf("expected overflow to normalize to March 1, got %v", normalized)
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"2024-13-01",
		"2024-00-10",
		"2024-01-32",
		"24-01-05",
		"2024-001-05",
		"2024-01-05x",
		"2024/01/05",
	} {
		if _, ok := ParseDate(input); ok {
			t.Fatalf("expected %q to fail", input)
		}
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC))
	if d.Year != 2024 || d.Month != 2 || d.Day != 15 {
		t.Fatalf("unexpected date %+v", d)
	}
}
