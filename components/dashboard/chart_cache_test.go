package dashboard

import (
	"errors"
	"testing"
	"time"
)

func TestChartCacheServesSecondRenderFromCache(t *testing.T) {
	cache := NewChartCache(time.Minute)

	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	for i := 0; i < 3; i++ {
		html, err := cache.GetOrRender("trend:abc", render)
		if err != nil {
			t.Fatalf("GetOrRender returned error: %v", err)
		}
		if html != "<div>chart</div>" {
			t.Fatalf("unexpected markup %q", html)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one render, got %d", calls)
	}
}

func TestChartCacheExpiresEntries(t *testing.T) {
	cache := NewChartCache(10 * time.Millisecond)

	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	if _, err := cache.GetOrRender("k", render); err != nil {
		t.Fatalf("GetOrRender returned error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cache.GetOrRender("k", render); err != nil {
		t.Fatalf("GetOrRender returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected the expired entry to re-render, got %d calls", calls)
	}
}

func TestChartCacheDisabledByNonPositiveTTL(t *testing.T) {
	cache := NewChartCache(0)

	calls := 0
	render := func() (string, error) {
		calls++
		return "uncached", nil
	}
	for i := 0; i < 2; i++ {
		if _, err := cache.GetOrRender("k", render); err != nil {
			t.Fatalf("GetOrRender returned error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected every call to render with caching disabled, got %d", calls)
	}
}

func TestChartCacheDoesNotStoreFailures(t *testing.T) {
	cache := NewChartCache(time.Minute)

	calls := 0
	boom := errors.New("render failed")
	if _, err := cache.GetOrRender("k", func() (string, error) {
		calls++
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}

	html, err := cache.GetOrRender("k", func() (string, error) {
		calls++
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("GetOrRender returned error: %v", err)
	}
	if html != "recovered" || calls != 2 {
		t.Fatalf("expected the failure to stay uncached, got %q after %d calls", html, calls)
	}
}

func TestOptionHashDistinguishesPayloadAndPalette(t *testing.T) {
	palette := DefaultTheme()
	base := BuildTrendOption(TrendSeries{Dates: []string{"2024-01-02"}, Amounts: []float64{1.5e8}}, PaletteFromTokens(palette.Tokens))

	same := BuildTrendOption(TrendSeries{Dates: []string{"2024-01-02"}, Amounts: []float64{1.5e8}}, PaletteFromTokens(palette.Tokens))
	if OptionHash("chart-trend", base) != OptionHash("chart-trend", same) {
		t.Fatalf("equal options must hash equal")
	}

	otherData := BuildTrendOption(TrendSeries{Dates: []string{"2024-01-03"}, Amounts: []float64{2e8}}, PaletteFromTokens(palette.Tokens))
	if OptionHash("chart-trend", base) == OptionHash("chart-trend", otherData) {
		t.Fatalf("different payloads must hash differently")
	}

	dark := PaletteFromTokens(map[string]string{"chart-accent": "#2563eb"})
	otherTheme := BuildTrendOption(TrendSeries{Dates: []string{"2024-01-02"}, Amounts: []float64{1.5e8}}, dark)
	if OptionHash("chart-trend", base) == OptionHash("chart-trend", otherTheme) {
		t.Fatalf("a theme switch must miss the cache")
	}

	if OptionHash("chart-trend", base) == OptionHash("chart-top", base) {
		t.Fatalf("container id must participate in the key")
	}
}
