package dashboard

import (
	"context"
	"testing"
)

func TestBootstrapAssemblesEngine(t *testing.T) {
	repo := &stubRepo{payload: fullPayload()}
	engine, err := Bootstrap(BootstrapOptions{
		Repository: repo,
		Bounds:     DateBounds{Min: "2023-01-03", Max: "2024-01-05"},
	})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}

	if engine.Config == nil || engine.Registry == nil || engine.Loader == nil {
		t.Fatalf("engine is missing assembled pieces: %+v", engine)
	}
	if engine.Charts == nil || engine.Table == nil || engine.Orchestrator == nil {
		t.Fatalf("engine is missing controllers: %+v", engine)
	}
	if engine.Theme.Name != "light" {
		t.Fatalf("expected the default theme, got %q", engine.Theme.Name)
	}

	if _, ok := engine.Registry.ActiveChartBackend(); !ok {
		t.Fatalf("expected the echarts backend to be active")
	}
	if _, ok := engine.Registry.ActiveTableBackend(); !ok {
		t.Fatalf("expected the htmltable backend to be active")
	}

	// The assembled engine must run a full cycle end to end.
	if err := engine.Orchestrator.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh through the bootstrapped engine failed: %v", err)
	}
	if len(repo.queries) != 1 {
		t.Fatalf("expected one fetch, got %d", len(repo.queries))
	}
	if got := repo.queries[0].DateFrom; got != "2023-12-06" {
		t.Fatalf("expected default date_from from bounds, got %q", got)
	}
}

func TestBootstrapRequiresRepository(t *testing.T) {
	if _, err := Bootstrap(BootstrapOptions{}); err == nil {
		t.Fatalf("expected missing repository to fail bootstrap")
	}
}

func TestBootstrapRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultPageConfig()
	cfg.Defaults.Limit = 99999

	if _, err := Bootstrap(BootstrapOptions{Config: cfg, Repository: &stubRepo{}}); err == nil {
		t.Fatalf("expected schema validation to reject the config")
	}
}

func TestBootstrapRejectsUnknownBackend(t *testing.T) {
	_, err := Bootstrap(BootstrapOptions{
		Repository:   &stubRepo{},
		ChartBackend: "missing",
	})
	if err == nil {
		t.Fatalf("expected an unregistered chart backend to fail bootstrap")
	}
}

func TestDefaultFromBounds(t *testing.T) {
	cases := []struct {
		name   string
		bounds DateBounds
		days   int
		want   string
	}{
		{"steps back from max", DateBounds{Min: "2023-01-03", Max: "2024-03-01"}, 30, "2024-01-31"},
		{"clamps to min", DateBounds{Min: "2024-02-15", Max: "2024-03-01"}, 30, "2024-02-15"},
		{"no declared bounds", DateBounds{}, 30, ""},
		{"no range configured", DateBounds{Min: "2023-01-03", Max: "2024-03-01"}, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := defaultFromBounds(tc.bounds, tc.days); got != tc.want {
				t.Fatalf("defaultFromBounds(%+v, %d) = %q, want %q", tc.bounds, tc.days, got, tc.want)
			}
		})
	}
}
