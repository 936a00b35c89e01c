package dashboard

import (
	"context"
	"fmt"
)

// Default container element ids for the two chart surfaces.
const (
	DefaultTrendElementID = "chart-trend"
	DefaultTopElementID   = "chart-top"
)

// ChartControllerOptions configures a ChartController.
type ChartControllerOptions struct {
	Loader         *AssetLoader
	Tokens         TokenSource
	TrendElementID string
	TopElementID   string
	Telemetry      Telemetry
}

// ChartController renders the trend and ranking charts. Surfaces are created
// once against the engine acquired from the loader and then reused; option
// payloads are rebuilt from scratch on every render so no stale series or
// title survives a data change. Theme tokens are re-read from the source on
// each render, which is what lets a live theme switch take effect on the next
// RefreshCharts without recreating anything.
//
// The controller is not safe for concurrent use; the orchestrator serializes
// render cycles.
type ChartController struct {
	loader    *AssetLoader
	tokens    TokenSource
	trendID   string
	topID     string
	telemetry Telemetry

	trend ChartSurface
	top   ChartSurface
}

// NewChartController builds a controller over the given loader and token
// source. Element ids default when unset.
func NewChartController(opts ChartControllerOptions) (*ChartController, error) {
	if opts.Loader == nil {
		return nil, errMissingLoader
	}
	c := &ChartController{
		loader:    opts.Loader,
		tokens:    opts.Tokens,
		trendID:   opts.TrendElementID,
		topID:     opts.TopElementID,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
	if c.tokens == nil {
		c.tokens = DefaultTheme().Source()
	}
	if c.trendID == "" {
		c.trendID = DefaultTrendElementID
	}
	if c.topID == "" {
		c.topID = DefaultTopElementID
	}
	return c, nil
}

// Render draws both charts from the payload. The first call waits on the
// loader for the chart engine and creates both surfaces; later calls reuse
// them and only push fresh options.
func (c *ChartController) Render(ctx context.Context, charts ChartsPayload) error {
	if err := c.ensureSurfaces(ctx); err != nil {
		return err
	}

	palette := PaletteFromTokens(c.tokens.Tokens())

	if err := c.trend.UpdateOptions(BuildTrendOption(charts.Trend, palette)); err != nil {
		return fmt.Errorf("dashboard: render trend chart: %w", err)
	}
	if err := c.top.UpdateOptions(BuildTopOption(charts.Top, palette)); err != nil {
		return fmt.Errorf("dashboard: render top chart: %w", err)
	}

	c.telemetry.Record(ctx, "dashboard.charts.rendered", map[string]any{
		"trend_points": len(charts.Trend.Dates),
		"top_entries":  len(charts.Top.Labels),
	})
	return nil
}

// Resize redraws existing surfaces at their current size. Charts that were
// never rendered are left alone.
func (c *ChartController) Resize() error {
	if c.trend != nil {
		if err := c.trend.Redraw(); err != nil {
			return fmt.Errorf("dashboard: resize trend chart: %w", err)
		}
	}
	if c.top != nil {
		if err := c.top.Redraw(); err != nil {
			return fmt.Errorf("dashboard: resize top chart: %w", err)
		}
	}
	return nil
}

// TrendHTML returns the last rendered trend chart markup, or empty before the
// first render.
func (c *ChartController) TrendHTML() string {
	if c.trend == nil {
		return ""
	}
	return c.trend.HTML()
}

// TopHTML returns the last rendered ranking chart markup, or empty before the
// first render.
func (c *ChartController) TopHTML() string {
	if c.top == nil {
		return ""
	}
	return c.top.HTML()
}

func (c *ChartController) ensureSurfaces(ctx context.Context) error {
	if c.trend != nil && c.top != nil {
		return nil
	}

	backend, err := c.loader.AcquireCharts(ctx)
	if err != nil {
		return err
	}

	if c.trend == nil {
		surface, err := backend.CreateChart(c.trendID)
		if err != nil {
			return fmt.Errorf("dashboard: create trend surface: %w", err)
		}
		c.trend = surface
	}
	if c.top == nil {
		surface, err := backend.CreateChart(c.topID)
		if err != nil {
			return fmt.Errorf("dashboard: create top surface: %w", err)
		}
		c.top = surface
	}
	return nil
}
