package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// PageControllerOptions configures the host page controller.
type PageControllerOptions struct {
	Engine    *Engine
	Renderer  Renderer
	Bounds    DateBoundsRepository
	Version   string
	Telemetry Telemetry
}

// PageController renders the host page: filter form, headline stats, chart
// slots, and the disclosure table, all bound to the element ids from the
// page config. Date inputs are bounded by the feed's declared range when a
// bounds repository is configured.
type PageController struct {
	engine    *Engine
	renderer  Renderer
	bounds    DateBoundsRepository
	version   string
	telemetry Telemetry
}

// NewPageController builds a page controller. The renderer defaults to the
// embedded templates.
func NewPageController(opts PageControllerOptions) (*PageController, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("dashboard: page controller requires an engine")
	}
	renderer := opts.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
	}
	c := &PageController{
		engine:    opts.Engine,
		renderer:  renderer,
		bounds:    opts.Bounds,
		version:   opts.Version,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
	if c.version == "" {
		c.version = "dev"
	}
	return c, nil
}

// ApplyQuery maps request parameters onto the orchestrator: filter inputs
// replace the current controls, and a days parameter runs a quick-range
// selection on top of them. No parameters means no cycle is started.
func (c *PageController) ApplyQuery(ctx context.Context, q url.Values) error {
	hasFilters := q.Has("date_from") || q.Has("date_to") || q.Has("code") || q.Has("limit")
	if hasFilters {
		f := c.engine.Orchestrator.Filters()
		if q.Has("date_from") {
			f.DateFrom = q.Get("date_from")
		}
		if q.Has("date_to") {
			f.DateTo = q.Get("date_to")
		}
		if q.Has("code") {
			f.Code = q.Get("code")
		}
		if limit := q.Get("limit"); limit != "" {
			if n, err := strconv.Atoi(limit); err == nil {
				f.Limit = n
			}
		}
		c.engine.Orchestrator.SetFilters(f)
	}

	if days := q.Get("days"); days != "" {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return c.engine.Orchestrator.QuickRange(ctx, n)
		}
	}
	if hasFilters {
		return c.engine.Orchestrator.Refresh(ctx)
	}
	return nil
}

// RenderIndex renders the full host page. A fresh engine is refreshed first
// so the page arrives populated; fetch failures still render, with the
// failure message in the summary area and table placeholder.
func (c *PageController) RenderIndex(ctx context.Context, w io.Writer) error {
	snap := c.engine.Orchestrator.Snapshot()
	if snap.FetchedAt.IsZero() {
		_ = c.engine.Orchestrator.Refresh(ctx)
		snap = c.engine.Orchestrator.Snapshot()
	}

	bounds := DateBounds{}
	if c.bounds != nil {
		if b, err := c.bounds.FetchDateBounds(ctx); err == nil {
			bounds = b
		} else {
			c.telemetry.Record(ctx, "dashboard.bounds.error", map[string]any{"error": err.Error()})
		}
	}

	cfg := c.engine.Config
	filters := c.engine.Orchestrator.Filters()

	stats := make([]map[string]any, 0, len(cfg.Stats))
	for _, stat := range cfg.Stats {
		stats = append(stats, map[string]any{
			"label":   stat.Label,
			"element": stat.Element,
			"value":   HeadlineValue(snap.Headline, stat.Key),
		})
	}
	quickRanges := make([]map[string]any, 0, len(cfg.QuickRanges))
	for _, qr := range cfg.QuickRanges {
		quickRanges = append(quickRanges, map[string]any{"label": qr.Label, "days": qr.Days})
	}

	fetchedAt := ""
	if !snap.FetchedAt.IsZero() {
		fetchedAt = snap.FetchedAt.Format("2006-01-02 15:04:05")
	}

	data := map[string]any{
		"page": map[string]any{
			"title": cfg.Page.Title,
			"lang":  cfg.Page.Lang,
		},
		"theme_css": c.engine.Theme.CSSVariablesInline(),
		"elements": map[string]any{
			"summary":   cfg.Elements.Summary,
			"date_from": cfg.Elements.DateFrom,
			"date_to":   cfg.Elements.DateTo,
			"code":      cfg.Elements.Code,
			"load":      cfg.Elements.Load,
			"reset":     cfg.Elements.Reset,
		},
		"filters": map[string]any{
			"date_from":    filters.DateFrom,
			"date_to":      filters.DateTo,
			"code":         filters.Code,
			"active_range": filters.ActiveRange,
		},
		"bounds":        map[string]any{"min": bounds.Min, "max": bounds.Max},
		"stats":         stats,
		"quick_ranges":  quickRanges,
		"summary_text":  snap.Headline.SummaryText,
		"trend_html":    c.engine.Charts.TrendHTML(),
		"top_html":      c.engine.Charts.TopHTML(),
		"table_html":    c.engine.Table.HTML(),
		"fetched_at":    fetchedAt,
		"asset_version": c.version,
	}

	html, err := c.renderer.Render("index", data)
	if err != nil {
		return fmt.Errorf("dashboard: render index page: %w", err)
	}
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("dashboard: write index page: %w", err)
	}
	return nil
}
