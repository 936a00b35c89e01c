package dashboard

import (
	"context"
	"fmt"
	"sort"
)

// DefaultTableElementID is the container id the disclosure table binds to
// when the page config does not override it.
const DefaultTableElementID = "disclosure-table"

// TableColumn describes one column of the disclosure table.
type TableColumn struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// TableColumns returns the fixed column schema in display order.
func TableColumns() []TableColumn {
	return []TableColumn{
		{Key: "code", Title: columnTitleCode},
		{Key: "name", Title: columnTitleName},
		{Key: "plan", Title: columnTitlePlan},
		{Key: "date", Title: columnTitleDate},
		{Key: "amount", Title: columnTitleAmount},
		{Key: "cumulative_amount", Title: columnTitleCumAmount},
		{Key: "volume", Title: columnTitleVolume},
		{Key: "cumulative_volume", Title: columnTitleCumVolume},
		{Key: "avg_price", Title: columnTitleAvgPrice},
		{Key: "progress", Title: columnTitleProgress},
	}
}

// TableRow is one rendered row: a cell per column plus the latest-disclosure
// highlight flag, which backends must reapply on every redraw.
type TableRow struct {
	Cells     []Cell `json:"cells"`
	Highlight bool   `json:"highlight"`
}

// TableOption is the complete table configuration pushed to a surface.
type TableOption struct {
	Columns     []TableColumn `json:"columns"`
	Placeholder string        `json:"placeholder"`
}

// TableControllerOptions configures a TableController.
type TableControllerOptions struct {
	Loader    *AssetLoader
	ElementID string
	Telemetry Telemetry
}

// TableController owns the single disclosure table. The surface is created
// lazily on the first render once the table engine resolves; placeholder text
// set before that point is retained and replayed when construction completes.
//
// Not safe for concurrent use; the orchestrator serializes render cycles.
type TableController struct {
	loader    *AssetLoader
	elementID string
	telemetry Telemetry

	surface     TableSurface
	placeholder string
}

// NewTableController builds a controller over the given loader.
func NewTableController(opts TableControllerOptions) (*TableController, error) {
	if opts.Loader == nil {
		return nil, errMissingLoader
	}
	c := &TableController{
		loader:    opts.Loader,
		elementID: opts.ElementID,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
	if c.elementID == "" {
		c.elementID = DefaultTableElementID
	}
	return c, nil
}

// SetPlaceholder updates the text shown when the table has no rows. Works
// before the surface exists; the stored value is applied at construction.
func (c *TableController) SetPlaceholder(text string) error {
	c.placeholder = text
	if c.surface == nil {
		return nil
	}
	return c.surface.UpdateOptions(&TableOption{Columns: TableColumns(), Placeholder: text})
}

// Render materializes one row batch. A render requested before the table
// engine is ready shows the loading placeholder, waits on the loader, and
// then replays exactly once; loader errors are returned to the caller rather
// than retried here.
func (c *TableController) Render(ctx context.Context, rows []DisclosureRow, summary Summary) error {
	if err := c.ensureSurface(ctx); err != nil {
		return err
	}

	if len(rows) == 0 {
		if err := c.SetPlaceholder(phraseNoMatchingData); err != nil {
			return err
		}
		if err := c.surface.SetData(nil); err != nil {
			return fmt.Errorf("dashboard: clear table: %w", err)
		}
		c.telemetry.Record(ctx, "dashboard.table.rendered", map[string]any{"rows": 0})
		return nil
	}

	batch := append([]DisclosureRow(nil), rows...)
	metrics := ComputeBatchMetrics(batch)
	sortRows(batch)

	latest := summary.LatestDate
	if latest == "" {
		latest = metrics.LatestDate
	}

	tableRows := make([]TableRow, 0, len(batch))
	for _, row := range batch {
		tableRows = append(tableRows, buildTableRow(row, metrics, latest))
	}
	if err := c.surface.SetData(tableRows); err != nil {
		return fmt.Errorf("dashboard: set table data: %w", err)
	}

	c.telemetry.Record(ctx, "dashboard.table.rendered", map[string]any{"rows": len(tableRows)})
	return nil
}

// Redraw re-renders the current rows, for example after a theme switch or a
// container resize. Highlighting is carried by the rows themselves, so the
// surface reapplies it with every redraw.
func (c *TableController) Redraw() error {
	if c.surface == nil {
		return nil
	}
	return c.surface.Redraw()
}

// HTML returns the current table markup, or empty before the first render.
func (c *TableController) HTML() string {
	if c.surface == nil {
		return ""
	}
	return c.surface.HTML()
}

func (c *TableController) ensureSurface(ctx context.Context) error {
	if c.surface != nil {
		return nil
	}

	if c.placeholder == "" {
		c.placeholder = phraseLoading
	}
	backend, err := c.loader.AcquireTable(ctx)
	if err != nil {
		return err
	}

	surface, err := backend.CreateTable(c.elementID, &TableOption{
		Columns:     TableColumns(),
		Placeholder: c.placeholder,
	})
	if err != nil {
		return fmt.Errorf("dashboard: create table surface: %w", err)
	}
	c.surface = surface
	return nil
}

// sortRows orders a batch date descending, ties broken by daily amount
// descending. Dates are zero-padded ISO strings, so byte order is date order.
func sortRows(rows []DisclosureRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].Amount > rows[j].Amount
	})
}

func buildTableRow(row DisclosureRow, metrics BatchMetrics, latest string) TableRow {
	plan := ResolvePlan(row)
	isLatest := row.Date != "" && row.Date == latest

	dateCell := Cell{Kind: CellDate, Text: row.Date, Marked: isLatest}
	if d, ok := ParseDate(row.Date); ok {
		dateCell.Text = FormatDate(d)
	}

	cells := []Cell{
		{Kind: CellBadge, Text: row.Code},
		{Kind: CellText, Text: row.Name},
		{Kind: CellPlan, Badges: planBadges(plan), Meta: plan.PlanMeta},
		dateCell,
		NewMetricCell(row.Amount, metrics.AmountMax, 2, ""),
		NewMetricCell(row.CumulativeAmount, metrics.CumAmountMax, 2, ""),
		NewMetricCell(row.Volume, metrics.VolumeMax, 2, ""),
		NewMetricCell(row.CumulativeVolume, metrics.CumVolumeMax, 2, ""),
		NewPriceCell(row.AvgPrice),
		NewProgressCell(row.ProgressPct, row.ProgressText),
	}
	return TableRow{Cells: cells, Highlight: isLatest}
}

// planBadges renders the plan text badge plus a distinct key badge whenever
// the key display differs from the main text.
func planBadges(plan PlanDisplay) []string {
	text := plan.PlanText
	if text == "" {
		text = Placeholder
	}
	badges := []string{text}
	if plan.PlanKeyDisplay != "" && plan.PlanKeyDisplay != text {
		badges = append(badges, plan.PlanKeyDisplay)
	}
	return badges
}
