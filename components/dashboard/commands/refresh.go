package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// RefreshDashboardInput optionally replaces the filter controls before the
// cycle runs.
type RefreshDashboardInput struct {
	Filters *dashboard.Filters
}

type refresher interface {
	SetFilters(f dashboard.Filters)
	Refresh(ctx context.Context) error
}

// RefreshDashboardCommand runs one fetch-and-render cycle.
type RefreshDashboardCommand struct {
	orchestrator refresher
	telemetry    Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(orchestrator refresher, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{orchestrator: orchestrator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute replaces filters when given and refreshes the dashboard.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, msg RefreshDashboardInput) error {
	if c.orchestrator == nil {
		return errors.New("refresh command requires an orchestrator")
	}
	if msg.Filters != nil {
		c.orchestrator.SetFilters(*msg.Filters)
	}
	if err := c.orchestrator.Refresh(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"has_filters": msg.Filters != nil,
	})
	return nil
}
