package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RedrawInput selects which surfaces to re-render. The zero value redraws
// both.
type RedrawInput struct {
	Charts bool `json:"charts"`
	Table  bool `json:"table"`
}

type themeRefresher interface {
	RefreshCharts(ctx context.Context) error
	RedrawTable() error
}

// RedrawCommand re-renders surfaces from cached state. Page-level theme
// switchers invoke it so new colors apply without a fresh fetch.
type RedrawCommand struct {
	orchestrator themeRefresher
	telemetry    Telemetry
}

// NewRedrawCommand creates the command.
func NewRedrawCommand(orchestrator themeRefresher, telemetry Telemetry) *RedrawCommand {
	return &RedrawCommand{orchestrator: orchestrator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RedrawInput] = (*RedrawCommand)(nil)

// Execute re-renders the selected surfaces.
func (c *RedrawCommand) Execute(ctx context.Context, msg RedrawInput) error {
	if c.orchestrator == nil {
		return errors.New("redraw command requires an orchestrator")
	}
	charts, table := msg.Charts, msg.Table
	if !charts && !table {
		charts, table = true, true
	}
	if charts {
		if err := c.orchestrator.RefreshCharts(ctx); err != nil {
			return err
		}
	}
	if table {
		if err := c.orchestrator.RedrawTable(); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.command.redraw", map[string]any{
		"charts": charts,
		"table":  table,
	})
	return nil
}
