package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// WarmupInput selects which capabilities to wait for. The zero value warms
// both.
type WarmupInput struct {
	Charts bool `json:"charts"`
	Table  bool `json:"table"`
}

type capabilityLoader interface {
	AcquireCharts(ctx context.Context) (dashboard.ChartBackend, error)
	AcquireTable(ctx context.Context) (dashboard.TableBackend, error)
}

// WarmupCommand resolves visualization capabilities ahead of the first page
// view, so the first render does not pay the loader wait.
type WarmupCommand struct {
	loader    capabilityLoader
	telemetry Telemetry
}

// NewWarmupCommand creates the command.
func NewWarmupCommand(loader capabilityLoader, telemetry Telemetry) *WarmupCommand {
	return &WarmupCommand{loader: loader, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[WarmupInput] = (*WarmupCommand)(nil)

// Execute waits for the selected capabilities.
func (c *WarmupCommand) Execute(ctx context.Context, msg WarmupInput) error {
	if c.loader == nil {
		return errors.New("warmup command requires a loader")
	}
	charts, table := msg.Charts, msg.Table
	if !charts && !table {
		charts, table = true, true
	}
	if charts {
		if _, err := c.loader.AcquireCharts(ctx); err != nil {
			return err
		}
	}
	if table {
		if _, err := c.loader.AcquireTable(ctx); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.command.warmup", map[string]any{
		"charts": charts,
		"table":  table,
	})
	return nil
}
