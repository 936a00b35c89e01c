package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// QuickRangeInput selects a trailing date window by day count.
type QuickRangeInput struct {
	Days int `json:"days"`
}

type rangeSelector interface {
	QuickRange(ctx context.Context, days int) error
}

// QuickRangeCommand applies a quick-range button press: rewrite both date
// bounds, mark the control active, refresh.
type QuickRangeCommand struct {
	orchestrator rangeSelector
	telemetry    Telemetry
}

// NewQuickRangeCommand creates the command.
func NewQuickRangeCommand(orchestrator rangeSelector, telemetry Telemetry) *QuickRangeCommand {
	return &QuickRangeCommand{orchestrator: orchestrator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[QuickRangeInput] = (*QuickRangeCommand)(nil)

// Execute applies the range and refreshes.
func (c *QuickRangeCommand) Execute(ctx context.Context, msg QuickRangeInput) error {
	if c.orchestrator == nil {
		return errors.New("quick range command requires an orchestrator")
	}
	if err := c.orchestrator.QuickRange(ctx, msg.Days); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.quick_range", map[string]any{
		"days": msg.Days,
	})
	return nil
}
