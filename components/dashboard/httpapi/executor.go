package httpapi

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/Ian-Rin/eco/components/dashboard/commands"
)

// Executor is the command surface router adapters call. It hides the
// generic commander types behind plain methods.
type Executor interface {
	Refresh(ctx context.Context, input commands.RefreshDashboardInput) error
	QuickRange(ctx context.Context, input commands.QuickRangeInput) error
	Redraw(ctx context.Context, input commands.RedrawInput) error
}

// CommandExecutor adapts shared commanders to the Executor interface.
type CommandExecutor struct {
	RefreshCommander    gocommand.Commander[commands.RefreshDashboardInput]
	QuickRangeCommander gocommand.Commander[commands.QuickRangeInput]
	RedrawCommander     gocommand.Commander[commands.RedrawInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDashboardInput) error {
	return e.RefreshCommander.Execute(ctx, input)
}

func (e *CommandExecutor) QuickRange(ctx context.Context, input commands.QuickRangeInput) error {
	return e.QuickRangeCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Redraw(ctx context.Context, input commands.RedrawInput) error {
	return e.RedrawCommander.Execute(ctx, input)
}
