package dashboard

import (
	"context"
	"log/slog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function to the Telemetry interface.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

// SlogTelemetry forwards events to a structured logger. Payload keys become
// log attributes; error events log at warn level.
type SlogTelemetry struct {
	Logger *slog.Logger
}

func (t SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := make([]any, 0, len(payload)*2)
	for key, value := range payload {
		attrs = append(attrs, key, value)
	}
	if _, failed := payload["error"]; failed {
		logger.WarnContext(ctx, event, attrs...)
		return
	}
	logger.InfoContext(ctx, event, attrs...)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
