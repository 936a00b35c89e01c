package dashboard

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogTelemetryInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	telemetry := SlogTelemetry{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	telemetry.Record(context.Background(), "dashboard.table.rendered", map[string]any{"rows": 2})

	line := buf.String()
	if !strings.Contains(line, "level=INFO") {
		t.Fatalf("expected info level, got %q", line)
	}
	if !strings.Contains(line, "msg=dashboard.table.rendered") {
		t.Fatalf("expected event as message, got %q", line)
	}
	if !strings.Contains(line, "rows=2") {
		t.Fatalf("expected payload attribute, got %q", line)
	}
}

func TestSlogTelemetryWarnsOnError(t *testing.T) {
	var buf bytes.Buffer
	telemetry := SlogTelemetry{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	telemetry.Record(context.Background(), "dashboard.fetch.error", map[string]any{"error": "feed 500"})

	line := buf.String()
	if !strings.Contains(line, "level=WARN") {
		t.Fatalf("expected warn level, got %q", line)
	}
	if !strings.Contains(line, "feed 500") {
		t.Fatalf("expected error attribute, got %q", line)
	}
}

func TestTelemetryFunc(t *testing.T) {
	var gotEvent string
	var gotPayload map[string]any
	fn := TelemetryFunc(func(_ context.Context, event string, payload map[string]any) {
		gotEvent = event
		gotPayload = payload
	})

	fn.Record(context.Background(), "dashboard.charts.rendered", map[string]any{"trend_points": 5})

	if gotEvent != "dashboard.charts.rendered" {
		t.Fatalf("event = %q", gotEvent)
	}
	if gotPayload["trend_points"] != 5 {
		t.Fatalf("payload = %v", gotPayload)
	}
}

func TestNormalizeTelemetryNil(t *testing.T) {
	telemetry := normalizeTelemetry(nil)
	if telemetry == nil {
		t.Fatalf("expected noop telemetry")
	}
	telemetry.Record(context.Background(), "dashboard.noop", nil)
}
