package dashboard

import (
	"context"
	"fmt"
	"testing"
)

func TestRenderEventLogEvictsPastLimit(t *testing.T) {
	log := NewRenderEventLog(2)
	for i := 0; i < 3; i++ {
		event := RenderEvent{ID: fmt.Sprintf("ev-%d", i), Kind: "refresh"}
		if err := log.RenderCompleted(context.Background(), event); err != nil {
			t.Fatalf("RenderCompleted returned error: %v", err)
		}
	}

	recent := log.Recent(0)
	if len(recent) != 2 {
		t.Fatalf("expected two retained events, got %d", len(recent))
	}
	if recent[0].ID != "ev-2" || recent[1].ID != "ev-1" {
		t.Fatalf("expected newest first, got %q then %q", recent[0].ID, recent[1].ID)
	}
}

func TestRenderEventLogRecentLimit(t *testing.T) {
	log := NewRenderEventLog(10)
	for i := 0; i < 5; i++ {
		_ = log.RenderCompleted(context.Background(), RenderEvent{ID: fmt.Sprintf("ev-%d", i)})
	}

	recent := log.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected two events, got %d", len(recent))
	}
	if recent[0].ID != "ev-4" || recent[1].ID != "ev-3" {
		t.Fatalf("unexpected order: %q then %q", recent[0].ID, recent[1].ID)
	}
}

func TestRenderEventLogDefaultLimit(t *testing.T) {
	log := NewRenderEventLog(0)
	for i := 0; i < 60; i++ {
		_ = log.RenderCompleted(context.Background(), RenderEvent{ID: fmt.Sprintf("ev-%d", i)})
	}

	recent := log.Recent(0)
	if len(recent) != 50 {
		t.Fatalf("expected default retention of 50, got %d", len(recent))
	}
	if recent[0].ID != "ev-59" {
		t.Fatalf("expected newest event first, got %q", recent[0].ID)
	}
	if recent[len(recent)-1].ID != "ev-10" {
		t.Fatalf("expected oldest evicted, got %q", recent[len(recent)-1].ID)
	}
}

func TestRenderEventLogEmpty(t *testing.T) {
	log := NewRenderEventLog(5)
	if recent := log.Recent(3); len(recent) != 0 {
		t.Fatalf("expected no events, got %d", len(recent))
	}
}

func TestRenderHooksFanOut(t *testing.T) {
	first := NewRenderEventLog(5)
	second := NewRenderEventLog(5)
	failing := renderHookFunc(func(context.Context, RenderEvent) error {
		return fmt.Errorf("sink offline")
	})

	hook := RenderHooks(first, nil, failing, second)
	err := hook.RenderCompleted(context.Background(), RenderEvent{ID: "ev-1", Kind: "refresh"})
	if err == nil || err.Error() != "sink offline" {
		t.Fatalf("expected first failure reported, got %v", err)
	}
	if len(first.Recent(0)) != 1 || len(second.Recent(0)) != 1 {
		t.Fatalf("every hook should still see the event")
	}
}

type renderHookFunc func(ctx context.Context, event RenderEvent) error

func (f renderHookFunc) RenderCompleted(ctx context.Context, event RenderEvent) error {
	return f(ctx, event)
}
