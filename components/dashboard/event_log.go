package dashboard

import (
	"context"
	"sync"
)

const defaultEventLogLimit = 50

// RenderEventLog retains the most recent render events so pages that connect
// after a cycle, or reconnect after a gap, can catch up without waiting for
// the next one. Register it alongside the broadcast hook via RenderHooks.
type RenderEventLog struct {
	mu     sync.Mutex
	limit  int
	events []RenderEvent
}

var _ RenderHook = (*RenderEventLog)(nil)

// NewRenderEventLog retains up to limit events. Non-positive limits fall back
// to the default of 50.
func NewRenderEventLog(limit int) *RenderEventLog {
	if limit <= 0 {
		limit = defaultEventLogLimit
	}
	return &RenderEventLog{limit: limit}
}

// RenderCompleted appends the event, evicting the oldest past the limit.
func (l *RenderEventLog) RenderCompleted(_ context.Context, event RenderEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	if overflow := len(l.events) - l.limit; overflow > 0 {
		l.events = append([]RenderEvent(nil), l.events[overflow:]...)
	}
	return nil
}

// Recent returns up to limit retained events, newest first. A non-positive
// limit returns everything retained.
func (l *RenderEventLog) Recent(limit int) []RenderEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]RenderEvent, 0, n)
	for i := len(l.events) - 1; i >= len(l.events)-n; i-- {
		out = append(out, l.events[i])
	}
	return out
}
