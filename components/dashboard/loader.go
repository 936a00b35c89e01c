package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Capability names understood by the AssetLoader.
const (
	CapabilityCharts = "charts"
	CapabilityTable  = "table"
)

const (
	defaultPollInterval = 200 * time.Millisecond
	defaultChartsBudget = 10 * time.Second
	defaultTableBudget  = 12 * time.Second
)

// LoaderOptions configures the AssetLoader.
type LoaderOptions struct {
	Registry     *EngineRegistry
	PollInterval time.Duration
	// Budgets overrides the per-capability polling budget.
	Budgets map[string]time.Duration
	// TableFallback runs once when a table poll starts, giving the host a
	// chance to register a local backend before the first probe.
	TableFallback func(context.Context) error
	Telemetry     Telemetry
}

// AssetLoader waits for visualization backends to become available in the
// registry. Capabilities already present resolve immediately; otherwise a
// fixed-interval poll runs, bounded by a per-capability budget. Concurrent
// callers for one unresolved capability share a single in-flight poll and
// resolve or fail together. A timeout clears the shared record so a later
// Acquire restarts polling; success is permanent because the registry then
// holds the backend. The loader never retries on its own.
type AssetLoader struct {
	registry  *EngineRegistry
	interval  time.Duration
	budgets   map[string]time.Duration
	fallback  func(context.Context) error
	telemetry Telemetry

	mu      sync.Mutex
	pending map[string]*pendingAcquire
}

type pendingAcquire struct {
	done   chan struct{}
	handle any
	err    error
}

// NewAssetLoader builds a loader with safe defaults.
func NewAssetLoader(opts LoaderOptions) (*AssetLoader, error) {
	if opts.Registry == nil {
		return nil, errMissingRegistry
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	budgets := map[string]time.Duration{
		CapabilityCharts: defaultChartsBudget,
		CapabilityTable:  defaultTableBudget,
	}
	for name, budget := range opts.Budgets {
		if budget > 0 {
			budgets[name] = budget
		}
	}
	return &AssetLoader{
		registry:  opts.Registry,
		interval:  interval,
		budgets:   budgets,
		fallback:  opts.TableFallback,
		telemetry: normalizeTelemetry(opts.Telemetry),
		pending:   map[string]*pendingAcquire{},
	}, nil
}

// Acquire resolves the named capability, polling until it appears or its
// budget expires. Cancelling ctx detaches this caller only; the shared poll
// keeps running on its own budget for the other waiters.
func (l *AssetLoader) Acquire(ctx context.Context, capability string) (any, error) {
	if handle, ok := l.lookup(capability); ok {
		return handle, nil
	}
	p, started := l.join(capability)
	if started {
		go l.poll(capability, p)
	}
	select {
	case <-p.done:
		return p.handle, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AcquireCharts resolves the chart backend.
func (l *AssetLoader) AcquireCharts(ctx context.Context) (ChartBackend, error) {
	handle, err := l.Acquire(ctx, CapabilityCharts)
	if err != nil {
		return nil, err
	}
	backend, ok := handle.(ChartBackend)
	if !ok {
		return nil, fmt.Errorf("dashboard: charts capability resolved to %T", handle)
	}
	return backend, nil
}

// AcquireTable resolves the table backend.
func (l *AssetLoader) AcquireTable(ctx context.Context) (TableBackend, error) {
	handle, err := l.Acquire(ctx, CapabilityTable)
	if err != nil {
		return nil, err
	}
	backend, ok := handle.(TableBackend)
	if !ok {
		return nil, fmt.Errorf("dashboard: table capability resolved to %T", handle)
	}
	return backend, nil
}

func (l *AssetLoader) lookup(capability string) (any, bool) {
	switch capability {
	case CapabilityCharts:
		if b, ok := l.registry.ActiveChartBackend(); ok {
			return b, true
		}
	case CapabilityTable:
		if b, ok := l.registry.ActiveTableBackend(); ok {
			return b, true
		}
	}
	return nil, false
}

func (l *AssetLoader) join(capability string) (*pendingAcquire, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.pending[capability]; ok {
		return p, false
	}
	p := &pendingAcquire{done: make(chan struct{})}
	l.pending[capability] = p
	return p, true
}

func (l *AssetLoader) poll(capability string, p *pendingAcquire) {
	budget := l.budget(capability)
	deadline := time.Now().Add(budget)

	if capability == CapabilityTable && l.fallback != nil {
		if err := l.fallback(context.Background()); err != nil {
			l.telemetry.Record(context.Background(), "dashboard.loader.fallback_error", map[string]any{
				"capability": capability,
				"error":      err.Error(),
			})
		}
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		if handle, ok := l.lookup(capability); ok {
			l.resolve(capability, p, handle, nil)
			return
		}
		if !time.Now().Before(deadline) {
			l.resolve(capability, p, nil, &AssetTimeoutError{Capability: capability, Budget: budget})
			return
		}
		<-ticker.C
	}
}

func (l *AssetLoader) resolve(capability string, p *pendingAcquire, handle any, err error) {
	l.mu.Lock()
	delete(l.pending, capability)
	l.mu.Unlock()

	p.handle = handle
	p.err = err
	close(p.done)

	if err != nil {
		l.telemetry.Record(context.Background(), "dashboard.loader.timeout", map[string]any{
			"capability": capability,
			"budget":     l.budget(capability).String(),
		})
		return
	}
	l.telemetry.Record(context.Background(), "dashboard.loader.resolved", map[string]any{
		"capability": capability,
	})
}

func (l *AssetLoader) budget(capability string) time.Duration {
	if budget, ok := l.budgets[capability]; ok {
		return budget
	}
	return defaultChartsBudget
}
