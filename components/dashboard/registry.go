package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// EngineHook lets backend packages register themselves during init().
type EngineHook func(reg *EngineRegistry) error

var (
	engineHookMu sync.Mutex
	engineHooks  []EngineHook
)

// RegisterEngineHook records a hook executed against new registries.
func RegisterEngineHook(h EngineHook) {
	engineHookMu.Lock()
	defer engineHookMu.Unlock()
	engineHooks = append(engineHooks, h)
}

// EngineRegistry tracks the visualization backends the page may use. Any
// number of backends can register; exactly one chart backend and one table
// backend are activated at startup. The AssetLoader polls the active slots,
// so activation is what makes a capability "present".
type EngineRegistry struct {
	mu          sync.RWMutex
	charts      map[string]ChartBackend
	tables      map[string]TableBackend
	activeChart string
	activeTable string
}

// NewEngineRegistry builds an empty registry and applies global hooks.
func NewEngineRegistry() *EngineRegistry {
	reg := &EngineRegistry{
		charts: map[string]ChartBackend{},
		tables: map[string]TableBackend{},
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered engine hooks.
func (r *EngineRegistry) ApplyHooks() error {
	engineHookMu.Lock()
	defer engineHookMu.Unlock()
	for _, hook := range engineHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterChartBackend stores a chart backend under its name.
func (r *EngineRegistry) RegisterChartBackend(b ChartBackend) error {
	if b == nil || b.Name() == "" {
		return fmt.Errorf("dashboard: chart backend requires a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts[b.Name()] = b
	return nil
}

// RegisterTableBackend stores a table backend under its name.
func (r *EngineRegistry) RegisterTableBackend(b TableBackend) error {
	if b == nil || b.Name() == "" {
		return fmt.Errorf("dashboard: table backend requires a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[b.Name()] = b
	return nil
}

// UseChartBackend activates a registered chart backend by name.
func (r *EngineRegistry) UseChartBackend(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.charts[name]; !ok {
		return fmt.Errorf("dashboard: chart backend %s not registered", name)
	}
	r.activeChart = name
	return nil
}

// UseTableBackend activates a registered table backend by name.
func (r *EngineRegistry) UseTableBackend(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[name]; !ok {
		return fmt.Errorf("dashboard: table backend %s not registered", name)
	}
	r.activeTable = name
	return nil
}

// ActiveChartBackend returns the activated chart backend, if any.
func (r *EngineRegistry) ActiveChartBackend() (ChartBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeChart == "" {
		return nil, false
	}
	b, ok := r.charts[r.activeChart]
	return b, ok
}

// ActiveTableBackend returns the activated table backend, if any.
func (r *EngineRegistry) ActiveTableBackend() (TableBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeTable == "" {
		return nil, false
	}
	b, ok := r.tables[r.activeTable]
	return b, ok
}

// ChartBackend returns a registered chart backend by name.
func (r *EngineRegistry) ChartBackend(name string) (ChartBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.charts[name]
	return b, ok
}

// TableBackend returns a registered table backend by name.
func (r *EngineRegistry) TableBackend(name string) (TableBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.tables[name]
	return b, ok
}

// ChartBackends lists registered chart backend names, sorted.
func (r *EngineRegistry) ChartBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.charts))
	for name := range r.charts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableBackends lists registered table backend names, sorted.
func (r *EngineRegistry) TableBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
