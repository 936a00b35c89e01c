package dashboard

import (
	"context"
	"time"
)

// BootstrapOptions assemble a complete engine from a page config. Repository
// is required. Backends default to the built-in echarts and htmltable pair;
// Registry defaults to a fresh one with all engine hooks applied.
type BootstrapOptions struct {
	Config        *PageConfigDocument
	Repository    PayloadRepository
	Registry      *EngineRegistry
	Validator     PageValidator
	Cache         RenderCache
	Hook          RenderHook
	Telemetry     Telemetry
	ChartBackend  string
	TableBackend  string
	Bounds        DateBounds
	TableFallback func(ctx context.Context) error
	Now           func() time.Time
}

// Engine bundles the assembled dashboard pieces.
type Engine struct {
	Config       *PageConfigDocument
	Registry     *EngineRegistry
	Loader       *AssetLoader
	Charts       *ChartController
	Table        *TableController
	Orchestrator *Orchestrator
	Theme        Theme
}

// Bootstrap validates the page config, activates backends, and wires the
// loader, controllers, and orchestrator together.
func Bootstrap(opts BootstrapOptions) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultPageConfig()
	}
	validator := opts.Validator
	if validator == nil {
		validator = NewSchemaValidator()
	}
	if err := validator.ValidatePageConfig(cfg); err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = NewEngineRegistry()
	}
	if opts.Cache != nil {
		if err := reg.RegisterChartBackend(NewEChartsBackend(EChartsBackendOptions{Cache: opts.Cache})); err != nil {
			return nil, err
		}
	}

	chartBackend := opts.ChartBackend
	if chartBackend == "" {
		chartBackend = EChartsBackendName
	}
	tableBackend := opts.TableBackend
	if tableBackend == "" {
		tableBackend = HTMLTableBackendName
	}
	if err := reg.UseChartBackend(chartBackend); err != nil {
		return nil, err
	}
	if err := reg.UseTableBackend(tableBackend); err != nil {
		return nil, err
	}

	poll, budgets := cfg.Assets.LoaderBudgets()
	loader, err := NewAssetLoader(LoaderOptions{
		Registry:      reg,
		PollInterval:  poll,
		Budgets:       budgets,
		TableFallback: opts.TableFallback,
		Telemetry:     opts.Telemetry,
	})
	if err != nil {
		return nil, err
	}

	theme := cfg.Theme.BuildTheme()
	charts, err := NewChartController(ChartControllerOptions{
		Loader:         loader,
		Tokens:         theme.Source(),
		TrendElementID: cfg.Elements.TrendChart,
		TopElementID:   cfg.Elements.TopChart,
		Telemetry:      opts.Telemetry,
	})
	if err != nil {
		return nil, err
	}
	table, err := NewTableController(TableControllerOptions{
		Loader:    loader,
		ElementID: cfg.Elements.Table,
		Telemetry: opts.Telemetry,
	})
	if err != nil {
		return nil, err
	}

	orchestrator, err := NewOrchestrator(OrchestratorOptions{
		Repository:   opts.Repository,
		Charts:       charts,
		Table:        table,
		Hook:         opts.Hook,
		Telemetry:    opts.Telemetry,
		DefaultFrom:  defaultFromBounds(opts.Bounds, cfg.Defaults.RangeDays),
		MinDate:      opts.Bounds.Min,
		MaxDate:      opts.Bounds.Max,
		DefaultLimit: cfg.Defaults.Limit,
		Now:          opts.Now,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		Config:       cfg,
		Registry:     reg,
		Loader:       loader,
		Charts:       charts,
		Table:        table,
		Orchestrator: orchestrator,
		Theme:        theme,
	}, nil
}

// defaultFromBounds derives the initial date_from: the declared maximum
// stepped back by the configured range, clamped to the declared minimum.
// Empty when the feed declared no bounds.
func defaultFromBounds(bounds DateBounds, rangeDays int) string {
	maxDate, ok := ParseDate(bounds.Max)
	if !ok || rangeDays <= 0 {
		return ""
	}
	from := DateOf(maxDate.Time().AddDate(0, 0, -rangeDays))
	if minDate, ok := ParseDate(bounds.Min); ok && from.Time().Before(minDate.Time()) {
		from = minDate
	}
	return FormatDate(from)
}
