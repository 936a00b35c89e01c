package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Ian-Rin/eco/components/dashboard"
	"github.com/Ian-Rin/eco/components/dashboard/commands"
	"github.com/Ian-Rin/eco/components/dashboard/gorouter"
	"github.com/Ian-Rin/eco/components/dashboard/httpapi"
	"github.com/Ian-Rin/eco/components/dashboard/queries"
	"github.com/Ian-Rin/eco/pkg/feed"
)

type cli struct {
	Serve       serveCmd       `cmd:"" help:"Serve the buyback dashboard page and its JSON API."`
	Snapshot    snapshotCmd    `cmd:"" help:"Fetch one dashboard snapshot and print it."`
	CheckConfig checkConfigCmd `cmd:"" help:"Validate a page config file."`
	InitConfig  initConfigCmd  `cmd:"" help:"Write the built-in page config so it can be customized."`
}

type serveCmd struct {
	Addr     string        `default:":8080" help:"Listen address."`
	Config   string        `type:"path" help:"Page config YAML (built-in defaults when omitted)."`
	FeedURL  string        `name:"feed-url" env:"BUYBACK_FEED_URL" help:"Base URL of the aggregated disclosure feed. Empty serves the built-in demo feed."`
	FeedKey  string        `name:"feed-key" env:"BUYBACK_FEED_KEY" help:"Bearer token sent to the feed."`
	FeedRPS  float64       `name:"feed-rps" help:"Outbound feed request rate limit in requests per second (0 disables)."`
	CacheTTL time.Duration `name:"cache-ttl" default:"5m" help:"Feed payload cache TTL (0 disables caching)."`
	Version  string        `help:"Asset version tag stamped on the page (defaults to dev)."`
}

type snapshotCmd struct {
	FeedURL  string `name:"feed-url" env:"BUYBACK_FEED_URL" help:"Base URL of the aggregated disclosure feed. Empty uses the built-in demo feed."`
	FeedKey  string `name:"feed-key" env:"BUYBACK_FEED_KEY" help:"Bearer token sent to the feed."`
	DateFrom string `name:"date-from" help:"Window start (YYYY-MM-DD)."`
	DateTo   string `name:"date-to" help:"Window end (YYYY-MM-DD)."`
	Code     string `help:"Stock code or name filter."`
	Limit    int    `help:"Table row limit (feed default applies when 0)."`
	Days     int    `default:"30" help:"Trailing window in days when no explicit dates are given."`
	JSON     bool   `help:"Print the raw snapshot JSON instead of the text summary."`
}

type checkConfigCmd struct {
	Path string `arg:"" type:"path" help:"Page config YAML/JSON file to validate."`
}

type initConfigCmd struct {
	Out       string `arg:"" optional:"" type:"path" help:"Destination file. Prints to stdout when omitted."`
	Overwrite bool   `help:"Replace the destination if it already exists."`
}

func main() {
	_ = godotenv.Load()
	ctx := kong.Parse(&cli{},
		kong.Description("Buyback dashboard utility: serve the page, inspect snapshots, check page configs."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := loadPageConfig(cmd.Config)
	if err != nil {
		return err
	}

	client, err := buildClient(cmd.FeedURL, cmd.FeedKey, cmd.FeedRPS)
	if err != nil {
		return err
	}
	if cmd.CacheTTL > 0 {
		client = feed.NewCachedClient(client, cmd.CacheTTL)
	}

	bounds, err := client.FetchBounds(ctx)
	if err != nil {
		logger.Warn("feed bounds unavailable, date inputs stay unbounded", "error", err)
	}

	hook := dashboard.NewBroadcastHook()
	eventLog := dashboard.NewRenderEventLog(0)
	telemetry := dashboard.SlogTelemetry{Logger: logger}
	engine, err := dashboard.Bootstrap(dashboard.BootstrapOptions{
		Config:     cfg,
		Repository: feed.NewPayloadRepository(client),
		Bounds:     bounds,
		Hook:       dashboard.RenderHooks(hook, eventLog),
		Cache:      dashboard.NewRenderCacheFromEnv(ctx, cmd.CacheTTL),
		Telemetry:  telemetry,
	})
	if err != nil {
		return err
	}

	page, err := dashboard.NewPageController(dashboard.PageControllerOptions{
		Engine:    engine,
		Bounds:    feed.NewBoundsRepository(client),
		Version:   cmd.Version,
		Telemetry: telemetry,
	})
	if err != nil {
		return err
	}

	executor := &httpapi.CommandExecutor{
		RefreshCommander:    commands.NewRefreshDashboardCommand(engine.Orchestrator, telemetry),
		QuickRangeCommander: commands.NewQuickRangeCommand(engine.Orchestrator, telemetry),
		RedrawCommander:     commands.NewRedrawCommand(engine.Orchestrator, telemetry),
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		Page:      page,
		Snapshot:  queries.NewSnapshotQuery(engine.Orchestrator),
		Fragments: queries.NewFragmentsQuery(engine.Orchestrator, engine.Charts, engine.Table),
		API:       executor,
		Broadcast: hook,
		EventLog:  eventLog,
	}); err != nil {
		return fmt.Errorf("buybackctl: register routes: %w", err)
	}

	feedDesc := cmd.FeedURL
	if feedDesc == "" {
		feedDesc = "built-in demo feed"
	}
	logger.Info("buyback dashboard listening", "addr", cmd.Addr, "feed", feedDesc, "config", configSource(cfg))
	if err := server.Serve(cmd.Addr); err != nil {
		return fmt.Errorf("buybackctl: serve %s: %w", cmd.Addr, err)
	}
	return nil
}

func (cmd *snapshotCmd) Run(ctx context.Context) error {
	client, err := buildClient(cmd.FeedURL, cmd.FeedKey, 0)
	if err != nil {
		return err
	}

	bounds, _ := client.FetchBounds(ctx)

	orchestrator, err := dashboard.NewOrchestrator(dashboard.OrchestratorOptions{
		Repository: feed.NewPayloadRepository(client),
		MinDate:    bounds.Min,
		MaxDate:    bounds.Max,
	})
	if err != nil {
		return err
	}

	orchestrator.SetFilters(dashboard.Filters{
		DateFrom: cmd.DateFrom,
		DateTo:   cmd.DateTo,
		Code:     cmd.Code,
		Limit:    cmd.Limit,
	})
	if cmd.DateFrom == "" && cmd.DateTo == "" && cmd.Days > 0 {
		err = orchestrator.QuickRange(ctx, cmd.Days)
	} else {
		err = orchestrator.Refresh(ctx)
	}
	if err != nil {
		return fmt.Errorf("buybackctl: fetch snapshot: %w", err)
	}

	snap := orchestrator.Snapshot()
	if cmd.JSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("buybackctl: encode snapshot: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}
	printSnapshot(os.Stdout, snap)
	return nil
}

func (cmd *checkConfigCmd) Run(_ context.Context) error {
	doc, err := dashboard.ReadPageConfig(cmd.Path)
	if err != nil {
		return err
	}
	if err := dashboard.NewSchemaValidator().ValidatePageConfig(doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s is a valid page config (version %s, %d stats, %d quick ranges)\n",
		cmd.Path, doc.Version, len(doc.Stats), len(doc.QuickRanges))
	return nil
}

func (cmd *initConfigCmd) Run(_ context.Context) error {
	doc := dashboard.DefaultPageConfig()
	if cmd.Out == "" {
		return encodePageConfig(os.Stdout, doc)
	}
	if _, err := os.Stat(cmd.Out); err == nil && !cmd.Overwrite {
		return fmt.Errorf("buybackctl: %s already exists (use --overwrite to replace)", cmd.Out)
	}
	if err := writePageConfig(cmd.Out, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote default page config to %s\n", cmd.Out)
	return nil
}

func loadPageConfig(path string) (*dashboard.PageConfigDocument, error) {
	if path == "" {
		return dashboard.DefaultPageConfig(), nil
	}
	return dashboard.ReadPageConfig(path)
}

func configSource(cfg *dashboard.PageConfigDocument) string {
	if cfg.Source == "" {
		return "built-in"
	}
	return cfg.Source
}

func encodePageConfig(w io.Writer, doc *dashboard.PageConfigDocument) error {
	out := *doc
	out.Source = ""
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("buybackctl: encode page config: %w", err)
	}
	return nil
}

func writePageConfig(path string, doc *dashboard.PageConfigDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("buybackctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("buybackctl: create page config %s: %w", path, err)
	}
	defer file.Close()
	return encodePageConfig(file, doc)
}

func buildClient(feedURL, feedKey string, rps float64) (feed.Client, error) {
	if feedURL == "" {
		return feed.NewDemoClient(feed.DemoOptions{}), nil
	}
	client, err := feed.NewHTTPClient(feed.HTTPConfig{
		BaseURL:           feedURL,
		APIKey:            feedKey,
		RequestsPerSecond: rps,
	})
	if err != nil {
		return nil, fmt.Errorf("buybackctl: build feed client: %w", err)
	}
	return client, nil
}

// printSnapshot writes the text rendition: the headline stat strip followed
// by the tail of the trend series.
func printSnapshot(w io.Writer, snap dashboard.Snapshot) {
	cfg := dashboard.DefaultPageConfig()
	for _, stat := range cfg.Stats {
		fmt.Fprintf(w, "%s\t%s\n", stat.Label, dashboard.HeadlineValue(snap.Headline, stat.Key))
	}
	fmt.Fprintf(w, "%s\t%s\n", "数据范围", snap.Headline.SummaryText)

	trend := snap.Payload.Charts.Trend
	if len(trend.Dates) == 0 {
		return
	}
	fmt.Fprintln(w)
	start := len(trend.Dates) - 10
	if start < 0 {
		start = 0
	}
	for i := start; i < len(trend.Dates); i++ {
		fmt.Fprintf(w, "%s\t%s\n", trend.Dates[i], dashboard.FormatAxisAmount(trend.Amounts[i]))
	}
}
