package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const defaultChartHeight = "360px"

// EChartsBackendName is the registry name of the go-echarts backend.
const EChartsBackendName = "echarts"

// compactAxisFormatter scales y-axis ticks into 万/亿 in the browser, matching
// FormatAxisAmount: integers keep zero decimals, fractions keep one, no space
// before the unit. Untyped so it satisfies the option's function-string type.
const compactAxisFormatter = `function (value) {
	var abs = Math.abs(value);
	var scale = function (v) { return Number.isInteger(v) ? v.toFixed(0) : v.toFixed(1); };
	if (abs >= 1e8) { return scale(value / 1e8) + '亿'; }
	if (abs >= 1e4) { return scale(value / 1e4) + '万'; }
	return '' + value;
}`

var sharedRenderCache RenderCache = NewChartCache(5 * time.Minute)

// EChartsBackendOptions customizes the echarts backend.
type EChartsBackendOptions struct {
	Cache      RenderCache
	AssetsHost string
}

// EChartsBackend renders chart surfaces through go-echarts. Each surface
// keeps its last option and re-renders from it on Redraw; markup goes through
// the render cache keyed by option hash.
type EChartsBackend struct {
	cache      RenderCache
	assetsHost string
}

// NewEChartsBackend builds the backend with the shared in-memory cache and
// the default assets host unless overridden.
func NewEChartsBackend(options EChartsBackendOptions) *EChartsBackend {
	b := &EChartsBackend{
		cache:      options.Cache,
		assetsHost: options.AssetsHost,
	}
	if b.cache == nil {
		b.cache = sharedRenderCache
	}
	if b.assetsHost == "" {
		b.assetsHost = EChartsAssetsHost()
	}
	return b
}

// Name implements ChartBackend.
func (b *EChartsBackend) Name() string { return EChartsBackendName }

// CreateChart implements ChartBackend.
func (b *EChartsBackend) CreateChart(containerID string) (ChartSurface, error) {
	if containerID == "" {
		return nil, fmt.Errorf("dashboard: chart container id is required")
	}
	return &echartsSurface{backend: b, containerID: containerID}, nil
}

type echartsSurface struct {
	backend     *EChartsBackend
	containerID string
	opt         *ChartOption
	html        string
}

func (s *echartsSurface) UpdateOptions(opt *ChartOption) error {
	if opt == nil {
		return fmt.Errorf("dashboard: chart option is required")
	}
	s.opt = opt
	return s.render()
}

func (s *echartsSurface) Redraw() error {
	if s.opt == nil {
		return nil
	}
	return s.render()
}

func (s *echartsSurface) HTML() string { return s.html }

func (s *echartsSurface) render() error {
	key := OptionHash(s.containerID, s.opt)
	html, err := s.backend.cache.GetOrRender(key, func() (string, error) {
		return renderEChart(s.containerID, s.opt, s.backend.assetsHost)
	})
	if err != nil {
		return err
	}
	s.html = html
	return nil
}

func renderEChart(containerID string, opt *ChartOption, assetsHost string) (string, error) {
	switch opt.Type {
	case "line":
		return renderTrendLine(containerID, opt, assetsHost)
	case "bar":
		return renderRankingBar(containerID, opt, assetsHost)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type %q", opt.Type)
	}
}

func renderTrendLine(containerID string, opt *ChartOption, assetsHost string) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(globalChartOptions(containerID, opt, assetsHost)...)
	if opt.Empty {
		return renderChart(line)
	}
	line.SetXAxis(opt.Categories)
	line.AddSeries(opt.SeriesName, toLineData(opt.Values))
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(opt.Smooth)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: opt.Palette.AccentSoft, Opacity: 0.35}),
	)
	return renderChart(line)
}

func renderRankingBar(containerID string, opt *ChartOption, assetsHost string) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalChartOptions(containerID, opt, assetsHost)...)
	if opt.Empty {
		return renderChart(bar)
	}
	bar.SetXAxis(opt.Categories)
	bar.AddSeries(opt.SeriesName, toBarData(opt.Values))
	bar.SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{Color: barFillColor(opt)}))
	return renderChart(bar)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func globalChartOptions(containerID string, opt *ChartOption, assetsHost string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		ChartID:         containerID,
		Width:           "100%",
		Height:          defaultChartHeight,
		BackgroundColor: opt.Palette.Background,
	}
	if assetsHost != "" {
		initOpts.AssetsHost = assetsHost
	}

	title := opts.Title{Title: opt.Title}
	if opt.Empty {
		title.Subtitle = opt.EmptyText
	}

	globals := []charts.GlobalOpts{
		charts.WithTitleOpts(title),
		charts.WithInitializationOpts(initOpts),
		charts.WithColorsOpts(opts.Colors{opt.Palette.Accent}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(!opt.Empty)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
	if opt.Empty {
		return globals
	}

	axisLabel := &opts.AxisLabel{Show: opts.Bool(true)}
	if opt.LabelRotate != 0 {
		axisLabel.Rotate = opt.LabelRotate
	}
	globals = append(globals, charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: axisLabel}))

	if opt.CompactAxis {
		globals = append(globals, charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: compactAxisFormatter},
		}))
	}

	var zooms []opts.DataZoom
	if opt.WheelZoom {
		zooms = append(zooms, opts.DataZoom{Type: "inside"})
	}
	if opt.ZoomSlider {
		zooms = append(zooms, opts.DataZoom{Type: "slider"})
	}
	if len(zooms) > 0 {
		globals = append(globals, charts.WithDataZoomOpts(zooms...))
	}
	return globals
}

func barFillColor(opt *ChartOption) string {
	if opt.Gradient != nil && opt.Gradient.From != "" {
		return opt.Gradient.From
	}
	return opt.Palette.Accent
}

func toLineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func toBarData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}

func init() {
	RegisterEngineHook(func(reg *EngineRegistry) error {
		if _, ok := reg.ChartBackend(EChartsBackendName); ok {
			return nil
		}
		return reg.RegisterChartBackend(NewEChartsBackend(EChartsBackendOptions{}))
	})
}
