package dashboard

// Category thresholds past which x labels rotate or a zoom slider appears.
const (
	trendRotateThreshold = 12
	topRotateThreshold   = 10
	topSliderThreshold   = 10
	rotatedLabelAngle    = 45
)

// Gradient is a two-stop fill for bar series.
type Gradient struct {
	From string
	To   string
}

// ChartOption is the full declarative configuration for one chart render.
// Every render rebuilds it from scratch; backends must not patch fields
// incrementally or retain state beyond the last option handed to them.
type ChartOption struct {
	Type        string
	Title       string
	SeriesName  string
	Categories  []string
	Values      []float64
	Smooth      bool
	AreaFill    bool
	Gradient    *Gradient
	LabelRotate float64
	WheelZoom   bool
	ZoomSlider  bool
	CompactAxis bool
	Empty       bool
	EmptyText   string
	Palette     ThemePalette
}

// BuildTrendOption configures the daily-amount trend chart: category dates,
// compact y-axis, smoothed filled line, wheel and slider zoom. Labels rotate
// once the range grows past twelve days. Empty series produce an explicit
// overlay instead of bare axes.
func BuildTrendOption(trend TrendSeries, palette ThemePalette) *ChartOption {
	opt := &ChartOption{
		Type:        "line",
		Title:       trendChartTitle,
		SeriesName:  trendSeriesName,
		Smooth:      true,
		AreaFill:    true,
		WheelZoom:   true,
		ZoomSlider:  true,
		CompactAxis: true,
		Palette:     palette,
	}
	if len(trend.Dates) == 0 || len(trend.Amounts) == 0 {
		opt.Empty = true
		opt.EmptyText = phraseNoTrendData
		return opt
	}
	opt.Categories = append([]string(nil), trend.Dates...)
	opt.Values = append([]float64(nil), trend.Amounts...)
	if len(opt.Categories) > trendRotateThreshold {
		opt.LabelRotate = rotatedLabelAngle
	}
	return opt
}

// BuildTopOption configures the single-day ranking chart: gradient bars per
// entity code, rotation and a slider only once the field grows past ten
// entries. The title names the day, or the no-data phrase when the feed had
// no latest disclosure day.
func BuildTopOption(top TopRanking, palette ThemePalette) *ChartOption {
	opt := &ChartOption{
		Type:        "bar",
		SeriesName:  topSeriesName,
		CompactAxis: true,
		Gradient:    &Gradient{From: palette.GradientFrom, To: palette.GradientTo},
		Palette:     palette,
	}
	if top.Date != "" {
		opt.Title = topChartTitle + " · " + top.Date
	} else {
		opt.Title = topChartTitle + " · " + phraseNoTopData
	}
	if len(top.Labels) == 0 || len(top.Values) == 0 {
		opt.Empty = true
		opt.EmptyText = phraseNoTopData
		return opt
	}
	opt.Categories = append([]string(nil), top.Labels...)
	opt.Values = append([]float64(nil), top.Values...)
	if len(opt.Categories) > topRotateThreshold {
		opt.LabelRotate = rotatedLabelAngle
	}
	if len(opt.Categories) > topSliderThreshold {
		opt.ZoomSlider = true
	}
	return opt
}
