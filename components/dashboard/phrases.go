package dashboard

// User-visible phrases for the buyback dashboard. The UI contract is
// zh-CN; these strings appear verbatim in rendered markup and tests.
const (
	// LegacyPlanPrefix marks plan keys minted before explicit plan tracking.
	LegacyPlanPrefix = "__DEFAULT__:"

	phraseDefaultPlan    = "默认计划"
	phraseNoData         = "暂无数据"
	phraseNoMatchingData = "暂无符合条件的数据"
	phraseLoading        = "加载中..."
	phraseNoTrendData    = "暂无趋势数据"
	phraseNoTopData      = "暂无当日数据"

	unitYi            = "亿"
	unitWan           = "万"
	unitPricePerShare = "元/股"

	trendChartTitle = "每日回购金额趋势"
	topChartTitle   = "单日回购金额排名"

	trendSeriesName = "回购金额"
	topSeriesName   = "当日金额"
)

// Column headers, in display order.
const (
	columnTitleCode        = "代码"
	columnTitleName        = "名称"
	columnTitlePlan        = "回购计划"
	columnTitleDate        = "披露日期"
	columnTitleAmount      = "当日金额"
	columnTitleCumAmount   = "累计金额"
	columnTitleVolume      = "当日股数"
	columnTitleCumVolume   = "累计股数"
	columnTitleAvgPrice    = "成交均价"
	columnTitleProgress    = "计划进度"
	latestDisclosureMarker = "最新"
)
