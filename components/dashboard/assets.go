package dashboard

import (
	"os"
	"strings"
)

// envEChartsCDN overrides the assets host (e.g. to point at a CDN or
// self-hosted bucket closer to the page's audience).
const envEChartsCDN = "DASHBOARD_ECHARTS_CDN"

// EChartsAssetsHost returns the configured ECharts assets host. Empty keeps
// the go-echarts default host.
func EChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return ""
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
