package feed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/scmhub/calendar"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// DemoOptions configures the deterministic demo source.
type DemoOptions struct {
	// Anchor is the last disclosure date (YYYY-MM-DD). Defaults to today.
	Anchor string
	// Days is the calendar span generated back from the anchor.
	Days int
	// Seed drives the generator; equal seeds yield equal records.
	Seed int64
}

// DemoClient serves deterministic buyback data without a remote feed.
// Disclosures land on Shanghai trading days only, with per-plan activity
// windows so parallel plans and progress percentages have something to show.
type DemoClient struct {
	records []Record
	bounds  dashboard.DateBounds
}

var _ Client = (*DemoClient)(nil)

var demoCompanies = []struct {
	code string
	name string
}{
	{"600519", "贵州茅台"},
	{"000333", "美的集团"},
	{"601318", "中国平安"},
	{"600036", "招商银行"},
	{"000858", "五粮液"},
	{"002594", "比亚迪"},
	{"601012", "隆基绿能"},
	{"600276", "恒瑞医药"},
	{"601899", "紫金矿业"},
	{"000001", "平安银行"},
}

var demoProgressPhases = []string{"董事会预案", "股东大会通过", "实施中", "实施完成"}

// NewDemoClient generates the demo records once. The same options always
// produce the same data.
func NewDemoClient(opts DemoOptions) *DemoClient {
	days := opts.Days
	if days <= 0 {
		days = 120
	}
	seed := opts.Seed
	if seed == 0 {
		seed = 42
	}
	anchor := time.Now().UTC()
	if d, ok := dashboard.ParseDate(opts.Anchor); ok {
		anchor = d.Time()
	}
	anchor = anchor.Truncate(24 * time.Hour)

	rng := rand.New(rand.NewSource(seed))
	isBusinessDay := businessDayFn()
	start := anchor.AddDate(0, 0, -(days - 1))

	client := &DemoClient{}
	for i, company := range demoCompanies {
		plans := demoPlans(rng, company.code, start, days, i == len(demoCompanies)-1)
		for day := start; !day.After(anchor); day = day.AddDate(0, 0, 1) {
			if !isBusinessDay(day) {
				continue
			}
			date := day.Format(time.DateOnly)
			for p, plan := range plans {
				if date < plan.activeFrom || date > plan.activeTo {
					continue
				}
				// The first company discloses daily so the trend has a
				// continuous backbone; the rest are intermittent.
				if i > 0 || p > 0 {
					if rng.Float64() > 0.35 {
						continue
					}
				}
				client.records = append(client.records, demoRecord(rng, company.code, company.name, date, plan))
			}
		}
	}

	for _, rec := range client.records {
		if client.bounds.Min == "" || rec.Date < client.bounds.Min {
			client.bounds.Min = rec.Date
		}
		if rec.Date > client.bounds.Max {
			client.bounds.Max = rec.Date
		}
	}
	return client
}

// FetchPayload aggregates the generated records for the query.
func (c *DemoClient) FetchPayload(ctx context.Context, query dashboard.FeedQuery) (dashboard.DashboardPayload, error) {
	return Aggregate(c.records, query), nil
}

// FetchBounds returns the generated disclosure date range.
func (c *DemoClient) FetchBounds(ctx context.Context) (dashboard.DateBounds, error) {
	return c.bounds, nil
}

// Records exposes the raw generated records, mainly for tests.
func (c *DemoClient) Records() []Record {
	return append([]Record(nil), c.records...)
}

type demoPlan struct {
	key          string
	announceDate string
	startDate    string
	priceLower   float64
	priceUpper   float64
	amountUpper  float64
	volumeUpper  float64
	latestPrice  float64
	progressText string
	basePrice    float64
	activeFrom   string
	activeTo     string
}

// demoPlans builds one or two plans per company. The legacy company gets a
// blank plan key, exercising the default-plan fallback downstream.
func demoPlans(rng *rand.Rand, code string, start time.Time, days int, legacy bool) []demoPlan {
	basePrice := 8 + rng.Float64()*180
	count := 1
	if !legacy && rng.Float64() < 0.4 {
		count = 2
	}

	end := start.AddDate(0, 0, days-1)
	plans := make([]demoPlan, 0, count)
	for p := 0; p < count; p++ {
		announce := start.AddDate(0, 0, -(5 + rng.Intn(20)))
		planStart := announce.AddDate(0, 0, 7+rng.Intn(10))
		priceUpper := round2(basePrice * (1.1 + rng.Float64()*0.3))
		priceLower := round2(basePrice * 0.85)
		if rng.Float64() < 0.3 {
			priceLower = 0
		}
		amountUpper := round2((2 + rng.Float64()*28) * 1e8)
		plan := demoPlan{
			announceDate: announce.Format(time.DateOnly),
			startDate:    planStart.Format(time.DateOnly),
			priceLower:   priceLower,
			priceUpper:   priceUpper,
			amountUpper:  amountUpper,
			volumeUpper:  float64(int64(amountUpper / priceUpper)),
			latestPrice:  round2(basePrice * (0.9 + rng.Float64()*0.2)),
			progressText: demoProgressPhases[rng.Intn(len(demoProgressPhases))],
			basePrice:    basePrice,
			activeFrom:   start.Format(time.DateOnly),
			activeTo:     end.Format(time.DateOnly),
		}
		if !legacy {
			plan.key = fmt.Sprintf("%016X", rng.Uint64())
		}
		if p == 1 {
			// The second plan runs in parallel over the tail of the span.
			plan.activeFrom = start.AddDate(0, 0, days*3/5).Format(time.DateOnly)
			plan.announceDate = start.AddDate(0, 0, days*3/5-10).Format(time.DateOnly)
			plan.startDate = plan.activeFrom
		}
		plans = append(plans, plan)
	}
	return plans
}

func demoRecord(rng *rand.Rand, code, name, date string, plan demoPlan) Record {
	amount := (0.3 + rng.Float64()*4.7) * 1e7
	price := plan.basePrice * (0.94 + rng.Float64()*0.12)
	volume := float64(int64(amount / price))

	var avgPrice *float64
	if rng.Float64() >= 0.05 {
		v := round2(price)
		avgPrice = &v
	}

	return Record{
		Code:             code,
		Name:             name,
		PlanKey:          plan.key,
		PlanProgressText: plan.progressText,
		PlanAnnounceDate: plan.announceDate,
		PlanStartDate:    plan.startDate,
		PlanPriceLower:   plan.priceLower,
		PlanPriceUpper:   plan.priceUpper,
		PlanAmountUpper:  plan.amountUpper,
		PlanVolumeUpper:  plan.volumeUpper,
		PlanLatestPrice:  plan.latestPrice,
		StartDate:        plan.startDate,
		Date:             date,
		Amount:           round2(amount),
		Volume:           volume,
		AvgPrice:         avgPrice,
		ProgressText:     plan.progressText,
	}
}

// businessDayFn resolves the Shanghai exchange calendar, falling back to
// weekdays when the calendar is unavailable.
func businessDayFn() func(time.Time) bool {
	if cal := calendar.GetCalendar("xshg"); cal != nil {
		return cal.IsBusinessDay
	}
	return func(t time.Time) bool {
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
}
