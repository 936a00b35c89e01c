package dashboard

import (
	"reflect"
	"testing"
)

func TestResolvePlanPrefersLabel(t *testing.T) {
	plan := ResolvePlan(DisclosureRow{PlanKey: "p2024a", PlanLabel: " 第一期回购 "})
	if plan.PlanText != "第一期回购" {
		t.Fatalf("PlanText = %q", plan.PlanText)
	}
	if plan.PlanKeyDisplay != "P2024A" {
		t.Fatalf("PlanKeyDisplay = %q", plan.PlanKeyDisplay)
	}
	if plan.IsLegacyPlan {
		t.Fatalf("expected non-legacy plan")
	}
}

func TestResolvePlanUppercasesKey(t *testing.T) {
	plan := ResolvePlan(DisclosureRow{PlanKey: "p2024a"})
	if plan.PlanText != "P2024A" {
		t.Fatalf("PlanText = %q", plan.PlanText)
	}
}

func TestResolvePlanLegacyKey(t *testing.T) {
	plan := ResolvePlan(DisclosureRow{PlanKey: LegacyPlanPrefix + "600519"})
	if !plan.IsLegacyPlan {
		t.Fatalf("expected legacy plan")
	}
	if plan.PlanText != "默认计划" {
		t.Fatalf("PlanText = %q", plan.PlanText)
	}
	if plan.PlanKeyDisplay != "600519" {
		t.Fatalf("PlanKeyDisplay = %q", plan.PlanKeyDisplay)
	}
}

func TestResolvePlanEmptyRow(t *testing.T) {
	plan := ResolvePlan(DisclosureRow{})
	if plan.PlanText != "" || plan.PlanKeyDisplay != "" || plan.IsLegacyPlan {
		t.Fatalf("expected empty display, got %+v", plan)
	}
	if len(plan.PlanMeta) != 0 {
		t.Fatalf("expected no meta, got %v", plan.PlanMeta)
	}
}

func TestResolvePlanMetaOrder(t *testing.T) {
	plan := ResolvePlan(DisclosureRow{
		PlanKey:          "p1",
		PlanProgressText: "进行中",
		PlanAnnounceDate: "2024-01-02",
		PlanStartDate:    "2024-01-03",
		PlanPriceLower:   10,
		PlanPriceUpper:   20,
		PlanAmountUpper:  2e8,
		PlanVolumeUpper:  3e6,
		PlanLatestPrice:  15.5,
		StartDate:        "2024-01-04",
		EndDate:          "2024-06-30",
	})
	want := []string{
		"进行中",
		"公告 2024-01-02",
		"启动 2024-01-03",
		"价格 10.00-20.00",
		"金额上限 2.00 亿",
		"数量上限 300.00 万股",
		"最新价 15.50",
		"自 2024-01-04",
		"至 2024-06-30",
	}
	if !reflect.DeepEqual(plan.PlanMeta, want) {
		t.Fatalf("PlanMeta = %v, want %v", plan.PlanMeta, want)
	}
}

func TestResolvePlanSkipsInvalidMetaFields(t *testing.T) {
	plan := ResolvePlan(DisclosureRow{
		PlanKey:          "p1",
		PlanAnnounceDate: "not-a-date",
		PlanAmountUpper:  -5,
	})
	if len(plan.PlanMeta) != 0 {
		t.Fatalf("expected invalid fields omitted, got %v", plan.PlanMeta)
	}
}

func TestPriceBandVariants(t *testing.T) {
	cases := []struct {
		lower, upper float64
		want         string
	}{
		{10, 20, "价格 10.00-20.00"},
		{10, 10, "价格 ≤ 10.00"},
		{0, 20, "价格 ≤ 20.00"},
		{10, 0, "价格 ≥ 10.00"},
		{0, 0, ""},
	}
	for _, tc := range cases {
		if got := priceBand(tc.lower, tc.upper); got != tc.want {
			t.Fatalf("priceBand(%v, %v) = %q, want %q", tc.lower, tc.upper, got, tc.want)
		}
	}
}
