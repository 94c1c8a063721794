package metrics_test

import (
	"strings"
	"testing"

	"github.com/shopscope/shopscope/pkg/metrics"
)

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name       string
		prev, curr float64
		want       float64
	}{
		{"normal growth", 100, 110, 0.10},
		{"normal decline", 100, 80, -0.20},
		{"flat", 50, 50, 0},
		{"zero baseline with growth", 0, 30, 1.0},
		{"zero baseline still zero", 0, 0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := metrics.GrowthRate(tt.prev, tt.curr)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("GrowthRate(%v, %v) = %v, want %v", tt.prev, tt.curr, got, tt.want)
			}
		})
	}
}

func TestStatusForGrowth(t *testing.T) {
	tests := []struct {
		growth float64
		want   metrics.TrafficStatus
	}{
		{0.08, metrics.StatusGreen},
		{0.05, metrics.StatusGreen},
		{0.02, metrics.StatusYellow},
		{-0.10, metrics.StatusYellow},
		{-0.11, metrics.StatusRed},
		{-0.50, metrics.StatusRed},
	}
	for _, tt := range tests {
		if got := metrics.StatusForGrowth(tt.growth); got != tt.want {
			t.Errorf("StatusForGrowth(%v) = %s, want %s", tt.growth, got, tt.want)
		}
	}
}

func periodSnapshot(label string, views, visits, orders int, revenue float64) *metrics.Snapshot {
	snap := &metrics.Snapshot{
		ID:       "snap-" + label,
		ShopName: "clayworks",
		Label:    label,
	}
	snap.Totals.Views = views
	snap.Totals.Visits = visits
	snap.Totals.Orders = orders
	snap.Totals.Revenue = revenue
	snap.Totals.CTR = metrics.NewRate(float64(visits), float64(views))
	snap.Totals.ConversionRate = metrics.NewRate(float64(orders), float64(visits))
	snap.Totals.FavoriteRate = metrics.NewRate(0, float64(views))
	snap.Stats.ListingCount = 5
	return snap
}

func findSeries(t *testing.T, d *metrics.Delta, key string) metrics.SeriesDelta {
	t.Helper()
	for _, s := range d.Series {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("series %q missing from delta", key)
	return metrics.SeriesDelta{}
}

func TestComputeDelta_StatusesAndAlerts(t *testing.T) {
	base := periodSnapshot("2026-W33", 1000, 30, 5, 200)
	head := periodSnapshot("2026-W34", 700, 21, 5, 160) // views -30%, revenue -20%

	d, err := metrics.ComputeDelta(base, head)
	if err != nil {
		t.Fatalf("ComputeDelta: %v", err)
	}

	views := findSeries(t, d, "views")
	if !views.Comparable || views.Status != metrics.StatusRed {
		t.Errorf("views series = %+v, want comparable red", views)
	}
	if !views.Alert {
		t.Error("views down 30% should trip the -20% alert")
	}

	revenue := findSeries(t, d, "revenue")
	if !revenue.Alert {
		t.Error("revenue down 20% should trip the -15% alert")
	}
	if d.Summary != metrics.SummaryCritical {
		t.Errorf("Summary = %q, want %q for revenue -20%%", d.Summary, metrics.SummaryCritical)
	}

	if len(d.Alerts) != 2 {
		t.Errorf("alerts = %v, want exactly views and revenue", d.Alerts)
	}

	// CTR moved 3% -> 3%: flat, comparable, yellow band.
	ctr := findSeries(t, d, "ctr")
	if !ctr.Comparable || ctr.Status != metrics.StatusYellow {
		t.Errorf("ctr series = %+v, want comparable yellow", ctr)
	}
}

func TestComputeDelta_NotComparableRates(t *testing.T) {
	base := periodSnapshot("2026-W33", 0, 0, 0, 0) // silent week: no views at all
	base.Stats.ListingCount = 5
	head := periodSnapshot("2026-W34", 500, 15, 2, 80)

	d, err := metrics.ComputeDelta(base, head)
	if err != nil {
		t.Fatalf("ComputeDelta: %v", err)
	}

	ctr := findSeries(t, d, "ctr")
	if ctr.Comparable {
		t.Error("ctr with no base data must not be comparable")
	}
	if !strings.Contains(ctr.Reason, "base period") {
		t.Errorf("ctr reason = %q, want mention of base period", ctr.Reason)
	}

	// Counters still compare through the zero-baseline rule.
	views := findSeries(t, d, "views")
	if !views.Comparable || views.Growth != 1.0 {
		t.Errorf("views series = %+v, want growth 1.0", views)
	}
}

func TestComputeDelta_GuardsShopMismatchAndNil(t *testing.T) {
	base := periodSnapshot("a", 10, 1, 0, 0)
	other := periodSnapshot("b", 10, 1, 0, 0)
	other.ShopName = "someone-else"

	if _, err := metrics.ComputeDelta(base, other); err == nil {
		t.Error("expected error for mismatched shops")
	}
	if _, err := metrics.ComputeDelta(nil, base); err == nil {
		t.Error("expected error for nil base")
	}
}

func TestComputeDelta_EmptyBaseHasNoBaseline(t *testing.T) {
	base := periodSnapshot("2026-W33", 0, 0, 0, 0)
	base.Stats.ListingCount = 0
	head := periodSnapshot("2026-W34", 500, 15, 2, 80)

	d, err := metrics.ComputeDelta(base, head)
	if err != nil {
		t.Fatalf("ComputeDelta: %v", err)
	}
	if d.Summary != metrics.SummaryNoBaseline {
		t.Errorf("Summary = %q, want %q", d.Summary, metrics.SummaryNoBaseline)
	}
}
