package metrics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TrafficStatus classifies period-over-period growth for one series.
type TrafficStatus string

const (
	StatusGreen  TrafficStatus = "green"
	StatusYellow TrafficStatus = "yellow"
	StatusRed    TrafficStatus = "red"
)

// Growth classification thresholds and alert trip levels.
const (
	greenGrowthMin   = 0.05  // at least 5% up reads green
	yellowDeclineMin = -0.10 // down to 10% off reads yellow, worse reads red

	alertRevenueDrop    = -0.15
	alertViewsDrop      = -0.20
	alertConversionDrop = -0.25
)

// Summary bands for the period as a whole, driven by revenue growth.
const (
	SummaryExcellent      = "Excellent"
	SummaryGood           = "Good"
	SummaryNeedsAttention = "Needs Attention"
	SummaryCritical       = "Critical"
	SummaryNoBaseline     = "No Baseline"
)

// SeriesDelta is one tracked series' movement between two periods.
type SeriesDelta struct {
	Key        string        `json:"key"`  // machine key: "revenue"
	Name       string        `json:"name"` // human name: "Revenue"
	Base       float64       `json:"base"`
	Head       float64       `json:"head"`
	Growth     float64       `json:"growth"`
	Comparable bool          `json:"comparable"`
	Status     TrafficStatus `json:"status,omitempty"`
	Alert      bool          `json:"alert,omitempty"`
	Reason     string        `json:"reason,omitempty"` // set when not comparable
}

// Delta captures the movement between two period snapshots.
// Deltas are immutable once computed.
type Delta struct {
	ID         string        `json:"id"`
	ShopName   string        `json:"shop_name"`
	BaseID     string        `json:"base_snapshot_id"`
	HeadID     string        `json:"head_snapshot_id"`
	BaseLabel  string        `json:"base_label,omitempty"`
	HeadLabel  string        `json:"head_label,omitempty"`
	Series     []SeriesDelta `json:"series"`
	Alerts     []string      `json:"alerts,omitempty"`
	Summary    string        `json:"summary"`
	ComputedAt time.Time     `json:"computed_at"`
}

// GrowthRate returns the relative change from prev to curr. A zero baseline
// reads as full growth when anything appeared and as no movement otherwise,
// so first periods never divide by zero.
func GrowthRate(prev, curr float64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 1.0
		}
		return 0.0
	}
	return (curr - prev) / prev
}

// StatusForGrowth maps a growth rate to its traffic-light classification.
func StatusForGrowth(growth float64) TrafficStatus {
	switch {
	case growth >= greenGrowthMin:
		return StatusGreen
	case growth >= yellowDeclineMin:
		return StatusYellow
	default:
		return StatusRed
	}
}

// SummaryForGrowth maps revenue growth to the period's overall band.
func SummaryForGrowth(growth float64) string {
	switch {
	case growth > 0.10:
		return SummaryExcellent
	case growth > 0:
		return SummaryGood
	case growth > -0.10:
		return SummaryNeedsAttention
	default:
		return SummaryCritical
	}
}

// ComputeDelta compares two period snapshots of the same shop. Counter
// series always compare (the zero-baseline growth rule applies); rate series
// compare only when both periods hold real data, and otherwise carry an
// explicit not-comparable marker instead of a fabricated zero.
func ComputeDelta(base, head *Snapshot) (*Delta, error) {
	if base == nil || head == nil {
		return nil, fmt.Errorf("base and head snapshots are required")
	}
	if base.ShopName != head.ShopName {
		return nil, fmt.Errorf("snapshots belong to different shops: %q vs %q", base.ShopName, head.ShopName)
	}

	d := &Delta{
		ID:         uuid.New().String(),
		ShopName:   head.ShopName,
		BaseID:     base.ID,
		HeadID:     head.ID,
		BaseLabel:  base.Label,
		HeadLabel:  head.Label,
		ComputedAt: time.Now().UTC(),
	}

	counters := []struct {
		key, name  string
		base, head float64
		alertAt    float64 // 0 means the series never alerts
	}{
		{"views", "Views", float64(base.Totals.Views), float64(head.Totals.Views), alertViewsDrop},
		{"visits", "Visits", float64(base.Totals.Visits), float64(head.Totals.Visits), 0},
		{"orders", "Orders", float64(base.Totals.Orders), float64(head.Totals.Orders), 0},
		{"revenue", "Revenue", base.Totals.Revenue, head.Totals.Revenue, alertRevenueDrop},
		{"health", "Health score", base.Totals.HealthScore, head.Totals.HealthScore, 0},
	}
	for _, c := range counters {
		sd := SeriesDelta{
			Key:        c.key,
			Name:       c.name,
			Base:       c.base,
			Head:       c.head,
			Growth:     GrowthRate(c.base, c.head),
			Comparable: true,
		}
		sd.Status = StatusForGrowth(sd.Growth)
		if c.alertAt != 0 && sd.Growth <= c.alertAt {
			sd.Alert = true
			d.Alerts = append(d.Alerts, fmt.Sprintf("%s down %.1f%% from %s to %s", c.name, -sd.Growth*100, labelOr(base.Label, "base"), labelOr(head.Label, "head")))
		}
		d.Series = append(d.Series, sd)

		if c.key == "revenue" {
			d.Summary = SummaryForGrowth(sd.Growth)
		}
	}

	rates := []struct {
		key, name  string
		base, head Rate
		alertAt    float64
	}{
		{"ctr", "Click-through rate", base.Totals.CTR, head.Totals.CTR, 0},
		{"conversion", "Conversion rate", base.Totals.ConversionRate, head.Totals.ConversionRate, alertConversionDrop},
		{"favorite_rate", "Favorite rate", base.Totals.FavoriteRate, head.Totals.FavoriteRate, 0},
	}
	for _, c := range rates {
		sd := SeriesDelta{Key: c.key, Name: c.name}
		switch {
		case !c.base.Valid && !c.head.Valid:
			sd.Reason = "no data in either period"
		case !c.base.Valid:
			sd.Reason = "no data in base period"
		case !c.head.Valid:
			sd.Reason = "no data in head period"
		default:
			sd.Base = c.base.Value
			sd.Head = c.head.Value
			sd.Growth = GrowthRate(c.base.Value, c.head.Value)
			sd.Comparable = true
			sd.Status = StatusForGrowth(sd.Growth)
			if c.alertAt != 0 && sd.Growth <= c.alertAt {
				sd.Alert = true
				d.Alerts = append(d.Alerts, fmt.Sprintf("%s down %.1f%% from %s to %s", c.name, -sd.Growth*100, labelOr(base.Label, "base"), labelOr(head.Label, "head")))
			}
		}
		d.Series = append(d.Series, sd)
	}

	// A base period with no valid listings cannot anchor a comparison.
	if base.Stats.ListingCount == 0 {
		d.Summary = SummaryNoBaseline
	}

	return d, nil
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
