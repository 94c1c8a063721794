// Package metrics derives descriptive statistics from shop exports: rates
// with explicit no-data handling, weighted health scores, SEO completeness,
// and period-over-period deltas. It evaluates listings and produces
// explainable, evidence-backed scorecards.
package metrics

import (
	"encoding/json"
	"fmt"
	"time"
)

// Rate is a derived ratio with an explicit no-data state. A rate whose
// denominator was zero carries Valid=false and marshals as JSON null; it is
// never coerced to a numeric zero.
type Rate struct {
	Value float64
	Valid bool
}

// NewRate divides num by den, returning the no-data marker when den is zero.
func NewRate(num, den float64) Rate {
	if den == 0 {
		return Rate{}
	}
	return Rate{Value: num / den, Valid: true}
}

// MarshalJSON renders a no-data rate as null.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON restores the no-data marker from null.
func (r *Rate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rate{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rate{Value: v, Valid: true}
	return nil
}

// String renders the rate as a percentage, or "n/a" when no data exists.
func (r Rate) String() string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

// Severity indicates how concerning a component finding is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// ComponentScore is the output of a single health component.
type ComponentScore struct {
	Key      string   `json:"key"`  // machine key: "ctr"
	Name     string   `json:"name"` // human name: "Click-through rate"
	Rate     Rate     `json:"rate"`
	Target   float64  `json:"target"`   // benchmark considered fully healthy
	Score    float64  `json:"score"`    // 0-100 before weighting
	Weighted float64  `json:"weighted"` // score x component weight
	Severity Severity `json:"severity"`
	Note     string   `json:"note,omitempty"`
}

// Scorecard holds the derived metrics for one subject: a single listing, or
// the shop-wide rollup (ListingID empty). Scorecards are immutable once
// computed; stages read them, never write back.
type Scorecard struct {
	ListingID string  `json:"listing_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Views     int     `json:"views"`
	Visits    int     `json:"visits"`
	Favorites int     `json:"favorites"`
	Orders    int     `json:"orders"`
	Revenue   float64 `json:"revenue"`

	CTR            Rate `json:"ctr"`
	ConversionRate Rate `json:"conversion_rate"`
	FavoriteRate   Rate `json:"favorite_rate"`
	VisibilityRate Rate `json:"visibility_rate"`

	HealthScore float64          `json:"health_score"` // 0-100, higher is better
	HealthGrade string           `json:"health_grade"` // A, B, C, D, F
	SEOScore    int              `json:"seo_score"`    // 0-100 completeness
	Breakdown   []ComponentScore `json:"breakdown"`
}

// Snapshot is one reporting period's archived unit: the shop-wide rollup
// plus every listing's scorecard.
type Snapshot struct {
	ID         string                `json:"id"`
	ShopName   string                `json:"shop_name"`
	Label      string                `json:"label,omitempty"` // archive period label, e.g. "2026-W34"
	Totals     Scorecard             `json:"totals"`
	Listings   map[string]*Scorecard `json:"listings"` // keyed by listing ID
	Stats      RollupStats           `json:"stats"`
	RecordedAt time.Time             `json:"recorded_at"`
}

// RollupStats holds summary statistics for a snapshot.
type RollupStats struct {
	ListingCount     int     `json:"listing_count"`
	ActiveListings   int     `json:"active_listings"` // listings with any views
	SkippedListings  int     `json:"skipped_listings"`
	AvgListingHealth float64 `json:"avg_listing_health"`
}

// GradeFromHealth maps a health score to a letter grade.
func GradeFromHealth(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}
