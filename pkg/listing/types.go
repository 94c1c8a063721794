// Package listing defines the core data model for Shopscope.
// These types are the shared vocabulary across all modules: ingestion
// produces Exports, metrics derives snapshots from them, and scoring
// consumes both.
package listing

import (
	"strings"
	"time"
	"unicode"
)

// Platform limits for Etsy listings. The scorer treats these as the
// defaults; the config surface can override them.
const (
	MaxTags      = 13
	MaxTagLength = 20
	MaxPhotos    = 10
)

// Listing represents a single shop listing with its reporting-window
// counters. Counters cover one window (week or month); the window itself
// lives on the enclosing Export.
type Listing struct {
	ID          string   `json:"id"`                    // LISTING_ID column, or slug of title
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Section     string   `json:"section,omitempty"`     // shop section, if exported
	Price       float64  `json:"price"`
	Tags        []string `json:"tags,omitempty"` // ordered, normalized, no duplicates
	Photos      int      `json:"photos"`
	Views       int      `json:"views"`
	Visits      int      `json:"visits"`
	Favorites   int      `json:"favorites"`
	Orders      int      `json:"orders"`
	Revenue     float64  `json:"revenue"`
}

// TagSet returns the listing's tags as a set for membership checks.
func (l *Listing) TagSet() map[string]bool {
	set := make(map[string]bool, len(l.Tags))
	for _, t := range l.Tags {
		set[t] = true
	}
	return set
}

// HasTag reports whether the listing carries the given normalized tag.
func (l *Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Export is one period's parsed shop export. Exports are immutable once
// built; derived metrics never write back into them.
type Export struct {
	ShopName    string              `json:"shop_name"`
	PeriodStart time.Time           `json:"period_start,omitempty"`
	PeriodEnd   time.Time           `json:"period_end,omitempty"`
	Listings    map[string]*Listing `json:"listings"` // keyed by listing ID
	Stats       ExportStats         `json:"stats"`
	ParsedAt    time.Time           `json:"parsed_at"`
}

// ExportStats holds summary statistics for an export.
type ExportStats struct {
	ListingCount int `json:"listing_count"`
	TagCount     int `json:"tag_count"`
	RowsSkipped  int `json:"rows_skipped"`
}

// NewExport returns an empty export for the named shop.
func NewExport(shopName string) *Export {
	return &Export{
		ShopName: shopName,
		Listings: make(map[string]*Listing),
		ParsedAt: time.Now().UTC(),
	}
}

// Add validates the listing and inserts it into the export. Duplicate IDs
// are rejected so that later stages can key results by listing ID.
func (e *Export) Add(l *Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if _, exists := e.Listings[l.ID]; exists {
		return &InvalidInputError{Field: "id", Reason: "duplicate listing id " + l.ID}
	}
	e.Listings[l.ID] = l
	return nil
}

// ComputeStats recounts the export's summary statistics.
func (e *Export) ComputeStats() {
	e.Stats.ListingCount = len(e.Listings)
	e.Stats.TagCount = 0
	for _, l := range e.Listings {
		e.Stats.TagCount += len(l.Tags)
	}
}

// Competition levels reported by trend feeds.
const (
	CompetitionLow    = "low"
	CompetitionMedium = "medium"
	CompetitionHigh   = "high"
)

// TrendingKeyword is one entry of the external trending-keyword feed.
type TrendingKeyword struct {
	Keyword           string   `json:"keyword" yaml:"keyword"`
	Category          string   `json:"category" yaml:"category"` // market niche, e.g. "jewelry"
	SearchVolume      int      `json:"search_volume" yaml:"search_volume"`
	Competition       string   `json:"competition" yaml:"competition"` // low, medium, high
	AvgPrice          float64  `json:"avg_price" yaml:"avg_price"`
	Seasonal          bool     `json:"seasonal" yaml:"seasonal"`
	RequiredSkills    []string `json:"required_skills,omitempty" yaml:"required_skills"`
	RecencyWindowDays int      `json:"recency_window_days" yaml:"recency_window_days"`
}

// TagPerformance holds window-level search performance for a single tag,
// as reported by a search-analytics export.
type TagPerformance struct {
	Impressions int `json:"impressions" yaml:"impressions"`
	Clicks      int `json:"clicks" yaml:"clicks"`
}

// TagStats maps normalized tags to their search performance over the
// reporting window. The keyword scorer falls back to attributing listing
// views when no stats are supplied.
type TagStats map[string]TagPerformance

// SellerProfile describes the seller's capabilities. Opportunity derivation
// uses it to estimate effort and confidence.
type SellerProfile struct {
	Skills              []string `json:"skills,omitempty" yaml:"skills"`
	PreferredCategories []string `json:"preferred_categories,omitempty" yaml:"preferred_categories"`
}

// HasSkill reports whether the profile lists the skill (case-insensitive).
func (p *SellerProfile) HasSkill(skill string) bool {
	if p == nil {
		return false
	}
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// PrefersCategory reports whether the profile lists the category
// (case-insensitive).
func (p *SellerProfile) PrefersCategory(category string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.PreferredCategories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// Diagnostic records a skipped or degraded item. Batch stages append one for
// every record they isolate so the final output never hides a failure.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject,omitempty"`
	Reason  string `json:"reason"`
}

// NormalizeTag lowercases a tag and collapses surrounding whitespace.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// SlugID derives a stable listing ID from a title for exports without a
// LISTING_ID column. The mapping is deterministic so repeated runs key the
// same listing identically.
func SlugID(title string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
