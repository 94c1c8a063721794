// Package scoring turns derived shop metrics into prioritized, explainable
// actions. It classifies listing tags, scores opportunities on the
// effort/impact matrix and the RICE scale, and synthesizes both into a
// bounded set of recommendations with a three-phase roadmap.
package scoring

import (
	"time"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

// KeywordAction classifies what to do with a tag.
type KeywordAction string

const (
	ActionKeep    KeywordAction = "keep"
	ActionReplace KeywordAction = "replace"
	ActionRemove  KeywordAction = "remove"
	ActionAdd     KeywordAction = "add"
)

// KeywordCandidate is one scored tag on one listing. Candidates are
// immutable once scored; the synthesizer reads them, never rewrites them.
type KeywordCandidate struct {
	ListingID   string        `json:"listing_id"`
	Tag         string        `json:"tag"`
	Action      KeywordAction `json:"action"`
	Reason      string        `json:"reason"`
	Impressions int           `json:"impressions"`
	Clicks      int           `json:"clicks"`
	Trending    bool          `json:"trending,omitempty"`
	// OutperformedBy names the listing whose use of the same tag clearly
	// performs better. Set only on replace candidates from the duplicate rule.
	OutperformedBy string `json:"outperformed_by,omitempty"`
}

// TargetMetric names the metric a recommendation aims to move.
type TargetMetric string

const (
	MetricVisibility TargetMetric = "visibility"
	MetricCTR        TargetMetric = "ctr"
	MetricConversion TargetMetric = "conversion"
	MetricFavorites  TargetMetric = "favorites"
	MetricSEO        TargetMetric = "seo"
	MetricRevenue    TargetMetric = "revenue"
)

// Phase places a recommendation on the strategic roadmap.
type Phase string

const (
	PhaseOptimize Phase = "optimize" // fix what already sells
	PhaseExpand   Phase = "expand"   // new keywords and products
	PhaseScale    Phase = "scale"    // builds on completed expansion work
)

// Recommendation is one synthesized, de-duplicated action. ListingID is
// empty for shop-level recommendations.
type Recommendation struct {
	ID                  string       `json:"id"`
	ListingID           string       `json:"listing_id,omitempty"`
	Metric              TargetMetric `json:"metric"`
	Action              string       `json:"action"`
	Phase               Phase        `json:"phase"`
	SourceOpportunities []string     `json:"source_opportunities,omitempty"` // opportunity IDs
	SourceTags          []string     `json:"source_tags,omitempty"`
	DependsOn           []string     `json:"depends_on,omitempty"` // inherited from the backing opportunity
}

// RoadmapPhase is one stage of the strategic roadmap.
type RoadmapPhase struct {
	Phase           Phase    `json:"phase"`
	Horizon         string   `json:"horizon"` // "weeks 1-2", "weeks 3-6", "months 2-3"
	Recommendations []string `json:"recommendations,omitempty"` // recommendation IDs, ranked
}

// Roadmap groups recommendations into the three strategic phases.
type Roadmap struct {
	Phases []RoadmapPhase `json:"phases"`
}

// Result is the complete output of one pipeline run.
// Immutable once computed.
type Result struct {
	RunID       string    `json:"run_id"`
	ShopName    string    `json:"shop_name"`
	GeneratedAt time.Time `json:"generated_at"`

	Snapshot *metrics.Snapshot `json:"snapshot"`
	Delta    *metrics.Delta    `json:"delta,omitempty"` // set when a prior period was supplied

	Keywords []KeywordCandidate `json:"keywords"`
	// Opportunities is ranked by the effort/impact matrix (tier first).
	Opportunities []Opportunity `json:"opportunities"`
	// ByRICE holds opportunity IDs in pure RICE order. The two rankings use
	// different scales and are never blended into one number.
	ByRICE []string `json:"by_rice"`

	Recommendations []Recommendation     `json:"recommendations"`
	Roadmap         Roadmap              `json:"roadmap"`
	Diagnostics     []listing.Diagnostic `json:"diagnostics"`
}
