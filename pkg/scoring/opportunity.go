package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopscope/shopscope/pkg/listing"
)

// Category classifies where an opportunity came from.
type Category string

const (
	CategorySEO     Category = "seo"     // tag and listing-page work
	CategoryTrend   Category = "trend"   // ride a trending keyword with existing work
	CategoryProduct Category = "product" // develop something new
)

// Status is an opportunity's lifecycle stage. Transitions run strictly
// forward; Rejected is reachable from any stage except Completed.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusResearch   Status = "research"
	StatusPlanning   Status = "planning"
	StatusActive     Status = "active"
	StatusTesting    Status = "testing"
	StatusOptimizing Status = "optimizing"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// statusRank orders the forward lifecycle. Rejected sits outside it.
var statusRank = map[Status]int{
	StatusBacklog:    0,
	StatusResearch:   1,
	StatusPlanning:   2,
	StatusActive:     3,
	StatusTesting:    4,
	StatusOptimizing: 5,
	StatusCompleted:  6,
}

// CanTransition reports whether an opportunity may move from one status to
// another: strictly forward along the lifecycle, or out to Rejected from any
// stage that has not completed.
func CanTransition(from, to Status) bool {
	if to == StatusRejected {
		return from != StatusCompleted && from != StatusRejected
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Tier is a quadrant of the effort/impact matrix. Lower is higher priority.
type Tier int

const (
	TierImmediate Tier = iota + 1 // P1: low effort, high impact
	TierStrategic                 // P2: high effort, high impact
	TierFillIn                    // P3: low effort, low impact
	TierAvoid                     // P4: high effort, low impact
)

// Label returns the tier's display name.
func (t Tier) Label() string {
	switch t {
	case TierImmediate:
		return "P1 immediate"
	case TierStrategic:
		return "P2 strategic"
	case TierFillIn:
		return "P3 fill-in"
	case TierAvoid:
		return "P4 avoid"
	default:
		return fmt.Sprintf("P%d", int(t))
	}
}

// Opportunity is one candidate piece of work: derived from a trend, from a
// listing's findings, or supplied directly. Scores live on two scales that
// are never blended: the effort/impact matrix tier and the RICE priority.
type Opportunity struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Notes     string   `json:"notes,omitempty"`
	ListingID string   `json:"listing_id,omitempty"` // set for seo opportunities
	Keyword   string   `json:"keyword,omitempty"`    // set for trend and product opportunities

	Reach      float64 `json:"reach"`      // thousands of monthly searches, or equivalent
	Impact     float64 `json:"impact"`     // 1-5
	Confidence float64 `json:"confidence"` // 1-5
	Effort     float64 `json:"effort"`     // 1-5

	Priority float64 `json:"priority"` // RICE: reach x impact x confidence / effort
	Tier     Tier    `json:"tier"`
	Timeline string  `json:"timeline"`

	Status    Status    `json:"status"`
	DependsOn []string  `json:"depends_on,omitempty"` // opportunity IDs this builds on
	CreatedAt time.Time `json:"created_at"`
	Seq       int       `json:"seq"` // insertion order, the final tie-break
}

// Advance moves the opportunity forward along the lifecycle.
func (o *Opportunity) Advance(to Status) error {
	if !CanTransition(o.Status, to) {
		return &listing.InvalidInputError{
			Field:  "status",
			Reason: fmt.Sprintf("cannot move opportunity %s from %s to %s", o.ID, o.Status, to),
		}
	}
	o.Status = to
	return nil
}

// Reject retires the opportunity. Completed work cannot be rejected.
func (o *Opportunity) Reject() error {
	return o.Advance(StatusRejected)
}

// RICE computes the reach x impact x confidence / effort priority.
// Effort at or below zero is an input error, never a silent division.
func RICE(reach, impact, confidence, effort float64) (float64, error) {
	if effort <= 0 {
		return 0, &listing.InvalidInputError{
			Field:  "effort",
			Reason: fmt.Sprintf("must be positive, got %v", effort),
		}
	}
	return reach * impact * confidence / effort, nil
}

// MatrixTier places effort and impact on the priority matrix. The corner
// rules are exact: effort<=2 with impact>=4 is P1, effort>=4 with impact>=4
// is P2, effort<=2 with impact<=2 is P3, effort>=4 with impact<=2 is P4.
// Values between the edges round to the nearer edge; an equidistant value
// tries both edges and the higher-priority tier wins.
func MatrixTier(effort, impact float64) Tier {
	best := TierAvoid
	for _, lowEffort := range edgeCandidates(effort) {
		for _, lowImpact := range edgeCandidates(impact) {
			t := quadrant(lowEffort, !lowImpact)
			if t < best {
				best = t
			}
		}
	}
	return best
}

// edgeCandidates reports which matrix edges a value can collapse to:
// true for the low edge (<=2), false for the high edge (>=4). Equidistant
// values return both.
func edgeCandidates(v float64) []bool {
	switch {
	case v <= 2:
		return []bool{true}
	case v >= 4:
		return []bool{false}
	}
	dLow, dHigh := v-2, 4-v
	switch {
	case dLow < dHigh:
		return []bool{true}
	case dHigh < dLow:
		return []bool{false}
	default:
		return []bool{true, false}
	}
}

func quadrant(lowEffort, highImpact bool) Tier {
	switch {
	case lowEffort && highImpact:
		return TierImmediate
	case !lowEffort && highImpact:
		return TierStrategic
	case lowEffort && !highImpact:
		return TierFillIn
	default:
		return TierAvoid
	}
}

// TimelineForEffort buckets effort into a delivery horizon.
func TimelineForEffort(effort float64) string {
	switch {
	case effort <= 2:
		return "Quick Win"
	case effort <= 3:
		return "Weekend Project"
	case effort <= 4:
		return "Major Initiative"
	default:
		return "Long-term Strategy"
	}
}

// ScoreOpportunities computes priority, tier, and timeline for every
// opportunity and returns them ranked by the matrix order. An opportunity
// with unusable inputs is dropped with a diagnostic; the rest proceed.
func ScoreOpportunities(opps []Opportunity, cfg Config) ([]Opportunity, []listing.Diagnostic) {
	var diags []listing.Diagnostic
	scored := make([]Opportunity, 0, len(opps))
	for i, o := range opps {
		o.Seq = i
		if o.Effort < cfg.EffortFloor {
			diags = append(diags, listing.Diagnostic{
				Stage:   "opportunities",
				Subject: o.Name,
				Reason:  fmt.Sprintf("effort %v below floor %v", o.Effort, cfg.EffortFloor),
			})
			continue
		}
		priority, err := RICE(o.Reach, o.Impact, o.Confidence, o.Effort)
		if err != nil {
			diags = append(diags, listing.Diagnostic{Stage: "opportunities", Subject: o.Name, Reason: err.Error()})
			continue
		}
		o.Priority = priority
		o.Tier = MatrixTier(o.Effort, o.Impact)
		o.Timeline = TimelineForEffort(o.Effort)
		if o.Status == "" {
			o.Status = StatusBacklog
		}
		scored = append(scored, o)
	}

	SortByMatrix(scored)
	return scored, diags
}

// SortByMatrix ranks by matrix tier, then RICE priority, then insertion
// order. This is the default presentation order.
func SortByMatrix(opps []Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].Tier != opps[j].Tier {
			return opps[i].Tier < opps[j].Tier
		}
		if opps[i].Priority != opps[j].Priority {
			return opps[i].Priority > opps[j].Priority
		}
		if !opps[i].CreatedAt.Equal(opps[j].CreatedAt) {
			return opps[i].CreatedAt.Before(opps[j].CreatedAt)
		}
		return opps[i].Seq < opps[j].Seq
	})
}

// SortByRICE ranks purely by RICE priority with the same tie-breaks. It is
// an independent view; the two scales never blend into one number.
func SortByRICE(opps []Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].Priority != opps[j].Priority {
			return opps[i].Priority > opps[j].Priority
		}
		if !opps[i].CreatedAt.Equal(opps[j].CreatedAt) {
			return opps[i].CreatedAt.Before(opps[j].CreatedAt)
		}
		return opps[i].Seq < opps[j].Seq
	})
}
