package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

// Derivation constants. Effort starts at "a focused work session" and grows
// with skill gaps; confidence starts neutral and grows with overlap.
const (
	baseEffort     = 2.0
	baseConfidence = 3.0
	maxSkillCredit = 2

	highValuePrice = 50.0 // average price that bumps impact

	underperformHealth = 60.0
	underperformSEO    = 60
)

// DeriveFromTrend estimates scores for one trend-feed entry against the
// seller's capabilities and current catalog. The keyword becomes a product
// opportunity when nothing in the shop covers it yet and the feed carries a
// price point; otherwise it is a trend to ride with existing listings.
func DeriveFromTrend(tk listing.TrendingKeyword, profile *listing.SellerProfile, exp *listing.Export, now time.Time) Opportunity {
	missing, overlap := skillGap(tk.RequiredSkills, profile)

	effort := baseEffort + float64(missing)
	switch tk.Competition {
	case listing.CompetitionHigh:
		effort++
	case listing.CompetitionLow:
		effort--
	}
	if profile.PrefersCategory(tk.Category) {
		effort--
	}

	impact := volumeImpact(tk.SearchVolume)
	if tk.AvgPrice >= highValuePrice {
		impact++
	}
	if tk.Seasonal {
		impact--
	}
	switch tk.Competition {
	case listing.CompetitionMedium:
		impact--
	case listing.CompetitionHigh:
		impact -= 2
	}

	credit := overlap
	if credit > maxSkillCredit {
		credit = maxSkillCredit
	}
	confidence := baseConfidence + float64(credit)
	if tk.Competition == listing.CompetitionHigh {
		confidence--
	}

	o := Opportunity{
		ID:         uuid.New().String(),
		Keyword:    listing.NormalizeTag(tk.Keyword),
		Reach:      float64(tk.SearchVolume) / 1000,
		Impact:     clampScale(impact),
		Confidence: clampScale(confidence),
		Effort:     clampScale(effort),
		Status:     StatusBacklog,
		CreatedAt:  now,
	}

	if !catalogCovers(exp, tk.Keyword) && tk.AvgPrice > 0 {
		o.Category = CategoryProduct
		o.Name = fmt.Sprintf("Develop a %s product", o.Keyword)
		o.Notes = fmt.Sprintf("%d monthly searches, %s competition, around $%.0f; nothing in the shop covers it", tk.SearchVolume, competitionLabel(tk.Competition), tk.AvgPrice)
	} else {
		o.Category = CategoryTrend
		o.Name = fmt.Sprintf("Ride the %s trend", o.Keyword)
		o.Notes = fmt.Sprintf("%d monthly searches, %s competition; fold the keyword into existing listings", tk.SearchVolume, competitionLabel(tk.Competition))
	}
	return o
}

// DeriveFromListing turns one underperforming listing's pending tag work
// into a seo opportunity. Tag edits are quick; the impact scales with how
// unhealthy the listing is.
func DeriveFromListing(card *metrics.Scorecard, tagChanges int, now time.Time) Opportunity {
	effort := 2.0
	if tagChanges <= 3 {
		effort = 1.0
	}

	name := card.Title
	if name == "" {
		name = card.ListingID
	}

	return Opportunity{
		ID:         uuid.New().String(),
		Name:       fmt.Sprintf("Optimize listing %q", name),
		Category:   CategorySEO,
		ListingID:  card.ListingID,
		Notes:      fmt.Sprintf("health %s (%.0f), SEO completeness %d, %d pending tag edits", card.HealthGrade, card.HealthScore, card.SEOScore, tagChanges),
		Reach:      float64(card.Views) / 1000,
		Impact:     clampScale(5 - card.HealthScore/25),
		Confidence: baseConfidence,
		Effort:     effort,
		Status:     StatusBacklog,
		CreatedAt:  now,
	}
}

// DeriveFromFindings walks the snapshot for underperforming listings with
// pending tag work and derives a seo opportunity for each, in listing order.
func DeriveFromFindings(snap *metrics.Snapshot, keywords []KeywordCandidate, now time.Time) []Opportunity {
	changes := make(map[string]int)
	for _, k := range keywords {
		if k.Action != ActionKeep {
			changes[k.ListingID]++
		}
	}

	ids := make([]string, 0, len(snap.Listings))
	for id := range snap.Listings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Opportunity
	for _, id := range ids {
		card := snap.Listings[id]
		if changes[id] == 0 {
			continue
		}
		if card.HealthScore >= underperformHealth && card.SEOScore >= underperformSEO {
			continue
		}
		out = append(out, DeriveFromListing(card, changes[id], now))
	}
	return out
}

// skillGap counts the required skills the profile is missing and covering.
func skillGap(required []string, profile *listing.SellerProfile) (missing, overlap int) {
	for _, skill := range required {
		if profile.HasSkill(skill) {
			overlap++
		} else {
			missing++
		}
	}
	return missing, overlap
}

// volumeImpact bands search volume onto the 1-5 impact scale.
func volumeImpact(searchVolume int) float64 {
	switch {
	case searchVolume >= 5000:
		return 5
	case searchVolume >= 2000:
		return 4
	case searchVolume >= 500:
		return 3
	default:
		return 2
	}
}

// catalogCovers reports whether any listing already targets the keyword,
// either in its title or as a tag.
func catalogCovers(exp *listing.Export, keyword string) bool {
	if exp == nil {
		return false
	}
	kw := listing.NormalizeTag(keyword)
	if kw == "" {
		return false
	}
	for _, l := range exp.Listings {
		if strings.Contains(strings.ToLower(l.Title), kw) || l.HasTag(kw) {
			return true
		}
	}
	return false
}

func competitionLabel(c string) string {
	if c == "" {
		return "unrated"
	}
	return c
}

// clampScale pins a derived score to the 1-5 scale.
func clampScale(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
