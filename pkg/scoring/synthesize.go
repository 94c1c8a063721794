package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

// Roadmap horizons, in phase order.
const (
	horizonOptimize = "weeks 1-2"
	horizonExpand   = "weeks 3-6"
	horizonScale    = "months 2-3"
)

// tagGroup collects one listing's pending tag work.
type tagGroup struct {
	listingID string
	replaces  []string
	removes   []string
	adds      []string
}

func (g *tagGroup) edits() int { return len(g.replaces) + len(g.removes) }

// Synthesize merges scored keyword candidates and ranked opportunities into
// a bounded, de-duplicated recommendation set plus the three-phase roadmap.
// No two recommendations share a (listing, metric) pair: the first writer in
// rank order wins and later sources are dropped with a diagnostic. Empty
// inputs degrade to an empty set with a diagnostic, never an error.
func Synthesize(keywords []KeywordCandidate, opps []Opportunity, snap *metrics.Snapshot, cfg Config) ([]Recommendation, Roadmap, []listing.Diagnostic) {
	var diags []listing.Diagnostic
	if len(opps) == 0 {
		diags = append(diags, listing.Diagnostic{Stage: "synthesize", Reason: "no opportunities"})
	}
	if len(keywords) == 0 {
		diags = append(diags, listing.Diagnostic{Stage: "synthesize", Reason: "no keyword candidates"})
	}

	groups := groupTagWork(keywords)
	taken := make(map[string]bool) // "listingID|metric" pairs already claimed
	var recs []Recommendation

	claim := func(rec Recommendation, source string) {
		key := rec.ListingID + "|" + string(rec.Metric)
		if taken[key] {
			diags = append(diags, listing.Diagnostic{
				Stage:   "synthesize",
				Subject: source,
				Reason:  fmt.Sprintf("recommendation for (%s, %s) already present; dropped to avoid contradictory advice", labelOrShop(rec.ListingID), rec.Metric),
			})
			return
		}
		taken[key] = true
		rec.ID = uuid.New().String()
		recs = append(recs, rec)
	}

	// Opportunities first: they arrive ranked by the matrix, so the best
	// sources claim their (listing, metric) slots before anything else.
	for _, o := range opps {
		switch {
		case o.Category == CategorySEO && o.ListingID != "":
			rec := Recommendation{
				ListingID:           o.ListingID,
				Metric:              MetricSEO,
				Phase:               PhaseOptimize,
				SourceOpportunities: []string{o.ID},
				DependsOn:           o.DependsOn,
			}
			if g, ok := groups[o.ListingID]; ok {
				rec.SourceTags = g.allTags()
				rec.Action = tagAction(o.ListingID, snap, g)
				delete(groups, o.ListingID) // consumed; no separate tag rec
			} else {
				rec.Action = fmt.Sprintf("%s (%s)", o.Name, o.Notes)
			}
			claim(rec, o.Name)

		case len(o.DependsOn) > 0:
			claim(Recommendation{
				ListingID:           "",
				Metric:              metricForCategory(o.Category),
				Action:              fmt.Sprintf("%s, once its prerequisites complete (%s)", o.Name, o.Notes),
				Phase:               PhaseScale,
				SourceOpportunities: []string{o.ID},
				DependsOn:           o.DependsOn,
			}, o.Name)

		default:
			claim(Recommendation{
				ListingID:           "",
				Metric:              metricForCategory(o.Category),
				Action:              fmt.Sprintf("%s (%s)", o.Name, o.Notes),
				Phase:               PhaseExpand,
				SourceOpportunities: []string{o.ID},
			}, o.Name)
		}
	}

	// Remaining tag work: listings whose pending edits had no backing
	// opportunity, worst health first.
	for _, id := range orderByHealth(groups, snap) {
		g := groups[id]
		metric := MetricSEO
		phase := PhaseOptimize
		if g.edits() == 0 {
			// Pure additions lift discovery rather than fix the page.
			metric = MetricVisibility
			phase = PhaseExpand
		}
		claim(Recommendation{
			ListingID:  id,
			Metric:     metric,
			Action:     tagAction(id, snap, g),
			Phase:      phase,
			SourceTags: g.allTags(),
		}, "tag work on "+id)
	}

	// One health recommendation per struggling listing: its worst
	// HIGH-severity component, skipping slots already claimed.
	recs, diags = appendHealthRecs(recs, diags, taken, snap)

	if len(recs) > cfg.RecommendationCap {
		diags = append(diags, listing.Diagnostic{
			Stage:  "synthesize",
			Reason: fmt.Sprintf("%d recommendations over the cap of %d dropped", len(recs)-cfg.RecommendationCap, cfg.RecommendationCap),
		})
		recs = recs[:cfg.RecommendationCap]
	}

	return recs, buildRoadmap(recs), diags
}

// groupTagWork buckets non-keep candidates by listing.
func groupTagWork(keywords []KeywordCandidate) map[string]*tagGroup {
	groups := make(map[string]*tagGroup)
	for _, k := range keywords {
		if k.Action == ActionKeep {
			continue
		}
		g := groups[k.ListingID]
		if g == nil {
			g = &tagGroup{listingID: k.ListingID}
			groups[k.ListingID] = g
		}
		switch k.Action {
		case ActionReplace:
			g.replaces = append(g.replaces, k.Tag)
		case ActionRemove:
			g.removes = append(g.removes, k.Tag)
		case ActionAdd:
			g.adds = append(g.adds, k.Tag)
		}
	}
	return groups
}

func (g *tagGroup) allTags() []string {
	out := make([]string, 0, len(g.replaces)+len(g.removes)+len(g.adds))
	out = append(out, g.replaces...)
	out = append(out, g.removes...)
	out = append(out, g.adds...)
	sort.Strings(out)
	return out
}

// tagAction renders one listing's tag work as a single action sentence.
func tagAction(id string, snap *metrics.Snapshot, g *tagGroup) string {
	name := id
	if snap != nil {
		if card, ok := snap.Listings[id]; ok && card.Title != "" {
			name = card.Title
		}
	}
	var parts []string
	if len(g.replaces) > 0 {
		parts = append(parts, "replace "+joinTags(g.replaces))
	}
	if len(g.removes) > 0 {
		parts = append(parts, "remove "+joinTags(g.removes))
	}
	if len(g.adds) > 0 {
		parts = append(parts, "add "+joinTags(g.adds))
	}
	return fmt.Sprintf("Refresh tags on %q: %s", name, strings.Join(parts, "; "))
}

// joinTags lists up to four tags and summarizes the rest.
func joinTags(tags []string) string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	if len(sorted) <= 4 {
		return strings.Join(sorted, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(sorted[:4], ", "), len(sorted)-4)
}

// orderByHealth sorts group keys worst health first, falling back to ID
// order when no snapshot data exists.
func orderByHealth(groups map[string]*tagGroup, snap *metrics.Snapshot) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		hi, hj := 101.0, 101.0
		if snap != nil {
			if c, ok := snap.Listings[ids[i]]; ok {
				hi = c.HealthScore
			}
			if c, ok := snap.Listings[ids[j]]; ok {
				hj = c.HealthScore
			}
		}
		if hi != hj {
			return hi < hj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// appendHealthRecs adds one recommendation per listing whose worst health
// component reached HIGH severity.
func appendHealthRecs(recs []Recommendation, diags []listing.Diagnostic, taken map[string]bool, snap *metrics.Snapshot) ([]Recommendation, []listing.Diagnostic) {
	if snap == nil {
		return recs, diags
	}

	ids := make([]string, 0, len(snap.Listings))
	for id := range snap.Listings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		hi, hj := snap.Listings[ids[i]].HealthScore, snap.Listings[ids[j]].HealthScore
		if hi != hj {
			return hi < hj
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		card := snap.Listings[id]
		worst := worstComponent(card)
		if worst == nil {
			continue
		}
		key := id + "|" + worst.Key
		if taken[key] {
			continue
		}
		taken[key] = true
		name := card.Title
		if name == "" {
			name = id
		}
		recs = append(recs, Recommendation{
			ID:        uuid.New().String(),
			ListingID: id,
			Metric:    TargetMetric(worst.Key),
			Action:    fmt.Sprintf("Address %s on %q: %s", strings.ToLower(worst.Name), name, worst.Note),
			Phase:     PhaseOptimize,
		})
	}
	return recs, diags
}

// worstComponent picks the lowest-scoring HIGH-severity component.
func worstComponent(card *metrics.Scorecard) *metrics.ComponentScore {
	var worst *metrics.ComponentScore
	for i := range card.Breakdown {
		cs := &card.Breakdown[i]
		if cs.Severity != metrics.SeverityHigh {
			continue
		}
		if worst == nil || cs.Score < worst.Score {
			worst = cs
		}
	}
	return worst
}

// metricForCategory maps shop-level opportunity categories onto the metric
// they are expected to move.
func metricForCategory(c Category) TargetMetric {
	switch c {
	case CategoryProduct:
		return MetricRevenue
	case CategoryTrend:
		return MetricVisibility
	default:
		return MetricSEO
	}
}

// buildRoadmap groups the final recommendations into the three strategic
// phases, preserving rank order. All three phases always appear so the
// report shape is stable.
func buildRoadmap(recs []Recommendation) Roadmap {
	rm := Roadmap{Phases: []RoadmapPhase{
		{Phase: PhaseOptimize, Horizon: horizonOptimize},
		{Phase: PhaseExpand, Horizon: horizonExpand},
		{Phase: PhaseScale, Horizon: horizonScale},
	}}
	for _, rec := range recs {
		for i := range rm.Phases {
			if rm.Phases[i].Phase == rec.Phase {
				rm.Phases[i].Recommendations = append(rm.Phases[i].Recommendations, rec.ID)
			}
		}
	}
	return rm
}

func labelOrShop(listingID string) string {
	if listingID == "" {
		return "shop"
	}
	return listingID
}
