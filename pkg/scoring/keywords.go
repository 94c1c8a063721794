package scoring

import (
	"fmt"
	"sort"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

// ScoreKeywords classifies every tag of every listing and proposes additions
// from the trend feed. The pass is deterministic: listings by ID, tags in
// listing order, trends by keyword. Rules are checked in precedence order
// and the first match wins, so each tag receives exactly one candidate.
func ScoreKeywords(exp *listing.Export, stats listing.TagStats, trends []listing.TrendingKeyword, cfg Config) ([]KeywordCandidate, []listing.Diagnostic) {
	if exp == nil || len(exp.Listings) == 0 {
		return nil, []listing.Diagnostic{{Stage: "keywords", Reason: "no listings to score"}}
	}

	var diags []listing.Diagnostic
	ids := listing.SortedIDs(exp.Listings)
	index := listing.TagIndex(exp.Listings)
	perf := tagPerformance(exp, stats, index)
	ctrs := listingCTRs(exp)

	duplicates := duplicateLosers(index, ctrs)
	overused := overusedTags(index, ctrs, len(ids))

	sortedTrends := make([]listing.TrendingKeyword, len(trends))
	copy(sortedTrends, trends)
	sort.Slice(sortedTrends, func(i, j int) bool { return sortedTrends[i].Keyword < sortedTrends[j].Keyword })

	var out []KeywordCandidate
	for _, id := range ids {
		l := exp.Listings[id]
		if len(l.Tags) == 0 {
			diags = append(diags, listing.Diagnostic{Stage: "keywords", Subject: id, Reason: "listing has no tags; proposing additions only"})
		}
		atMax := len(l.Tags) >= cfg.MaxTags

		for _, tag := range l.Tags {
			p := perf[tag]
			cand := KeywordCandidate{ListingID: id, Tag: tag, Impressions: p.Impressions, Clicks: p.Clicks}
			key := id + "|" + tag
			switch {
			case len(tag) > cfg.MaxTagLength:
				cand.Action = ActionReplace
				cand.Reason = fmt.Sprintf("tag is %d characters, over the %d-character limit", len(tag), cfg.MaxTagLength)
			case qualityDescriptors[tag]:
				cand.Action = ActionRemove
				cand.Reason = "subjective quality descriptor; buyers do not search for it"
			case atMax && p.Impressions == 0:
				cand.Action = ActionRemove
				cand.Reason = fmt.Sprintf("no impressions over the window with all %d tag slots in use", cfg.MaxTags)
			case duplicates[key] != "":
				cand.Action = ActionReplace
				cand.OutperformedBy = duplicates[key]
				cand.Reason = fmt.Sprintf("same tag performs far better on listing %s; differentiate this one", duplicates[key])
			case overused[key] > 0:
				cand.Action = ActionReplace
				cand.Reason = fmt.Sprintf("tag appears on %.0f%% of listings; diversify tag spread", overused[key]*100)
			default:
				cand.Action = ActionKeep
				cand.Reason = "performing within expectations"
			}
			out = append(out, cand)
		}

		// Additions from the trend feed, one per free tag slot.
		free := cfg.MaxTags - len(l.Tags)
		if free <= 0 {
			continue
		}
		have := l.TagSet()
		for _, tk := range sortedTrends {
			if free == 0 {
				break
			}
			kw := listing.NormalizeTag(tk.Keyword)
			if kw == "" || have[kw] || len(kw) > cfg.MaxTagLength {
				continue
			}
			have[kw] = true
			free--
			p := perf[kw]
			out = append(out, KeywordCandidate{
				ListingID:   id,
				Tag:         kw,
				Action:      ActionAdd,
				Reason:      fmt.Sprintf("trending in %s over the last %d days", tk.Category, tk.RecencyWindowDays),
				Impressions: p.Impressions,
				Clicks:      p.Clicks,
				Trending:    true,
			})
		}
	}

	return out, diags
}

// tagPerformance resolves each tag's window performance: the search-analytics
// entry when one exists, otherwise views and visits attributed from the
// listings carrying the tag.
func tagPerformance(exp *listing.Export, stats listing.TagStats, index map[string][]string) map[string]listing.TagPerformance {
	perf := make(map[string]listing.TagPerformance, len(index))
	for tag, carriers := range index {
		if p, ok := stats[tag]; ok {
			perf[tag] = p
			continue
		}
		var agg listing.TagPerformance
		for _, id := range carriers {
			agg.Impressions += exp.Listings[id].Views
			agg.Clicks += exp.Listings[id].Visits
		}
		perf[tag] = agg
	}
	for tag, p := range stats {
		if _, ok := perf[tag]; !ok {
			perf[tag] = p
		}
	}
	return perf
}

// listingCTRs precomputes each listing's click-through rate once.
func listingCTRs(exp *listing.Export) map[string]metrics.Rate {
	out := make(map[string]metrics.Rate, len(exp.Listings))
	for id, l := range exp.Listings {
		out[id] = metrics.NewRate(float64(l.Visits), float64(l.Views))
	}
	return out
}

// duplicateLosers finds tags shared across listings where one listing
// clearly outperforms another on CTR. It maps "loserID|tag" to the winning
// listing's ID. Listings without CTR data are left alone; outperforming
// nothing is not a signal.
func duplicateLosers(index map[string][]string, ctrs map[string]metrics.Rate) map[string]string {
	losers := make(map[string]string)
	for tag, carriers := range index {
		if len(carriers) < 2 {
			continue
		}
		best := bestPerformer(carriers, ctrs)
		if best == "" || ctrs[best].Value == 0 {
			continue
		}
		for _, id := range carriers {
			if id == best {
				continue
			}
			r := ctrs[id]
			if !r.Valid {
				continue
			}
			if ctrs[best].Value >= duplicateOutperformFactor*r.Value && ctrs[best].Value > r.Value {
				losers[id+"|"+tag] = best
			}
		}
	}
	return losers
}

// overusedTags flags tags carried by most of a sufficiently large shop.
// Every carrier except the best performer is flagged with the tag's share.
func overusedTags(index map[string][]string, ctrs map[string]metrics.Rate, listingCount int) map[string]float64 {
	flagged := make(map[string]float64)
	if listingCount < overuseMinListings {
		return flagged
	}
	for tag, carriers := range index {
		share := float64(len(carriers)) / float64(listingCount)
		if share <= overuseShareThreshold {
			continue
		}
		best := bestPerformer(carriers, ctrs)
		for _, id := range carriers {
			if id == best {
				continue
			}
			flagged[id+"|"+tag] = share
		}
	}
	return flagged
}

// bestPerformer picks the carrier with the highest valid CTR. Carriers come
// in lexical order, so ties resolve to the first and stay stable.
func bestPerformer(carriers []string, ctrs map[string]metrics.Rate) string {
	best := ""
	for _, id := range carriers {
		r := ctrs[id]
		if !r.Valid {
			continue
		}
		if best == "" || r.Value > ctrs[best].Value {
			best = id
		}
	}
	return best
}
