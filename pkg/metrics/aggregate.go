package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/shopscope/shopscope/pkg/listing"
)

// Aggregate derives one period's snapshot from an export: a scorecard per
// valid listing plus the shop-wide rollup. Listings that fail validation are
// skipped and recorded as diagnostics; they never abort the run.
func Aggregate(exp *listing.Export, eng *Engine) (*Snapshot, []listing.Diagnostic, error) {
	if exp == nil {
		return nil, nil, fmt.Errorf("export is nil")
	}
	if eng == nil {
		return nil, nil, fmt.Errorf("engine is nil")
	}

	snap := &Snapshot{
		ID:         uuid.New().String(),
		ShopName:   exp.ShopName,
		Listings:   make(map[string]*Scorecard),
		RecordedAt: time.Now().UTC(),
	}

	// First pass: validate and sum counters so per-listing visibility can be
	// computed against the shop total.
	var diags []listing.Diagnostic
	var valid []*listing.Listing
	totals := Scorecard{}
	for _, id := range listing.SortedIDs(exp.Listings) {
		l := exp.Listings[id]
		if err := l.Validate(); err != nil {
			diags = append(diags, listing.Diagnostic{Stage: "aggregate", Subject: id, Reason: err.Error()})
			snap.Stats.SkippedListings++
			continue
		}
		valid = append(valid, l)
		totals.Views += l.Views
		totals.Visits += l.Visits
		totals.Favorites += l.Favorites
		totals.Orders += l.Orders
		totals.Revenue += l.Revenue
	}

	var healthSum float64
	var seoSum, active int
	for _, l := range valid {
		card := &Scorecard{
			ListingID: l.ID,
			Title:     l.Title,
			Views:     l.Views,
			Visits:    l.Visits,
			Favorites: l.Favorites,
			Orders:    l.Orders,
			Revenue:   l.Revenue,

			CTR:            NewRate(float64(l.Visits), float64(l.Views)),
			ConversionRate: NewRate(float64(l.Orders), float64(l.Visits)),
			FavoriteRate:   NewRate(float64(l.Favorites), float64(l.Views)),
			VisibilityRate: NewRate(float64(l.Views), float64(totals.Views)),
			SEOScore:       SEOScore(l),
		}
		eng.Score(card)
		snap.Listings[l.ID] = card
		healthSum += card.HealthScore
		seoSum += card.SEOScore
		if l.Views > 0 {
			active++
		}
	}

	totals.CTR = NewRate(float64(totals.Visits), float64(totals.Views))
	totals.ConversionRate = NewRate(float64(totals.Orders), float64(totals.Visits))
	totals.FavoriteRate = NewRate(float64(totals.Favorites), float64(totals.Views))
	// Shop-wide visibility reads as coverage: the share of listings that get
	// any search traffic at all.
	totals.VisibilityRate = NewRate(float64(active), float64(len(valid)))
	if len(valid) > 0 {
		totals.SEOScore = int(math.Round(float64(seoSum) / float64(len(valid))))
	}
	eng.Score(&totals)
	snap.Totals = totals

	snap.Stats.ListingCount = len(valid)
	snap.Stats.ActiveListings = active
	if len(valid) > 0 {
		snap.Stats.AvgListingHealth = healthSum / float64(len(valid))
	} else {
		diags = append(diags, listing.Diagnostic{Stage: "aggregate", Subject: exp.ShopName, Reason: "no valid listings in export"})
	}

	return snap, diags, nil
}
