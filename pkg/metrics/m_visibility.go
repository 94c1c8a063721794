package metrics

import "fmt"

// VisibilityComponent scores how much search traffic reaches the subject.
// For a listing the rate is its share of total shop views; for the shop
// rollup it is the fraction of listings receiving any views at all.
type VisibilityComponent struct {
	Weight float64 // share of the health score, 0..1
	Target float64 // share of shop views considered fully visible
}

func (c *VisibilityComponent) Key() string  { return "visibility" }
func (c *VisibilityComponent) Name() string { return "Search visibility" }

func (c *VisibilityComponent) Evaluate(card *Scorecard) ComponentScore {
	r := card.VisibilityRate
	if !r.Valid {
		return insufficientData(c.Key(), c.Name(), r, c.Target)
	}

	ratio := benchmarkRatio(r.Value, c.Target)
	cs := ComponentScore{
		Key:      c.Key(),
		Name:     c.Name(),
		Rate:     r,
		Target:   c.Target,
		Score:    ratio * 100,
		Weighted: ratio * 100 * c.Weight,
		Severity: SeverityLow,
	}

	switch {
	case ratio < 0.25:
		cs.Severity = SeverityHigh
		if card.ListingID != "" {
			cs.Note = fmt.Sprintf("listing draws %s of shop views, nearly invisible in search", r)
		} else {
			cs.Note = fmt.Sprintf("only %s of listings receive any views", r)
		}
	case ratio < 1:
		cs.Severity = SeverityMedium
		cs.Note = fmt.Sprintf("visibility %s below the %.1f%% benchmark", r, c.Target*100)
	}

	return cs
}
