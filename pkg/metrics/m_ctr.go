package metrics

import "fmt"

// CTRComponent scores the click-through rate (visits per view) against its
// benchmark. A weak CTR with healthy views points at thumbnails and titles
// rather than search placement.
type CTRComponent struct {
	Weight float64 // share of the health score, 0..1
	Target float64 // CTR considered fully healthy
}

func (c *CTRComponent) Key() string  { return "ctr" }
func (c *CTRComponent) Name() string { return "Click-through rate" }

func (c *CTRComponent) Evaluate(card *Scorecard) ComponentScore {
	r := card.CTR
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
	case ratio < 0.5:
		cs.Severity = SeverityHigh
		cs.Note = fmt.Sprintf("CTR %s is under half the %.1f%% benchmark; %d views produced %d visits", r, c.Target*100, card.Views, card.Visits)
	case ratio < 1:
		cs.Severity = SeverityMedium
		cs.Note = fmt.Sprintf("CTR %s below the %.1f%% benchmark", r, c.Target*100)
	}

	return cs
}
