package metrics

import "fmt"

// ConversionComponent scores orders per visit against its benchmark.
type ConversionComponent struct {
	Weight float64 // share of the health score, 0..1
	Target float64 // conversion rate considered fully healthy
	// MinVisitsForAlarm is the visit count above which a zero conversion
	// stops being noise and becomes a finding in its own right.
	MinVisitsForAlarm int
}

func (c *ConversionComponent) Key() string  { return "conversion" }
func (c *ConversionComponent) Name() string { return "Conversion rate" }

func (c *ConversionComponent) Evaluate(card *Scorecard) ComponentScore {
	r := card.ConversionRate
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
	case card.Orders == 0 && card.Visits >= c.MinVisitsForAlarm:
		cs.Severity = SeverityHigh
		cs.Note = fmt.Sprintf("%d visits without a single order; check price and photos", card.Visits)
	case ratio < 0.5:
		cs.Severity = SeverityHigh
		cs.Note = fmt.Sprintf("conversion %s is under half the %.1f%% benchmark", r, c.Target*100)
	case ratio < 1:
		cs.Severity = SeverityMedium
		cs.Note = fmt.Sprintf("conversion %s below the %.1f%% benchmark", r, c.Target*100)
	}

	return cs
}
