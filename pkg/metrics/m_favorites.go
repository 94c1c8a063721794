package metrics

import "fmt"

// FavoriteComponent scores favorites per view. Favorites are a softer
// appeal signal than orders, so this component never escalates past MEDIUM.
type FavoriteComponent struct {
	Weight float64 // share of the health score, 0..1
	Target float64 // favorite rate considered fully healthy
}

func (c *FavoriteComponent) Key() string  { return "favorites" }
func (c *FavoriteComponent) Name() string { return "Favorite rate" }

func (c *FavoriteComponent) Evaluate(card *Scorecard) ComponentScore {
	r := card.FavoriteRate
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

	if ratio < 1 {
		cs.Severity = SeverityMedium
		cs.Note = fmt.Sprintf("favorite rate %s below the %.1f%% benchmark; %d favorites from %d views", r, c.Target*100, card.Favorites, card.Views)
	}

	return cs
}
