package metrics

// Component is the interface that all health components implement.
type Component interface {
	// Key returns the machine-readable component identifier.
	Key() string
	// Name returns the human-readable component name.
	Name() string
	// Evaluate computes the component's sub-score from the scorecard's rates.
	Evaluate(card *Scorecard) ComponentScore
}

// Engine computes health scores from a configured set of components.
type Engine struct {
	components []Component
}

// NewEngine creates a health engine with the given components.
func NewEngine(components ...Component) *Engine {
	return &Engine{components: components}
}

// Score evaluates all components against the scorecard's rates and fills in
// its health fields. A component whose rate has no data contributes zero
// rather than poisoning the whole score; its breakdown entry says so.
func (e *Engine) Score(card *Scorecard) {
	if card == nil {
		return
	}

	card.Breakdown = make([]ComponentScore, 0, len(e.components))
	var total float64
	for _, c := range e.components {
		cs := c.Evaluate(card)
		card.Breakdown = append(card.Breakdown, cs)
		total += cs.Weighted
	}

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	card.HealthScore = total
	card.HealthGrade = GradeFromHealth(total)
}

// benchmarkRatio maps a rate against its benchmark to the 0..1 range.
func benchmarkRatio(value, target float64) float64 {
	ratio := value / target
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}

// insufficientData is the breakdown entry for a component whose rate has no
// data. Score and weight stay zero; the rate keeps its explicit marker.
func insufficientData(key, name string, r Rate, target float64) ComponentScore {
	return ComponentScore{
		Key:      key,
		Name:     name,
		Rate:     r,
		Target:   target,
		Severity: SeverityInfo,
		Note:     "insufficient data",
	}
}
