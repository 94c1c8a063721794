package scoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
)

// Input carries everything one analysis run consumes. Export is required;
// the feeds and the prior snapshot are optional and their absence narrows
// the output rather than failing the run.
type Input struct {
	Export  *listing.Export
	Stats   listing.TagStats
	Trends  []listing.TrendingKeyword
	Profile *listing.SellerProfile

	// Prior enables period-over-period deltas when present.
	Prior *metrics.Snapshot
}

// Pipeline wires the full analysis: descriptive metrics, keyword scoring,
// opportunity scoring and recommendation synthesis. Configuration is
// validated once at construction so a bad weight table cannot surface
// halfway through a run.
type Pipeline struct {
	cfg    Config
	engine *metrics.Engine
	now    func() time.Time
}

// NewPipeline validates cfg and builds the metric engine from its weights
// and targets. Invalid configuration is rejected here, before any data is
// touched.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		engine: metrics.NewEngine(metrics.DefaultComponents(cfg.Weights, cfg.Targets)...),
		now:    time.Now,
	}, nil
}

// Run executes one analysis pass over in and returns the assembled result.
// Per-listing failures are isolated as diagnostics; Run errors only when
// the export as a whole is unusable.
func (p *Pipeline) Run(in Input) (*Result, error) {
	if in.Export == nil {
		return nil, &listing.InvalidInputError{Field: "export", Reason: "must not be nil"}
	}

	res := &Result{
		RunID:       uuid.New().String(),
		ShopName:    in.Export.ShopName,
		GeneratedAt: p.now().UTC(),
	}

	snap, diags, err := metrics.Aggregate(in.Export, p.engine)
	if err != nil {
		return nil, fmt.Errorf("aggregating export: %w", err)
	}
	res.Snapshot = snap
	res.Diagnostics = append(res.Diagnostics, diags...)

	if in.Prior != nil {
		delta, err := metrics.ComputeDelta(in.Prior, snap)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, listing.Diagnostic{
				Stage:  "delta",
				Reason: fmt.Sprintf("period comparison skipped: %v", err),
			})
		} else {
			res.Delta = delta
		}
	}

	keywords, kwDiags := ScoreKeywords(in.Export, in.Stats, in.Trends, p.cfg)
	res.Keywords = keywords
	res.Diagnostics = append(res.Diagnostics, kwDiags...)

	opps := p.deriveOpportunities(in, snap, keywords)
	scored, oppDiags := ScoreOpportunities(opps, p.cfg)
	res.Opportunities = scored
	res.Diagnostics = append(res.Diagnostics, oppDiags...)

	byRICE := make([]Opportunity, len(scored))
	copy(byRICE, scored)
	SortByRICE(byRICE)
	res.ByRICE = make([]string, len(byRICE))
	for i, o := range byRICE {
		res.ByRICE[i] = o.ID
	}

	recs, roadmap, synDiags := Synthesize(keywords, scored, snap, p.cfg)
	res.Recommendations = recs
	res.Roadmap = roadmap
	res.Diagnostics = append(res.Diagnostics, synDiags...)

	return res, nil
}

// Aggregate runs only the descriptive-metrics stage over an export.
// Archiving a period baseline does not require the scoring passes.
func (p *Pipeline) Aggregate(exp *listing.Export) (*metrics.Snapshot, []listing.Diagnostic, error) {
	return metrics.Aggregate(exp, p.engine)
}

// deriveOpportunities builds the raw opportunity list from trend feeds and
// from listings whose own numbers call for work.
func (p *Pipeline) deriveOpportunities(in Input, snap *metrics.Snapshot, keywords []KeywordCandidate) []Opportunity {
	now := p.now().UTC()
	var opps []Opportunity
	for _, tk := range in.Trends {
		opps = append(opps, DeriveFromTrend(tk, in.Profile, in.Export, now))
	}
	opps = append(opps, DeriveFromFindings(snap, keywords, now)...)
	return opps
}
