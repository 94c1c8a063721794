package surface_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
	"github.com/shopscope/shopscope/pkg/surface"
)

func sampleResult() *scoring.Result {
	return &scoring.Result{
		RunID:    "run-1",
		ShopName: "clayworks",
		Snapshot: &metrics.Snapshot{
			ID:       "snap-2",
			ShopName: "clayworks",
			Totals: metrics.Scorecard{
				Views:       1500,
				Visits:      99,
				Orders:      6,
				Revenue:     168,
				CTR:         metrics.NewRate(99, 1500),
				HealthScore: 61.7,
				HealthGrade: "C",
				SEOScore:    29,
			},
			Stats: metrics.RollupStats{ListingCount: 2, ActiveListings: 2},
		},
		Delta: &metrics.Delta{
			Summary: "Needs Attention",
			Series: []metrics.SeriesDelta{
				{Key: "views", Name: "Views", Base: 1900, Head: 1500, Growth: -0.21, Comparable: true, Status: metrics.StatusRed, Alert: true},
				{Key: "revenue", Name: "Revenue", Base: 160, Head: 168, Growth: 0.05, Comparable: true, Status: metrics.StatusGreen},
				{Key: "ctr", Name: "Click-through rate", Comparable: false, Reason: "no data in base period"},
			},
			Alerts: []string{"Views fell 21.0% against the previous period"},
		},
		Keywords: []scoring.KeywordCandidate{
			{ListingID: "mug-1", Tag: "handmade ceramic coffee mug", Action: scoring.ActionReplace, Reason: "tag is 27 characters, over the 20-character limit"},
			{ListingID: "mug-1", Tag: "beautiful", Action: scoring.ActionRemove, Reason: "subjective quality descriptor; buyers do not search for it"},
			{ListingID: "mug-1", Tag: "ceramic", Action: scoring.ActionKeep, Reason: "performing within expectations"},
		},
		Opportunities: []scoring.Opportunity{
			{ID: "opp-1", Name: "Develop a ceramic planter product", Category: scoring.CategoryProduct, Tier: scoring.TierImmediate, Priority: 37.8, Timeline: "Quick Win"},
			{ID: "opp-2", Name: `Optimize listing "Blue Mug"`, Category: scoring.CategorySEO, ListingID: "mug-1", Tier: scoring.TierFillIn, Priority: 4.6, Timeline: "Quick Win"},
		},
		Recommendations: []scoring.Recommendation{
			{ID: "rec-1", ListingID: "mug-1", Metric: scoring.MetricSEO, Phase: scoring.PhaseOptimize,
				Action: `Refresh tags on "Blue Mug": replace handmade ceramic coffee mug; remove beautiful`},
		},
		Roadmap: scoring.Roadmap{Phases: []scoring.RoadmapPhase{
			{Phase: scoring.PhaseOptimize, Horizon: "weeks 1-2", Recommendations: []string{"rec-1"}},
			{Phase: scoring.PhaseExpand, Horizon: "weeks 3-6"},
			{Phase: scoring.PhaseScale, Horizon: "months 2-3"},
		}},
		Diagnostics: []listing.Diagnostic{
			{Stage: "metrics", Subject: "broken-1", Reason: "price must be positive"},
		},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.Render(&buf, sampleResult())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()

	// Check header
	if !strings.Contains(output, "Health C") {
		t.Error("expected Health C in output")
	}
	if !strings.Contains(output, "(61.7)") {
		t.Error("expected the health score in output")
	}
	if !strings.Contains(output, "2 listings") {
		t.Error("expected listing count in output")
	}

	// Check period movement
	if !strings.Contains(output, "Views -21.0%") {
		t.Error("expected views decline in output")
	}
	if !strings.Contains(output, "ALERT") {
		t.Error("expected alert marker on the views series")
	}
	if !strings.Contains(output, "no data in base period") {
		t.Error("expected the non-comparable series reason")
	}

	// Check tag work
	if !strings.Contains(output, "Tag work:") {
		t.Error("expected Tag work section")
	}
	if !strings.Contains(output, "[replace] mug-1") {
		t.Error("expected replace line for mug-1")
	}
	if strings.Contains(output, "performing within expectations") {
		t.Error("keep candidates should not appear in tag work")
	}

	// Check opportunities
	if !strings.Contains(output, "P1 immediate") {
		t.Error("expected P1 tier label")
	}
	if !strings.Contains(output, "RICE 37.8") {
		t.Error("expected RICE score in output")
	}

	// Check recommendations
	if !strings.Contains(output, "Recommended next steps:") {
		t.Error("expected recommendations section")
	}
	if !strings.Contains(output, "[optimize]") {
		t.Error("expected phase marker on recommendation")
	}

	// Check diagnostics
	if !strings.Contains(output, "metrics (broken-1): price must be positive") {
		t.Error("expected diagnostic note")
	}
}

func TestTerminalRenderer_NoRecommendations(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	result := &scoring.Result{
		ShopName: "clayworks",
		Snapshot: &metrics.Snapshot{
			Totals: metrics.Scorecard{HealthGrade: "A", HealthScore: 100},
		},
	}

	err := r.Render(&buf, result)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No recommendations") {
		t.Error("expected 'No recommendations' message")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.Render(&buf, sampleResult())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}
