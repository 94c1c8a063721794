package surface_test

import (
	"strings"
	"testing"

	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
	"github.com/shopscope/shopscope/pkg/surface"
)

func TestBuildReport(t *testing.T) {
	r := &surface.MarkdownRenderer{}
	data := r.BuildReport(sampleResult())

	if !strings.Contains(data.Title, "clayworks") {
		t.Errorf("title = %q, want the shop name", data.Title)
	}
	// a red series with an alert forces the act status
	if data.Status != "act" {
		t.Errorf("status = %q, want act", data.Status)
	}

	for _, want := range []string{
		"### Shop",
		"| Revenue | $168.00 |",
		"### Versus previous period — Needs Attention",
		":red_circle:",
		"### Opportunities",
		"**Develop a ceramic planter product**",
		"### Next steps",
		"**optimize** (weeks 1-2)",
	} {
		if !strings.Contains(data.Summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestResultStatus(t *testing.T) {
	base := func(grade string) *scoring.Result {
		return &scoring.Result{
			ShopName: "clayworks",
			Snapshot: &metrics.Snapshot{Totals: metrics.Scorecard{HealthGrade: grade}},
		}
	}

	if got := (&surface.MarkdownRenderer{}).BuildReport(base("A")).Status; got != "healthy" {
		t.Errorf("grade A status = %q, want healthy", got)
	}
	if got := (&surface.MarkdownRenderer{}).BuildReport(base("C")).Status; got != "watch" {
		t.Errorf("grade C status = %q, want watch", got)
	}
	if got := (&surface.MarkdownRenderer{}).BuildReport(base("F")).Status; got != "act" {
		t.Errorf("grade F status = %q, want act", got)
	}

	slipping := base("B")
	slipping.Delta = &metrics.Delta{Series: []metrics.SeriesDelta{
		{Key: "views", Name: "Views", Growth: -0.08, Comparable: true, Status: metrics.StatusYellow},
	}}
	if got := (&surface.MarkdownRenderer{}).BuildReport(slipping).Status; got != "watch" {
		t.Errorf("yellow movement status = %q, want watch", got)
	}
}
