package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
)

// MarkdownRenderer produces the daily-check report from an analysis result.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *scoring.Result) error {
	data := r.BuildReport(result)
	if _, err := io.WriteString(w, data.Summary); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n_Status: %s_\n", data.Status)
	return err
}

// BuildReport creates the ReportData struct from an analysis result.
func (r *MarkdownRenderer) BuildReport(result *scoring.Result) ReportData {
	totals := result.Snapshot.Totals
	title := fmt.Sprintf("ShopScope: %s — Health %s (%.1f)", result.ShopName, totals.HealthGrade, totals.HealthScore)

	return ReportData{
		Title:   title,
		Summary: buildMarkdownSummary(result),
		Status:  resultStatus(result),
	}
}

// resultStatus condenses the run into a daily-check status: act on a failing
// grade or any alert, watch a middling grade or yellow movement, otherwise
// healthy.
func resultStatus(result *scoring.Result) string {
	grade := result.Snapshot.Totals.HealthGrade
	if grade == "D" || grade == "F" {
		return "act"
	}
	if result.Delta != nil {
		if len(result.Delta.Alerts) > 0 {
			return "act"
		}
		for _, s := range result.Delta.Series {
			if s.Comparable && s.Status == metrics.StatusRed {
				return "act"
			}
		}
		for _, s := range result.Delta.Series {
			if s.Comparable && s.Status == metrics.StatusYellow {
				return "watch"
			}
		}
	}
	if grade == "C" {
		return "watch"
	}
	return "healthy"
}

func buildMarkdownSummary(result *scoring.Result) string {
	var sb strings.Builder
	totals := result.Snapshot.Totals

	sb.WriteString(fmt.Sprintf("## %s — Health %s (%.1f)\n\n", result.ShopName, totals.HealthGrade, totals.HealthScore))

	// Shop rollup
	sb.WriteString("### Shop\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Listings | %d |\n", result.Snapshot.Stats.ListingCount))
	sb.WriteString(fmt.Sprintf("| Views | %d |\n", totals.Views))
	sb.WriteString(fmt.Sprintf("| Visits | %d |\n", totals.Visits))
	sb.WriteString(fmt.Sprintf("| Orders | %d |\n", totals.Orders))
	sb.WriteString(fmt.Sprintf("| Revenue | $%.2f |\n", totals.Revenue))
	sb.WriteString(fmt.Sprintf("| CTR | %s |\n", totals.CTR))
	sb.WriteString(fmt.Sprintf("| Conversion | %s |\n", totals.ConversionRate))
	sb.WriteString(fmt.Sprintf("| SEO completeness | %d |\n", totals.SEOScore))
	sb.WriteString("\n")

	// Period movement
	if result.Delta != nil {
		sb.WriteString(fmt.Sprintf("### Versus previous period — %s\n\n", result.Delta.Summary))
		sb.WriteString("| Metric | Change | Status |\n|--------|--------|--------|\n")
		for _, s := range result.Delta.Series {
			if !s.Comparable {
				sb.WriteString(fmt.Sprintf("| %s | — | %s |\n", s.Name, s.Reason))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %+.1f%% | %s %s |\n", s.Name, s.Growth*100, statusIcon(s.Status), s.Status))
		}
		sb.WriteString("\n")
		for _, a := range result.Delta.Alerts {
			sb.WriteString(fmt.Sprintf("- :rotating_light: %s\n", a))
		}
		if len(result.Delta.Alerts) > 0 {
			sb.WriteString("\n")
		}
	}

	// Opportunities (max 5)
	if len(result.Opportunities) > 0 {
		sb.WriteString("### Opportunities\n\n")
		count := 0
		for _, o := range result.Opportunities {
			if count >= 5 {
				sb.WriteString(fmt.Sprintf("_... and %d more opportunities_\n", len(result.Opportunities)-5))
				break
			}
			sb.WriteString(fmt.Sprintf("- **%s** — %s, RICE %.1f, %s\n", o.Name, o.Tier.Label(), o.Priority, o.Timeline))
			count++
		}
		sb.WriteString("\n")
	}

	// Next steps, phase by phase
	if len(result.Recommendations) > 0 {
		sb.WriteString("### Next steps\n\n")
		byID := make(map[string]scoring.Recommendation, len(result.Recommendations))
		for _, rec := range result.Recommendations {
			byID[rec.ID] = rec
		}
		for _, phase := range result.Roadmap.Phases {
			if len(phase.Recommendations) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("**%s** (%s)\n\n", phase.Phase, phase.Horizon))
			for _, id := range phase.Recommendations {
				if rec, ok := byID[id]; ok {
					sb.WriteString(fmt.Sprintf("- %s\n", rec.Action))
				}
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func statusIcon(status metrics.TrafficStatus) string {
	switch status {
	case metrics.StatusGreen:
		return ":green_circle:"
	case metrics.StatusYellow:
		return ":yellow_circle:"
	case metrics.StatusRed:
		return ":red_circle:"
	default:
		return ":white_circle:"
	}
}
