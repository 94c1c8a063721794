package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
)

// TerminalRenderer renders an analysis result as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func gradeColor(grade string) string {
	if noColor() {
		return ""
	}
	switch grade {
	case "A", "B":
		return colorGreen
	case "C":
		return colorYellow
	case "D", "F":
		return colorRed
	default:
		return ""
	}
}

func statusColor(status metrics.TrafficStatus) string {
	if noColor() {
		return ""
	}
	switch status {
	case metrics.StatusGreen:
		return colorGreen
	case metrics.StatusYellow:
		return colorYellow
	case metrics.StatusRed:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, result *scoring.Result) error {
	totals := result.Snapshot.Totals
	gc := gradeColor(totals.HealthGrade)

	// Header
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("ShopScope: %s — Health %s (%.1f)",
			result.ShopName, colored(totals.HealthGrade, gc), totals.HealthScore)))

	// Rollup
	fmt.Fprintf(w, "Analyzed: %d listings / %d views / %d orders / $%.2f revenue\n\n",
		result.Snapshot.Stats.ListingCount, totals.Views, totals.Orders, totals.Revenue)

	// Period movement
	if result.Delta != nil {
		fmt.Fprintf(w, "Versus previous period (%s):\n", result.Delta.Summary)
		for _, s := range result.Delta.Series {
			if !s.Comparable {
				fmt.Fprintf(w, "  %s %s — %s\n", dim("○"), s.Name, dim(s.Reason))
				continue
			}
			fmt.Fprintf(w, "  %s %s %+.1f%%", colored("●", statusColor(s.Status)), s.Name, s.Growth*100)
			if s.Alert {
				fmt.Fprintf(w, " %s", colored("ALERT", colorRed))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	// Tag work
	edits := nonKeepCandidates(result.Keywords)
	if len(edits) > 0 {
		fmt.Fprintln(w, "Tag work:")
		maxEdits := 5
		if len(edits) < maxEdits {
			maxEdits = len(edits)
		}
		for i := 0; i < maxEdits; i++ {
			c := edits[i]
			fmt.Fprintf(w, "  [%s] %s: %s — %s\n", c.Action, c.ListingID, bold(c.Tag), c.Reason)
		}
		if len(edits) > 5 {
			fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("... and %d more", len(edits)-5)))
		}
		fmt.Fprintln(w)
	}

	// Opportunities, in matrix order
	if len(result.Opportunities) > 0 {
		fmt.Fprintln(w, "Opportunities:")
		maxOpps := 10
		if len(result.Opportunities) < maxOpps {
			maxOpps = len(result.Opportunities)
		}
		for i := 0; i < maxOpps; i++ {
			o := result.Opportunities[i]
			fmt.Fprintf(w, "  %-13s %s %s\n",
				o.Tier.Label(), bold(o.Name),
				dim(fmt.Sprintf("(RICE %.1f, %s)", o.Priority, o.Timeline)))
		}
		if len(result.Opportunities) > 10 {
			fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("... and %d more", len(result.Opportunities)-10)))
		}
		fmt.Fprintln(w)
	}

	// Recommendations
	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommended next steps:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  • %s\n", bold(fmt.Sprintf("[%s]", rec.Phase)))
			for _, line := range wrapText(rec.Action, 70) {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "No recommendations.")
		fmt.Fprintln(w)
	}

	// Diagnostics
	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w, "Notes:")
		for _, d := range result.Diagnostics {
			if d.Subject != "" {
				fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("%s (%s): %s", d.Stage, d.Subject, d.Reason)))
			} else {
				fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("%s: %s", d.Stage, d.Reason)))
			}
		}
	}

	return nil
}

func nonKeepCandidates(cands []scoring.KeywordCandidate) []scoring.KeywordCandidate {
	var out []scoring.KeywordCandidate
	for _, c := range cands {
		if c.Action != scoring.ActionKeep {
			out = append(out, c)
		}
	}
	return out
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
