// Package surface defines output rendering interfaces for ShopScope results.
// Implementations handle different output targets: terminal, Markdown report, JSON.
package surface

import (
	"io"

	"github.com/shopscope/shopscope/pkg/scoring"
)

// Renderer produces formatted output from an analysis result.
type Renderer interface {
	// Render writes the formatted result to the writer.
	Render(w io.Writer, result *scoring.Result) error
}

// ReportData holds the data needed to publish a daily-check report.
type ReportData struct {
	Title   string `json:"title"`
	Summary string `json:"summary"` // Markdown body
	Status  string `json:"status"`  // healthy, watch, act
}
