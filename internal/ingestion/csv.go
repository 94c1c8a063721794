package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopscope/shopscope/pkg/listing"
)

// maxImageColumns matches the marketplace export format, which carries one
// column per photo slot (IMAGE1 through IMAGE10).
const maxImageColumns = 10

// ParseExport reads a marketplace listings CSV and builds an Export.
// Header resolution is case-insensitive; TITLE and PRICE are required
// columns, everything else is optional. Malformed rows are isolated with a
// diagnostic so one bad record never sinks the whole export.
func ParseExport(r io.Reader, shopName string) (*listing.Export, []listing.Diagnostic, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports pad or trim trailing columns

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("export is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading export header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["TITLE"]; !ok {
		return nil, nil, fmt.Errorf("export has no TITLE column")
	}

	exp := listing.NewExport(shopName)
	var diags []listing.Diagnostic

	line := 1
	for {
		rec, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				diags = append(diags, listing.Diagnostic{
					Stage:   "ingest",
					Subject: fmt.Sprintf("line %d", pe.Line),
					Reason:  err.Error(),
				})
				exp.Stats.RowsSkipped++
				continue
			}
			return nil, nil, fmt.Errorf("reading export: %w", err)
		}

		title := cols.field(rec, "TITLE")
		if title == "" {
			if emptyRow(rec) {
				continue // trailing blank rows are not worth a diagnostic
			}
			diags = append(diags, listing.Diagnostic{
				Stage:   "ingest",
				Subject: fmt.Sprintf("line %d", line),
				Reason:  "row has no title",
			})
			exp.Stats.RowsSkipped++
			continue
		}

		l, err := parseRow(cols, rec, title)
		if err == nil {
			err = exp.Add(l)
		}
		if err != nil {
			diags = append(diags, listing.Diagnostic{Stage: "ingest", Subject: title, Reason: err.Error()})
			exp.Stats.RowsSkipped++
		}
	}

	exp.ComputeStats()
	return exp, diags, nil
}

func parseRow(cols columnIndex, rec []string, title string) (*listing.Listing, error) {
	price, err := floatField(cols, rec, "PRICE")
	if err != nil {
		return nil, err
	}
	views, err := intField(cols, rec, "VIEWS")
	if err != nil {
		return nil, err
	}
	visits, err := intField(cols, rec, "VISITS")
	if err != nil {
		return nil, err
	}
	favorites, err := intField(cols, rec, "FAVORITES")
	if err != nil {
		return nil, err
	}
	orders, err := intField(cols, rec, "ORDERS")
	if err != nil {
		return nil, err
	}
	revenue, err := floatField(cols, rec, "REVENUE")
	if err != nil {
		return nil, err
	}

	id := cols.field(rec, "LISTING_ID")
	if id == "" {
		id = listing.SlugID(title)
	}

	photos := 0
	for i := 1; i <= maxImageColumns; i++ {
		if cols.field(rec, fmt.Sprintf("IMAGE%d", i)) != "" {
			photos++
		}
	}

	return &listing.Listing{
		ID:          id,
		Title:       title,
		Description: cols.field(rec, "DESCRIPTION"),
		Section:     cols.field(rec, "SECTION"),
		Price:       price,
		Tags:        splitTags(cols.field(rec, "TAGS")),
		Photos:      photos,
		Views:       views,
		Visits:      visits,
		Favorites:   favorites,
		Orders:      orders,
		Revenue:     revenue,
	}, nil
}

// ListingStats is one row of a stats export, keyed by listing ID (or title
// slug when the stats file carries no LISTING_ID column).
type ListingStats struct {
	Views     int
	Visits    int
	Favorites int
	Orders    int
	Revenue   float64
}

// ParseStats reads an optional stats CSV. The marketplace reports window
// counters in a separate download from the listings export, so the two are
// merged by listing ID afterwards.
func ParseStats(r io.Reader) (map[string]ListingStats, []listing.Diagnostic, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("stats file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading stats header: %w", err)
	}
	cols := indexColumns(header)
	_, hasID := cols["LISTING_ID"]
	_, hasTitle := cols["TITLE"]
	if !hasID && !hasTitle {
		return nil, nil, fmt.Errorf("stats file has neither LISTING_ID nor TITLE column")
	}

	stats := make(map[string]ListingStats)
	var diags []listing.Diagnostic

	line := 1
	for {
		rec, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				diags = append(diags, listing.Diagnostic{
					Stage:   "ingest",
					Subject: fmt.Sprintf("stats line %d", pe.Line),
					Reason:  err.Error(),
				})
				continue
			}
			return nil, nil, fmt.Errorf("reading stats: %w", err)
		}
		if emptyRow(rec) {
			continue
		}

		id := cols.field(rec, "LISTING_ID")
		if id == "" {
			id = listing.SlugID(cols.field(rec, "TITLE"))
		}
		if id == "" {
			diags = append(diags, listing.Diagnostic{
				Stage:   "ingest",
				Subject: fmt.Sprintf("stats line %d", line),
				Reason:  "row has no listing id or title",
			})
			continue
		}

		row, err := parseStatsRow(cols, rec)
		if err != nil {
			diags = append(diags, listing.Diagnostic{Stage: "ingest", Subject: id, Reason: err.Error()})
			continue
		}
		stats[id] = row
	}

	return stats, diags, nil
}

func parseStatsRow(cols columnIndex, rec []string) (ListingStats, error) {
	var s ListingStats
	var err error
	if s.Views, err = intField(cols, rec, "VIEWS"); err != nil {
		return s, err
	}
	if s.Visits, err = intField(cols, rec, "VISITS"); err != nil {
		return s, err
	}
	if s.Favorites, err = intField(cols, rec, "FAVORITES"); err != nil {
		return s, err
	}
	if s.Orders, err = intField(cols, rec, "ORDERS"); err != nil {
		return s, err
	}
	if s.Revenue, err = floatField(cols, rec, "REVENUE"); err != nil {
		return s, err
	}
	return s, nil
}

// MergeStats overlays stats rows onto the export's listings, matching by
// listing ID first and title slug second. A merge that would leave a listing
// self-contradictory (say visits above views) is rejected with a diagnostic
// and the listing keeps its original counters.
func MergeStats(exp *listing.Export, stats map[string]ListingStats) []listing.Diagnostic {
	var diags []listing.Diagnostic
	for _, id := range listing.SortedIDs(exp.Listings) {
		l := exp.Listings[id]
		s, ok := stats[l.ID]
		if !ok {
			s, ok = stats[listing.SlugID(l.Title)]
		}
		if !ok {
			continue
		}

		merged := *l
		merged.Views = s.Views
		merged.Visits = s.Visits
		merged.Favorites = s.Favorites
		merged.Orders = s.Orders
		merged.Revenue = s.Revenue
		if err := merged.Validate(); err != nil {
			diags = append(diags, listing.Diagnostic{
				Stage:   "ingest",
				Subject: l.ID,
				Reason:  fmt.Sprintf("stats row rejected: %v", err),
			})
			continue
		}
		*l = merged
	}
	return diags
}

// columnIndex maps upper-cased header names to their position.
type columnIndex map[string]int

func (c columnIndex) field(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff") // Excel BOM
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return cols
}

func intField(cols columnIndex, rec []string, name string) (int, error) {
	raw := cols.field(rec, name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &listing.InvalidInputError{Field: strings.ToLower(name), Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return n, nil
}

func floatField(cols columnIndex, rec []string, name string) (float64, error) {
	raw := cols.field(rec, name)
	if raw == "" {
		return 0, nil
	}
	raw = strings.TrimPrefix(raw, "$") // price columns sometimes carry the currency sign
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &listing.InvalidInputError{Field: strings.ToLower(name), Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return f, nil
}

// splitTags breaks a TAGS cell into normalized tags. Exports separate tags
// with commas or pipes depending on the download vintage; a cell without
// either separator is a single tag. Duplicates after normalization collapse
// to the first occurrence.
func splitTags(cell string) []string {
	if cell == "" {
		return nil
	}
	var parts []string
	switch {
	case strings.Contains(cell, ","):
		parts = strings.Split(cell, ",")
	case strings.Contains(cell, "|"):
		parts = strings.Split(cell, "|")
	default:
		parts = []string{cell}
	}

	seen := make(map[string]bool, len(parts))
	var tags []string
	for _, p := range parts {
		t := listing.NormalizeTag(p)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

func emptyRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
