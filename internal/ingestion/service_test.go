package ingestion

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
)

const serviceExportCSV = `TITLE,PRICE,TAGS,IMAGE1,IMAGE2,LISTING_ID,VIEWS,VISITS,FAVORITES,ORDERS,REVENUE
Blue Ceramic Mug,28,"ceramic mug, blue glaze, beautiful",a.jpg,b.jpg,mug-1,1200,90,40,6,168
Speckled Bowl,42,"serving bowl, speckled",a.jpg,,bowl-1,300,9,5,0,0
Broken Row,not-a-number,,,,bad-1,1,1,0,0,0
`

const serviceTrendsYAML = `- keyword: pottery gift
  category: home
  search_volume: 4200
  competition: medium
  avg_price: 34
  recency_window_days: 30
`

const serviceProfileYAML = `skills:
  - pottery
  - glazing
preferred_categories:
  - home
`

const serviceTagStatsYAML = `blue glaze:
  impressions: 640
  clicks: 22
`

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	storage := NewLocalStorage(filepath.Join(dir, "archive"))
	pipeline, err := scoring.NewPipeline(scoring.DefaultConfig())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return NewService(storage, pipeline), dir
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceRunArchivesSnapshotAndResult(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	req := RunRequest{
		ShopName:     "clayworks",
		ExportPath:   writeInput(t, dir, "export.csv", serviceExportCSV),
		TrendsPath:   writeInput(t, dir, "trends.yaml", serviceTrendsYAML),
		TagStatsPath: writeInput(t, dir, "tags.yaml", serviceTagStatsYAML),
		ProfilePath:  writeInput(t, dir, "profile.yaml", serviceProfileYAML),
		Label:        "2026-W34",
		Archive:      true,
	}
	res, err := svc.Run(ctx, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.ShopName != "clayworks" || res.RunID == "" {
		t.Errorf("result header = %q / %q", res.ShopName, res.RunID)
	}
	if res.Snapshot.Stats.ListingCount != 2 {
		t.Errorf("listing count = %d, want 2 (bad row isolated)", res.Snapshot.Stats.ListingCount)
	}
	if res.Snapshot.Label != "2026-W34" {
		t.Errorf("snapshot label = %q", res.Snapshot.Label)
	}
	if len(res.Recommendations) == 0 || len(res.Opportunities) == 0 {
		t.Error("expected recommendations and opportunities from the fixture shop")
	}

	// The parse failure surfaces in the result's diagnostics.
	found := false
	for _, d := range res.Diagnostics {
		if d.Stage == "ingest" && d.Subject == "Broken Row" {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want an ingest entry for the broken row", res.Diagnostics)
	}

	// Both blobs land in the archive under their keys.
	snapPath := filepath.Join(dir, "archive", "clayworks", "snapshots", "2026-W34.json")
	if _, err := os.Stat(snapPath); err != nil {
		t.Errorf("archived snapshot: %v", err)
	}
	resPath := filepath.Join(dir, "archive", "clayworks", "results", res.RunID+".json")
	if _, err := os.Stat(resPath); err != nil {
		t.Errorf("archived result: %v", err)
	}

	loaded, err := svc.LoadResult(ctx, "clayworks", res.RunID)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if loaded.RunID != res.RunID || len(loaded.Recommendations) != len(res.Recommendations) {
		t.Errorf("round-tripped result = %q with %d recommendations, want %q with %d",
			loaded.RunID, len(loaded.Recommendations), res.RunID, len(res.Recommendations))
	}
}

func TestServiceRunWithPriorPeriod(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()
	export := writeInput(t, dir, "export.csv", serviceExportCSV)

	if _, _, err := svc.Snapshot(ctx, RunRequest{
		ShopName:   "clayworks",
		ExportPath: export,
		Label:      "2026-W33",
	}); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	res, err := svc.Run(ctx, RunRequest{
		ShopName:   "clayworks",
		ExportPath: export,
		PriorLabel: "2026-W33",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Delta == nil {
		t.Fatal("expected a period delta when a prior label is given")
	}
	if res.Delta.BaseLabel != "2026-W33" {
		t.Errorf("delta base label = %q", res.Delta.BaseLabel)
	}
	if res.Delta.Summary == "" {
		t.Error("delta summary is empty")
	}
}

func TestServiceRunRequiresShopName(t *testing.T) {
	svc, dir := newTestService(t)
	_, err := svc.Run(context.Background(), RunRequest{
		ExportPath: writeInput(t, dir, "export.csv", serviceExportCSV),
	})
	if err == nil {
		t.Fatal("expected an error without a shop name")
	}
}

func TestServiceRunMissingExport(t *testing.T) {
	svc, dir := newTestService(t)
	_, err := svc.Run(context.Background(), RunRequest{
		ShopName:   "clayworks",
		ExportPath: filepath.Join(dir, "nope.csv"),
	})
	if err == nil {
		t.Fatal("expected an error for a missing export file")
	}
}

func TestServiceSnapshotRequiresLabel(t *testing.T) {
	svc, dir := newTestService(t)
	_, _, err := svc.Snapshot(context.Background(), RunRequest{
		ShopName:   "clayworks",
		ExportPath: writeInput(t, dir, "export.csv", serviceExportCSV),
	})
	if err == nil {
		t.Fatal("expected an error without a period label")
	}
}

func TestServiceCompare(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	// Second period doubles the mug's traffic so the delta has movement.
	grownCSV := `TITLE,PRICE,TAGS,LISTING_ID,VIEWS,VISITS,FAVORITES,ORDERS,REVENUE
Blue Ceramic Mug,28,"ceramic mug, blue glaze",mug-1,2400,180,80,12,336
Speckled Bowl,42,"serving bowl, speckled",bowl-1,300,9,5,0,0
`
	if _, _, err := svc.Snapshot(ctx, RunRequest{
		ShopName:   "clayworks",
		ExportPath: writeInput(t, dir, "w33.csv", serviceExportCSV),
		Label:      "2026-W33",
	}); err != nil {
		t.Fatalf("Snapshot w33: %v", err)
	}
	if _, _, err := svc.Snapshot(ctx, RunRequest{
		ShopName:   "clayworks",
		ExportPath: writeInput(t, dir, "w34.csv", grownCSV),
		Label:      "2026-W34",
	}); err != nil {
		t.Fatalf("Snapshot w34: %v", err)
	}

	delta, err := svc.Compare(ctx, "clayworks", "2026-W33", "2026-W34")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if delta.BaseLabel != "2026-W33" || delta.HeadLabel != "2026-W34" {
		t.Errorf("delta labels = %q -> %q", delta.BaseLabel, delta.HeadLabel)
	}
	if delta.Summary == "" || len(delta.Series) == 0 {
		t.Errorf("delta = %+v, want summary and series", delta)
	}

	// 1500 -> 2700 views is growth; the views row must read green.
	for _, sd := range delta.Series {
		if sd.Key == "views" && sd.Status != metrics.StatusGreen {
			t.Errorf("views status = %q, want green", sd.Status)
		}
	}
}

func TestServiceCompareMissingBase(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Compare(context.Background(), "clayworks", "2026-W01", "2026-W02"); err == nil {
		t.Fatal("expected an error for missing snapshots")
	}
}

func TestServiceHistory(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir)
	pipeline, err := scoring.NewPipeline(scoring.DefaultConfig())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	svc := NewService(storage, pipeline)
	ctx := context.Background()

	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC)
	}
	archive := func(label string, recorded time.Time, health float64, grade string, listings int) {
		t.Helper()
		snap := &metrics.Snapshot{
			ID:         "snap-" + label,
			ShopName:   "clayworks",
			Label:      label,
			RecordedAt: recorded,
		}
		snap.Totals.HealthScore = health
		snap.Totals.HealthGrade = grade
		snap.Stats.ListingCount = listings
		data, err := json.Marshal(snap)
		if err != nil {
			t.Fatalf("marshal %s: %v", label, err)
		}
		if err := storage.PutSnapshot(ctx, "clayworks", label, data); err != nil {
			t.Fatalf("PutSnapshot %s: %v", label, err)
		}
	}

	archive("2026-W32", day(10), 58.0, "D", 4)
	archive("2026-W33", day(17), 64.5, "C", 5)
	archive("2026-W34", day(24), 71.0, "C", 5)
	// A corrupt blob is skipped, never fatal.
	if err := storage.PutSnapshot(ctx, "clayworks", "garbage", []byte("{")); err != nil {
		t.Fatalf("PutSnapshot garbage: %v", err)
	}

	entries, err := svc.History(ctx, "clayworks", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want limit of 2", len(entries))
	}
	if entries[0].Label != "2026-W34" || entries[1].Label != "2026-W33" {
		t.Errorf("order = %q, %q; want newest first", entries[0].Label, entries[1].Label)
	}
	if entries[0].Health != 71.0 || entries[0].Grade != "C" || entries[0].Listings != 5 {
		t.Errorf("entry = %+v", entries[0])
	}

	all, err := svc.History(ctx, "clayworks", 0)
	if err != nil {
		t.Fatalf("History all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unlimited entries = %d, want 3", len(all))
	}
}

func TestServiceLoadResultNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.LoadResult(context.Background(), "clayworks", "missing-run"); err == nil {
		t.Fatal("expected an error for a missing result")
	}
}
