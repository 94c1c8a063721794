package ingestion

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTrends(t *testing.T) {
	path := writeFeed(t, "trends.yaml", `- keyword: pottery gift
  category: home
  search_volume: 4200
  competition: medium
  avg_price: 34
  seasonal: true
  required_skills:
    - pottery
  recency_window_days: 30
- keyword: clay planter
  category: garden
  search_volume: 1500
  competition: low
  recency_window_days: 14
`)
	trends, err := LoadTrends(path)
	if err != nil {
		t.Fatalf("LoadTrends: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("trends = %d, want 2", len(trends))
	}
	first := trends[0]
	if first.Keyword != "pottery gift" || first.SearchVolume != 4200 || !first.Seasonal {
		t.Errorf("first trend = %+v", first)
	}
	if len(first.RequiredSkills) != 1 || first.RequiredSkills[0] != "pottery" {
		t.Errorf("required skills = %v", first.RequiredSkills)
	}
	if trends[1].Competition != "low" {
		t.Errorf("second competition = %q", trends[1].Competition)
	}
}

func TestLoadTrendsMissingFile(t *testing.T) {
	trends, err := LoadTrends(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadTrends: %v", err)
	}
	if trends != nil {
		t.Errorf("trends = %v, want nil for a feed that was never collected", trends)
	}
}

func TestLoadTrendsRejectsUnknownKeys(t *testing.T) {
	path := writeFeed(t, "trends.yaml", `- keyword: pottery gift
  serch_volume: 4200
`)
	if _, err := LoadTrends(path); err == nil {
		t.Fatal("expected an error for a typoed key")
	}
}

func TestLoadTrendsRejectsMissingKeyword(t *testing.T) {
	path := writeFeed(t, "trends.yaml", `- category: home
  search_volume: 100
`)
	if _, err := LoadTrends(path); err == nil {
		t.Fatal("expected an error for an entry without a keyword")
	}
}

func TestLoadTagStats(t *testing.T) {
	path := writeFeed(t, "tags.yaml", `Blue Glaze:
  impressions: 640
  clicks: 22
ceramic mug:
  impressions: 1200
  clicks: 30
`)
	stats, err := LoadTagStats(path)
	if err != nil {
		t.Fatalf("LoadTagStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %d entries, want 2", len(stats))
	}
	// Keys normalize the same way listing tags do.
	if perf, ok := stats["blue glaze"]; !ok || perf.Impressions != 640 || perf.Clicks != 22 {
		t.Errorf("blue glaze = %+v (present %v)", perf, ok)
	}
}

func TestLoadTagStatsMissingFile(t *testing.T) {
	stats, err := LoadTagStats(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadTagStats: %v", err)
	}
	if stats != nil {
		t.Errorf("stats = %v, want nil", stats)
	}
}

func TestLoadProfile(t *testing.T) {
	path := writeFeed(t, "profile.yaml", `skills:
  - pottery
  - glazing
preferred_categories:
  - home
`)
	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if profile == nil {
		t.Fatal("profile is nil")
	}
	if !profile.HasSkill("Pottery") {
		t.Error("HasSkill should match case-insensitively")
	}
	if !profile.PrefersCategory("home") {
		t.Error("preferred categories not loaded")
	}
}

func TestLoadProfileEmptyFile(t *testing.T) {
	path := writeFeed(t, "profile.yaml", "")
	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if profile != nil {
		t.Errorf("profile = %+v, want nil for an empty file", profile)
	}
}
