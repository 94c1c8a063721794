package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shopscope/shopscope/pkg/listing"
)

// Feed files are optional inputs: a missing file means the feed simply was
// not collected this period, so the loaders return nil rather than an error.

// LoadTrends reads a trending-keyword feed from a YAML file.
func LoadTrends(path string) ([]listing.TrendingKeyword, error) {
	var trends []listing.TrendingKeyword
	if err := loadYAML(path, "trends feed", &trends); err != nil {
		return nil, err
	}
	for i, tk := range trends {
		if tk.Keyword == "" {
			return nil, fmt.Errorf("parsing trends feed: entry %d has no keyword", i+1)
		}
	}
	return trends, nil
}

// LoadTagStats reads a search-analytics feed mapping tags to their window
// performance.
func LoadTagStats(path string) (listing.TagStats, error) {
	var raw map[string]listing.TagPerformance
	if err := loadYAML(path, "tag stats feed", &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	stats := make(listing.TagStats, len(raw))
	for tag, perf := range raw {
		stats[listing.NormalizeTag(tag)] = perf
	}
	return stats, nil
}

// LoadProfile reads the seller's skills and preferred categories.
func LoadProfile(path string) (*listing.SellerProfile, error) {
	var profile listing.SellerProfile
	if err := loadYAML(path, "seller profile", &profile); err != nil {
		return nil, err
	}
	if len(profile.Skills) == 0 && len(profile.PreferredCategories) == 0 {
		return nil, nil
	}
	return &profile, nil
}

// loadYAML decodes a YAML file strictly so a typoed key fails loudly
// instead of silently dropping data. Missing files leave out untouched.
func loadYAML(path, what string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", what, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", what, err)
	}
	return nil
}
