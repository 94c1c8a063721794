// Package config handles loading and managing ShopScope configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
)

// Config is the top-level configuration for ShopScope.
type Config struct {
	Shop     ShopConfig     `yaml:"shop"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Platform PlatformConfig `yaml:"platform"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Report   ReportConfig   `yaml:"report"`
}

// ShopConfig identifies the shop being analyzed.
type ShopConfig struct {
	Name string `yaml:"name"`
}

// ScoringConfig controls scoring behavior.
type ScoringConfig struct {
	Weights           metrics.Weights `yaml:"weights"`
	Targets           metrics.Targets `yaml:"targets"`
	RecommendationCap int             `yaml:"recommendation_cap"`
	EffortFloor       float64         `yaml:"effort_floor"`
}

// PlatformConfig holds the marketplace limits tags are scored against.
type PlatformConfig struct {
	MaxTags      int `yaml:"max_tags"`
	MaxTagLength int `yaml:"max_tag_length"`
}

// ArchiveConfig controls where snapshots and run results are archived.
type ArchiveConfig struct {
	Backend  string `yaml:"backend"` // local, s3, gcs
	Dir      string `yaml:"dir"`     // local backend root; empty means the cache dir
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // custom S3 endpoint, e.g. MinIO
	Prefix   string `yaml:"prefix"`
}

// ReportConfig controls the default output surface.
type ReportConfig struct {
	Format string `yaml:"format"` // terminal, json, markdown
	OutDir string `yaml:"out_dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	analysis := scoring.DefaultConfig()
	return &Config{
		Scoring: ScoringConfig{
			Weights:           analysis.Weights,
			Targets:           analysis.Targets,
			RecommendationCap: analysis.RecommendationCap,
			EffortFloor:       analysis.EffortFloor,
		},
		Platform: PlatformConfig{
			MaxTags:      listing.MaxTags,
			MaxTagLength: listing.MaxTagLength,
		},
		Archive: ArchiveConfig{Backend: "local"},
		Report:  ReportConfig{Format: "terminal"},
	}
}

// Analysis assembles the pipeline configuration from the scoring and
// platform sections. Validation happens in scoring.NewPipeline, not here.
func (c *Config) Analysis() scoring.Config {
	return scoring.Config{
		Weights:           c.Scoring.Weights,
		Targets:           c.Scoring.Targets,
		RecommendationCap: c.Scoring.RecommendationCap,
		EffortFloor:       c.Scoring.EffortFloor,
		MaxTags:           c.Platform.MaxTags,
		MaxTagLength:      c.Platform.MaxTagLength,
	}
}

// Load reads a config file from the given path. If the file does not exist,
// it returns the default config. Unknown keys are rejected so a typo cannot
// silently fall back to a default.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .shopscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".shopscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// FindExportFile looks for a listings export under dir using the names the
// marketplace hands out, returning the first that exists.
func FindExportFile(dir string) string {
	candidates := []string{
		"EtsyListingsDownload.csv", // the marketplace's own download name
		"listings.csv",
		"export.csv",
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c)
		if _, err := os.Stat(path); err == nil {
			abs, _ := filepath.Abs(path)
			return abs
		}
	}
	return ""
}

// CacheDir returns the cache directory for a given shop directory.
// Uses ~/.cache/shopscope/<shop-slug>/ to avoid polluting the shop folder.
func CacheDir(shopDir string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	slug := shopSlug(shopDir)
	return filepath.Join(home, ".cache", "shopscope", slug)
}

// shopSlug creates a filesystem-safe identifier from a shop directory path.
// Uses the last two path components (e.g., "shops_clayworks" from
// "/home/user/shops/clayworks").
func shopSlug(shopDir string) string {
	abs, err := filepath.Abs(shopDir)
	if err != nil {
		abs = shopDir
	}
	// Use last two path components for readability
	dir := filepath.Base(filepath.Dir(abs))
	base := filepath.Base(abs)
	return dir + "_" + base
}

// FindShopRoot walks up from dir looking for a .shopscope directory or a
// listings export file.
func FindShopRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".shopscope")); err == nil {
			return dir, nil
		}
		if FindExportFile(dir) != "" {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no shop directory found (looked for .shopscope or a listings export)")
}
