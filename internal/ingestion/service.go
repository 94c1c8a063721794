package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/shopscope/shopscope/pkg/listing"
	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/shopscope/shopscope/pkg/scoring"
)

// RunRequest describes one analysis run: the export to read, the optional
// feeds beside it, and how to archive the outcome.
type RunRequest struct {
	ShopName     string
	ExportPath   string
	StatsPath    string
	TrendsPath   string
	TagStatsPath string
	ProfilePath  string

	// Label keys the archived period snapshot. Empty defaults to the run date.
	Label string
	// PriorLabel selects an archived snapshot to compare against.
	PriorLabel string
	// Archive stores the snapshot and result after a successful run.
	Archive bool
}

// Service orchestrates the analysis pipeline: parse the inputs, score them,
// archive the outcome.
type Service struct {
	storage  StorageClient
	pipeline *scoring.Pipeline
}

// NewService creates an analysis Service.
func NewService(storage StorageClient, pipeline *scoring.Pipeline) *Service {
	return &Service{storage: storage, pipeline: pipeline}
}

// Run executes the full pipeline for one export and returns the result.
// Parse diagnostics are prepended to the result's own so the caller sees
// every isolated record in one list.
func (s *Service) Run(ctx context.Context, req RunRequest) (*scoring.Result, error) {
	if req.ShopName == "" {
		return nil, &listing.InvalidInputError{Field: "shop", Reason: "shop name is required"}
	}

	// 1. Parse the listings export and optional stats download
	exp, diags, err := s.loadExport(req)
	if err != nil {
		return nil, err
	}

	// 2. Load the optional YAML feeds
	trends, err := LoadTrends(req.TrendsPath)
	if err != nil {
		return nil, err
	}
	tagStats, err := LoadTagStats(req.TagStatsPath)
	if err != nil {
		return nil, err
	}
	profile, err := LoadProfile(req.ProfilePath)
	if err != nil {
		return nil, err
	}

	// 3. Load the prior period when a comparison was requested
	var prior *metrics.Snapshot
	if req.PriorLabel != "" {
		prior, err = s.loadSnapshot(ctx, req.ShopName, req.PriorLabel)
		if err != nil {
			return nil, fmt.Errorf("load prior period: %w", err)
		}
	}

	// 4. Score
	res, err := s.pipeline.Run(scoring.Input{
		Export:  exp,
		Stats:   tagStats,
		Trends:  trends,
		Profile: profile,
		Prior:   prior,
	})
	if err != nil {
		return nil, err
	}
	res.Diagnostics = append(diags, res.Diagnostics...)

	// 5. Archive the period snapshot and the run result
	if req.Archive {
		label := req.Label
		if label == "" {
			label = res.GeneratedAt.Format("2006-01-02")
		}
		if err := s.archive(ctx, req.ShopName, label, res); err != nil {
			return nil, err
		}
		log.Printf("run %s archived for %s: snapshot=%s recommendations=%d",
			res.RunID, req.ShopName, label, len(res.Recommendations))
	}

	return res, nil
}

// Snapshot aggregates an export and archives it under the given period
// label without running the scoring passes. Baselines for later diffs are
// built this way.
func (s *Service) Snapshot(ctx context.Context, req RunRequest) (*metrics.Snapshot, []listing.Diagnostic, error) {
	if req.ShopName == "" {
		return nil, nil, &listing.InvalidInputError{Field: "shop", Reason: "shop name is required"}
	}
	if req.Label == "" {
		return nil, nil, &listing.InvalidInputError{Field: "label", Reason: "period label is required"}
	}

	exp, diags, err := s.loadExport(req)
	if err != nil {
		return nil, nil, err
	}

	snap, aggDiags, err := s.pipeline.Aggregate(exp)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregating export: %w", err)
	}
	diags = append(diags, aggDiags...)

	snap.Label = req.Label
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.storage.PutSnapshot(ctx, req.ShopName, req.Label, data); err != nil {
		return nil, nil, fmt.Errorf("archive snapshot %s: %w", req.Label, err)
	}

	log.Printf("snapshot %s archived for %s: %d listings", req.Label, req.ShopName, snap.Stats.ListingCount)
	return snap, diags, nil
}

// Compare loads two archived snapshots and computes the period delta.
func (s *Service) Compare(ctx context.Context, shop, baseLabel, headLabel string) (*metrics.Delta, error) {
	base, err := s.loadSnapshot(ctx, shop, baseLabel)
	if err != nil {
		return nil, fmt.Errorf("load base period: %w", err)
	}
	head, err := s.loadSnapshot(ctx, shop, headLabel)
	if err != nil {
		return nil, fmt.Errorf("load head period: %w", err)
	}
	return metrics.ComputeDelta(base, head)
}

// HistoryEntry summarizes one archived period snapshot.
type HistoryEntry struct {
	Label      string
	RecordedAt time.Time
	Health     float64
	Grade      string
	Listings   int
}

// History returns the shop's archived periods, newest first. A limit of
// zero or less returns everything. Snapshots that fail to load are skipped
// so one corrupt blob cannot hide the rest of the archive.
func (s *Service) History(ctx context.Context, shop string, limit int) ([]HistoryEntry, error) {
	labels, err := s.storage.ListSnapshots(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(labels))
	for _, label := range labels {
		snap, err := s.loadSnapshot(ctx, shop, label)
		if err != nil {
			log.Printf("history: skipping %s: %v", label, err)
			continue
		}
		entries = append(entries, HistoryEntry{
			Label:      label,
			RecordedAt: snap.RecordedAt,
			Health:     snap.Totals.HealthScore,
			Grade:      snap.Totals.HealthGrade,
			Listings:   snap.Stats.ListingCount,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// LoadResult retrieves an archived run result by its run ID.
func (s *Service) LoadResult(ctx context.Context, shop, runID string) (*scoring.Result, error) {
	data, err := s.storage.GetResult(ctx, shop, runID)
	if err != nil {
		return nil, fmt.Errorf("load result %q: %w", runID, err)
	}
	var res scoring.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result %q: %w", runID, err)
	}
	return &res, nil
}

func (s *Service) loadExport(req RunRequest) (*listing.Export, []listing.Diagnostic, error) {
	f, err := os.Open(req.ExportPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	exp, diags, err := ParseExport(f, req.ShopName)
	if err != nil {
		return nil, nil, err
	}

	if req.StatsPath != "" {
		sf, err := os.Open(req.StatsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening stats: %w", err)
		}
		stats, statsDiags, err := ParseStats(sf)
		sf.Close()
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, statsDiags...)
		diags = append(diags, MergeStats(exp, stats)...)
	}

	return exp, diags, nil
}

func (s *Service) loadSnapshot(ctx context.Context, shop, label string) (*metrics.Snapshot, error) {
	data, err := s.storage.GetSnapshot(ctx, shop, label)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", label, err)
	}
	var snap metrics.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %q: %w", label, err)
	}
	return &snap, nil
}

func (s *Service) archive(ctx context.Context, shop, label string, res *scoring.Result) error {
	res.Snapshot.Label = label
	snapData, err := json.MarshalIndent(res.Snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.storage.PutSnapshot(ctx, shop, label, snapData); err != nil {
		return fmt.Errorf("archive snapshot %s: %w", label, err)
	}

	resData, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.storage.PutResult(ctx, shop, res.RunID, resData); err != nil {
		return fmt.Errorf("archive result %s: %w", res.RunID, err)
	}
	return nil
}
