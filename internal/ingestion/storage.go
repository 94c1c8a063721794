// Package ingestion loads shop exports and seller feeds, runs the scoring
// pipeline over them, and archives period snapshots and run results.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StorageClient abstracts blob storage for period snapshots and analysis
// results. Snapshots are keyed by period label, results by run ID.
type StorageClient interface {
	PutSnapshot(ctx context.Context, shop, label string, data []byte) error
	GetSnapshot(ctx context.Context, shop, label string) ([]byte, error)
	ListSnapshots(ctx context.Context, shop string) ([]string, error)
	PutResult(ctx context.Context, shop, runID string, data []byte) error
	GetResult(ctx context.Context, shop, runID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Blobs live under <base>/<shop>/snapshots/<label>.json and
// <base>/<shop>/results/<runID>.json.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(shop, kind, id string) string {
	return filepath.Join(s.BaseDir, shop, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStorage) list(shop, kind string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.BaseDir, shop, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// PutSnapshot stores a snapshot blob under its period label.
func (s *LocalStorage) PutSnapshot(ctx context.Context, shop, label string, data []byte) error {
	return s.put(s.path(shop, "snapshots", label), data)
}

// GetSnapshot retrieves a snapshot blob by period label.
func (s *LocalStorage) GetSnapshot(ctx context.Context, shop, label string) ([]byte, error) {
	return os.ReadFile(s.path(shop, "snapshots", label))
}

// ListSnapshots returns the archived period labels for a shop in
// lexicographic order.
func (s *LocalStorage) ListSnapshots(ctx context.Context, shop string) ([]string, error) {
	return s.list(shop, "snapshots")
}

// PutResult stores an analysis result blob under its run ID.
func (s *LocalStorage) PutResult(ctx context.Context, shop, runID string, data []byte) error {
	return s.put(s.path(shop, "results", runID), data)
}

// GetResult retrieves an analysis result blob by run ID.
func (s *LocalStorage) GetResult(ctx context.Context, shop, runID string) ([]byte, error) {
	return os.ReadFile(s.path(shop, "results", runID))
}
