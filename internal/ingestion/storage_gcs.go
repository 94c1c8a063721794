package ingestion

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSStorage implements StorageClient using Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStorage creates a GCS-backed StorageClient.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStorage) key(shop, kind, id string) string {
	key := shop + "/" + kind + "/" + id + ".json"
	if s.prefix != "" {
		key = strings.TrimSuffix(s.prefix, "/") + "/" + key
	}
	return key
}

func (s *GCSStorage) put(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStorage) PutSnapshot(ctx context.Context, shop, label string, data []byte) error {
	return s.put(ctx, s.key(shop, "snapshots", label), data)
}

func (s *GCSStorage) GetSnapshot(ctx context.Context, shop, label string) ([]byte, error) {
	return s.get(ctx, s.key(shop, "snapshots", label))
}

// ListSnapshots iterates the shop's snapshot objects and returns the
// period labels in lexicographic order.
func (s *GCSStorage) ListSnapshots(ctx context.Context, shop string) ([]string, error) {
	prefix := strings.TrimSuffix(s.key(shop, "snapshots", ""), ".json")

	var labels []string
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list %s: %w", prefix, err)
		}
		name := strings.TrimPrefix(attrs.Name, prefix)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		labels = append(labels, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(labels)
	return labels, nil
}

func (s *GCSStorage) PutResult(ctx context.Context, shop, runID string, data []byte) error {
	return s.put(ctx, s.key(shop, "results", runID), data)
}

func (s *GCSStorage) GetResult(ctx context.Context, shop, runID string) ([]byte, error) {
	return s.get(ctx, s.key(shop, "results", runID))
}
