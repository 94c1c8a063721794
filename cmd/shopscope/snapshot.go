package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopscope/shopscope/internal/ingestion"
	"github.com/shopscope/shopscope/pkg/config"
	"github.com/shopscope/shopscope/pkg/scoring"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var (
		csvPath   string
		statsPath string
		shopName  string
		shopDir   string
		label     string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Aggregate and archive a period snapshot",
		Long:  `Parses the listings export, aggregates shop metrics, and archives the snapshot under a period label for later comparison.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), snapshotOpts{
				csvPath:   csvPath,
				statsPath: statsPath,
				shopName:  shopName,
				shopDir:   shopDir,
				label:     label,
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the listings export CSV (default: detect in the shop directory)")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Optional per-listing stats CSV merged over the export")
	cmd.Flags().StringVar(&shopName, "shop", "", "Shop name (default: from config or the directory name)")
	cmd.Flags().StringVar(&shopDir, "shop-dir", "", "Path to the shop directory (default: detect from cwd)")
	cmd.Flags().StringVar(&label, "label", "", "Period label, e.g. 2026-W34 (required)")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

type snapshotOpts struct {
	csvPath   string
	statsPath string
	shopName  string
	shopDir   string
	label     string
}

func runSnapshot(ctx context.Context, opts snapshotOpts) error {
	shopRoot, err := resolveShopRoot(opts.shopDir)
	if err != nil {
		return err
	}

	cfg := loadShopConfig(shopRoot)
	shop := firstNonEmpty(opts.shopName, cfg.Shop.Name, filepath.Base(shopRoot))

	exportPath := opts.csvPath
	if exportPath == "" {
		exportPath = config.FindExportFile(shopRoot)
		if exportPath == "" {
			return fmt.Errorf("no listings export found under %s; pass --csv", shopRoot)
		}
	}

	svc, err := newService(ctx, cfg, shopRoot)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Archiving %s as %s (%s)\n", shop, opts.label, filepath.Base(exportPath))

	snap, diags, err := svc.Snapshot(ctx, ingestion.RunRequest{
		ShopName:   shop,
		ExportPath: exportPath,
		StatsPath:  opts.statsPath,
		Label:      opts.label,
	})
	if err != nil {
		return err
	}

	for _, d := range diags {
		if d.Subject != "" {
			fmt.Fprintf(os.Stderr, "  note: %s (%s): %s\n", d.Stage, d.Subject, d.Reason)
		} else {
			fmt.Fprintf(os.Stderr, "  note: %s: %s\n", d.Stage, d.Reason)
		}
	}

	fmt.Printf("Snapshot %s archived for %s\n", snap.Label, snap.ShopName)
	fmt.Printf("  Listings: %d (%d active)\n", snap.Stats.ListingCount, snap.Stats.ActiveListings)
	fmt.Printf("  Health:   %s (%.1f)\n", snap.Totals.HealthGrade, snap.Totals.HealthScore)
	fmt.Printf("  Views:    %d\n", snap.Totals.Views)
	fmt.Printf("  Revenue:  $%.2f\n", snap.Totals.Revenue)

	return nil
}

func resolveShopRoot(dir string) (string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolving shop directory: %w", err)
		}
		return config.FindShopRoot(abs)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return config.FindShopRoot(cwd)
}

func loadShopConfig(shopRoot string) *config.Config {
	cfgFile := config.FindConfigFile(shopRoot)
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newService wires the configured archive backend to the scoring pipeline.
func newService(ctx context.Context, cfg *config.Config, shopRoot string) (*ingestion.Service, error) {
	storage, err := newStorage(ctx, cfg, shopRoot)
	if err != nil {
		return nil, err
	}
	pipeline, err := scoring.NewPipeline(cfg.Analysis())
	if err != nil {
		return nil, err
	}
	return ingestion.NewService(storage, pipeline), nil
}

// newStorage picks the archive backend from config. S3 credentials come from
// SHOPSCOPE_S3_ACCESS_KEY / SHOPSCOPE_S3_SECRET_KEY (a .env file next to the
// shop works); when unset the SDK's default chain applies.
func newStorage(ctx context.Context, cfg *config.Config, shopRoot string) (ingestion.StorageClient, error) {
	switch cfg.Archive.Backend {
	case "", "local":
		dir := cfg.Archive.Dir
		if dir == "" {
			dir = config.CacheDir(shopRoot)
		}
		return ingestion.NewLocalStorage(dir), nil
	case "s3":
		return ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: os.Getenv("SHOPSCOPE_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("SHOPSCOPE_S3_SECRET_KEY"),
			Prefix:    cfg.Archive.Prefix,
		})
	case "gcs":
		return ingestion.NewGCSStorage(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
	default:
		return nil, fmt.Errorf("unknown archive backend %q (want local, s3, or gcs)", cfg.Archive.Backend)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
