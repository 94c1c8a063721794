package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopscope/shopscope/internal/ingestion"
	"github.com/shopscope/shopscope/pkg/config"
	"github.com/shopscope/shopscope/pkg/scoring"
	"github.com/shopscope/shopscope/pkg/surface"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		csvPath      string
		statsPath    string
		trendsPath   string
		tagStatsPath string
		profilePath  string
		shopName     string
		shopDir      string
		label        string
		priorLabel   string
		outputFmt    string
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Full shop analysis pipeline",
		Long:  `Parses the listings export, scores listing health and keyword quality, ranks opportunities, and prints a prioritized action plan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), analyzeOpts{
				csvPath:      csvPath,
				statsPath:    statsPath,
				trendsPath:   trendsPath,
				tagStatsPath: tagStatsPath,
				profilePath:  profilePath,
				shopName:     shopName,
				shopDir:      shopDir,
				label:        label,
				priorLabel:   priorLabel,
				outputFmt:    outputFmt,
				save:         save,
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the listings export CSV (default: detect in the shop directory)")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Optional per-listing stats CSV merged over the export")
	cmd.Flags().StringVar(&trendsPath, "trends", "", "Trending-keywords YAML feed (default: trends.yaml in the shop directory)")
	cmd.Flags().StringVar(&tagStatsPath, "tag-stats", "", "Tag search-performance YAML feed (default: tag-stats.yaml)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "Seller profile YAML (default: profile.yaml)")
	cmd.Flags().StringVar(&shopName, "shop", "", "Shop name (default: from config or the directory name)")
	cmd.Flags().StringVar(&shopDir, "shop-dir", "", "Path to the shop directory (default: detect from cwd)")
	cmd.Flags().StringVar(&label, "label", "", "Period label for the archived snapshot (default: run date)")
	cmd.Flags().StringVar(&priorLabel, "prior", "", "Archived period label to compare against")
	cmd.Flags().StringVar(&outputFmt, "output", "", "Output format: terminal, json, or markdown (default: from config)")
	cmd.Flags().BoolVar(&save, "save", false, "Archive the snapshot and run result")

	return cmd
}

type analyzeOpts struct {
	csvPath      string
	statsPath    string
	trendsPath   string
	tagStatsPath string
	profilePath  string
	shopName     string
	shopDir      string
	label        string
	priorLabel   string
	outputFmt    string
	save         bool
}

func runAnalyze(ctx context.Context, opts analyzeOpts) error {
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

	fmt.Fprintf(os.Stderr, "Analyzing %s (%s)\n", shop, filepath.Base(exportPath))

	// Feed paths fall back to conventional names in the shop directory.
	// Missing feed files are fine; the loaders treat them as not collected.
	res, err := svc.Run(ctx, ingestion.RunRequest{
		ShopName:     shop,
		ExportPath:   exportPath,
		StatsPath:    opts.statsPath,
		TrendsPath:   firstNonEmpty(opts.trendsPath, filepath.Join(shopRoot, "trends.yaml")),
		TagStatsPath: firstNonEmpty(opts.tagStatsPath, filepath.Join(shopRoot, "tag-stats.yaml")),
		ProfilePath:  firstNonEmpty(opts.profilePath, filepath.Join(shopRoot, "profile.yaml")),
		Label:        opts.label,
		PriorLabel:   opts.priorLabel,
		Archive:      opts.save,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scored %d listings: %d opportunities, %d recommendations\n",
		res.Snapshot.Stats.ListingCount, len(res.Opportunities), len(res.Recommendations))

	format := firstNonEmpty(opts.outputFmt, cfg.Report.Format, "terminal")

	if opts.save && format == "markdown" {
		path, err := writeReportFile(cfg, shopRoot, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report saved: %s\n", path)
	}

	renderer, err := newRenderer(format)
	if err != nil {
		return err
	}
	if err := renderer.Render(os.Stdout, res); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	return nil
}

// writeReportFile renders the markdown report into the configured report
// directory, named after the run date.
func writeReportFile(cfg *config.Config, shopRoot string, res *scoring.Result) (string, error) {
	outDir := cfg.Report.OutDir
	if outDir == "" {
		outDir = filepath.Join(shopRoot, "reports")
	} else if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(shopRoot, outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(outDir, res.GeneratedAt.Format("2006-01-02")+"-daily-check.md")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	renderer := &surface.MarkdownRenderer{}
	if err := renderer.Render(f, res); err != nil {
		f.Close()
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// newRenderer maps an output format name to its renderer.
func newRenderer(format string) (surface.Renderer, error) {
	switch format {
	case "terminal", "":
		return &surface.TerminalRenderer{}, nil
	case "json":
		return &surface.JSONRenderer{}, nil
	case "markdown":
		return &surface.MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want terminal, json, or markdown)", format)
	}
}
