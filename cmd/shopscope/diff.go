package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopscope/shopscope/pkg/metrics"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var (
		baseLabel string
		headLabel string
		shopName  string
		shopDir   string
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two archived period snapshots",
		Long:  `Loads two archived snapshots by period label and prints the traffic-light movement between them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), diffOpts{
				baseLabel: baseLabel,
				headLabel: headLabel,
				shopName:  shopName,
				shopDir:   shopDir,
			})
		},
	}

	cmd.Flags().StringVar(&baseLabel, "base", "", "Base period label (required)")
	cmd.Flags().StringVar(&headLabel, "head", "", "Head period label (required)")
	cmd.Flags().StringVar(&shopName, "shop", "", "Shop name (default: from config or the directory name)")
	cmd.Flags().StringVar(&shopDir, "shop-dir", "", "Path to the shop directory (default: detect from cwd)")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("head")

	return cmd
}

type diffOpts struct {
	baseLabel string
	headLabel string
	shopName  string
	shopDir   string
}

func runDiff(ctx context.Context, opts diffOpts) error {
	shopRoot, err := resolveShopRoot(opts.shopDir)
	if err != nil {
		return err
	}

	cfg := loadShopConfig(shopRoot)
	shop := firstNonEmpty(opts.shopName, cfg.Shop.Name, filepath.Base(shopRoot))

	svc, err := newService(ctx, cfg, shopRoot)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Comparing %s: %s -> %s\n", shop, opts.baseLabel, opts.headLabel)

	delta, err := svc.Compare(ctx, shop, opts.baseLabel, opts.headLabel)
	if err != nil {
		return err
	}

	printDelta(delta)

	return nil
}

// printDelta prints the period movement. Alerts are advisory; the exit code
// stays zero either way.
func printDelta(delta *metrics.Delta) {
	fmt.Printf("Delta: %s -> %s (%s)\n", delta.BaseLabel, delta.HeadLabel, delta.Summary)

	for _, s := range delta.Series {
		if !s.Comparable {
			fmt.Printf("  [  --  ] %-18s %s\n", s.Name, s.Reason)
			continue
		}
		mark := ""
		if s.Alert {
			mark = "  ALERT"
		}
		fmt.Printf("  [%-6s] %-18s %+7.1f%%  (%s -> %s)%s\n",
			s.Status, s.Name, s.Growth*100,
			formatSeriesValue(s.Key, s.Base), formatSeriesValue(s.Key, s.Head), mark)
	}

	if len(delta.Alerts) > 0 {
		fmt.Println("\nAlerts:")
		for _, a := range delta.Alerts {
			fmt.Printf("  ! %s\n", a)
		}
	}
}

// formatSeriesValue formats a series value for its unit: dollars for revenue,
// percent for rate series, plain counts otherwise.
func formatSeriesValue(key string, v float64) string {
	switch key {
	case "revenue":
		return fmt.Sprintf("$%.2f", v)
	case "health":
		return fmt.Sprintf("%.1f", v)
	case "ctr", "conversion", "favorite_rate":
		return fmt.Sprintf("%.2f%%", v*100)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
