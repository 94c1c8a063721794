package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopscope/shopscope/pkg/surface"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		shopName string
		shopDir  string
		limit    int
		runID    string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived period snapshots",
		Long:  `Lists the shop's archived snapshots newest first, or re-renders a single archived run result by ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), historyOpts{
				shopName: shopName,
				shopDir:  shopDir,
				limit:    limit,
				runID:    runID,
			})
		},
	}

	cmd.Flags().StringVar(&shopName, "shop", "", "Shop name (default: from config or the directory name)")
	cmd.Flags().StringVar(&shopDir, "shop-dir", "", "Path to the shop directory (default: detect from cwd)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of periods to list (0 lists all)")
	cmd.Flags().StringVar(&runID, "run", "", "Re-render the archived run result with this ID")

	return cmd
}

type historyOpts struct {
	shopName string
	shopDir  string
	limit    int
	runID    string
}

func runHistory(ctx context.Context, opts historyOpts) error {
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

	if opts.runID != "" {
		res, err := svc.LoadResult(ctx, shop, opts.runID)
		if err != nil {
			return err
		}
		renderer := &surface.TerminalRenderer{}
		if err := renderer.Render(os.Stdout, res); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
		return nil
	}

	entries, err := svc.History(ctx, shop, opts.limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No archived snapshots for %s.\n", shop)
		return nil
	}

	fmt.Printf("Archive for %s:\n", shop)
	for _, e := range entries {
		fmt.Printf("  %-12s %s  health %s (%.1f)  %d listings\n",
			e.Label, e.RecordedAt.Format("2006-01-02"), e.Grade, e.Health, e.Listings)
	}

	return nil
}
