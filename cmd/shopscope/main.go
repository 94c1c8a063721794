// Package main provides the shopscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Optional .env beside the shop directory carries archive credentials.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "shopscope",
		Short: "Business intelligence for handmade-marketplace shops",
		Long: `ShopScope reads a shop's listings export, scores listing health and
keyword quality, ranks growth opportunities, and turns the findings into a
prioritized action plan.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newSnapshotCmd(),
		newDiffCmd(),
		newHistoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
