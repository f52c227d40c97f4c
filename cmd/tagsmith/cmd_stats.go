package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagsmith/internal/hashtags"
)

var statsFile string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count categories, subcategories, and hashtags in a document",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFile, "file", "", "Document to count (default from config)")
}

func runStats(cmd *cobra.Command, args []string) error {
	path := fallback(statsFile, cfg.Paths.MergedFile)

	stats, err := hashtags.CountFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("Total categories: %d\n", stats.Categories)
	fmt.Printf("Total subcategories: %d\n", stats.Subcategories)
	fmt.Printf("Total hashtags: %d\n", stats.Hashtags)
	return nil
}
