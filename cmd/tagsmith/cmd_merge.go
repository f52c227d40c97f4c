package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagsmith/internal/hashtags"
)

var (
	mergeIn  string
	mergeOut string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge updated chunk files into one timestamped document",
	Long: `Recombines every *.json chunk file into a single document of the form
{"categories": {...}, "last_update": "<timestamp>"}. Files that fail to
parse are logged and skipped. On duplicate (category, subcategory) pairs
the later-processed file wins.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeIn, "in", "", "Updated chunk directory (default from config)")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "Merged output file (default from config)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	input := fallback(mergeIn, cfg.Paths.UpdatedChunkDir)
	output := fallback(mergeOut, cfg.Paths.MergedFile)

	doc, err := hashtags.NewMerger(logger).Merge(input, output)
	if err != nil {
		return err
	}

	fmt.Printf("Merged %d categories into %s (last_update %s)\n",
		len(doc.Categories), output, doc.LastUpdate)
	return nil
}
