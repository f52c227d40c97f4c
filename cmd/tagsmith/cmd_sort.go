package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagsmith/internal/hashtags"
)

var (
	sortFile string
	sortOut  string
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Rewrite a document with categories in alphabetical order",
	RunE:  runSort,
}

func init() {
	sortCmd.Flags().StringVar(&sortFile, "file", "", "Document to sort (default from config)")
	sortCmd.Flags().StringVar(&sortOut, "out", "", "Output file (default: rewrite in place)")
}

func runSort(cmd *cobra.Command, args []string) error {
	input := fallback(sortFile, cfg.Paths.MergedFile)
	output := fallback(sortOut, input)

	if err := hashtags.SortCategories(input, output); err != nil {
		return err
	}

	fmt.Printf("Sorted categories written to %s\n", output)
	return nil
}
