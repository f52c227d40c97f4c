package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagsmith/internal/hashtags"
)

var (
	splitFile string
	splitOut  string
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the master document into per-category chunk files",
	Long: `Partitions the master hashtag document into one JSON file per top-level
category. Filenames are derived from the category name (spaces to
underscores, "&" to "and", lower-cased). Existing chunk files are
overwritten.`,
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVar(&splitFile, "file", "", "Master document to split (default from config)")
	splitCmd.Flags().StringVar(&splitOut, "out", "", "Chunk output directory (default from config)")
}

func runSplit(cmd *cobra.Command, args []string) error {
	input := fallback(splitFile, cfg.Paths.MasterFile)
	outDir := fallback(splitOut, cfg.Paths.ChunkDir)

	written, err := hashtags.NewSplitter(logger).Split(input, outDir)
	if err != nil {
		return err
	}

	fmt.Printf("Split %s into %d chunk files under %s\n", input, len(written), outDir)
	return nil
}
