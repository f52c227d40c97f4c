package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagsmith/internal/hashtags"
)

var (
	updateIn    string
	updateOut   string
	updateModel string
	updateMode  string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh every chunk file through the Gemini model",
	Long: `Processes every *.json file in the chunk directory in sorted order,
sending each chunk to the model and writing the result to the output
directory under the same filename.

Failures on individual files are logged and skipped; the batch continues.
A token usage summary is written to the log directory after all files
have been attempted.

Modes:
  update  refresh hashtag uses counts (default)
  expand  grow each subcategory to 15-20 hashtags`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateIn, "in", "", "Input chunk directory (default from config)")
	updateCmd.Flags().StringVar(&updateOut, "out", "", "Output chunk directory (default from config)")
	updateCmd.Flags().StringVar(&updateModel, "model", "", "Gemini model (default from config)")
	updateCmd.Flags().StringVar(&updateMode, "mode", "update", "Refresh mode: update or expand")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	instruction, err := instructionForMode(updateMode)
	if err != nil {
		return err
	}

	model := fallback(updateModel, cfg.LLM.Model)
	client, err := newGeminiClient(model)
	if err != nil {
		return err
	}

	updater := hashtags.NewUpdater(hashtags.UpdaterConfig{
		InputDir:    fallback(updateIn, cfg.Paths.ChunkDir),
		OutputDir:   fallback(updateOut, cfg.Paths.UpdatedChunkDir),
		Model:       model,
		Instruction: instruction,
		SummaryPath: tokenSummaryPath(),
	}, client, logger)

	summary, err := updater.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d/%d chunk files (tokens: %d in, %d out)\n",
		summary.FilesSucceeded, summary.FilesProcessed,
		summary.Totals.InputTokens, summary.Totals.OutputTokens)
	fmt.Printf("Token summary: %s\n", tokenSummaryPath())
	return nil
}

func instructionForMode(mode string) (string, error) {
	switch mode {
	case "update":
		return hashtags.InstructionUpdate, nil
	case "expand":
		return hashtags.InstructionExpand, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want update or expand)", mode)
	}
}
