package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tagsmith/internal/hashtags"
	"tagsmith/internal/pipeline"
)

var (
	pipelineModel string
	pipelineMode  string
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run split, update, and merge in order",
	Long: `Runs the full chunked update pipeline against the configured paths:
split the master document, refresh every chunk through the model, and
merge the results. The first failing step aborts the pipeline; later
steps are never attempted.`,
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().StringVar(&pipelineModel, "model", "", "Gemini model (default from config)")
	pipelineCmd.Flags().StringVar(&pipelineMode, "mode", "update", "Refresh mode: update or expand")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	instruction, err := instructionForMode(pipelineMode)
	if err != nil {
		return err
	}

	model := fallback(pipelineModel, cfg.LLM.Model)
	client, err := newGeminiClient(model)
	if err != nil {
		return err
	}

	runner := pipeline.New(logger,
		pipeline.Step{
			Name: "split",
			Run: func(ctx context.Context) error {
				_, err := hashtags.NewSplitter(logger).Split(cfg.Paths.MasterFile, cfg.Paths.ChunkDir)
				return err
			},
		},
		pipeline.Step{
			Name: "update",
			Run: func(ctx context.Context) error {
				updater := hashtags.NewUpdater(hashtags.UpdaterConfig{
					InputDir:    cfg.Paths.ChunkDir,
					OutputDir:   cfg.Paths.UpdatedChunkDir,
					Model:       model,
					Instruction: instruction,
					SummaryPath: tokenSummaryPath(),
				}, client, logger)
				_, err := updater.Run(ctx)
				return err
			},
		},
		pipeline.Step{
			Name: "merge",
			Run: func(ctx context.Context) error {
				_, err := hashtags.NewMerger(logger).Merge(cfg.Paths.UpdatedChunkDir, cfg.Paths.MergedFile)
				return err
			},
		},
	)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	fmt.Printf("Pipeline complete: %s\n", cfg.Paths.MergedFile)
	return nil
}
