package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tagsmith/internal/hashtags"
	"tagsmith/internal/llm"
)

var (
	fetchCount int
	fetchGroup string
	fetchOut   string
	fetchModel string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [topic]",
	Short: "Generate hashtags for a topic and write them as a document fragment",
	Long: `Asks the model for hashtags on a topic in CSV form ("tag,uses_count"
with a header row), parses the response skipping malformed lines, and
writes the result as {group: {topic: [{tag, uses_count}, ...]}}.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchCount, "count", 15, "Number of hashtags to request")
	fetchCmd.Flags().StringVar(&fetchGroup, "group", "Popular", "Top-level group for the output fragment")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "hashtags.json", "Output file")
	fetchCmd.Flags().StringVar(&fetchModel, "model", "", "Gemini model (default from config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	topic := strings.Join(args, " ")
	client, err := newGeminiClient(fallback(fetchModel, cfg.LLM.Model))
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(
		"Generate %d hashtags related to %s with uses counts in short form (like 15M or 200K). "+
			"Output as CSV with a tag,uses_count header and nothing else.",
		fetchCount, topic)

	text, counts, err := client.Generate(ctx, "", prompt)
	if err != nil {
		return err
	}
	logger.Debug("fetch response",
		zap.Int("total_tokens", counts.TotalTokens))

	tags := hashtags.ParseHashtagCSV(llm.StripFences(text))
	if len(tags) == 0 {
		return fmt.Errorf("could not parse any hashtags from model output")
	}

	fragment := hashtags.FormatFetched(fetchGroup, topic, tags)
	encoded, err := json.MarshalIndent(fragment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := os.WriteFile(fetchOut, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fetchOut, err)
	}

	fmt.Printf("Wrote %d hashtags for %q to %s\n", len(tags), topic, fetchOut)
	return nil
}
