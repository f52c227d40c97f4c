// Package main implements the tagsmith CLI: the chunked update pipeline
// (split, update, merge) plus the surrounding database utilities.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tagsmith/internal/config"
	"tagsmith/internal/llm"
	"tagsmith/internal/logging"
)

// TokenSummaryName is the usage summary written into the log directory.
const TokenSummaryName = "token_summary.json"

var (
	// Global flags
	configPath string
	verbose    bool
	apiKey     string
	logDir     string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "tagsmith",
	Short: "tagsmith - curated hashtag database pipeline",
	Long: `tagsmith maintains a curated hashtag database stored as one JSON document
of category -> subcategory -> hashtag detail.

The core workflow is the chunked update pipeline:
  1. split:  partition the master document into one file per category
  2. update: refresh every chunk through the Gemini model
  3. merge:  recombine the refreshed chunks with a last_update timestamp

Run "tagsmith pipeline" to execute all three in order, or each step on its
own. Token usage for every update run is written to the log directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		if logDir != "" {
			cfg.Paths.LogDir = logDir
		}

		logger, err = logging.New(cfg.Paths.LogDir, cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tagsmith.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for run.log and "+TokenSummaryName)

	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(fetchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newGeminiClient builds the model client, failing fast when no credential
// is configured.
func newGeminiClient(model string) (*llm.GeminiClient, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	return llm.NewGeminiClient(llm.GeminiConfig{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      model,
		Timeout:    cfg.LLM.TimeoutDuration(),
		MaxRetries: cfg.LLM.MaxRetries,
	}, logger), nil
}

func tokenSummaryPath() string {
	return filepath.Join(cfg.Paths.LogDir, TokenSummaryName)
}

// fallback returns the flag value when set, the config value otherwise.
func fallback(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}
