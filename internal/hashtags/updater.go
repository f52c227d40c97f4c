package hashtags

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tagsmith/internal/llm"
	"tagsmith/internal/usage"
)

// InstructionUpdate asks the model to refresh hashtag uses counts in place.
const InstructionUpdate = "You are a precise JSON editor. You will be given a JSON object or array.\n" +
	"- Return ONLY valid JSON. No prose, no markdown, no code fences.\n" +
	"- Keep the same top-level structure (object vs array) unless the content is clearly invalid.\n" +
	"- Update hashtags with uses counts.\n" +
	"- If something is missing, infer reasonable values, but remain consistent and realistic.\n" +
	"- Do not add commentary."

// InstructionExpand asks the model to grow each subcategory's hashtag list.
const InstructionExpand = "You are a precise JSON editor. You will be given a JSON object or array.\n" +
	"- Return ONLY valid JSON. No prose, no markdown, no code fences.\n" +
	"- Keep the same top-level structure (object vs array) unless the content is clearly invalid.\n" +
	"- Expand each subcategory to 15-20 hashtags, each with a uses count.\n" +
	"- If something is missing, infer reasonable values, but remain consistent and realistic.\n" +
	"- Do not add commentary."

// UpdaterConfig carries everything one updater run needs.
type UpdaterConfig struct {
	InputDir    string
	OutputDir   string
	Model       string
	Instruction string
	SummaryPath string
}

// Updater sends every chunk file in the input directory through the model
// client and writes the refreshed chunks to the output directory.
type Updater struct {
	config UpdaterConfig
	client llm.Client
	logger *zap.Logger
}

// NewUpdater creates an updater.
func NewUpdater(config UpdaterConfig, client llm.Client, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Instruction == "" {
		config.Instruction = InstructionUpdate
	}
	return &Updater{config: config, client: client, logger: logger}
}

// Run processes every *.json file in the input directory in sorted order,
// one model call per file. Per-file failures are logged and skipped; the
// batch continues. The token summary is written after all files have been
// attempted, however many of them failed. Run fails outright only when the
// input directory is missing or not a directory.
func (u *Updater) Run(ctx context.Context) (*usage.RunSummary, error) {
	info, err := os.Stat(u.config.InputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInputDirNotFound, u.config.InputDir)
	}

	files, err := filepath.Glob(filepath.Join(u.config.InputDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk files: %w", err)
	}
	sort.Strings(files)

	tracker := usage.NewTracker(u.config.Model, u.config.InputDir, u.config.OutputDir)
	if len(files) == 0 {
		u.logger.Info("no chunk files found", zap.String("input_dir", u.config.InputDir))
		summary := tracker.Summary()
		return &summary, nil
	}

	u.logger.Info("starting chunk updates",
		zap.Int("files", len(files)),
		zap.String("input_dir", u.config.InputDir),
		zap.String("model", u.config.Model))

	for i, path := range files {
		name := filepath.Base(path)
		u.logger.Info("processing chunk",
			zap.Int("index", i+1),
			zap.Int("total", len(files)),
			zap.String("file", name))

		counts, err := u.updateFile(ctx, path)
		if err != nil {
			u.logger.Error("chunk update failed",
				zap.String("file", name),
				zap.Error(err))
			tracker.RecordFailure(name)
			continue
		}

		tracker.RecordSuccess(name, name, counts)
		u.logger.Info("chunk updated",
			zap.String("file", name),
			zap.Int("input_tokens", counts.InputTokens),
			zap.Int("output_tokens", counts.OutputTokens),
			zap.Int("total_tokens", counts.TotalTokens))
	}

	summary := tracker.Summary()
	if u.config.SummaryPath != "" {
		if err := tracker.WriteSummary(u.config.SummaryPath); err != nil {
			u.logger.Error("failed to write token summary", zap.Error(err))
		} else {
			u.logger.Info("token summary written", zap.String("file", u.config.SummaryPath))
		}
	}

	u.logger.Info("chunk updates done",
		zap.Int("succeeded", summary.FilesSucceeded),
		zap.Int("processed", summary.FilesProcessed))
	return &summary, nil
}

// updateFile runs a single chunk through the model and persists the result.
func (u *Updater) updateFile(ctx context.Context, path string) (usage.TokenCounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return usage.TokenCounts{}, fmt.Errorf("failed to read chunk: %w", err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return usage.TokenCounts{}, fmt.Errorf("failed to parse chunk: %w", err)
	}

	updated, counts, err := u.client.TransformJSON(ctx, u.config.Instruction, value)
	if err != nil {
		return usage.TokenCounts{}, err
	}

	if err := os.MkdirAll(u.config.OutputDir, 0755); err != nil {
		return usage.TokenCounts{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	var indented strings.Builder
	encoder := json.NewEncoder(&indented)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(updated); err != nil {
		return usage.TokenCounts{}, fmt.Errorf("failed to encode updated chunk: %w", err)
	}

	outPath := filepath.Join(u.config.OutputDir, filepath.Base(path))
	if err := os.WriteFile(outPath, []byte(indented.String()), 0644); err != nil {
		return usage.TokenCounts{}, fmt.Errorf("failed to write updated chunk: %w", err)
	}
	return counts, nil
}
