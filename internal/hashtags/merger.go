package hashtags

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Merger recombines chunk files into a single timestamped document.
type Merger struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewMerger creates a merger using the wall clock for last_update.
func NewMerger(logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{logger: logger, now: time.Now}
}

// Merge reads every *.json file in inputDir and merges them into
// {"categories": {...}, "last_update": <timestamp>} at outputPath.
//
// The merge is a shallow overwrite keyed by (category, subcategory): when two
// files declare the same pair, the later-processed file's detail replaces the
// earlier one entirely. Normal splitting never produces duplicates, but the
// merge does not rely on that. Files that fail to parse are logged and
// skipped; the merge continues.
func (m *Merger) Merge(inputDir, outputPath string) (*Document, error) {
	// Glob returns paths in sorted order, which fixes the processing order
	// and therefore which file wins on duplicate pairs.
	files, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk files: %w", err)
	}

	merged := &Document{Categories: make(map[string]Category)}
	parsed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			m.logger.Warn("skipping unreadable chunk file",
				zap.String("file", path),
				zap.Error(err))
			continue
		}

		var chunk Chunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			m.logger.Warn("skipping malformed chunk file",
				zap.String("file", path),
				zap.Error(err))
			continue
		}

		for category, subcategories := range chunk {
			if merged.Categories[category] == nil {
				merged.Categories[category] = make(Category, len(subcategories))
			}
			for subcategory, detail := range subcategories {
				merged.Categories[category][subcategory] = detail
			}
		}
		parsed++
	}

	merged.LastUpdate = Timestamp(m.now())

	encoded, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged document: %w", err)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			m.logger.Error("failed to create output dir", zap.String("dir", dir), zap.Error(err))
			return nil, fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, encoded, 0644); err != nil {
		m.logger.Error("failed to write merged document",
			zap.String("file", outputPath),
			zap.Error(err))
		return nil, fmt.Errorf("failed to write merged document: %w", err)
	}

	m.logger.Info("merge complete",
		zap.Int("files_found", len(files)),
		zap.Int("files_merged", parsed),
		zap.Int("categories", len(merged.Categories)),
		zap.String("output", outputPath))
	return merged, nil
}
