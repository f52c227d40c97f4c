package hashtags

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Splitter partitions a master document into one chunk file per category.
type Splitter struct {
	logger *zap.Logger
}

// NewSplitter creates a splitter.
func NewSplitter(logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Splitter{logger: logger}
}

// Split reads the master document at inputPath and writes one file per
// top-level category into outDir, creating the directory if needed and
// overwriting existing chunk files. It returns the written filenames in
// sorted order.
func (s *Splitter) Split(inputPath, outDir string) ([]string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	// Decode the top level loosely so a missing wrapper key can be told
	// apart from an empty one.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", inputPath, err)
	}
	rawCategories, ok := top["categories"]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, inputPath)
	}

	var categories map[string]Category
	if err := json.Unmarshal(rawCategories, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories in %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		chunk := Chunk{name: categories[name]}
		encoded, err := json.MarshalIndent(chunk, "", "  ")
		if err != nil {
			return written, fmt.Errorf("failed to marshal chunk %q: %w", name, err)
		}

		filename := ChunkFileName(name)
		path := filepath.Join(outDir, filename)
		if err := os.WriteFile(path, encoded, 0644); err != nil {
			return written, fmt.Errorf("failed to write chunk %s: %w", path, err)
		}

		s.logger.Info("wrote chunk",
			zap.String("category", name),
			zap.String("file", filename))
		written = append(written, filename)
	}

	s.logger.Info("split complete",
		zap.String("input", inputPath),
		zap.String("output_dir", outDir),
		zap.Int("chunks", len(written)))
	return written, nil
}
