// Package usage tracks token consumption across a batch of model calls
// and persists the run summary as token_summary.json.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenCounts holds input/output sums for one or more model calls.
type TokenCounts struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add accumulates another set of counts into tc.
func (tc *TokenCounts) Add(other TokenCounts) {
	tc.InputTokens += other.InputTokens
	tc.OutputTokens += other.OutputTokens
	tc.TotalTokens += other.TotalTokens
}

// FileUsage records token accounting for a single chunk file.
type FileUsage struct {
	File         string `json:"file"`
	OutputFile   string `json:"output_file"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
}

// RunSummary is the persisted shape of token_summary.json.
type RunSummary struct {
	Model          string      `json:"model"`
	InputDir       string      `json:"input_dir"`
	OutputDir      string      `json:"output_dir"`
	FilesProcessed int         `json:"files_processed"`
	FilesSucceeded int         `json:"files_succeeded"`
	Totals         TokenCounts `json:"totals"`
	Files          []FileUsage `json:"files"`
}

// Tracker accumulates per-file usage during a single updater run.
// It records failures as well as successes so files_processed reflects
// every attempted file, while the per-file list holds only successes.
type Tracker struct {
	mu      sync.Mutex
	summary RunSummary
}

// NewTracker creates a tracker scoped to one updater run.
func NewTracker(model, inputDir, outputDir string) *Tracker {
	return &Tracker{
		summary: RunSummary{
			Model:     model,
			InputDir:  inputDir,
			OutputDir: outputDir,
			Files:     []FileUsage{},
		},
	}
}

// RecordSuccess records a successfully updated chunk file.
func (t *Tracker) RecordSuccess(file, outputFile string, tc TokenCounts) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.summary.FilesProcessed++
	t.summary.FilesSucceeded++
	t.summary.Totals.Add(tc)
	t.summary.Files = append(t.summary.Files, FileUsage{
		File:         file,
		OutputFile:   outputFile,
		InputTokens:  tc.InputTokens,
		OutputTokens: tc.OutputTokens,
		TotalTokens:  tc.TotalTokens,
	})
}

// RecordFailure records a chunk file that was attempted but skipped.
func (t *Tracker) RecordFailure(file string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.FilesProcessed++
}

// Summary returns a copy of the accumulated run summary.
func (t *Tracker) Summary() RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := t.summary
	summary.Files = make([]FileUsage, len(t.summary.Files))
	copy(summary.Files, t.summary.Files)
	return summary
}

// WriteSummary persists the summary to path, creating parent directories.
func (t *Tracker) WriteSummary(path string) error {
	summary := t.Summary()

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
