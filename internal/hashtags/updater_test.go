package hashtags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsmith/internal/usage"
)

// fakeClient records calls and echoes the input back as the model output.
type fakeClient struct {
	calls  []string
	failOn map[string]bool
}

func (f *fakeClient) TransformJSON(ctx context.Context, instruction string, value any) (json.RawMessage, usage.TokenCounts, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, usage.TokenCounts{}, err
	}
	f.calls = append(f.calls, string(encoded))
	for key := range f.failOn {
		if strings.Contains(string(encoded), key) {
			return nil, usage.TokenCounts{}, fmt.Errorf("simulated model failure")
		}
	}
	return encoded, usage.TokenCounts{InputTokens: 7, OutputTokens: 3, TotalTokens: 10}, nil
}

func newRun(t *testing.T) (inDir, outDir, summaryPath string) {
	t.Helper()
	dir := t.TempDir()
	inDir = filepath.Join(dir, "chunks")
	outDir = filepath.Join(dir, "updated")
	summaryPath = filepath.Join(dir, "logs", "token_summary.json")
	require.NoError(t, os.MkdirAll(inDir, 0755))
	return inDir, outDir, summaryPath
}

func TestUpdater_Run(t *testing.T) {
	inDir, outDir, summaryPath := newRun(t)
	writeChunk(t, inDir, "food.json", `{"Food": {"Snack": {"hashtags": ["#b"]}}}`)
	writeChunk(t, inDir, "travel.json", `{"Travel": {"City": {"hashtags": ["#a"]}}}`)

	client := &fakeClient{}
	updater := NewUpdater(UpdaterConfig{
		InputDir:    inDir,
		OutputDir:   outDir,
		Model:       "gemini-test",
		SummaryPath: summaryPath,
	}, client, nil)

	summary, err := updater.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesProcessed)
	assert.Equal(t, 2, summary.FilesSucceeded)
	assert.Equal(t, 20, summary.Totals.TotalTokens)
	require.Len(t, summary.Files, 2)

	// Sorted processing order: food before travel.
	assert.Equal(t, "food.json", summary.Files[0].File)
	assert.Equal(t, "travel.json", summary.Files[1].File)

	// Updated chunks land in the output directory under the same name.
	data, err := os.ReadFile(filepath.Join(outDir, "travel.json"))
	require.NoError(t, err)
	var chunk Chunk
	require.NoError(t, json.Unmarshal(data, &chunk))
	assert.Contains(t, chunk, "Travel")

	// Summary persisted with the documented schema.
	persisted, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	var got usage.RunSummary
	require.NoError(t, json.Unmarshal(persisted, &got))
	assert.Equal(t, "gemini-test", got.Model)
	assert.Equal(t, inDir, got.InputDir)
	assert.Equal(t, outDir, got.OutputDir)
	assert.Equal(t, 2, got.FilesSucceeded)
}

func TestUpdater_SkipsCorruptFile(t *testing.T) {
	inDir, outDir, summaryPath := newRun(t)
	writeChunk(t, inDir, "a_good.json", `{"Food": {"Snack": {"hashtags": ["#b"]}}}`)
	writeChunk(t, inDir, "b_corrupt.json", `{this is not json`)
	writeChunk(t, inDir, "c_good.json", `{"Travel": {"City": {"hashtags": ["#a"]}}}`)

	updater := NewUpdater(UpdaterConfig{
		InputDir:    inDir,
		OutputDir:   outDir,
		Model:       "gemini-test",
		SummaryPath: summaryPath,
	}, &fakeClient{}, nil)

	summary, err := updater.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesProcessed)
	assert.Equal(t, 2, summary.FilesSucceeded)
	assert.Len(t, summary.Files, 2)

	// The summary is written even though a file failed.
	_, err = os.Stat(summaryPath)
	require.NoError(t, err)
}

func TestUpdater_ModelFailureDoesNotAbortBatch(t *testing.T) {
	inDir, outDir, summaryPath := newRun(t)
	writeChunk(t, inDir, "food.json", `{"Food": {"Snack": {"hashtags": ["#b"]}}}`)
	writeChunk(t, inDir, "travel.json", `{"Travel": {"City": {"hashtags": ["#a"]}}}`)

	client := &fakeClient{failOn: map[string]bool{`"Food"`: true}}
	updater := NewUpdater(UpdaterConfig{
		InputDir:    inDir,
		OutputDir:   outDir,
		SummaryPath: summaryPath,
	}, client, nil)

	summary, err := updater.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesSucceeded)

	// The failed chunk produced no output file.
	_, err = os.Stat(filepath.Join(outDir, "food.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outDir, "travel.json"))
	assert.NoError(t, err)
}

func TestUpdater_MissingInputDirIsFatal(t *testing.T) {
	updater := NewUpdater(UpdaterConfig{
		InputDir:  filepath.Join(t.TempDir(), "nope"),
		OutputDir: t.TempDir(),
	}, &fakeClient{}, nil)

	_, err := updater.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputDirNotFound))
}

func TestUpdater_EmptyInputDirWritesNoSummary(t *testing.T) {
	inDir, outDir, summaryPath := newRun(t)

	updater := NewUpdater(UpdaterConfig{
		InputDir:    inDir,
		OutputDir:   outDir,
		SummaryPath: summaryPath,
	}, &fakeClient{}, nil)

	summary, err := updater.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FilesProcessed)

	_, err = os.Stat(summaryPath)
	assert.True(t, os.IsNotExist(err))
}
