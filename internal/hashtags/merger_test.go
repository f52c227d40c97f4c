package hashtags

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunk(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestMerger_Merge(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "travel.json", `{"Travel": {"City": {"hashtags": ["#a"]}}}`)
	writeChunk(t, dir, "food.json", `{"Food": {"Snack": {"hashtags": ["#b"]}}}`)
	output := filepath.Join(dir, "out", "merged.json")

	merger := NewMerger(nil)
	merger.now = func() time.Time {
		return time.Date(2026, 8, 31, 14, 2, 7, 0, time.FixedZone("CEST", 2*3600))
	}

	doc, err := merger.Merge(dir, output)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31 14:02:07 +0200", doc.LastUpdate)
	assert.Len(t, doc.Categories, 2)
	assert.Contains(t, doc.Categories["Travel"], "City")
	assert.Contains(t, doc.Categories["Food"], "Snack")

	// The persisted file carries the same shape.
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var persisted Document
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, doc.LastUpdate, persisted.LastUpdate)
	assert.Len(t, persisted.Categories, 2)
}

func TestMerger_DuplicatePairLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	// Glob processes files in sorted order: a_ before b_.
	writeChunk(t, dir, "a_travel.json", `{"Travel": {"City": {"hashtags": ["#old"]}, "Beach": {"hashtags": ["#sea"]}}}`)
	writeChunk(t, dir, "b_travel.json", `{"Travel": {"City": {"hashtags": ["#new"]}}}`)

	doc, err := NewMerger(nil).Merge(dir, filepath.Join(dir, "merged.json"))
	require.NoError(t, err)

	var detail struct {
		Hashtags []string `json:"hashtags"`
	}
	require.NoError(t, json.Unmarshal(doc.Categories["Travel"]["City"], &detail))

	// Shallow overwrite: the later value replaces the earlier wholesale,
	// no array concatenation.
	assert.Equal(t, []string{"#new"}, detail.Hashtags)
	assert.Contains(t, doc.Categories["Travel"], "Beach")
}

func TestMerger_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "good.json", `{"Food": {"Snack": {"hashtags": ["#b"]}}}`)
	writeChunk(t, dir, "bad.json", `{not json`)

	doc, err := NewMerger(nil).Merge(dir, filepath.Join(dir, "merged.json"))
	require.NoError(t, err)
	assert.Len(t, doc.Categories, 1)
	assert.Contains(t, doc.Categories, "Food")
}

func TestSplitMergeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := `{
		"categories": {
			"Travel": {"City": {"hashtags": ["#citybreak", "#wanderlust"]}},
			"Food & Drink": {"Snack": {"hashtags": ["#snack"]}, "Coffee": {"hashtags": ["#espresso"]}},
			"Fitness": {"Gym": {"hashtags": []}}
		}
	}`
	master := filepath.Join(dir, "hashtags.json")
	require.NoError(t, os.WriteFile(master, []byte(original), 0644))

	chunkDir := filepath.Join(dir, "chunks")
	_, err := NewSplitter(nil).Split(master, chunkDir)
	require.NoError(t, err)

	merged, err := NewMerger(nil).Merge(chunkDir, filepath.Join(dir, "merged.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, merged.LastUpdate)

	var want Document
	require.NoError(t, json.Unmarshal([]byte(original), &want))

	// Splitting then merging without model modification reproduces the
	// category mapping exactly, modulo last_update.
	normalize := func(categories map[string]Category) map[string]map[string]any {
		out := make(map[string]map[string]any, len(categories))
		for name, category := range categories {
			out[name] = make(map[string]any, len(category))
			for sub, raw := range category {
				var value any
				require.NoError(t, json.Unmarshal(raw, &value))
				out[name][sub] = value
			}
		}
		return out
	}
	if diff := cmp.Diff(normalize(want.Categories), normalize(merged.Categories)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
