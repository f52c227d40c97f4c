// Package hashtags implements the chunked update pipeline over the curated
// hashtag database: split the master document into per-category chunk files,
// refresh each chunk through the model client, and merge the results back
// into one timestamped document.
package hashtags

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	// ErrInputNotFound reports a missing source file.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMalformedInput reports a document without the categories wrapper.
	ErrMalformedInput = errors.New("document missing categories wrapper")

	// ErrInputDirNotFound reports a missing or non-directory chunk dir.
	// This is a configuration error, distinct from per-file failures.
	ErrInputDirNotFound = errors.New("input directory not found")
)

// timestampLayout matches the last_update format: "2025-08-31 14:02:07 +0200".
const timestampLayout = "2006-01-02 15:04:05 -0700"

// Category maps subcategory names to their detail payloads. Details are kept
// open-ended; hashtags is the only field tagsmith itself inspects.
type Category map[string]json.RawMessage

// Chunk is one category's slice of the master document, as stored in a
// chunk file: exactly one top-level key.
type Chunk map[string]Category

// Document is the merged category document.
type Document struct {
	Categories map[string]Category `json:"categories"`
	LastUpdate string              `json:"last_update,omitempty"`
}

// subcategoryDetail is the portion of a detail payload with known shape.
type subcategoryDetail struct {
	Hashtags []json.RawMessage `json:"hashtags"`
}

// ChunkFileName derives the chunk filename for a category name: spaces to
// underscores, "&" to "and", lower-cased, ".json" suffix. The transform is
// deterministic so repeated splits overwrite the same files.
func ChunkFileName(category string) string {
	name := strings.ReplaceAll(category, " ", "_")
	name = strings.ReplaceAll(name, "&", "and")
	return strings.ToLower(name) + ".json"
}

// Timestamp formats t the way last_update is stored.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}
